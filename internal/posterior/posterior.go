// Package posterior holds a set of posterior samples ordered by
// log-likelihood.
package posterior

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/cnsetzer/redback/internal/model"
)

// ColLogLikelihood is the required column of a posterior table.
const ColLogLikelihood = "log_likelihood"

// ErrEmpty is returned for a posterior with no samples.
var ErrEmpty = errors.New("empty posterior")

// Sample is one posterior draw.
type Sample struct {
	Params        model.Params
	LogLikelihood float64
}

// Posterior is sorted by ascending log-likelihood when built and never
// reordered.
type Posterior struct {
	samples []Sample
	names   []string
}

// New copies samples and sorts them by log-likelihood.
func New(samples []Sample) (*Posterior, error) {
	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	names := map[string]struct{}{}
	sorted := make([]Sample, len(samples))
	for i, s := range samples {
		if math.IsNaN(s.LogLikelihood) {
			return nil, fmt.Errorf("sample %d has NaN log-likelihood", i)
		}
		sorted[i] = Sample{Params: s.Params.Clone(), LogLikelihood: s.LogLikelihood}
		for k := range s.Params {
			names[k] = struct{}{}
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LogLikelihood < sorted[j].LogLikelihood
	})

	p := &Posterior{samples: sorted}
	for k := range names {
		p.names = append(p.names, k)
	}
	sort.Strings(p.names)
	return p, nil
}

// Len returns the number of samples.
func (p *Posterior) Len() int { return len(p.samples) }

// Names returns the parameter names present in any sample.
func (p *Posterior) Names() []string { return slices.Clone(p.names) }

// MaxLikelihood returns the sample with the highest log-likelihood. Ties
// go to the one that appeared last in the input.
func (p *Posterior) MaxLikelihood() Sample {
	return p.samples[len(p.samples)-1]
}

// Random draws n samples uniformly with replacement.
func (p *Posterior) Random(n int, rng *rand.Rand) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = p.samples[rng.IntN(len(p.samples))]
	}
	return out
}

// Samples returns the samples in ascending log-likelihood order.
func (p *Posterior) Samples() []Sample {
	return slices.Clone(p.samples)
}

// ReadCSV reads a posterior table: one column per parameter plus
// log_likelihood.
func ReadCSV(r io.Reader) (*Posterior, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading posterior header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	llCol := slices.Index(header, ColLogLikelihood)
	if llCol < 0 {
		return nil, fmt.Errorf("posterior is missing column %q", ColLogLikelihood)
	}

	var samples []Sample
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading posterior line %d: %w", line, err)
		}

		s := Sample{Params: make(model.Params, len(header)-1)}
		for i, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("posterior line %d column %s: %w", line, header[i], err)
			}
			if i == llCol {
				s.LogLikelihood = v
			} else {
				s.Params[header[i]] = v
			}
		}
		samples = append(samples, s)
	}
	return New(samples)
}
