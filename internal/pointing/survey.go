package pointing

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSurvey is returned for a survey name with no archive.
var ErrUnknownSurvey = errors.New("unknown survey")

// Survey names a pre-built pointing archive and its instrument footprint.
type Survey struct {
	Name string
	// File is the archive file name inside the archive directory.
	File string
	// FOVArea is the circular field-of-view area in square degrees.
	FOVArea float64
}

const (
	rubinFOV = 9.6
	ztfFOV   = 47.0
)

var surveys = map[string]Survey{
	"Rubin_10yr_baseline": {File: "rubin_baseline_nexp1_v1_7_10yrs.csv.gz", FOVArea: rubinFOV},
	"Rubin_10yr_deep":     {File: "rubin_deep_nexp1_v1_7_10yrs.csv.gz", FOVArea: rubinFOV},
	"Rubin_10yr_wfd":      {File: "rubin_wfd_nexp1_v1_7_10yrs.csv.gz", FOVArea: rubinFOV},
	"Rubin_10yr_dcr":      {File: "rubin_dcr_nexp1_v1_7_10yrs.csv.gz", FOVArea: rubinFOV},
	"ZTF_deep":            {File: "ztf_deep_nexp1_v1_7_10yrs.csv.gz", FOVArea: ztfFOV},
	"ZTF_wfd":             {File: "ztf_wfd_nexp1_v1_7_10yrs.csv.gz", FOVArea: ztfFOV},
}

// LookupSurvey returns the archive entry for name. Names are case-sensitive.
func LookupSurvey(name string) (Survey, error) {
	s, ok := surveys[name]
	if !ok {
		return Survey{}, fmt.Errorf("%w: %q", ErrUnknownSurvey, name)
	}
	s.Name = name
	return s, nil
}

// Surveys returns all known surveys sorted by name.
func Surveys() []Survey {
	out := make([]Survey, 0, len(surveys))
	for name, s := range surveys {
		s.Name = name
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
