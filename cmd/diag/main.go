package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/cnsetzer/redback/internal/astro"
	"github.com/cnsetzer/redback/internal/config"
	"github.com/cnsetzer/redback/internal/pointing"
	"github.com/cnsetzer/redback/internal/sky"
)

// diag prints a summary of one survey archive and how many pointings
// overlap a few reference positions.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if len(os.Args) < 2 {
		fmt.Println("usage: diag <survey> [archive_dir]")
		os.Exit(2)
	}
	name := os.Args[1]
	dir := config.DefaultArchiveDir
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	archives := pointing.NewArchives(dir, logger)
	table, survey, err := archives.Load(name)
	if err != nil {
		fmt.Println("ERROR loading archive:", err)
		os.Exit(1)
	}

	start, end := table.Span()
	decLo, decHi := table.DecRange()
	fmt.Printf("Survey %s (%s)\n", survey.Name, archives.Path(survey))
	fmt.Printf("  pointings: %d\n", table.Len())
	fmt.Printf("  MJD span:  %.3f .. %.3f (%.1f days)\n", start, end, end-start)
	fmt.Printf("  dates:     %s .. %s\n",
		astro.TimeFromMJD(start).Format(time.RFC3339), astro.TimeFromMJD(end).Format(time.RFC3339))
	fmt.Printf("  Dec range: %.2f .. %.2f deg\n", decLo, decHi)
	fmt.Printf("  filters:   %v\n", table.Filters())
	fmt.Printf("  FOV area:  %g deg^2\n", survey.FOVArea)

	coords := make([]sky.Coord, table.Len())
	for i, p := range table.Pointings {
		coords[i] = sky.Coord{RA: astro.NormalizeRA(astro.DegToRad(p.RADeg)), Dec: astro.DegToRad(p.DecDeg)}
	}
	index := sky.NewIndex(coords)
	radius := astro.FOVRadiusFromArea(survey.FOVArea)

	probes := []sky.Coord{
		{RA: 0, Dec: -math.Pi / 6},
		{RA: math.Pi / 2, Dec: -math.Pi / 4},
		{RA: math.Pi, Dec: 0},
	}
	for _, c := range probes {
		hits := index.Within(c, radius)
		nearest := math.Inf(1)
		for _, i := range hits {
			sep := astro.AngularSeparation(c.RA, c.Dec, coords[i].RA, coords[i].Dec)
			nearest = math.Min(nearest, sep)
		}
		fmt.Printf("  probe ra=%.2f dec=%.2f rad: %d pointings", c.RA, c.Dec, len(hits))
		if len(hits) > 0 {
			fmt.Printf(", nearest %.3f deg", astro.RadToDeg(nearest))
		}
		fmt.Println()
	}
}
