package cmd

import (
	"fmt"
	"os"

	sim "github.com/tbsim/tbsim/sim"
	"github.com/tbsim/tbsim/sim/centinel"
)

// lifeTableAgeSpan is the number of whole-year age buckets a life table
// file is expected to carry, ages 0 through lifeTableAgeSpan-1.
const lifeTableAgeSpan = 100

// loadEmpiricalLifespan reads a pair of Centinel-format cumulative life
// tables — single dimension 'a', age in whole years, value column the
// cumulative probability of death by that age — and returns an
// EmpiricalLifespan covering both sexes.
func loadEmpiricalLifespan(femalePath, malePath string) (sim.EmpiricalLifespan, error) {
	female, err := loadLifeTable(femalePath)
	if err != nil {
		return sim.EmpiricalLifespan{}, err
	}
	male, err := loadLifeTable(malePath)
	if err != nil {
		return sim.EmpiricalLifespan{}, err
	}
	return sim.EmpiricalLifespan{Female: female, Male: male}, nil
}

func loadLifeTable(path string) (sim.RandTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return sim.RandTable{}, fmt.Errorf("open life table %s: %w", path, err)
	}
	defer f.Close()

	shape := centinel.Shape{{Label: 'a', Size: lifeTableAgeSpan}}
	tbl, err := centinel.Read(f, shape, centinel.Rescale{Multiply: 1})
	if err != nil {
		return sim.RandTable{}, fmt.Errorf("read life table %s: %w", path, err)
	}

	rt := sim.RandTable{V: make([]float64, lifeTableAgeSpan), P: make([]float64, lifeTableAgeSpan)}
	for age := 0; age < lifeTableAgeSpan; age++ {
		rt.V[age] = float64(age)
		rt.P[age] = tbl.At(age)
	}
	return rt, nil
}

// loadObservedPopulation reads a Centinel-format table of observed
// population size by year — single dimension 'y', one row per calendar
// year from startYear through startYear+years-1 — used to correct raw
// notification counts into rates per 100000.
func loadObservedPopulation(path string, startYear, years int) (map[int]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observed-population table %s: %w", path, err)
	}
	defer f.Close()

	shape := centinel.Shape{{Label: 'y', Size: years}}
	tbl, err := centinel.Read(f, shape, centinel.Rescale{Multiply: 1})
	if err != nil {
		return nil, fmt.Errorf("read observed-population table %s: %w", path, err)
	}

	out := make(map[int]float64, years)
	for i := 0; i < years; i++ {
		out[startYear+i] = tbl.At(i)
	}
	return out, nil
}
