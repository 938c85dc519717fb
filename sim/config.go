package sim

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config groups every parameter a Simulation run needs, whether it came
// from the YAML defaults file or was overridden on the command line.
type Config struct {
	RandSeq       int64   // >=0 seeds deterministically; <0 derives a time-based seed offset by |RandSeq|
	StartYear     float64
	DurationYears float64
	ReportInterval float64

	MaxNative     int
	MaxImmigrant  int
	BucketWidth   float64 // scheduler cycle width in simulated years

	BirthRateNative    float64 // arrivals/year
	ImmigrationRate    float64 // arrivals/year
	ProbSameCohort     float64 // pcc: probability transmission targets the same cohort
	VaccineCoverage    float64
	VaccineEfficacy    float64

	LifeFemale LifespanSource
	LifeMale   LifespanSource
	Emigration EmigrationSource

	NextSeedFile string // path for LoadNextSeed/SaveNextSeed chaining; "" disables

	// Centinel-format input file paths; empty disables the corresponding
	// table. Reading these and constructing the
	// LifespanSource/ObservedPopulation they feed is done by cmd, not by
	// this package, since sim/centinel imports sim for its diagnostics
	// and importing it back here would cycle.
	LifeTableFemalePath    string
	LifeTableMalePath      string
	ObservedPopulationPath string
}

// DefaultConfig returns a Config with the same order-of-magnitude
// defaults the source ships, suitable for a smoke run without an input
// file.
func DefaultConfig() *Config {
	return &Config{
		RandSeq:        -1,
		StartYear:      1960,
		DurationYears:  29,
		ReportInterval: 1,
		MaxNative:      2_000_000,
		MaxImmigrant:   500_000,
		BucketWidth:    20,
		BirthRateNative: 800_000,
		ImmigrationRate: 150_000,
		ProbSameCohort:  0.7,
		VaccineCoverage: 0.0,
		VaccineEfficacy: 0.8,
		LifeFemale:      ExponentialLifespan{RateFemale: 1.0 / 80, RateMale: 1.0 / 80},
		LifeMale:        ExponentialLifespan{RateFemale: 1.0 / 74, RateMale: 1.0 / 74},
		Emigration:      EmigrationExponential{RateNative: 1.0 / 500, RateImmigrant: 1.0 / 40},
		NextSeedFile:    "nextseed.rnd",
	}
}

// FileConfig is the YAML-unmarshalled shape of the optional defaults
// file (named tables.yaml by convention, parallel to the teacher's
// coefficients.yaml), letting an operator pin a full parameter set
// without a long command line.
type FileConfig struct {
	RandSeq        *int64   `yaml:"randseq"`
	StartYear      *float64 `yaml:"start_year"`
	DurationYears  *float64 `yaml:"duration_years"`
	ReportInterval *float64 `yaml:"report_interval"`
	MaxNative      *int     `yaml:"max_native"`
	MaxImmigrant   *int     `yaml:"max_immigrant"`
	BirthRateNative *float64 `yaml:"birth_rate_native"`
	ImmigrationRate *float64 `yaml:"immigration_rate"`
	ProbSameCohort  *float64 `yaml:"prob_same_cohort"`
	VaccineCoverage *float64 `yaml:"vaccine_coverage"`
	VaccineEfficacy *float64 `yaml:"vaccine_efficacy"`
	NextSeedFile    *string  `yaml:"next_seed_file"`

	LifeTableFemalePath    *string `yaml:"life_table_female"`
	LifeTableMalePath      *string `yaml:"life_table_male"`
	ObservedPopulationPath *string `yaml:"obs_population"`
}

// LoadFileConfig reads and unmarshals a YAML defaults file at path,
// applying any values present onto a fresh DefaultConfig.
func LoadFileConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	fc.apply(cfg)
	return cfg, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.RandSeq != nil {
		cfg.RandSeq = *fc.RandSeq
	}
	if fc.StartYear != nil {
		cfg.StartYear = *fc.StartYear
	}
	if fc.DurationYears != nil {
		cfg.DurationYears = *fc.DurationYears
	}
	if fc.ReportInterval != nil {
		cfg.ReportInterval = *fc.ReportInterval
	}
	if fc.MaxNative != nil {
		cfg.MaxNative = *fc.MaxNative
	}
	if fc.MaxImmigrant != nil {
		cfg.MaxImmigrant = *fc.MaxImmigrant
	}
	if fc.BirthRateNative != nil {
		cfg.BirthRateNative = *fc.BirthRateNative
	}
	if fc.ImmigrationRate != nil {
		cfg.ImmigrationRate = *fc.ImmigrationRate
	}
	if fc.ProbSameCohort != nil {
		cfg.ProbSameCohort = *fc.ProbSameCohort
	}
	if fc.VaccineCoverage != nil {
		cfg.VaccineCoverage = *fc.VaccineCoverage
	}
	if fc.VaccineEfficacy != nil {
		cfg.VaccineEfficacy = *fc.VaccineEfficacy
	}
	if fc.NextSeedFile != nil {
		cfg.NextSeedFile = *fc.NextSeedFile
	}
	if fc.LifeTableFemalePath != nil {
		cfg.LifeTableFemalePath = *fc.LifeTableFemalePath
	}
	if fc.LifeTableMalePath != nil {
		cfg.LifeTableMalePath = *fc.LifeTableMalePath
	}
	if fc.ObservedPopulationPath != nil {
		cfg.ObservedPopulationPath = *fc.ObservedPopulationPath
	}
}

// paramSetter writes a decimal value into one field of cfg.
type paramSetter func(cfg *Config, v float64)

// ParamRegistry maps a NAME=VALUE command-line parameter to the setter
// that applies it, the Go counterpart of the source's pntab/patab
// lookup arrays.
var ParamRegistry = map[string]paramSetter{
	"randseq":           func(c *Config, v float64) { c.RandSeq = int64(v) },
	"startyear":         func(c *Config, v float64) { c.StartYear = v },
	"duration":          func(c *Config, v float64) { c.DurationYears = v },
	"reportinterval":    func(c *Config, v float64) { c.ReportInterval = v },
	"maxnative":         func(c *Config, v float64) { c.MaxNative = int(v) },
	"maximmigrant":      func(c *Config, v float64) { c.MaxImmigrant = int(v) },
	"birthrate":         func(c *Config, v float64) { c.BirthRateNative = v },
	"immigrationrate":   func(c *Config, v float64) { c.ImmigrationRate = v },
	"pcc":               func(c *Config, v float64) { c.ProbSameCohort = v },
	"vaccinecoverage":   func(c *Config, v float64) { c.VaccineCoverage = v },
	"vaccineefficacy":   func(c *Config, v float64) { c.VaccineEfficacy = v },
}

// ApplyParams parses a sequence of "NAME=VALUE" (optionally chained as
// "NAME1=NAME2=VALUE") command-line arguments onto cfg, the Go
// counterpart of the source's gparam: rightmost '=' splits the value
// from a chain of names, each looked up independently. Unknown names
// and malformed decimal values are reported via Warnf and skipped
// rather than aborting the whole run.
func ApplyParams(cfg *Config, args []string) {
	for _, arg := range args {
		applyParam(cfg, arg)
	}
}

func applyParam(cfg *Config, arg string) {
	i := strings.LastIndex(arg, "=")
	if i < 0 {
		Warnf(CodeIndexIgnored, fmt.Sprintf("parameter %q has no '=' and was ignored", arg))
		return
	}
	names := strings.Split(arg[:i], "=")
	valueText := arg[i+1:]

	v, err := strconv.ParseFloat(valueText, 64)
	if err != nil {
		Warnf(CodeIndexIgnored, fmt.Sprintf("parameter value %q is not a valid decimal literal and was ignored", valueText))
		return
	}

	for _, name := range names {
		setter, ok := ParamRegistry[strings.ToLower(name)]
		if !ok {
			Warnf(CodeIndexIgnored, fmt.Sprintf("unknown parameter name %q was ignored", name))
			continue
		}
		setter(cfg, v)
	}
}

// DisplayParams prints every registered parameter's current value, in
// the "Parameters: NAME=VALUE ..." form the source's DisplayParam emits.
func DisplayParams(cfg *Config) string {
	var b strings.Builder
	b.WriteString("Parameters:")
	fmt.Fprintf(&b, " randseq=%d", cfg.RandSeq)
	fmt.Fprintf(&b, " startyear=%g", cfg.StartYear)
	fmt.Fprintf(&b, " duration=%g", cfg.DurationYears)
	fmt.Fprintf(&b, " reportinterval=%g", cfg.ReportInterval)
	fmt.Fprintf(&b, " maxnative=%d", cfg.MaxNative)
	fmt.Fprintf(&b, " maximmigrant=%d", cfg.MaxImmigrant)
	fmt.Fprintf(&b, " birthrate=%g", cfg.BirthRateNative)
	fmt.Fprintf(&b, " immigrationrate=%g", cfg.ImmigrationRate)
	fmt.Fprintf(&b, " pcc=%g", cfg.ProbSameCohort)
	fmt.Fprintf(&b, " vaccinecoverage=%g", cfg.VaccineCoverage)
	fmt.Fprintf(&b, " vaccineefficacy=%g", cfg.VaccineEfficacy)
	return b.String()
}
