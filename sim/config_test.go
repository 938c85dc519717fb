package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyParams_SetsKnownParameter(t *testing.T) {
	cfg := DefaultConfig()
	ApplyParams(cfg, []string{"birthrate=900000"})
	assert.Equal(t, 900000.0, cfg.BirthRateNative)
}

func TestApplyParams_ChainedNamesSetBoth(t *testing.T) {
	cfg := DefaultConfig()
	ApplyParams(cfg, []string{"maxnative=maximmigrant=1000"})
	assert.Equal(t, 1000, cfg.MaxNative)
	assert.Equal(t, 1000, cfg.MaxImmigrant)
}

func TestApplyParams_UnknownNameIgnoredRestApplied(t *testing.T) {
	cfg := DefaultConfig()
	before := cfg.ImmigrationRate
	ApplyParams(cfg, []string{"notaparam=5", "immigrationrate=200000"})
	assert.Equal(t, 200000.0, cfg.ImmigrationRate)
	assert.NotEqual(t, before, cfg.ImmigrationRate)
}

func TestApplyParams_MalformedValueIgnored(t *testing.T) {
	cfg := DefaultConfig()
	before := cfg.BirthRateNative
	ApplyParams(cfg, []string{"birthrate=notanumber"})
	assert.Equal(t, before, cfg.BirthRateNative)
}

func TestApplyParams_NoEqualsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	before := *cfg
	ApplyParams(cfg, []string{"birthrate"})
	assert.Equal(t, before, *cfg)
}

func TestDisplayParams_ContainsEveryRegisteredName(t *testing.T) {
	cfg := DefaultConfig()
	out := DisplayParams(cfg)
	for name := range ParamRegistry {
		assert.Contains(t, out, name+"=")
	}
}

func TestLoadFileConfig_OverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	content := "birth_rate_native: 750000\nduration_years: 10\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFileConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 750000.0, cfg.BirthRateNative)
	assert.Equal(t, 10.0, cfg.DurationYears)
	assert.Equal(t, DefaultConfig().ImmigrationRate, cfg.ImmigrationRate)
}

func TestLoadFileConfig_MissingFileReturnsError(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/tables.yaml")
	assert.Error(t, err)
}

func TestLoadFileConfig_SetsCentinelFilePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	content := "life_table_female: female.tbl\nlife_table_male: male.tbl\nobs_population: obspop.tbl\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFileConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "female.tbl", cfg.LifeTableFemalePath)
	assert.Equal(t, "male.tbl", cfg.LifeTableMalePath)
	assert.Equal(t, "obspop.tbl", cfg.ObservedPopulationPath)
}

