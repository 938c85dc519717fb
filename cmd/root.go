package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/tbsim/tbsim/sim"
	"github.com/tbsim/tbsim/sim/eventlog"
	"github.com/tbsim/tbsim/sim/store"
)

var (
	logLevel     string
	configPath   string
	nextSeedFile string

	lifeTableFemalePath string
	lifeTableMalePath   string
	obsPopulationPath   string

	eventLogPath string
	storePath    string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "tbsim",
	Short: "Individual-based discrete-event simulator for tuberculosis epidemiology",
}

// runCmd executes a simulation replicate. Unlike the rest of this CLI's
// flags, the domain parameters themselves are NOT cobra flags: they are
// trailing NAME=VALUE positional arguments, matching the source's
// command-line grammar of chained name=value assignments rather than
// "--name value" options.
var runCmd = &cobra.Command{
	Use:   "run [NAME=VALUE ...]",
	Short: "Run the simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			fileCfg, err := sim.LoadFileConfig(configPath)
			if err != nil {
				logrus.Fatalf("unable to read config file %s: %v", configPath, err)
			}
			cfg = fileCfg
		}
		if nextSeedFile != "" {
			cfg.NextSeedFile = nextSeedFile
		}
		if lifeTableFemalePath != "" {
			cfg.LifeTableFemalePath = lifeTableFemalePath
		}
		if lifeTableMalePath != "" {
			cfg.LifeTableMalePath = lifeTableMalePath
		}
		if obsPopulationPath != "" {
			cfg.ObservedPopulationPath = obsPopulationPath
		}
		sim.ApplyParams(cfg, args)

		switch {
		case cfg.LifeTableFemalePath != "" && cfg.LifeTableMalePath != "":
			life, err := loadEmpiricalLifespan(cfg.LifeTableFemalePath, cfg.LifeTableMalePath)
			if err != nil {
				logrus.Fatalf("unable to read life tables: %v", err)
			}
			cfg.LifeFemale = life
			cfg.LifeMale = life
		case cfg.LifeTableFemalePath != "" || cfg.LifeTableMalePath != "":
			logrus.Warn("both life-table-female and life-table-male are required to enable empirical lifespans; keeping the exponential default")
		}

		logrus.Info(sim.DisplayParams(cfg))
		startTime := time.Now()

		s := sim.NewSimulation(cfg)
		if cfg.RandSeq < 0 && cfg.NextSeedFile != "" {
			if seed, ok, err := s.RNG.LoadNextSeed(cfg.NextSeedFile); err == nil && ok {
				s.RNG.Start(seed)
			} else {
				s.RNG.StartArbitrary(uint32(-cfg.RandSeq))
			}
		}

		if cfg.ObservedPopulationPath != "" {
			years := int(cfg.DurationYears) + 1
			obs, err := loadObservedPopulation(cfg.ObservedPopulationPath, int(cfg.StartYear), years)
			if err != nil {
				logrus.Fatalf("unable to read observed-population table: %v", err)
			}
			s.Report.ObservedPopulation = obs
		}

		s.Report.RunID = fmt.Sprintf("seed%d", s.RNG.EndingSeed())

		if eventLogPath != "" {
			w, err := eventlog.NewWriter(eventLogPath)
			if err != nil {
				logrus.Fatalf("unable to open event log %s: %v", eventLogPath, err)
			}
			defer w.Close()
			s.Report.EventLog = w
		}

		if storePath != "" {
			st, err := store.Open(storePath)
			if err != nil {
				logrus.Fatalf("unable to open store %s: %v", storePath, err)
			}
			defer st.Close()
			s.Report.Store = st
		}

		s.Run()
		s.Report.Final()

		if cfg.NextSeedFile != "" {
			if err := s.RNG.SaveNextSeed(cfg.NextSeedFile); err != nil {
				logrus.Warnf("could not save next-seed file %s: %v", cfg.NextSeedFile, err)
			}
		}

		logrus.Infof("simulation complete in %s", time.Since(startTime).Round(time.Millisecond))
	},
}

// paramsCmd lists every registered NAME=VALUE parameter and its current
// default, the CLI counterpart of the source's DisplayParam.
var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List registered run parameters and their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(sim.DisplayParams(sim.DefaultConfig()))
	},
}

// Execute runs the CLI root command, mapping an unhandled error to exit
// code 3 per the fatal-runtime-error exit code convention this CLI
// follows.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(3)
	}
}

func init() {
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML defaults file (e.g. tables.yaml)")
	runCmd.Flags().StringVar(&nextSeedFile, "next-seed-file", "", "Override the next-seed chaining file path")
	runCmd.Flags().StringVar(&lifeTableFemalePath, "life-table-female", "", "Path to a Centinel-format female life table")
	runCmd.Flags().StringVar(&lifeTableMalePath, "life-table-male", "", "Path to a Centinel-format male life table")
	runCmd.Flags().StringVar(&obsPopulationPath, "obs-population", "", "Path to a Centinel-format observed-population-by-year table")
	runCmd.Flags().StringVar(&eventLogPath, "event-log", "", "Path to write a JSON-lines per-event log")
	runCmd.Flags().StringVar(&storePath, "store", "", "Path to a SQLite file to receive the final run summary and notification table")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(paramsCmd)
}
