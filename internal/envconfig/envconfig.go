// Package envconfig loads host-facing defaults from a `.env` file and the
// process environment. It exists for the programs that assemble
// loader.Options and schema file lists — the query facade and internal
// packages never call os.Getenv directly, so they stay usable as a
// library from a fresh process without any ambient environment.
package envconfig

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Defaults holds the environment-derived values a host program feeds into
// loader.Options and its own logger setup.
type Defaults struct {
	Workers  int
	LogLevel logrus.Level
}

// Load reads a `.env` file in the working directory if one is present
// (missing is not an error — most deployments set real environment
// variables instead) and returns Defaults built from MORFX_CW_* variables,
// falling back to the same values loader.Options and logrus already use
// when a variable is absent or unparsable.
func Load() Defaults {
	_ = godotenv.Load()

	d := Defaults{
		Workers:  0, // 0 tells loader.Options to fall back to its own default
		LogLevel: logrus.InfoLevel,
	}

	if workersStr := os.Getenv("MORFX_CW_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			d.Workers = workers
		}
	}

	if levelStr := os.Getenv("MORFX_CW_LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			d.LogLevel = level
		}
	}

	return d
}
