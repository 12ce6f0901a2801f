package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML file at path on top of DefaultConfig, applies CURVELIB_*
// environment overrides (a .env file is loaded first when present) and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	c := DefaultConfig

	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return Config{}, err
		}
	}

	_ = godotenv.Load()

	applyEnvOverrides(&c)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func applyEnvOverrides(c *Config) {
	setFloat64(&c.ConvergenceTolerance, "CURVELIB_CONVERGENCE_TOLERANCE")
	setInt(&c.MaxIterations, "CURVELIB_MAX_ITERATIONS")
	setFloat64(&c.DerivativeBump, "CURVELIB_DERIVATIVE_BUMP")
	setFloat64(&c.DerivativeThreshold, "CURVELIB_DERIVATIVE_THRESHOLD")
	setFloat64(&c.MinDiscountFactor, "CURVELIB_MIN_DISCOUNT_FACTOR")
	setFloat64(&c.DepositRefitTolerance, "CURVELIB_DEPOSIT_REFIT_TOLERANCE")
	setFloat64(&c.RefitTolerance, "CURVELIB_REFIT_TOLERANCE")
	setFloat64(&c.DaysInYear, "CURVELIB_DAYS_IN_YEAR")
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
