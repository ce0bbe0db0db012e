package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// LookupFunc reports the value of an environment key and whether it is set.
type LookupFunc func(key string) (string, bool)

// Resolver applies env > CLI > default precedence to runtime settings.
type Resolver struct {
	logger *zap.Logger
	lookup LookupFunc
}

// NewResolver creates a Resolver reading the process environment.
func NewResolver(logger *zap.Logger) Resolver {
	return Resolver{logger: logger, lookup: os.LookupEnv}
}

// WithLookup returns a copy of the Resolver that reads settings from lookup.
func (r Resolver) WithLookup(lookup LookupFunc) Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	r.lookup = lookup
	return r
}

func (r Resolver) env(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	if r.lookup == nil {
		return os.LookupEnv(key)
	}
	return r.lookup(key)
}

func (r Resolver) logConflict(setting, envVal, cliVal string) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(
		"config: conflict for "+setting,
		zap.String("env", envVal),
		zap.String("cli", cliVal),
		zap.String("decision", "using env value"),
	)
}

// String resolves a string setting. Env values are trimmed.
func (r Resolver) String(setting, envKey, cliVal string, cliSet bool, defaultVal string) string {
	envVal, envSet := r.env(envKey)
	envVal = strings.TrimSpace(envVal)
	if envSet && cliSet && envVal != cliVal {
		r.logConflict(setting, envVal, cliVal)
	}
	switch {
	case envSet:
		return envVal
	case cliSet:
		return cliVal
	default:
		return defaultVal
	}
}

// Bool resolves a boolean setting.
func (r Resolver) Bool(setting, envKey string, cliVal bool, cliSet bool, defaultVal bool) (bool, error) {
	envVal, envSet := r.env(envKey)
	if !envSet {
		if cliSet {
			return cliVal, nil
		}
		return defaultVal, nil
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(envVal))
	if err != nil {
		return false, fmt.Errorf("config %s: invalid boolean %q: %w", setting, envVal, err)
	}

	if cliSet && parsed != cliVal {
		r.logConflict(setting, envVal, strconv.FormatBool(cliVal))
	}

	return parsed, nil
}
