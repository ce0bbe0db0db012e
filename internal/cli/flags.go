package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/launchbynttdata/launch-scmrev/internal/config"
)

// flagBinding ties a pflag to the environment key that may override it.
type flagBinding struct {
	fs     *pflag.FlagSet
	name   string
	envKey string
}

func (b flagBinding) changed() bool {
	if b.fs == nil || b.name == "" {
		return false
	}
	return b.fs.Changed(b.name)
}

func describeUsage(usage, envKey string) string {
	trimmed := strings.TrimSpace(usage)
	if envKey == "" {
		return trimmed
	}
	if trimmed == "" {
		return fmt.Sprintf("env: %s", envKey)
	}
	return fmt.Sprintf("%s (env: %s)", trimmed, envKey)
}

type stringFlag struct {
	flagBinding
	defaultVal string
	value      string
}

func bindStringFlag(fs *pflag.FlagSet, name, short, envKey, defaultVal, usage string) *stringFlag {
	f := &stringFlag{
		flagBinding: flagBinding{fs: fs, name: name, envKey: envKey},
		defaultVal:  defaultVal,
		value:       defaultVal,
	}
	if fs != nil {
		fs.StringVarP(&f.value, name, short, defaultVal, describeUsage(usage, envKey))
	}
	return f
}

func (f *stringFlag) Value(resolver config.Resolver) string {
	return strings.TrimSpace(resolver.String(f.name, f.envKey, strings.TrimSpace(f.value), f.changed(), f.defaultVal))
}

type boolFlag struct {
	flagBinding
	defaultVal bool
	value      bool
}

func bindBoolFlag(fs *pflag.FlagSet, name, short, envKey string, defaultVal bool, usage string) *boolFlag {
	f := &boolFlag{
		flagBinding: flagBinding{fs: fs, name: name, envKey: envKey},
		defaultVal:  defaultVal,
		value:       defaultVal,
	}
	if fs != nil {
		fs.BoolVarP(&f.value, name, short, defaultVal, describeUsage(usage, envKey))
	}
	return f
}

func (f *boolFlag) Value(resolver config.Resolver) (bool, error) {
	return resolver.Bool(f.name, f.envKey, f.value, f.changed(), f.defaultVal)
}
