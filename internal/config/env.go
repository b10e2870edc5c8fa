package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TYPESPEED_DURATION.
const EnvPrefix = "TYPESPEED"

// EnvOverrides reads the duration and word count overrides from the environment.
func EnvOverrides() (TestConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{"duration", "words"} {
		if err := v.BindEnv(key); err != nil {
			return TestConfig{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return envOverrides(v)
}

func envOverrides(v *viper.Viper) (TestConfig, error) {
	var cfg TestConfig
	if v.IsSet("duration") {
		raw := strings.TrimSpace(v.GetString("duration"))
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TestConfig{}, fmt.Errorf("invalid %s_DURATION %q: %w", EnvPrefix, raw, err)
		}
		cfg.Duration = &d
	}
	if v.IsSet("words") {
		raw := strings.TrimSpace(v.GetString("words"))
		n, err := strconv.Atoi(raw)
		if err != nil {
			return TestConfig{}, fmt.Errorf("invalid %s_WORDS %q: %w", EnvPrefix, raw, err)
		}
		cfg.Words = &n
	}
	return cfg, nil
}
