package riskconfig

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and env
// vars. Order of precedence (low -> high):
//  1. compiled-in defaults (Default())
//  2. file (YAML) if RISK_CONFIG_FILE is set
//  3. env (prefix RISK_), e.g. RISK_CACHE_TTL_MINUTES, RISK_EMERGENCY_OVERALL
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv("RISK_CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("RISK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "risk_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
