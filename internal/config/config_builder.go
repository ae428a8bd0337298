package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/spf13/pflag"
)

// configBuilder collects config layers in precedence order. Source errors
// are joined and reported by build.
type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{configs: make([]*StructuredConfig, 0, 4)}
}

func (b *configBuilder) add(cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, cfg)
	return b
}

// build folds the layers with mergo.WithOverride, so any non-zero field of a
// later layer replaces the earlier value.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	merged := &StructuredConfig{}
	for i, layer := range b.configs {
		if err := mergo.Merge(merged, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging config layer %d: %w", i, err)
		}
	}

	return merged, merged.validate()
}

func (b *configBuilder) withDefaults() *configBuilder {
	return b.add(defaults(), nil)
}

func (b *configBuilder) withEnv() *configBuilder {
	return b.add(parseEnv[StructuredConfig]())
}

func (b *configBuilder) withFlags(fs *pflag.FlagSet) *configBuilder {
	if fs == nil {
		return b
	}
	return b.add(readFlags(fs))
}

// withJSON appends the file named by the last layer that sets
// JSONFilePath. Nothing is added when no layer names one.
func (b *configBuilder) withJSON() *configBuilder {
	path := ""
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			path = cfg.JSONFilePath
		}
	}
	if path == "" {
		return b
	}
	return b.add(parseJSON(path))
}
