package restvalidation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/Gobd/restvalidation/pathconv"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config describes every logical API served by one listener. It is usually
// loaded from YAML:
//
//	apis:
//	  - key: wallet
//	    path_converter: camel_to_snake
//	    trim_strings: true
//	    unlogged_controllers: [health.check]
//	    bindings:
//	      - controller: transfers.create
//	        mapper: transfer
//	        parameter: transfer
//	      - controller: transfers.list
//	        mapper: transfer_filter
//	        parameter: filter
//	        source: query
type Config struct {
	APIs []APIConfig `json:"apis" yaml:"apis"`
}

// APIConfig configures one [API].
type APIConfig struct {
	Key                 string          `json:"key" yaml:"key"`
	PathConverter       string          `json:"path_converter" yaml:"path_converter"`
	TrimStrings         *bool           `json:"trim_strings" yaml:"trim_strings"`
	UnloggedControllers []string        `json:"unlogged_controllers" yaml:"unlogged_controllers"`
	Bindings            []BindingConfig `json:"bindings" yaml:"bindings"`
}

// BindingConfig configures one request mapper binding. Source is "body"
// (the default) or "query".
type BindingConfig struct {
	Controller string `json:"controller" yaml:"controller"`
	Mapper     string `json:"mapper" yaml:"mapper"`
	Parameter  string `json:"parameter" yaml:"parameter"`
	Source     string `json:"source" yaml:"source"`
}

// EnvDefaults holds defaults for settings an API config leaves out.
type EnvDefaults struct {
	PathConverter string `env:"RESTVALIDATION_PATH_CONVERTER" envDefault:"no_op"`
	TrimStrings   bool   `env:"RESTVALIDATION_TRIM_STRINGS" envDefault:"false"`
}

// LoadEnvDefaults reads [EnvDefaults] from the environment.
func LoadEnvDefaults() (EnvDefaults, error) {
	d, err := env.ParseAs[EnvDefaults]()
	if err != nil {
		return EnvDefaults{}, fmt.Errorf("parse environment: %w", err)
	}
	return d, nil
}

// LoadConfig decodes YAML from r, fills unset settings from the environment
// and validates the result. Unknown keys are rejected.
func LoadConfig(ctx context.Context, r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	defaults, err := LoadEnvDefaults()
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults(defaults)

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills the path converter and trimming of APIs that leave them unset.
func (c *Config) ApplyDefaults(d EnvDefaults) {
	for i := range c.APIs {
		a := &c.APIs[i]
		if a.PathConverter == "" {
			a.PathConverter = d.PathConverter
		}
		if a.TrimStrings == nil {
			trim := d.TrimStrings
			a.TrimStrings = &trim
		}
	}
}

// Validate checks the configuration with the rule engine and reports every
// problem at once.
func (c *Config) Validate(ctx context.Context) error {
	found, err := NewRuleValidator().Validate(ctx, c)
	if err != nil {
		return err
	}
	if err := found.Err(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Build turns the configuration into APIs, ready for a [StaticResolver].
func (c *Config) Build() ([]*API, error) {
	apis := make([]*API, 0, len(c.APIs))
	for _, ac := range c.APIs {
		conv, err := pathconv.Lookup(ac.PathConverter)
		if err != nil {
			return nil, fmt.Errorf("api %q: %w", ac.Key, err)
		}
		api := NewAPI(ac.Key).SetPathConverter(conv)
		if ac.TrimStrings != nil {
			api.SetTrimStrings(*ac.TrimStrings)
		}
		for _, controller := range ac.UnloggedControllers {
			api.DontLogRequest(controller)
		}
		for _, b := range ac.Bindings {
			if b.Source == QueryBinding.String() {
				api.AddRequestQueryMapper(b.Mapper, b.Controller, b.Parameter)
				continue
			}
			api.AddRequestMapper(b.Mapper, b.Controller, b.Parameter)
		}
		apis = append(apis, api)
	}
	return apis, nil
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// Rules implements [Ruler].
func (c *Config) Rules() []*FieldRules {
	return []*FieldRules{
		Field(&c.APIs, Required, By(func(any) error {
			seen := map[string]bool{}
			for _, a := range c.APIs {
				if seen[a.Key] {
					return fmt.Errorf("api key %q is used more than once", a.Key)
				}
				seen[a.Key] = true
			}
			return nil
		}, "api keys must be unique")),
	}
}

// Rules implements [Ruler].
func (a *APIConfig) Rules() []*FieldRules {
	return []*FieldRules{
		Field(&a.Key, Required, Match(keyPattern, "must be lowercase letters, digits, '_', '.' or '-'")),
		Field(&a.PathConverter, In(converterNames()...)),
		Field(&a.UnloggedControllers, Each(Required)),
		Field(&a.Bindings),
	}
}

// Rules implements [Ruler].
func (b *BindingConfig) Rules() []*FieldRules {
	return []*FieldRules{
		Field(&b.Controller, Required),
		Field(&b.Mapper, Required),
		Field(&b.Parameter, Required),
		Field(&b.Source, In(BodyBinding.String(), QueryBinding.String())),
	}
}

func converterNames() []any {
	names := pathconv.Names()
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
