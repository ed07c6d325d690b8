package config

import (
	"maps"
	"time"

	"github.com/kbukum/personrest/httpclient"
	"github.com/kbukum/personrest/person"
	"github.com/kbukum/personrest/rest"
)

// Config is the configuration of a person service client binary.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Rest          RestConfig `yaml:"rest" mapstructure:"rest"`
}

// RestConfig configures the connection to the person service.
type RestConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url" validate:"required,http_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// Token is sent as a bearer token when set.
	Token string `yaml:"token" mapstructure:"token" validate:"excluded_with=APIKey"`
	// APIKey is sent in the header or query parameter APIKeyName.
	APIKey     string            `yaml:"api_key" mapstructure:"api_key"`
	APIKeyIn   string            `yaml:"api_key_in" mapstructure:"api_key_in" validate:"omitempty,oneof=header query"`
	APIKeyName string            `yaml:"api_key_name" mapstructure:"api_key_name"`
	Headers    map[string]string `yaml:"headers" mapstructure:"headers"`
	Retry      *RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Routes     RoutesConfig      `yaml:"routes" mapstructure:"routes"`
}

// RetryConfig enables retries when the section is present. Unset fields
// take the values of httpclient.DefaultRetryConfig; max_retries: 0 turns
// retrying off.
type RetryConfig struct {
	MaxRetries      *uint         `yaml:"max_retries" mapstructure:"max_retries"`
	InitialInterval time.Duration `yaml:"initial_interval" mapstructure:"initial_interval" validate:"gte=0"`
	MaxInterval     time.Duration `yaml:"max_interval" mapstructure:"max_interval" validate:"gte=0"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time" mapstructure:"max_elapsed_time" validate:"gte=0"`
}

func (r *RetryConfig) httpClient() *httpclient.RetryConfig {
	if r == nil || (r.MaxRetries != nil && *r.MaxRetries == 0) {
		return nil
	}
	rc := httpclient.DefaultRetryConfig()
	if r.MaxRetries != nil {
		rc.MaxRetries = *r.MaxRetries
	}
	if r.InitialInterval > 0 {
		rc.InitialInterval = r.InitialInterval
	}
	if r.MaxInterval > 0 {
		rc.MaxInterval = r.MaxInterval
	}
	if r.MaxElapsedTime > 0 {
		rc.MaxElapsedTime = r.MaxElapsedTime
	}
	return rc
}

// RoutesConfig overrides single URL templates of person.DefaultRoutes.
// Empty fields keep the default.
type RoutesConfig struct {
	FindByID      string `yaml:"find_by_id" mapstructure:"find_by_id"`
	FindPaginated string `yaml:"find_paginated" mapstructure:"find_paginated"`
	Find          string `yaml:"find" mapstructure:"find"`
	Save          string `yaml:"save" mapstructure:"save"`
	Delete        string `yaml:"delete" mapstructure:"delete"`
}

// Load reads the configuration of serviceName, applies defaults and
// validates it.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if r := c.Rest.Retry; r != nil {
		defaults := httpclient.DefaultRetryConfig()
		if r.MaxRetries == nil {
			r.MaxRetries = &defaults.MaxRetries
		}
		if r.InitialInterval == 0 {
			r.InitialInterval = defaults.InitialInterval
		}
		if r.MaxInterval == 0 {
			r.MaxInterval = defaults.MaxInterval
		}
	}
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validateStruct("rest.", &c.Rest)
}

// RestClientConfig converts the rest section into the configuration of a
// rest.Client serving the person routes.
func (c *Config) RestClientConfig() rest.Config {
	hc := httpclient.Config{
		Name:    c.Name,
		BaseURL: c.Rest.BaseURL,
		Timeout: c.Rest.Timeout,
		Headers: maps.Clone(c.Rest.Headers),
		Retry:   c.Rest.Retry.httpClient(),
	}
	switch {
	case c.Rest.Token != "":
		hc.Auth = httpclient.BearerAuth(c.Rest.Token)
	case c.Rest.APIKey != "" && c.Rest.APIKeyIn == string(httpclient.KeyInQuery):
		hc.Auth = httpclient.APIKeyAuthQuery(c.Rest.APIKey, c.Rest.APIKeyName)
	case c.Rest.APIKey != "":
		hc.Auth = httpclient.APIKeyAuth(c.Rest.APIKey, c.Rest.APIKeyName)
	}
	return rest.Config{HTTP: hc, Routes: c.Rest.Routes.apply(person.DefaultRoutes())}
}

func (r RoutesConfig) apply(routes map[string]string) map[string]string {
	for name, tmpl := range map[string]string{
		person.FindByIDRequest:      r.FindByID,
		person.FindPaginatedRequest: r.FindPaginated,
		person.FindRequest:          r.Find,
		person.SaveRequest:          r.Save,
		person.DeleteRequest:        r.Delete,
	} {
		if tmpl != "" {
			routes[name] = tmpl
		}
	}
	return routes
}
