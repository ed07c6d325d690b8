// Package config loads and validates the configuration of person service
// client binaries.
//
// Values come from an optional YAML file, an optional .env file and
// environment variables, merged with viper:
//
//	cfg, err := config.Load("personctl", config.WithConfigFile("personctl.yml"))
//	transport, err := rest.NewFromConfig(cfg.RestClientConfig())
//
// Environment variables use the upper-cased service name as prefix and
// underscores between sections, e.g. PERSONCTL_REST_BASE_URL.
package config
