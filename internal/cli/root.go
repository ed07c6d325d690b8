// Package cli implements the personctl command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/personrest/config"
	"github.com/kbukum/personrest/httpclient"
	"github.com/kbukum/personrest/logger"
	"github.com/kbukum/personrest/person"
	"github.com/kbukum/personrest/rest"
	"github.com/kbukum/personrest/version"
)

// ServiceName names the binary in configuration and logs.
const ServiceName = "personctl"

type app struct {
	configFile string
	baseURL    string
	logLevel   string
	jsonOutput bool

	cfg       *config.Config
	log       *logger.Logger
	transport *rest.Client
	client    *person.Client
}

// NewRootCommand builds the personctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               ServiceName,
		Short:             "Query and modify persons of a remote person service",
		Version:           version.Get().String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "YAML config file")
	flags.StringVar(&a.baseURL, "base-url", "", "base URL of the person service, overrides rest.base_url")
	flags.StringVar(&a.logLevel, "log-level", "", "log level. One of trace, debug, info, warn, error")
	flags.BoolVar(&a.jsonOutput, "json", false, "print responses as JSON")

	root.AddCommand(
		a.getCommand(),
		a.listCommand(),
		a.saveCommand(),
		a.deleteCommand(),
		a.versionCommand(),
	)
	return root
}

// setup loads the configuration and builds the person client.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var opts []config.LoaderOption
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}

	var cfg config.Config
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = ServiceName
	}
	if a.baseURL != "" {
		cfg.Rest.BaseURL = a.baseURL
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = &cfg

	a.log = logger.New(&cfg.Logging, cfg.Name)

	transport, err := rest.NewFromConfig(cfg.RestClientConfig(), httpclient.WithLogger(a.log.WithComponent("http")))
	if err != nil {
		return fmt.Errorf("creating REST client: %w", err)
	}
	a.transport = transport
	a.client = person.New(transport, a.log)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.transport == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return a.transport.Close(ctx)
}
