package cmd

import (
	"context"
	"os"

	"github.com/rzbill/signcfg/internal/config"
	"github.com/rzbill/signcfg/pkg/cli/format"
	"github.com/rzbill/signcfg/pkg/log"
	"github.com/rzbill/signcfg/pkg/properties"
	"github.com/rzbill/signcfg/pkg/signing"
	"github.com/rzbill/signcfg/pkg/version"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configFile     string
	propertiesFile string
	logLevel       string
	logFormat      string
	noColor        bool
}

// session holds the tool configuration loaded by the root pre-run.
// The configured logger travels in the command context.
type session struct {
	cfg *config.Config
}

// NewRootCmd builds the signcfg command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "signcfg",
		Short: "signcfg - release signing configuration for Android builds",
		Long: `signcfg reads the release signing properties file of an Android
project (android/key.properties by default), checks that storeFile,
storePassword, keyAlias and keyPassword are all present, and verifies
the keystore they point at.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.signcfg/config.yaml)")
	flags.StringVarP(&opts.propertiesFile, "properties", "p", "", "signing properties file (default \""+config.DefaultPropertiesFile+"\")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newResolveCmd(s))
	rootCmd.AddCommand(newCheckCmd(s))
	rootCmd.AddCommand(newInitCmd(s))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		format.NewErrorFormatter(os.Stderr).PrintError(err)
		os.Exit(1)
	}
}

var flagKeys = map[string]string{
	"properties_file": "properties",
	"log.level":       "log-level",
	"log.format":      "log-format",
}

func (s *session) setup(cmd *cobra.Command, opts *globalOptions) error {
	if opts.noColor {
		format.EnableColor(false)
	}

	v := config.New(opts.configFile)
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	if err := config.Read(v, opts.configFile != ""); err != nil {
		return err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	logger, err := log.ApplyConfig(&log.Config{
		Level:          cfg.Log.Level,
		Format:         cfg.Log.Format,
		DisableColors:  !format.IsColorEnabled(),
		RedactedFields: log.DefaultRedactedFields,
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	s.cfg = cfg
	log.SetDefaultLogger(logger)
	cmd.SetContext(log.WithLogger(cmd.Context(), logger.WithComponent("cli")))

	if used := v.ConfigFileUsed(); used != "" {
		log.FromContext(cmd.Context()).Debug("using config file", log.File(used))
	}
	return nil
}

// resolve loads the properties file and resolves the credentials in it.
func (s *session) resolve(ctx context.Context) (*signing.Credentials, error) {
	logger := log.FromContext(ctx)
	props, err := properties.NewLoader(properties.WithLogger(logger)).Load(s.cfg.PropertiesFile)
	if err != nil {
		return nil, err
	}
	return signing.NewResolver(s.cfg.PropertiesFile, signing.WithLogger(logger)).Resolve(props)
}
