package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

type resolveOptions struct {
	output      string
	showSecrets bool
}

func newResolveCmd(s *session) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the signing credentials from the properties file",
		Long: `Load the signing properties file and print storeFile, storePassword,
keyAlias and keyPassword. Fails naming the first key that is missing.

For example:
  signcfg resolve
  signcfg resolve -p android/key.properties -o json
  signcfg resolve -o yaml --show-secrets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output format: table, json or yaml (default from config)")
	cmd.Flags().BoolVar(&opts.showSecrets, "show-secrets", false, "Print passwords instead of masking them")
	return cmd
}

func runResolve(cmd *cobra.Command, s *session, opts *resolveOptions) error {
	outputFormat := s.cfg.Output.Format
	if opts.output != "" {
		outputFormat = opts.output
	}
	if err := validateOutputFormat(outputFormat); err != nil {
		return err
	}
	showSecrets := s.cfg.Output.ShowSecrets
	if cmd.Flags().Changed("show-secrets") {
		showSecrets = opts.showSecrets
	}

	creds, err := s.resolve(cmd.Context())
	if err != nil {
		return err
	}

	view := creds.Masked()
	if showSecrets {
		view = *creds
	}

	if strings.ToLower(outputFormat) == outputTable {
		return NewTable(cmd.OutOrStdout()).RenderCredentials(view)
	}
	return writeStructured(cmd.OutOrStdout(), view, outputFormat)
}
