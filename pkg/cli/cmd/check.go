package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rzbill/signcfg/pkg/cli/format"
	"github.com/rzbill/signcfg/pkg/log"
	"github.com/rzbill/signcfg/pkg/signing"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	keystoreBaseDir string
}

func newCheckCmd(s *session) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the signing configuration and the keystore it points at",
		Long: `Resolve the signing credentials and check that storeFile names an
existing keystore. A relative storeFile is resolved against the app module
next to the properties file, or --keystore-base-dir when given.

For example:
  signcfg check
  signcfg check --keystore-base-dir android/app`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, s, opts)
		},
	}

	cmd.Flags().StringVar(&opts.keystoreBaseDir, "keystore-base-dir", "", "Directory relative storeFile paths resolve against")
	return cmd
}

func runCheck(cmd *cobra.Command, s *session, opts *checkOptions) error {
	path := s.cfg.PropertiesFile
	var results []checkResult
	report := func(failure error) error {
		if err := NewTable(cmd.OutOrStdout()).RenderChecks(results); err != nil {
			return err
		}
		return failure
	}

	info, err := os.Stat(path)
	found := err == nil && info.Mode().IsRegular()
	detail := path
	if !found {
		detail = path + " (not found)"
	}
	results = append(results, checkResult{Name: "properties file", OK: found, Detail: detail})

	creds, err := s.resolve(cmd.Context())
	if err != nil {
		var missing *signing.MissingCredentialError
		if !errors.As(err, &missing) {
			return err
		}
		results = append(results, checkResult{Name: "credentials", Detail: fmt.Sprintf("%s is missing", missing.Key)})
		return report(err)
	}
	results = append(results, checkResult{Name: "credentials", OK: true, Detail: "keyAlias " + creds.KeyAlias})

	baseDir := s.cfg.KeystoreBaseDir()
	if opts.keystoreBaseDir != "" {
		baseDir = opts.keystoreBaseDir
	}
	keystorePath := creds.StoreFilePath(baseDir)
	logger := log.FromContext(cmd.Context()).With(log.File(keystorePath))
	logger.Debug("locating keystore")

	ks, err := signing.LocateKeystore(keystorePath)
	if err != nil {
		logger.WithError(err).Debug("keystore check failed")
		detail = err.Error()
		var notFound *signing.KeystoreNotFoundError
		if errors.As(err, &notFound) {
			detail = keystorePath + " (not found)"
		}
		results = append(results, checkResult{Name: "keystore", Detail: detail})
		return report(err)
	}
	detail = fmt.Sprintf("%s (%s, %d bytes)", ks.Path, ks.Type, ks.Size)
	if ks.Type == signing.StoreTypeUnknown {
		detail += " " + format.Warning("unrecognized format")
	}
	results = append(results, checkResult{Name: "keystore", OK: true, Detail: detail})

	if err := report(nil); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.Success("Signing configuration is complete"))
	return nil
}
