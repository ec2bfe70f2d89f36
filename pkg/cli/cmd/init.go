package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rzbill/signcfg/pkg/cli/format"
	"github.com/rzbill/signcfg/pkg/log"
	"github.com/rzbill/signcfg/pkg/properties"
	"github.com/rzbill/signcfg/pkg/signing"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const propertiesHeader = "Release signing credentials. Keep this file out of version control."

type initOptions struct {
	storeFile string
	keyAlias  string
	force     bool
}

func newInitCmd(s *session) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a signing properties file",
		Long: `Write storeFile, storePassword, keyAlias and keyPassword to the
signing properties file, prompting for any value not given as a flag.
Passwords are read without echo when stdin is a terminal.

For example:
  signcfg init
  signcfg init --store-file ~/upload-keystore.jks --key-alias upload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, s, opts)
		},
	}

	cmd.Flags().StringVar(&opts.storeFile, "store-file", "", "Keystore path written as storeFile")
	cmd.Flags().StringVar(&opts.keyAlias, "key-alias", "", "Key alias written as keyAlias")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing properties file")
	return cmd
}

func runInit(cmd *cobra.Command, s *session, opts *initOptions) error {
	path := s.cfg.PropertiesFile
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	var err error
	values := map[string]string{
		signing.KeyStoreFile: opts.storeFile,
		signing.KeyKeyAlias:  opts.keyAlias,
	}
	if values[signing.KeyStoreFile] == "" {
		if values[signing.KeyStoreFile], err = p.ask("Keystore file", "upload-keystore.jks"); err != nil {
			return err
		}
	}
	if values[signing.KeyStorePassword], err = p.secret("Keystore password"); err != nil {
		return err
	}
	if values[signing.KeyKeyAlias] == "" {
		if values[signing.KeyKeyAlias], err = p.ask("Key alias", "upload"); err != nil {
			return err
		}
	}
	if values[signing.KeyKeyPassword], err = p.secret("Key password (empty to reuse the keystore password)"); err != nil {
		return err
	}
	if values[signing.KeyKeyPassword] == "" {
		values[signing.KeyKeyPassword] = values[signing.KeyStorePassword]
	}

	if _, err := signing.NewResolver(path, signing.WithLogger(log.FromContext(cmd.Context()))).Resolve(properties.NewConfigMap(values)); err != nil {
		return err
	}
	if err := properties.Save(path, values, propertiesHeader); err != nil {
		return err
	}

	log.FromContext(cmd.Context()).Info("signing properties written", log.File(path), log.Str(signing.KeyKeyAlias, values[signing.KeyKeyAlias]))
	fmt.Fprintln(cmd.OutOrStdout(), format.Success("Wrote %s", path))
	return nil
}

// prompter reads answers from in, writing prompts to out.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, reader: bufio.NewReader(in), out: out}
}

// ask prompts for a value, returning def on an empty answer.
func (p *prompter) ask(label, def string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line = strings.TrimSpace(line); line == "" {
		return def, nil
	}
	return line, nil
}

// secret prompts for a value without echo when in is a terminal.
func (p *prompter) secret(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	return p.readLine()
}

func (p *prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("unexpected end of input")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
