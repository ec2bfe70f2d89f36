package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rzbill/signcfg/pkg/log"
	"github.com/rzbill/signcfg/pkg/properties"
	"github.com/rzbill/signcfg/pkg/signing"
	"github.com/rzbill/signcfg/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const completeProperties = `# release signing
storeFile=upload.jks
storePassword=secret1
keyAlias=upload
keyPassword=secret2
`

var jksHeader = []byte{0xFE, 0xED, 0xFE, 0xED, 0x00, 0x00, 0x00, 0x02}

// project lays out <dir>/android/key.properties with body and returns its path.
func project(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "android", "key.properties")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	prev := log.GetDefaultLogger()
	t.Cleanup(func() { log.SetDefaultLogger(prev) })

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--no-color"}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolve_Table(t *testing.T) {
	path := project(t, completeProperties)

	out, _, err := execute(t, "", "resolve", "-p", path)
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "upload.jks")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "secret1")
	assert.NotContains(t, out, "secret2")
}

func TestResolve_StructuredOutput(t *testing.T) {
	path := project(t, completeProperties)
	want := signing.Credentials{StoreFile: "upload.jks", StorePassword: "secret1", KeyAlias: "upload", KeyPassword: "secret2"}

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "", "resolve", "-p", path, "-o", "json", "--show-secrets")
		require.NoError(t, err)
		var got signing.Credentials
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := execute(t, "", "resolve", "-p", path, "-o", "yaml", "--show-secrets")
		require.NoError(t, err)
		var got signing.Credentials
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	})

	t.Run("masked json", func(t *testing.T) {
		out, _, err := execute(t, "", "resolve", "-p", path, "-o", "json")
		require.NoError(t, err)
		assert.NotContains(t, out, "secret1")
		assert.Contains(t, out, `"keyAlias": "upload"`)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, err := execute(t, "", "resolve", "-p", path, "-o", "xml")
		assert.Error(t, err)
	})
}

func TestResolve_MissingKey(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantKey string
	}{
		{name: "absent file", body: "", wantKey: signing.KeyStoreFile},
		{name: "missing keyAlias", body: "storeFile=a\nstorePassword=b\nkeyPassword=d\n", wantKey: signing.KeyKeyAlias},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := project(t, tt.body)
			_, _, err := execute(t, "", "resolve", "-p", path)
			require.Error(t, err)
			assert.True(t, signing.IsMissingCredential(err))
			assert.Contains(t, err.Error(), tt.wantKey)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestResolve_ConfigFileAndEnv(t *testing.T) {
	path := project(t, completeProperties)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("properties_file: "+path+"\noutput:\n  format: json\n"), 0600))

	out, _, err := execute(t, "", "--config", cfgPath, "resolve")
	require.NoError(t, err)
	assert.Contains(t, out, `"storeFile": "upload.jks"`)

	t.Setenv("SIGNCFG_OUTPUT_FORMAT", "yaml")
	out, _, err = execute(t, "", "--config", cfgPath, "resolve")
	require.NoError(t, err)
	assert.Contains(t, out, "storeFile: upload.jks")
}

func TestResolve_LogsCarryNoPasswords(t *testing.T) {
	path := project(t, completeProperties+"broken\\u12\n")

	_, stderr, err := execute(t, "", "resolve", "-p", path, "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"component":"signing"`)
	assert.Contains(t, stderr, `"level":"WARN"`)
	assert.NotContains(t, stderr, "secret1")
	assert.NotContains(t, stderr, "secret2")
}

func TestResolve_MissingKeyIsNotLoggedAtDefaultLevel(t *testing.T) {
	path := project(t, "storeFile=a\nstorePassword=b\nkeyPassword=d\n")

	_, stderr, err := execute(t, "", "resolve", "-p", path)
	require.Error(t, err)
	assert.NotContains(t, stderr, "credential missing")
}

func TestRoot_ConfiguredLoggerIsDefaultAndRedacts(t *testing.T) {
	path := project(t, completeProperties)
	t.Setenv("HOME", t.TempDir())
	prev := log.GetDefaultLogger()
	t.Cleanup(func() { log.SetDefaultLogger(prev) })

	// The pre-run installs the configured logger as the default, so
	// properties.Load and signing.Resolve share its output and redaction.
	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&buf)
	root.SetArgs([]string{"--no-color", "--log-format", "json", "resolve", "-p", path})
	require.NoError(t, root.Execute())
	assert.Empty(t, buf.String())

	log.GetDefaultLogger().Info("credentials", log.Str(signing.KeyStorePassword, "secret1"), log.Str(signing.KeyKeyPassword, "secret2"))
	assert.Contains(t, buf.String(), `"storePassword":"`+log.Redacted+`"`)
	assert.Contains(t, buf.String(), `"keyPassword":"`+log.Redacted+`"`)
	assert.NotContains(t, buf.String(), "secret1")
	assert.NotContains(t, buf.String(), "secret2")

	_, err := signing.Resolve(properties.Empty(), path)
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "ERROR")
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	path := project(t, completeProperties)
	_, _, err := execute(t, "", "resolve", "-p", path, "--log-level", "loud")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		path := project(t, completeProperties)
		appDir := filepath.Join(filepath.Dir(path), "app")
		require.NoError(t, os.Mkdir(appDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(appDir, "upload.jks"), jksHeader, 0600))

		out, _, err := execute(t, "", "check", "-p", path)
		require.NoError(t, err)
		assert.Contains(t, out, "✓")
		assert.Contains(t, out, "jks")
		assert.Contains(t, out, "Signing configuration is complete")
	})

	t.Run("keystore base dir flag", func(t *testing.T) {
		path := project(t, completeProperties)
		keys := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(keys, "upload.jks"), jksHeader, 0600))

		out, _, err := execute(t, "", "check", "-p", path, "--keystore-base-dir", keys)
		require.NoError(t, err)
		assert.Contains(t, out, filepath.Join(keys, "upload.jks"))
	})

	t.Run("keystore missing", func(t *testing.T) {
		path := project(t, completeProperties)
		out, _, err := execute(t, "", "check", "-p", path)
		require.Error(t, err)
		var notFound *signing.KeystoreNotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Contains(t, out, "✗")
		assert.Equal(t, filepath.Join(filepath.Dir(path), "upload.jks"), notFound.Path)
	})

	t.Run("keystore unreadable", func(t *testing.T) {
		path := project(t, "storeFile=upload.jks/inner.jks\nstorePassword=a\nkeyAlias=b\nkeyPassword=c\n")
		require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "upload.jks"), jksHeader, 0600))

		out, _, err := execute(t, "", "check", "-p", path)
		require.Error(t, err)
		var notFound *signing.KeystoreNotFoundError
		assert.False(t, errors.As(err, &notFound))
		assert.Contains(t, out, "failed to stat keystore")
		assert.NotContains(t, out, "(not found)")
	})

	t.Run("credential missing", func(t *testing.T) {
		path := project(t, "storeFile=upload.jks\n")
		out, _, err := execute(t, "", "check", "-p", path)
		require.Error(t, err)
		assert.True(t, signing.IsMissingCredential(err))
		assert.Contains(t, out, "storePassword is missing")
	})
}

func TestInit(t *testing.T) {
	t.Run("writes file from flags and stdin", func(t *testing.T) {
		path := project(t, "")
		out, _, err := execute(t, "pw1\n\n", "init", "-p", path, "--store-file", "upload.jks", "--key-alias", "release")
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote "+path)

		m, err := properties.Load(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"storeFile":     "upload.jks",
			"storePassword": "pw1",
			"keyAlias":      "release",
			"keyPassword":   "pw1",
		}, m.ToMap())

		if runtime.GOOS != "windows" {
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
		}
	})

	t.Run("prompts with defaults", func(t *testing.T) {
		path := project(t, "")
		_, stderr, err := execute(t, "\npw1\n\npw2\n", "init", "-p", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "Keystore file [upload-keystore.jks]")

		m, err := properties.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "upload-keystore.jks", m.GetOr("storeFile", ""))
		assert.Equal(t, "upload", m.GetOr("keyAlias", ""))
		assert.Equal(t, "pw2", m.GetOr("keyPassword", ""))
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		path := project(t, "")
		_, _, err := execute(t, "\n\n", "init", "-p", path, "--store-file", "a.jks", "--key-alias", "upload")
		require.Error(t, err)
		assert.True(t, signing.IsMissingCredential(err))
		assert.NoFileExists(t, path)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := project(t, completeProperties)
		_, _, err := execute(t, "pw\n\n", "init", "-p", path, "--store-file", "a.jks", "--key-alias", "upload")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")

		_, _, err = execute(t, "pw\n\n", "init", "-p", path, "--store-file", "a.jks", "--key-alias", "upload", "--force")
		require.NoError(t, err)
		m, err := properties.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "a.jks", m.GetOr("storeFile", ""))
	})

	t.Run("input ends early", func(t *testing.T) {
		path := project(t, "")
		_, _, err := execute(t, "", "init", "-p", path, "--store-file", "a.jks")
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version.Info()+"\n", out)

	out, _, err = execute(t, "", "version", "-o", "json")
	require.NoError(t, err)
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Get(), info)
}
