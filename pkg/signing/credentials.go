// Package signing resolves release signing credentials from a properties
// source and locates the keystore they refer to.
package signing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Keys recognized in a signing properties file.
const (
	KeyStoreFile     = "storeFile"
	KeyStorePassword = "storePassword"
	KeyKeyAlias      = "keyAlias"
	KeyKeyPassword   = "keyPassword"
)

// RequiredKeys lists the credential keys in lookup order.
var RequiredKeys = []string{KeyStoreFile, KeyStorePassword, KeyKeyAlias, KeyKeyPassword}

const mask = "********"

// Credentials holds everything needed to sign a release build.
// Values are only constructed with all four fields present.
type Credentials struct {
	StoreFile     string `json:"storeFile" yaml:"storeFile"`
	StorePassword string `json:"storePassword" yaml:"storePassword"`
	KeyAlias      string `json:"keyAlias" yaml:"keyAlias"`
	KeyPassword   string `json:"keyPassword" yaml:"keyPassword"`
}

// String masks both passwords.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{storeFile=%s, storePassword=%s, keyAlias=%s, keyPassword=%s}",
		c.StoreFile, mask, c.KeyAlias, mask)
}

// Masked returns a copy of c with both passwords replaced.
func (c Credentials) Masked() Credentials {
	c.StorePassword = mask
	c.KeyPassword = mask
	return c
}

// StoreFilePath resolves StoreFile the way the build tool's file() does:
// absolute paths are kept, "~/" expands to the home directory and anything
// else is relative to baseDir.
func (c Credentials) StoreFilePath(baseDir string) string {
	p := c.StoreFile
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if baseDir == "" {
		baseDir = "."
	}
	return filepath.Join(baseDir, p)
}
