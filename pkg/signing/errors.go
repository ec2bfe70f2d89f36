package signing

import (
	"errors"
	"fmt"
)

// MissingCredentialError reports a required key that is absent or blank.
type MissingCredentialError struct {
	Key    string
	Source string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s is missing in %s: add a %s=<value> entry to that file", e.Key, e.Source, e.Key)
}

// IsMissingCredential reports whether err is, or wraps, a MissingCredentialError.
func IsMissingCredential(err error) bool {
	var target *MissingCredentialError
	return errors.As(err, &target)
}

// KeystoreNotFoundError reports a storeFile that does not point at a file.
type KeystoreNotFoundError struct {
	Path string
	Err  error
}

func (e *KeystoreNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("keystore %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("keystore %s not found", e.Path)
}

func (e *KeystoreNotFoundError) Unwrap() error {
	return e.Err
}
