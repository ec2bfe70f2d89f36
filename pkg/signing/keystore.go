package signing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// StoreType is the container format of a keystore file.
type StoreType string

const (
	StoreTypeJKS     StoreType = "jks"
	StoreTypeJCEKS   StoreType = "jceks"
	StoreTypePKCS12  StoreType = "pkcs12"
	StoreTypeUnknown StoreType = "unknown"
)

var (
	jksMagic   = []byte{0xFE, 0xED, 0xFE, 0xED}
	jceksMagic = []byte{0xCE, 0xCE, 0xCE, 0xCE}
)

// Keystore describes a keystore file on disk.
type Keystore struct {
	Path string    `json:"path" yaml:"path"`
	Type StoreType `json:"type" yaml:"type"`
	Size int64     `json:"size" yaml:"size"`
}

// LocateKeystore stats path and sniffs its format from the leading bytes.
func LocateKeystore(path string) (*Keystore, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &KeystoreNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to stat keystore %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, &KeystoreNotFoundError{Path: path, Err: errors.New("not a regular file")}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 4)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read keystore %s: %w", path, err)
	}

	return &Keystore{
		Path: path,
		Type: sniffStoreType(header[:n]),
		Size: info.Size(),
	}, nil
}

func sniffStoreType(header []byte) StoreType {
	switch {
	case bytes.HasPrefix(header, jksMagic):
		return StoreTypeJKS
	case bytes.HasPrefix(header, jceksMagic):
		return StoreTypeJCEKS
	case len(header) > 0 && header[0] == 0x30:
		// PKCS#12 is a DER SEQUENCE.
		return StoreTypePKCS12
	default:
		return StoreTypeUnknown
	}
}
