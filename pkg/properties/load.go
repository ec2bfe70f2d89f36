package properties

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/rzbill/signcfg/pkg/log"
)

// Loader reads optional properties files.
type Loader struct {
	logger log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used to report skipped lines and missing files.
func WithLogger(logger log.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: log.GetDefaultLogger()}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("properties")
	return l
}

// Load reads the properties file at path. A path that does not name an
// existing regular file yields an empty ConfigMap and no error.
func (l *Loader) Load(path string) (*ConfigMap, error) {
	logger := l.logger.With(log.File(path))

	info, err := os.Stat(path)
	if err != nil {
		if isNotExist(err) {
			logger.Debug("properties file not found, using empty configuration")
			return Empty(), nil
		}
		return nil, fmt.Errorf("failed to stat properties file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		logger.Debug("properties path is not a regular file, using empty configuration")
		return Empty(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if isNotExist(err) {
			logger.Debug("properties file disappeared before open, using empty configuration")
			return Empty(), nil
		}
		return nil, fmt.Errorf("failed to open properties file %s: %w", path, err)
	}
	defer f.Close()

	m, skipped, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file %s: %w", path, err)
	}
	for _, s := range skipped {
		logger.Warn("skipping malformed properties line", log.Int("line", s.Line), log.Str("reason", s.Reason))
	}

	logger.Debug("loaded properties file", log.Int("keys", m.Len()))
	return m, nil
}

// Load reads the properties file at path with a default Loader.
func Load(path string) (*ConfigMap, error) {
	return NewLoader().Load(path)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
