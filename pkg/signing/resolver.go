package signing

import (
	"strings"

	"github.com/rzbill/signcfg/pkg/log"
)

// Lookup is the read side of a properties source.
type Lookup interface {
	Get(key string) (string, bool)
}

// State is the resolution state of a Resolver.
type State int

const (
	StateUnresolved State = iota
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolver turns a properties source into Credentials once. After the first
// call it is either Resolved or Failed and keeps returning that outcome.
type Resolver struct {
	source string
	logger log.Logger

	state State
	creds *Credentials
	err   error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger log.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver. source names the properties file in
// error messages.
func NewResolver(source string, opts ...ResolverOption) *Resolver {
	r := &Resolver{source: source, logger: log.GetDefaultLogger()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("signing").With(log.File(source))
	return r
}

// State returns the current resolution state.
func (r *Resolver) State() State {
	return r.state
}

// Resolve looks up storeFile, storePassword, keyAlias and keyPassword in
// that order and fails with a *MissingCredentialError on the first one
// that is absent or blank.
func (r *Resolver) Resolve(props Lookup) (*Credentials, error) {
	switch r.state {
	case StateResolved:
		c := *r.creds
		return &c, nil
	case StateFailed:
		return nil, r.err
	}

	var values [4]string
	for i, key := range RequiredKeys {
		v, ok := lookup(props, key)
		if !ok {
			r.state = StateFailed
			r.err = &MissingCredentialError{Key: key, Source: r.source}
			r.logger.Debug("signing credential missing", log.Key(key))
			return nil, r.err
		}
		values[i] = v
	}

	r.creds = &Credentials{
		StoreFile:     values[0],
		StorePassword: values[1],
		KeyAlias:      values[2],
		KeyPassword:   values[3],
	}
	r.state = StateResolved
	r.logger.Debug("signing credentials resolved", log.Str(KeyKeyAlias, r.creds.KeyAlias))

	c := *r.creds
	return &c, nil
}

func lookup(props Lookup, key string) (string, bool) {
	if props == nil {
		return "", false
	}
	v, ok := props.Get(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Resolve resolves credentials from props with a one-shot Resolver.
func Resolve(props Lookup, source string) (*Credentials, error) {
	return NewResolver(source).Resolve(props)
}
