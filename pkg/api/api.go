// Package api is the service facade between transport glue (HTTP handlers,
// CLI, console) and the code deriver. It enforces the request contract the
// callers share -- identifier required, code required for verification -- and
// applies the service-wide default options when a request carries none.
package api

import (
	"context"
	"errors"
	"strings"

	"github.com/reiserwang/vericode/pkg/vericode"
)

// Verifier defines the contract the service expects from the code deriver.
type Verifier interface {
	Generate(ctx context.Context, identifier string, opts vericode.Options) (string, error)
	Validate(ctx context.Context, code, identifier string, opts vericode.Options) bool
}

var (
	// ErrNilVerifier indicates the service was built without a verifier.
	ErrNilVerifier = errors.New("api: verifier is required")
	// ErrMissingIdentifier indicates the request does not name an identifier.
	ErrMissingIdentifier = errors.New("api: identifier is required")
	// ErrMissingCode indicates a verification request carries no code.
	ErrMissingCode = errors.New("api: code is required")
)

// Config holds the service dependencies.
type Config struct {
	// Verifier derives and checks codes (required).
	Verifier Verifier
	// Defaults applies to requests that carry no options. The zero value
	// means vericode.DefaultOptions.
	Defaults vericode.Options
}

// Service exposes the two operations of the scheme to transport glue.
type Service struct {
	verifier Verifier
	defaults vericode.Options
}

// NewService builds a Service from the supplied configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Verifier == nil {
		return nil, ErrNilVerifier
	}

	defaults := cfg.Defaults
	if defaults == (vericode.Options{}) {
		defaults = vericode.DefaultOptions()
	}

	return &Service{verifier: cfg.Verifier, defaults: defaults}, nil
}

// GenerateRequest asks for a code for one identifier.
type GenerateRequest struct {
	// Identifier is the caller-supplied subject: email, phone number, any
	// opaque string. Required.
	Identifier string
	// Options overrides the service defaults when non-nil.
	Options *vericode.Options
}

// VerifyRequest checks a submitted code against an identifier.
type VerifyRequest struct {
	Identifier string
	Code       string
	// Options must match the values used at generation time.
	Options *vericode.Options
}

// Generate derives the current code for the request's identifier.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if s == nil || s.verifier == nil {
		return "", ErrNilVerifier
	}
	if strings.TrimSpace(req.Identifier) == "" {
		return "", ErrMissingIdentifier
	}

	return s.verifier.Generate(ctx, req.Identifier, s.options(req.Options))
}

// Verify reports whether the request's code is valid for its identifier.
// Transport-level mistakes (missing fields) are errors; a wrong or expired
// code is a definite false with no further detail.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (bool, error) {
	if s == nil || s.verifier == nil {
		return false, ErrNilVerifier
	}
	if strings.TrimSpace(req.Identifier) == "" {
		return false, ErrMissingIdentifier
	}
	if strings.TrimSpace(req.Code) == "" {
		return false, ErrMissingCode
	}

	return s.verifier.Validate(ctx, req.Code, req.Identifier, s.options(req.Options)), nil
}

func (s *Service) options(override *vericode.Options) vericode.Options {
	if override != nil {
		return *override
	}
	return s.defaults
}

// Ensure the concrete authenticator satisfies the Verifier interface.
var _ Verifier = (*vericode.Authenticator)(nil)
