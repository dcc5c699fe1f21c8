package vericode

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Default derivation parameters.
const (
	// DefaultPeriod is the code validity window in seconds.
	DefaultPeriod = 300
	// DefaultLength is the number of characters in a generated code.
	DefaultLength = 6
)

// counterNone is substituted for an absent counter in the derivation message.
// Changing it changes every derived code, so it is pinned by known-answer tests.
const counterNone = "none"

// Common errors returned by the verification code authenticator.
var (
	// ErrInvalidCode indicates the provided verification code is invalid.
	ErrInvalidCode = errors.New("vericode: invalid code")
	// ErrInvalidConfig indicates the derivation options are invalid.
	ErrInvalidConfig = errors.New("vericode: invalid configuration")
	// ErrMissingSecret indicates no shared secret was provided.
	ErrMissingSecret = errors.New("vericode: missing secret")
	// ErrNilAuthenticator indicates a nil authenticator was used.
	ErrNilAuthenticator = errors.New("vericode: authenticator is nil")
)

// Config holds verification code authenticator configuration.
type Config struct {
	// Secret is the process-wide shared secret (required). It is held for the
	// lifetime of the authenticator and is never logged or returned.
	Secret string
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if strings.TrimSpace(c.Secret) == "" {
		return fmt.Errorf("%w: secret must not be empty", ErrMissingSecret)
	}
	return nil
}

// Options describes how a code is derived. The same values must be supplied
// at generation and validation time; codes carry no self-describing metadata.
type Options struct {
	// Period is the code validity window in seconds.
	// Zero means DefaultPeriod; negative values are invalid.
	Period int
	// Length is the number of characters to generate.
	// Zero means DefaultLength; negative values are invalid.
	// Validation derives against the length of the submitted code instead.
	Length int
	// Digits includes 0-9 in the character set.
	Digits bool
	// Uppercase includes A-Z in the character set.
	Uppercase bool
	// Lowercase includes a-z in the character set.
	Lowercase bool
	// Counter derives an independent code for the same identifier and time
	// window. Nil means no counter.
	Counter *int64
}

// DefaultOptions returns the standard derivation options: a 6 character
// numeric code valid for 300 seconds.
func DefaultOptions() Options {
	return Options{
		Period: DefaultPeriod,
		Length: DefaultLength,
		Digits: true,
	}
}

// Authenticator derives and validates stateless, time-bound verification
// codes. It holds no mutable state beyond the write-once secret and is safe
// for concurrent use.
type Authenticator struct {
	secret string
	now    func() time.Time
}

// NewAuthenticator creates a new verification code authenticator.
// The configuration is validated and an error is returned if the secret
// is missing.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Authenticator{
		secret: cfg.Secret,
		now:    time.Now,
	}, nil
}

// Generate derives the verification code for identifier in the current time
// window. Calling it twice within the same window with identical arguments
// returns the identical code; no code is stored anywhere.
func (a *Authenticator) Generate(ctx context.Context, identifier string, opts Options) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if opts.Period == 0 {
		opts.Period = DefaultPeriod
	}
	if opts.Length == 0 {
		opts.Length = DefaultLength
	}
	if opts.Period < 0 {
		return "", fmt.Errorf("%w: period must be positive", ErrInvalidConfig)
	}
	if opts.Length < 0 {
		return "", fmt.Errorf("%w: length must be positive", ErrInvalidConfig)
	}

	charset := opts.charset()
	if charset == "" {
		return "", fmt.Errorf("%w: at least one character class must be selected", ErrInvalidConfig)
	}

	return a.derive(identifier, a.bucket(opts.Period), opts.Length, charset, opts.Counter), nil
}

// Validate reports whether code is valid for identifier under opts. It checks
// the current time window and the immediately preceding one, so a code remains
// valid for up to one period past the window it was generated in; a future
// window is never accepted.
//
// Validate never returns an error: an empty code, an empty character set, a
// wrong code and an expired code are indistinguishable failures.
func (a *Authenticator) Validate(ctx context.Context, code, identifier string, opts Options) bool {
	if a == nil {
		return false
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if ctx.Err() != nil {
		return false
	}

	if code == "" {
		return false
	}

	if opts.Period == 0 {
		opts.Period = DefaultPeriod
	}
	if opts.Period < 0 {
		return false
	}

	charset := opts.charset()
	if charset == "" {
		return false
	}

	current := a.bucket(opts.Period)
	for _, bucket := range []int64{current, current - 1} {
		expected := a.derive(identifier, bucket, len(code), charset, opts.Counter)
		if subtle.ConstantTimeCompare([]byte(code), []byte(expected)) == 1 {
			return true
		}
	}

	return false
}

// Authenticate validates a verification code and returns ErrInvalidCode on
// failure. It is the error-returning form of Validate for callers that
// compose authenticators.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, code string, opts Options) error {
	if a == nil {
		return ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	if !a.Validate(ctx, code, identifier, opts) {
		return ErrInvalidCode
	}

	return nil
}

// bucket returns the index of the current period-aligned time window.
func (a *Authenticator) bucket(period int) int64 {
	return a.now().Unix() / int64(period)
}

// derive computes the code for one time window. The message layout and the
// 3-bit shift between character picks are fixed: a single 256-bit digest
// drives every pick, trading a small modulo bias for never rehashing.
// Identical inputs always yield the identical code.
func (a *Authenticator) derive(identifier string, bucket int64, length int, charset string, counter *int64) string {
	token := counterNone
	if counter != nil {
		token = strconv.FormatInt(*counter, 10)
	}

	msg := identifier + ":" + strconv.FormatInt(bucket, 10) + ":" + token + ":" + a.secret
	sum := sha256.Sum256([]byte(msg))

	// Interpret the digest as one big unsigned integer, most significant
	// byte first.
	n := new(big.Int).SetBytes(sum[:])
	size := big.NewInt(int64(len(charset)))
	idx := new(big.Int)

	out := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		idx.Mod(n, size)
		out = append(out, charset[idx.Int64()])
		n.Rsh(n, 3)
	}

	return string(out)
}
