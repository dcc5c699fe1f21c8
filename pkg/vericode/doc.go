// Package vericode derives and validates stateless, time-bound verification
// codes.
//
// A code is a deterministic function of an identifier (email, phone number,
// any opaque string), a shared secret, and the current time quantized into
// fixed-length periods. Nothing is stored when a code is generated; validation
// re-derives the expected code and compares in constant time. A code is
// accepted for its own time window and the immediately following one, so the
// effective lifetime is between one and two periods depending on when within
// the window it was generated. A future window is never accepted.
//
// # Example
//
// Generate and validate a default 6-digit code valid for 300 seconds:
//
//	secret, err := vericode.LoadSecret("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	auth, err := vericode.NewAuthenticator(vericode.Config{Secret: secret})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	code, err := auth.Generate(ctx, "user@example.com", vericode.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later, with the code the user typed back in:
//	if auth.Validate(ctx, code, "user@example.com", vericode.DefaultOptions()) {
//	    // accepted
//	}
//
// # Options
//
// Options control the character set (digits, uppercase, lowercase, assembled
// in that order), code length, period, and an optional counter that derives
// independent codes for the same identifier and window (e.g. one code per
// purpose). Validation must be given the exact Options used at generation
// time: codes carry no self-describing metadata, so the configuration travels
// out-of-band by design.
//
// # Secret
//
// The secret is resolved once at process start by LoadSecret: the
// VERICODE_SECRET_KEY environment variable wins, falling back to the same key
// in a local config file. There is no safe default; construction fails without
// a secret. The secret is never logged and never appears in any output.
//
// # Thread Safety
//
// The Authenticator type is safe for concurrent use. It reads only its
// arguments, the immutable secret, and the wall clock; no locks are held and
// no I/O is performed.
package vericode
