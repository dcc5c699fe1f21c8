package vericode

import "strings"

// Character classes eligible to appear in a generated code.
const (
	charsetDigits    = "0123456789"
	charsetUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetLowercase = "abcdefghijklmnopqrstuvwxyz"
)

// charset assembles the ordered character set from the selected classes,
// always in digits, uppercase, lowercase order. The result is empty when no
// class is selected; callers decide whether that is an error (Generate) or
// simply not valid (Validate).
func (o Options) charset() string {
	var b strings.Builder
	if o.Digits {
		b.WriteString(charsetDigits)
	}
	if o.Uppercase {
		b.WriteString(charsetUppercase)
	}
	if o.Lowercase {
		b.WriteString(charsetLowercase)
	}
	return b.String()
}
