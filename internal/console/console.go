// Package console is an interactive terminal menu over the code service:
// generate a code, validate a code, exit. It exists for manual operation and
// demos; the prompts ask for the same configuration the HTTP API accepts,
// because validation must be told how a code was generated.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reiserwang/vericode/pkg/api"
	"github.com/reiserwang/vericode/pkg/vericode"
)

// Console runs the interactive menu loop.
type Console struct {
	svc *api.Service
	in  *bufio.Scanner
	out io.Writer
}

// New builds a Console reading prompts from in and writing to out.
func New(svc *api.Service, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run loops until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(c.out, "\n--- Verification Code Generator ---")
		fmt.Fprintln(c.out, "1. Generate a new verification code")
		fmt.Fprintln(c.out, "2. Validate a verification code")
		fmt.Fprintln(c.out, "3. Exit")

		choice, ok := c.prompt("Choose an option (1/2/3): ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			c.runGenerate(ctx)
		case "2":
			c.runValidate(ctx)
		case "3":
			fmt.Fprintln(c.out, "Exiting.")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please try again.")
		}
	}
}

func (c *Console) runGenerate(ctx context.Context) {
	identifier, _ := c.prompt("Enter User ID: ")

	opts := vericode.DefaultOptions()
	opts.Length = c.promptInt("Enter code length (default: 6): ", vericode.DefaultLength)
	opts.Digits = c.promptBool("Use digits (0-9)? (y/n, default: y): ", true)
	opts.Uppercase = c.promptBool("Use uppercase (A-Z)? (y/n, default: n): ", false)
	opts.Lowercase = c.promptBool("Use lowercase (a-z)? (y/n, default: n): ", false)
	opts.Counter = c.promptCounter("Enter optional counter (integer, leave blank for none): ")

	code, err := c.svc.Generate(ctx, api.GenerateRequest{Identifier: identifier, Options: &opts})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "\nGenerated Code: %s\n", code)
}

func (c *Console) runValidate(ctx context.Context) {
	identifier, _ := c.prompt("Enter User ID: ")
	code, _ := c.prompt("Enter verification code: ")

	// Validation needs the original generation parameters.
	opts := vericode.DefaultOptions()
	opts.Digits = c.promptBool("Was it generated with digits? (y/n, default: y): ", true)
	opts.Uppercase = c.promptBool("Was it generated with uppercase? (y/n, default: n): ", false)
	opts.Lowercase = c.promptBool("Was it generated with lowercase? (y/n, default: n): ", false)
	opts.Counter = c.promptCounter("Was a counter used? (integer, leave blank for none): ")

	valid, err := c.svc.Verify(ctx, api.VerifyRequest{Identifier: identifier, Code: code, Options: &opts})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	if valid {
		fmt.Fprintln(c.out, "\nResult: Code is VALID.")
	} else {
		fmt.Fprintln(c.out, "\nResult: Code is INVALID.")
	}
}

// prompt prints the message and returns the next trimmed input line.
// ok is false when input has ended.
func (c *Console) prompt(msg string) (string, bool) {
	fmt.Fprint(c.out, msg)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) promptBool(msg string, def bool) bool {
	answer, ok := c.prompt(msg)
	if !ok || answer == "" {
		return def
	}
	if def {
		return strings.ToLower(answer) != "n"
	}
	return strings.ToLower(answer) == "y"
}

func (c *Console) promptInt(msg string, def int) int {
	answer, ok := c.prompt(msg)
	if !ok || answer == "" {
		return def
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (c *Console) promptCounter(msg string) *int64 {
	answer, ok := c.prompt(msg)
	if !ok || answer == "" {
		return nil
	}
	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
