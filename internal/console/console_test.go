package console

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/reiserwang/vericode/pkg/api"
	"github.com/reiserwang/vericode/pkg/vericode"
)

func newTestService(t *testing.T) *api.Service {
	t.Helper()

	auth, err := vericode.NewAuthenticator(vericode.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}

	svc, err := api.NewService(api.Config{Verifier: auth})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

// run feeds script as user input and returns everything printed.
func run(t *testing.T, svc *api.Service, script string) string {
	t.Helper()

	var out bytes.Buffer
	c := New(svc, strings.NewReader(script), &out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("console run failed: %v", err)
	}
	return out.String()
}

// TestGenerateFlow tests the generate menu path with default answers
func TestGenerateFlow(t *testing.T) {
	svc := newTestService(t)

	// Option 1, user id, then defaults for length, flags and counter, then exit.
	script := "1\nuser@example.com\n\n\n\n\n\n3\n"
	out := run(t, svc, script)

	m := regexp.MustCompile(`Generated Code: (\d{6})`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("expected a 6 digit generated code in output:\n%s", out)
	}
}

// TestRoundTripFlow tests generating and then validating the same code
func TestRoundTripFlow(t *testing.T) {
	svc := newTestService(t)

	out := run(t, svc, "1\nuser@example.com\n\n\n\n\n\n3\n")
	m := regexp.MustCompile(`Generated Code: (\d{6})`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("expected a generated code in output:\n%s", out)
	}
	code := m[1]

	// Option 2, same user id and code, default answers, then exit.
	out = run(t, svc, "2\nuser@example.com\n"+code+"\n\n\n\n\n3\n")
	if !strings.Contains(out, "Code is VALID.") {
		t.Errorf("expected valid result, got:\n%s", out)
	}

	out = run(t, svc, "2\nsomeone-else\n"+code+"\n\n\n\n\n3\n")
	if !strings.Contains(out, "Code is INVALID.") {
		t.Errorf("expected invalid result for wrong identifier, got:\n%s", out)
	}
}

// TestInvalidChoice tests the unknown menu option path
func TestInvalidChoice(t *testing.T) {
	svc := newTestService(t)

	out := run(t, svc, "9\n3\n")
	if !strings.Contains(out, "Invalid choice.") {
		t.Errorf("expected invalid choice message, got:\n%s", out)
	}
	if !strings.Contains(out, "Exiting.") {
		t.Errorf("expected exit message, got:\n%s", out)
	}
}

// TestEndOfInput tests that the loop stops cleanly when input ends
func TestEndOfInput(t *testing.T) {
	svc := newTestService(t)

	out := run(t, svc, "")
	if !strings.Contains(out, "Choose an option") {
		t.Errorf("expected the menu to be printed once, got:\n%s", out)
	}
}
