// Command vericode generates and validates stateless, time-bound verification
// codes, and can serve the JSON API around them.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/reiserwang/vericode/internal/console"
	"github.com/reiserwang/vericode/internal/server"
	"github.com/reiserwang/vericode/pkg/api"
	"github.com/reiserwang/vericode/pkg/vericode"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	length     int
	period     int
	digits     bool
	uppercase  bool
	lowercase  bool
	counter    int64
	port       int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "vericode",
		Short:         "Stateless, time-bound verification codes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file holding VERICODE_SECRET_KEY (default config.json)")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newConsoleCmd(opts))
	root.AddCommand(newSecretCmd())

	return root
}

// newService loads the secret and wires the code service. A missing secret is
// fatal: there is no safe default to run with.
func newService(opts *options) (*api.Service, error) {
	// Optional .env next to the working directory; absence is fine.
	_ = godotenv.Load()

	secret, err := vericode.LoadSecret(opts.configPath)
	if err != nil {
		return nil, err
	}

	auth, err := vericode.NewAuthenticator(vericode.Config{Secret: secret})
	if err != nil {
		return nil, err
	}

	return api.NewService(api.Config{Verifier: auth})
}

func addCodeFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().IntVar(&opts.length, "length", vericode.DefaultLength, "code length")
	cmd.Flags().IntVar(&opts.period, "period", vericode.DefaultPeriod, "validity period in seconds")
	cmd.Flags().BoolVar(&opts.digits, "digits", true, "include digits 0-9")
	cmd.Flags().BoolVar(&opts.uppercase, "uppercase", false, "include uppercase A-Z")
	cmd.Flags().BoolVar(&opts.lowercase, "lowercase", false, "include lowercase a-z")
	cmd.Flags().Int64Var(&opts.counter, "counter", 0, "optional counter for independent codes")
}

func (o *options) codeOptions(cmd *cobra.Command) *vericode.Options {
	v := vericode.Options{
		Period:    o.period,
		Length:    o.length,
		Digits:    o.digits,
		Uppercase: o.uppercase,
		Lowercase: o.lowercase,
	}
	if cmd.Flags().Changed("counter") {
		counter := o.counter
		v.Counter = &counter
	}
	return &v
}

func newGenerateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <user-id>",
		Short: "Generate the current verification code for an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(opts)
			if err != nil {
				return err
			}

			code, err := svc.Generate(cmd.Context(), api.GenerateRequest{
				Identifier: args[0],
				Options:    opts.codeOptions(cmd),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	addCodeFlags(cmd, opts)
	return cmd
}

func newValidateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <user-id> <code>",
		Short: "Check a verification code for an identifier",
		Long: "Check a verification code for an identifier. The flags must match the\n" +
			"values used at generation time; codes carry no configuration of their own.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(opts)
			if err != nil {
				return err
			}

			valid, err := svc.Verify(cmd.Context(), api.VerifyRequest{
				Identifier: args[0],
				Code:       args[1],
				Options:    opts.codeOptions(cmd),
			})
			if err != nil {
				return err
			}

			if !valid {
				fmt.Fprintln(cmd.OutOrStdout(), "INVALID")
				return errors.New("code is not valid")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "VALID")
			return nil
		},
	}
	addCodeFlags(cmd, opts)
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the verification code JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(opts)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{Port: opts.port, Service: svc})

			// signal.Notify requires the channel to be buffered
			ctrlc := make(chan os.Signal, 1)
			signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-ctrlc
				srv.Close()
			}()

			slog.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			slog.Info("server closed")
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 8080, "port to listen on")
	return cmd
}

func newConsoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive generate/validate menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(opts)
			if err != nil {
				return err
			}

			return console.New(svc, cmd.InOrStdin(), cmd.OutOrStdout()).Run(context.Background())
		},
	}
}

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Generate a random shared secret for " + vericode.SecretEnvVar,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := vericode.GenerateSecret()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
}
