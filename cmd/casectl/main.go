package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yourusername/casetracker/internal/client"
	"github.com/yourusername/casetracker/internal/confirm"
	"github.com/yourusername/casetracker/internal/ui"
)

// errReported marks failures already printed for the user.
var errReported = errors.New("reported")

type rootOptions struct {
	v  *viper.Viper
	in io.Reader
	// interactive selects the dialog prompt over the line prompt.
	interactive bool
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.v.GetString("server"), o.v.GetString("token"))
}

func (o *rootOptions) chooser(out io.Writer) confirm.Chooser {
	if o.interactive {
		return ui.DialogChooser{}
	}
	return ui.LineChooser{In: o.in, Out: out}
}

func newRootCommand(in io.Reader, interactive bool) *cobra.Command {
	opts := &rootOptions{v: viper.New(), in: in, interactive: interactive}

	cmd := &cobra.Command{
		Use:           "casectl",
		Short:         "Search inmates and record their mail requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("server", "http://localhost:8080", "casetracker server URL")
	cmd.PersistentFlags().String("token", "", "bearer token (see `casectl login`)")

	// ---- FLAGS, THEN CASECTL_* ENV VARS ----
	opts.v.SetEnvPrefix("CASECTL")
	opts.v.AutomaticEnv()
	_ = opts.v.BindPFlag("server", cmd.PersistentFlags().Lookup("server"))
	_ = opts.v.BindPFlag("token", cmd.PersistentFlags().Lookup("token"))

	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newRequestCommand(opts))
	cmd.AddCommand(newCommentCommand(opts))
	cmd.AddCommand(newLabelCommand(opts))
	return cmd
}

func parseInmate(args []string) (string, int64, error) {
	id, err := strconv.ParseInt(strings.ReplaceAll(args[1], "-", ""), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid inmate id %q", args[1])
	}
	return args[0], id, nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return i, nil
}

func main() {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if err := newRootCommand(os.Stdin, interactive).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "casectl:", err)
		}
		os.Exit(1)
	}
}
