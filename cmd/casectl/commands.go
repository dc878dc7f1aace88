package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/yourusername/casetracker/internal/client"
	"github.com/yourusername/casetracker/internal/confirm"
	"github.com/yourusername/casetracker/internal/session"
	"github.com/yourusername/casetracker/internal/ui"
)

func newLoginCommand(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a token for CASECTL_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" && opts.interactive {
				err := huh.NewForm(huh.NewGroup(
					huh.NewInput().
						Title("Password for " + email).
						EchoMode(huh.EchoModePassword).
						Value(&password),
				)).RunWithContext(cmd.Context())
				if err != nil {
					return err
				}
			}
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			token, err := opts.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export CASECTL_TOKEN=%s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted on a terminal)")
	return cmd
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name or id>",
		Short: "Search inmates; a single match opens its detail view",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			res, err := opts.client().Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return reportFieldErrors(out, err)
			}

			if len(res.Inmates) == 1 {
				for _, e := range res.Errors {
					fmt.Fprintln(out, ui.Styles.Error.Render(e))
				}
				in := res.Inmates[0]
				return showInmate(cmd.Context(), opts, out, in.Jurisdiction, in.ID)
			}
			fmt.Fprint(out, ui.SearchResults(res))
			return nil
		},
	}
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <jurisdiction> <id>",
		Short: "Show an inmate with requests and comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, id, err := parseInmate(args)
			if err != nil {
				return err
			}
			return showInmate(cmd.Context(), opts, cmd.OutOrStdout(), j, id)
		},
	}
}

func newLabelCommand(opts *rootOptions) *cobra.Command {
	var send bool
	cmd := &cobra.Command{
		Use:   "label <jurisdiction> <id> <index>",
		Short: "Show the mailing label of a filled request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, id, err := parseInmate(args)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			c, out := opts.client(), cmd.OutOrStdout()

			text, err := c.Label(cmd.Context(), j, id, index)
			if err != nil {
				return reportFieldErrors(out, err)
			}
			fmt.Fprint(out, text)
			if !send {
				return nil
			}

			res, err := c.PrintLabel(cmd.Context(), j, id, index)
			if err != nil {
				return err
			}
			if res.Mailed {
				fmt.Fprintf(out, "\nsent to printer (copy at %s)\n", res.Path)
			} else {
				fmt.Fprintf(out, "\nsaved to %s\n", res.Path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&send, "print", false, "send the label to the print queue")
	return cmd
}

// openInmate loads the detail view, printing the no-match message when the
// inmate cannot be fetched.
func openInmate(ctx context.Context, opts *rootOptions, out io.Writer, j string, id int64) (*session.InmateView, error) {
	v, err := session.Open(ctx, opts.client(), confirm.New(opts.chooser(out)), j, id)
	if err != nil {
		fmt.Fprintln(out, ui.MsgNoInmate)
		var se *client.StatusError
		if errors.As(err, &se) && se.Code == 401 {
			return nil, err
		}
		return nil, errReported
	}
	return v, nil
}

func showInmate(ctx context.Context, opts *rootOptions, out io.Writer, j string, id int64) error {
	v, err := openInmate(ctx, opts, out, j, id)
	if err != nil {
		return err
	}
	fmt.Fprint(out, ui.Inmate(v.Inmate))
	fmt.Fprintln(out, ui.Styles.Title.Render("\nRequests"))
	fmt.Fprint(out, ui.Requests(v.Requests.Rows()))
	fmt.Fprintln(out, ui.Styles.Title.Render("\nComments"))
	fmt.Fprint(out, ui.Comments(v.Comments.Rows()))
	return nil
}

// reportFieldErrors prints server field errors; other errors are returned.
func reportFieldErrors(out io.Writer, err error) error {
	var fe client.FieldErrors
	if errors.As(err, &fe) {
		fmt.Fprint(out, ui.FieldErrors(fe))
		return errReported
	}
	return err
}
