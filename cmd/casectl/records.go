package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/session"
	"github.com/yourusername/casetracker/internal/table"
	"github.com/yourusername/casetracker/internal/ui"
)

type requestFlags struct {
	postmarked, processed, action string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.postmarked, "postmarked", "", "postmark date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.processed, "processed", "", "processed date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.action, "action", string(models.ActionFilled), "Filled or Tossed")
}

// apply overwrites the fields of r given on the command line.
func (f *requestFlags) apply(cmd *cobra.Command, r *models.Request) error {
	if cmd.Flags().Changed("postmarked") {
		d, err := models.ParseDate(f.postmarked)
		if err != nil {
			return fmt.Errorf("--postmarked: %w", err)
		}
		r.DatePostmarked = d
	}
	if cmd.Flags().Changed("processed") {
		d, err := models.ParseDate(f.processed)
		if err != nil {
			return fmt.Errorf("--processed: %w", err)
		}
		r.DateProcessed = d
	}
	if cmd.Flags().Changed("action") || r.Action == "" {
		r.Action = models.Action(f.action)
	}
	return nil
}

// report prints what happened to a table edit: the editor's errors on
// failure, the updated rows otherwise.
func report[T table.Row](out io.Writer, t *table.Table[T], key int, err error, render func([]T) string) error {
	if err != nil {
		if msg := ui.FieldErrors(t.Errors(key)); msg != "" {
			fmt.Fprint(out, msg)
			return errReported
		}
		return err
	}
	fmt.Fprint(out, render(t.Rows()))
	return nil
}

func newRequestCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Add, update or delete mail requests",
	}

	add := &requestFlags{}
	addCmd := &cobra.Command{
		Use:   "add <jurisdiction> <id>",
		Short: "Record a new request, warning about early postmarks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, out, err := open(cmd, opts, args)
			if err != nil {
				return err
			}
			r := models.Request{DatePostmarked: v.DefaultPostmark}
			if err := add.apply(cmd, &r); err != nil {
				return err
			}
			_, err = v.AddRequest(cmd.Context(), r)
			return report(out, v.Requests, table.NewRow, err, ui.Requests)
		},
	}
	add.register(addCmd)

	upd := &requestFlags{}
	updCmd := &cobra.Command{
		Use:   "update <jurisdiction> <id> <index>",
		Short: "Change the postmark, processed date or action of a request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, out, err := open(cmd, opts, args)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			r, ok := v.Requests.Get(index)
			if !ok {
				return fmt.Errorf("no request %d", index)
			}
			if err := upd.apply(cmd, &r); err != nil {
				return err
			}
			_, err = v.UpdateRequest(cmd.Context(), r)
			return report(out, v.Requests, index, err, ui.Requests)
		},
	}
	upd.register(updCmd)

	delCmd := &cobra.Command{
		Use:   "delete <jurisdiction> <id> <index>",
		Short: "Delete a request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, out, err := open(cmd, opts, args)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			err = v.DeleteRequest(cmd.Context(), index)
			return report(out, v.Requests, index, err, ui.Requests)
		},
	}

	cmd.AddCommand(addCmd, updCmd, delCmd)
	return cmd
}

func newCommentCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, update or delete comments",
	}

	var body, author string
	addCmd := &cobra.Command{
		Use:   "add <jurisdiction> <id>",
		Short: "Add a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, out, err := open(cmd, opts, args)
			if err != nil {
				return err
			}
			_, err = v.AddComment(cmd.Context(), models.Comment{Body: body, Author: author})
			return report(out, v.Comments, table.NewRow, err, ui.Comments)
		},
	}

	updCmd := &cobra.Command{
		Use:   "update <jurisdiction> <id> <index>",
		Short: "Edit a comment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, out, err := open(cmd, opts, args)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			c, ok := v.Comments.Get(index)
			if !ok {
				return fmt.Errorf("no comment %d", index)
			}
			if cmd.Flags().Changed("body") {
				c.Body = body
			}
			if cmd.Flags().Changed("author") {
				c.Author = author
			}
			_, err = v.UpdateComment(cmd.Context(), c)
			return report(out, v.Comments, index, err, ui.Comments)
		},
	}

	for _, c := range []*cobra.Command{addCmd, updCmd} {
		c.Flags().StringVar(&body, "body", "", "comment text")
		c.Flags().StringVar(&author, "author", "", "author (default: signed-in user)")
	}

	delCmd := &cobra.Command{
		Use:   "delete <jurisdiction> <id> <index>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, out, err := open(cmd, opts, args)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			err = v.DeleteComment(cmd.Context(), index)
			return report(out, v.Comments, index, err, ui.Comments)
		},
	}

	cmd.AddCommand(addCmd, updCmd, delCmd)
	return cmd
}

func open(cmd *cobra.Command, opts *rootOptions, args []string) (*session.InmateView, io.Writer, error) {
	j, id, err := parseInmate(args)
	if err != nil {
		return nil, nil, err
	}
	out := cmd.OutOrStdout()
	v, err := openInmate(cmd.Context(), opts, out, j, id)
	return v, out, err
}
