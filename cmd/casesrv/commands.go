package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/casetracker/internal/api"
	"github.com/yourusername/casetracker/internal/app"
	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/seed"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			/* ---------- core ---------- */
			a, err := app.Init(opts.configFile)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer a.Close()

			/* ---------- HTTP layer ---------- */
			if !a.Config().Log.Development {
				gin.SetMode(gin.ReleaseMode)
			}
			router := api.SetupRouter(a)

			/* ---------- graceful shutdown ---------- */
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx, router)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// opening the database applies the schema
			a, err := app.Init(opts.configFile)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixtures.yaml>",
		Short: "Load inmates, requests and comments from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			fixtures, err := seed.Load(f)
			if err != nil {
				return err
			}

			a, err := app.Init(opts.configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := seed.Apply(cmd.Context(), a.DB(), fixtures, time.Now()); err != nil {
				return err
			}
			a.Logger().Info("seeded", zap.String("file", args[0]), zap.Int("inmates", len(fixtures.Inmates)))
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d inmates\n", len(fixtures.Inmates))
			return nil
		},
	}
}

func newUserAddCommand(opts *rootOptions) *cobra.Command {
	var (
		email, password string
		admin           bool
	)
	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("CASETRACKER_NEW_PASSWORD")
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or CASETRACKER_NEW_PASSWORD) are required")
			}

			a, err := app.Init(opts.configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			hash, err := a.Auth().HashPassword(password)
			if err != nil {
				return err
			}
			u := models.User{
				ID:           uuid.NewString(),
				Email:        email,
				PasswordHash: hash,
				IsAdmin:      admin,
				CreatedAt:    time.Now().UTC(),
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := a.DB().CreateUser(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant admin access")
	return cmd
}
