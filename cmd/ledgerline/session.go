package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/session"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Maintain the local dialogue-state store",
	}
	cmd.AddCommand(sessionExpireCmd())
	cmd.AddCommand(sessionClearCmd())
	return cmd
}

func openSessionStore() (*session.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, err := session.NewStore(cfg.SessionDBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func sessionExpireCmd() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Drop dialogue sessions older than the configured age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cfg, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			age := cfg.SessionMaxAge
			if maxAge > 0 {
				age = maxAge
			}

			dropped, err := store.Expire(cmd.Context(), age)
			if err != nil {
				return err
			}
			fmt.Printf("Dropped %d stale sessions.\n", dropped)
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "override the configured session age")
	return cmd
}

func sessionClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <user-id>",
		Short: "Reset one user's dialogue state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("user-id must be numeric: %w", err)
			}

			store, _, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context(), userID); err != nil {
				return err
			}
			fmt.Printf("Cleared session for user %d.\n", userID)
			return nil
		},
	}
}
