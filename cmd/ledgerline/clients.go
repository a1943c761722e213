package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/model"
)

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Client list status",
	}
	cmd.AddCommand(clientsListCmd())
	cmd.AddCommand(clientsAllCmd())
	cmd.AddCommand(clientsStatusCmd())
	cmd.AddCommand(clientsSetStatusCmd())
	return cmd
}

func clientsAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Every known client, from the registry and the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			clients, err := svc.Views().AllClients(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range clients {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func clientsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show white- and black-listed clients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			white, err := svc.Views().Whitelist(ctx)
			if err != nil {
				return err
			}
			black, err := svc.Views().Blacklist(ctx)
			if err != nil {
				return err
			}

			fmt.Println("White list:")
			for _, name := range white {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("Black list:")
			for _, name := range black {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}
}

func clientsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <client>",
		Short: "Show one client's list status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			status, err := svc.Views().ClientStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", args[0], status)
			return nil
		},
	}
}

func clientsSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <client> <white|black>",
		Short: "Manually override a client's list status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			updated, err := svc.SetClientStatus(cmd.Context(), args[0], model.ListStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d rows.\n", updated)
			return nil
		},
	}
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the name registry",
	}

	var kind string

	list := &cobra.Command{
		Use:   "list",
		Short: "List registry entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			entries, err := svc.Views().Categories(cmd.Context(), model.CategoryType(kind))
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Printf("%-10s %-24s %s\n", entry.Type, entry.Name, entry.Status)
			}
			return nil
		},
	}
	list.Flags().StringVar(&kind, "type", "", "filter: designer, client, expense, income")

	add := &cobra.Command{
		Use:   "add <type> <name>",
		Short: "Register a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			result, err := svc.AddCategory(cmd.Context(), model.CategoryType(args[0]), args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Registered (%s)\n", result.TxID)
			return nil
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(add)
	return cmd
}
