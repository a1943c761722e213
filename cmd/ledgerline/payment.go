package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func paymentCmd() *cobra.Command {
	var (
		client string
		amount string
	)

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Record a client payment, spread oldest-debt-first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			sum, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}

			result, err := svc.RecordPayment(cmd.Context(), client, sum)
			if err != nil {
				return err
			}

			fmt.Printf("Payment distributed (%s)\n", result.TxID)
			for _, alloc := range result.Allocations {
				fmt.Printf("  %s  applied %s, debt left %s\n",
					alloc.Date, alloc.Applied, alloc.RemainingDebt)
			}
			if result.Leftover.IsPositive() {
				fmt.Printf("  leftover (not written): %s\n", result.Leftover)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "client name")
	cmd.Flags().StringVar(&amount, "amount", "", "payment amount")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Remove every ledger row written by one operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			touched, err := svc.DeleteOperation(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Removed rows from: %v\n", touched)
			return nil
		},
	}
	return cmd
}
