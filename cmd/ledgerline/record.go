package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

func expenseCmd() *cobra.Command {
	var (
		category       string
		amount         string
		designer       string
		designerAmount string
		date           string
	)

	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record an expense",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			in := service.ExpenseInput{Category: category, Designer: designer}
			if in.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if in.DesignerAmount, err = parseOptionalAmount("designer-amount", designerAmount); err != nil {
				return err
			}
			if in.Date, err = parseOptionalDate(date); err != nil {
				return err
			}

			result, err := svc.RecordExpense(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Printf("Expense recorded (%s)\n", result.TxID)
			for _, warning := range result.Warnings {
				fmt.Printf("  warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "expense category")
	cmd.Flags().StringVar(&amount, "amount", "", "expense amount")
	cmd.Flags().StringVar(&designer, "designer", "", "designer this expense belongs to")
	cmd.Flags().StringVar(&designerAmount, "designer-amount", "", "designer-attributed part")
	cmd.Flags().StringVar(&date, "date", "", "date as DD.MM.YYYY (default: today)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func incomeCmd() *cobra.Command {
	var (
		category string
		amount   string
		wallet   string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record income unrelated to any order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			in := service.PureIncomeInput{
				Category: category,
				Wallet:   model.WalletPolicy(wallet),
			}
			if in.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if in.Date, err = parseOptionalDate(date); err != nil {
				return err
			}

			result, err := svc.RecordPureIncome(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Printf("Income recorded (%s)\n", result.TxID)
			for _, warning := range result.Warnings {
				fmt.Printf("  warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "income category")
	cmd.Flags().StringVar(&amount, "amount", "", "income amount")
	cmd.Flags().StringVar(&wallet, "wallet", "operational", "wallet policy: operational, reserve, even")
	cmd.Flags().StringVar(&date, "date", "", "date as DD.MM.YYYY (default: today)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func payoutCmd() *cobra.Command {
	var (
		designer string
		amount   string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "payout",
		Short: "Record a cash payout to a designer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			in := service.PayoutInput{Designer: designer}
			if in.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if in.Date, err = parseOptionalDate(date); err != nil {
				return err
			}

			result, err := svc.RecordDesignerPayout(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Printf("Payout recorded (%s)\n", result.TxID)
			return nil
		},
	}

	cmd.Flags().StringVar(&designer, "designer", "", "designer name")
	cmd.Flags().StringVar(&amount, "amount", "", "payout amount")
	cmd.Flags().StringVar(&date, "date", "", "date as DD.MM.YYYY (default: today)")
	_ = cmd.MarkFlagRequired("designer")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
