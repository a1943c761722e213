package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

func orderCmd() *cobra.Command {
	var (
		designer string
		client   string
		amount   string
		percent  string
		salary   string
		paid     string
		wallet   string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Record a new order",
		Long: `Record an order across the ledger sheets. With --designer the pay model is
taken from --percent or --salary; without it the order is pure and the full
amount accrues to the agency.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			in := service.OrderInput{
				Designer: designer,
				Client:   client,
				Wallet:   model.WalletPolicy(wallet),
			}
			if in.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if in.Paid, err = parseOptionalAmount("paid", paid); err != nil {
				return err
			}
			if in.Date, err = parseOptionalDate(date); err != nil {
				return err
			}

			switch {
			case salary != "":
				in.Model = model.ModelSalary
				if in.Salary, err = parseAmount("salary", salary); err != nil {
					return err
				}
			default:
				in.Model = model.ModelPercent
				if in.Percent, err = parseOptionalAmount("percent", percent); err != nil {
					return err
				}
			}

			result, err := svc.CreateOrder(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Printf("Order recorded (%s)\n", result.TxID)
			fmt.Printf("  debt:              %s\n", result.Financials.Debt)
			fmt.Printf("  designer earnings: %s\n", result.Financials.DesignerEarnings)
			fmt.Printf("  agency income:     %s\n", result.Financials.AgencyIncome)
			return nil
		},
	}

	cmd.Flags().StringVar(&designer, "designer", "", "designer name (empty for a pure order)")
	cmd.Flags().StringVar(&client, "client", "", "client name")
	cmd.Flags().StringVar(&amount, "amount", "", "order amount")
	cmd.Flags().StringVar(&percent, "percent", "", "designer share, e.g. 40 or 0.4")
	cmd.Flags().StringVar(&salary, "salary", "", "fixed designer pay (selects the salary model)")
	cmd.Flags().StringVar(&paid, "paid", "", "amount already paid")
	cmd.Flags().StringVar(&wallet, "wallet", "operational", "wallet policy: operational, reserve, even")
	cmd.Flags().StringVar(&date, "date", "", "order date as DD.MM.YYYY (default: today)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, raw)
	}
	return d, nil
}

func parseOptionalAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseAmount(field, raw)
}

func parseOptionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, ok := model.ParseDate(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD.MM.YYYY", raw)
	}
	return t, nil
}
