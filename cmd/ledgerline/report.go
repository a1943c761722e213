package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Read-side views over the ledger",
	}
	cmd.AddCommand(debtsCmd())
	cmd.AddCommand(earningsCmd())
	cmd.AddCommand(expensesReportCmd())
	cmd.AddCommand(payoutsReportCmd())
	cmd.AddCommand(designersCmd())
	cmd.AddCommand(dashboardCmd())
	return cmd
}

func periodFlag(cmd *cobra.Command, period *string) {
	cmd.Flags().StringVar(period, "period", "all", "period: today, week, month, all")
}

func resolvePeriod(period string) model.DateRange {
	return model.RangeForPeriod(model.Period(period), time.Now())
}

func debtsCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Clients with outstanding debt, worst first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			debts, err := svc.Views().ClientsWithDebt(cmd.Context(), resolvePeriod(period))
			if err != nil {
				return err
			}
			if len(debts) == 0 {
				fmt.Println("No outstanding debt.")
				return nil
			}
			for _, entry := range debts {
				fmt.Printf("%-24s debt %10s  (%d orders, %s billed, %s paid)\n",
					entry.Client, entry.Debt, entry.Orders, entry.TotalAmount, entry.TotalPaid)
			}
			return nil
		},
	}
	periodFlag(cmd, &period)
	return cmd
}

func designersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "designers",
		Short: "Every known designer, from the registry and the order sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			designers, err := svc.Views().AllDesigners(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range designers {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func earningsCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "earnings",
		Short: "Designer earnings over a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			earnings, err := svc.Views().DesignersWithEarnings(cmd.Context(), resolvePeriod(period))
			if err != nil {
				return err
			}
			for _, entry := range earnings {
				fmt.Printf("%-24s %10s  (%d orders, %s billed)\n",
					entry.Designer, entry.Earnings, entry.Orders, entry.TotalAmount)
			}
			return nil
		},
	}
	periodFlag(cmd, &period)
	return cmd
}

func expensesReportCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Expenses grouped by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			totals, err := svc.Views().ExpensesByCategory(ctx, resolvePeriod(period))
			if err != nil {
				return err
			}
			for _, entry := range totals {
				fmt.Printf("%-24s %10s  (%d entries)\n", entry.Category, entry.Total, entry.Count)
			}

			grand, err := svc.Views().TotalExpenses(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-24s %10s\n", "TOTAL (all time)", grand)
			return nil
		},
	}
	periodFlag(cmd, &period)
	return cmd
}

func payoutsReportCmd() *cobra.Command {
	var (
		designer string
		period   string
	)
	cmd := &cobra.Command{
		Use:   "payouts",
		Short: "Recorded designer payouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			payouts, err := svc.Views().DesignerPayments(cmd.Context(), designer, resolvePeriod(period))
			if err != nil {
				return err
			}
			for _, entry := range payouts {
				fmt.Printf("%s  %-24s %10s\n", entry.Date, entry.Designer, entry.Amount)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&designer, "designer", "", "filter to one designer")
	periodFlag(cmd, &period)
	return cmd
}

func dashboardCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "One-screen financial summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}

			dash, err := svc.Views().Summary(cmd.Context(), resolvePeriod(period))
			if err != nil {
				return err
			}

			fmt.Printf("Operational wallet: %s\n", dash.BalanceOp)
			fmt.Printf("Reserve wallet:     %s\n", dash.BalanceRes)
			fmt.Printf("Revenue:            %s\n", dash.Revenue)
			fmt.Printf("Expenses:           %s\n", dash.Expenses)
			fmt.Printf("Profit:             %s (margin %s%%)\n", dash.Profit, dash.Margin.Round(1))
			fmt.Printf("Outstanding debt:   %s across %d clients\n", dash.TotalDebt, dash.Debtors)
			fmt.Printf("Total expenses:     %s\n", dash.TotalExpenses)
			return nil
		},
	}
	periodFlag(cmd, &period)
	return cmd
}
