package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/service"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "ledgerline",
		Short: "Conversational ledger over a shared spreadsheet",
		Long: `ledgerline keeps a design agency's finances in the spreadsheet the team
already lives in: orders, client payments, expenses and designer payouts land
as correlated rows across the ledger sheets, and the aggregate views read
them back out.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/ledgerline/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(orderCmd())
	rootCmd.AddCommand(paymentCmd())
	rootCmd.AddCommand(expenseCmd())
	rootCmd.AddCommand(incomeCmd())
	rootCmd.AddCommand(payoutCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(clientsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/ledgerline", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LEDGERLINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine, environment and defaults carry it.
	}

	level, err := common.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("log.format"))
}

// buildService wires the full stack: config, Google Sheets store, table
// registry, and the operation service on top.
func buildService(ctx context.Context) (*service.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	registry, err := layout.NewRegistry(cfg.SheetNames)
	if err != nil {
		return nil, err
	}

	store, err := sheetstore.NewGoogleStore(ctx, cfg.Sheets, slog.Default())
	if err != nil {
		return nil, err
	}

	return service.New(store, registry, slog.Default()), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("ledgerline %s\n", version)
		},
	}
}
