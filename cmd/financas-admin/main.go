package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"financas/internal/backend"
	"financas/internal/cli"
	"financas/internal/config"
	"financas/internal/log"
)

var (
	appCfg  *config.Config
	rootCmd = &cobra.Command{
		Use:   "financas-admin",
		Short: "Operator tasks for the financas dashboard",
		Long: `financas-admin runs the chores that have no screen in the dashboard:
schema migrations, client activation, payment method seeding, report export
and development tokens.

Settings come from the same environment as the server. Flags and FINANCAS_*
variables override them.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().String("backend", "", "data backend (memory, sqlite, postgres)")
	rootCmd.PersistentFlags().String("sqlite-path", "", "SQLite database file")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection URL")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("sqlite_path", rootCmd.PersistentFlags().Lookup("sqlite-path"))
	_ = viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(clientsCmd())
	rootCmd.AddCommand(paymentMethodsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(tokenCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig layers FINANCAS_* variables and flags over the server config.
func initConfig(_ *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	cfg := config.Load()

	viper.SetEnvPrefix("FINANCAS")
	viper.AutomaticEnv()

	if v := viper.GetString("backend"); v != "" {
		cfg.DataBackend = v
	}
	if v := viper.GetString("sqlite_path"); v != "" {
		cfg.SQLiteDBPath = v
	}
	if v := viper.GetString("database_url"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.ValidateStore(); err != nil {
		return err
	}
	cli.SetupLogger(cfg.LogLevel, log.ComponentApp)
	appCfg = cfg
	return nil
}

// openBackend opens the configured store without an event publisher: admin
// changes are not journaled.
func openBackend(ctx context.Context) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(appCfg)
	if err != nil {
		return nil, err
	}
	bcfg.AMQPURL = ""
	result, err := backend.NewFactory(nil).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}
	if appCfg.DataBackend == string(backend.MemoryBackend) {
		fmt.Fprintln(os.Stderr, "warning: the memory backend starts empty and is discarded on exit")
	}
	return result, nil
}
