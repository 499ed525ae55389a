// Command budgetctl is a terminal client for the BudgetWise API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"budgetwise/internal/logger"
)

const defaultAPIURL = "http://localhost:8080"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "budgetctl",
		Short: "Manage BudgetWise budgets from the terminal",
		Long: `budgetctl talks to a BudgetWise API server: log in, import bank CSV
exports and check how your budgets are doing.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/budgetwise/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", defaultAPIURL, "BudgetWise API base URL")
	rootCmd.PersistentFlags().String("session-file", "", "where the login session is kept (default: $HOME/.config/budgetwise/session.json)")
	rootCmd.PersistentFlags().String("log-env", "production", "logger mode (production, development)")

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("session_file", rootCmd.PersistentFlags().Lookup("session-file"))
	_ = viper.BindPFlag("log_env", rootCmd.PersistentFlags().Lookup("log-env"))

	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(passwordCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(dashboardCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "budgetwise"), nil
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BUDGETWISE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if viper.GetString("session_file") == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		viper.Set("session_file", filepath.Join(dir, "session.json"))
	}

	logger.Init(viper.GetString("log_env"))
	return nil
}
