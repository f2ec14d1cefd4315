package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecommerce-api",
	Short: "E-commerce API for users, products and orders",
	Long: `ecommerce-api serves the users, authentication, product catalog and order
endpoints over HTTP, backed by PostgreSQL (or SQLite for local work) and an
optional Redis for caching, rate limiting and order events.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}
