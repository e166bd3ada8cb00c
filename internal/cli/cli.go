// Package cli implements the command-line interface for finwarehouse.
package cli

import (
	"github.com/spf13/cobra"

	"finwarehouse/internal/config"
	"finwarehouse/internal/logging"
	"finwarehouse/internal/warehouse"
	"finwarehouse/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	driver   string
	dsn      string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "finwarehouse",
		Short: "Financial data warehouse tutorial toolkit",
		Long: `finwarehouse is a CLI tool that builds a small financial data
warehouse for learning and experimentation. It creates the schema,
generates referentially consistent sample data (customers, merchants,
accounts and transactions), and provides a SQL runner plus a canned
analytics dashboard on top.

PostgreSQL and Snowflake are supported as warehouse backends.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./finwarehouse.yaml)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "",
		"warehouse driver (postgres, snowflake)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "",
		"warehouse connection string (postgres driver)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if driver != "" {
		cfg.Warehouse.Driver = driver
	}
	if dsn != "" {
		cfg.Warehouse.DSN = dsn
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List tutorial SQL queries",
	Long: `List the tutorial queries that demonstrate the warehouse schema.
Each can be run verbatim with 'finwarehouse query'.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, ex := range warehouse.ExampleQueries() {
			cmd.Println(titleColor(ex.Title))
			cmd.Println("  " + ex.Description)
			cmd.Println()
			cmd.Println("  " + ex.Query)
			cmd.Println()
		}
	},
}
