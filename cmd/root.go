// Package cmd contains the CLI commands for cubeplan
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethpandaops/cubeplan/pkg/observability"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Global vars needed for cobra CLI
var (
	cfgFile     string
	metricsAddr string
	logger      *logrus.Logger
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "cubeplan",
	Short: "Cube query planner for chart and crosstab report items",
	Long: `cubeplan compiles chart containers of a report design into cube query plans
and resolves crosstab header groups and row spans over edge cursors.`,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := observability.StopMetricsServer(ctx); err != nil {
			logger.WithError(err).Warn("Failed to stop metrics server")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cubeplan.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs")

	// Initialize logger
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "./cubeplan.yaml"
	}

	// Set log level
	logLevel, err := rootCmd.PersistentFlags().GetString("log-level")
	if err != nil {
		logLevel = "info" // Default to info if error
	}
	level, parseErr := logrus.ParseLevel(logLevel)
	if parseErr != nil {
		logger.WithError(parseErr).Warn("Invalid log level, defaulting to info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if metricsAddr != "" {
		observability.StartMetricsServer(logger, metricsAddr)
	}
}
