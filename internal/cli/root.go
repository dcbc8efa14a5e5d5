// Package cli implements the proofgate command line client.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	serverURL string
)

// Execute runs the CLI
func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:     "proofgate",
		Short:   "Proof of balance CLI",
		Long:    `Proofgate is a CLI for issuing, sharing, and verifying proofs of token balance.`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: proofgate.toml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default from config)")

	rootCmd.AddCommand(createGenerateCmd())
	rootCmd.AddCommand(createBalanceProofCmd())
	rootCmd.AddCommand(createVerifyCmd())
	rootCmd.AddCommand(createNetworkCmd())
	rootCmd.AddCommand(createHealthCmd())
	rootCmd.AddCommand(createConfigCmd())

	return rootCmd.Execute()
}

// getServer returns the server URL from flag, env, config file, or default
func getServer() string {
	// 1. Command line flag
	if serverURL != "" {
		return serverURL
	}

	// 2. Environment variable
	if env := os.Getenv("PROOFGATE_SERVER"); env != "" {
		return env
	}

	// 3. Project config file (TOML)
	if config := loadProjectConfigSilent(); config != nil && config.Server != "" {
		return config.Server
	}

	// 4. Global config (~/.proofgate/config.yaml)
	if global := loadGlobalConfigSilent(); global != nil && global.Server != "" {
		return global.Server
	}

	// 5. Default
	return "http://localhost:8080"
}
