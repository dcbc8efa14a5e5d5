package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// projectConfigFiles is the search order for project config files
var projectConfigFiles = []string{"proofgate.toml", "pg.toml"}

// ProjectConfig is the project-level TOML configuration
type ProjectConfig struct {
	Server    string `toml:"server"`
	Wallet    string `toml:"wallet,omitempty"`
	Token     string `toml:"token,omitempty"`
	MinAmount string `toml:"min_amount,omitempty"`
}

// GlobalConfig is the global configuration stored in ~/.proofgate/config.yaml
type GlobalConfig struct {
	Server string `yaml:"server"`
}

func createConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(createConfigInitCmd())
	cmd.AddCommand(createConfigShowCmd())

	return cmd
}

func createConfigInitCmd() *cobra.Command {
	var server string
	var wallet string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create config file",
		Long: `Create a proofgate.toml configuration file in the current directory.

This file stores the server URL and default wallet so repeated commands
do not need the flags.

EXAMPLES:
  # Create config with default server
  proofgate config init

  # Create config for a specific server and wallet
  proofgate config init --server https://proofgate.example.com --wallet 0xYourWallet

  # Overwrite existing config
  proofgate config init --force
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(server, wallet, force)
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "server URL")
	cmd.Flags().StringVar(&wallet, "wallet", "", "default wallet address")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config")

	return cmd
}

func createConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}
}

func runConfigInit(server, wallet string, force bool) error {
	configPath := "proofgate.toml"

	for _, name := range projectConfigFiles {
		if _, err := os.Stat(name); err == nil && !force {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", name)
		}
	}

	content := fmt.Sprintf(`# Proofgate project configuration

server = "%s"

# Default wallet for generate and list commands
wallet = "%s"

# Default minimum amount for proofs
# min_amount = "100"
`, server, wallet)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}

func runConfigShow() error {
	fmt.Println("Configuration sources (in order of precedence):")
	fmt.Println()

	fmt.Println("1. Command line flags")
	fmt.Println("   --server, --config")
	fmt.Println()

	fmt.Println("2. Environment variables")
	if env := os.Getenv("PROOFGATE_SERVER"); env != "" {
		fmt.Printf("   PROOFGATE_SERVER=%s\n", env)
	} else {
		fmt.Println("   PROOFGATE_SERVER=(not set)")
	}
	fmt.Println()

	fmt.Println("3. Local project config (proofgate.toml or pg.toml)")
	projectConfig, configPath, err := loadProjectConfig()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("   (not found)")
		} else {
			fmt.Printf("   Error: %v\n", err)
		}
	} else {
		fmt.Printf("   Loaded from: %s\n", configPath)
		if projectConfig.Server != "" {
			fmt.Printf("   server: %s\n", projectConfig.Server)
		}
		if projectConfig.Wallet != "" {
			fmt.Printf("   wallet: %s\n", projectConfig.Wallet)
		}
		if projectConfig.Token != "" {
			fmt.Printf("   token: %s\n", projectConfig.Token)
		}
		if projectConfig.MinAmount != "" {
			fmt.Printf("   min_amount: %s\n", projectConfig.MinAmount)
		}
	}
	fmt.Println()

	fmt.Println("4. Global config (~/.proofgate/config.yaml)")
	if global := loadGlobalConfigSilent(); global != nil && global.Server != "" {
		fmt.Printf("   server: %s\n", global.Server)
	} else {
		fmt.Println("   (not found)")
	}
	fmt.Println()

	fmt.Println("Effective configuration:")
	fmt.Printf("   Server: %s\n", getServer())
	if wallet := getDefaultWallet(); wallet != "" {
		fmt.Printf("   Wallet: %s\n", wallet)
	}

	return nil
}

// loadProjectConfig loads the project config from the first matching file.
func loadProjectConfig() (*ProjectConfig, string, error) {
	if cfgFile != "" {
		config, err := loadProjectConfigFromPath(cfgFile)
		if err != nil {
			return nil, cfgFile, err
		}
		return config, cfgFile, nil
	}

	for _, name := range projectConfigFiles {
		if _, err := os.Stat(name); err == nil {
			config, err := loadProjectConfigFromPath(name)
			if err != nil {
				return nil, name, err
			}
			return config, name, nil
		}
	}
	return nil, "", os.ErrNotExist
}

func loadProjectConfigFromPath(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config ProjectConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	return &config, nil
}

// loadProjectConfigSilent loads the project config, swallowing missing-file
// errors but warning on parse failures.
func loadProjectConfigSilent() *ProjectConfig {
	config, _, err := loadProjectConfig()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to load project config: %v\n", err)
		return nil
	}
	return config
}

func loadGlobalConfigSilent() *GlobalConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(home, ".proofgate", "config.yaml"))
	if err != nil {
		return nil
	}
	var config GlobalConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil
	}
	return &config
}

// getDefaultWallet returns the wallet from env or project config.
func getDefaultWallet() string {
	if env := os.Getenv("PROOFGATE_WALLET"); env != "" {
		return env
	}
	if config := loadProjectConfigSilent(); config != nil {
		return config.Wallet
	}
	return ""
}
