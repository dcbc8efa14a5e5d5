package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/proofgate/proofgate/pkg/client"
)

func createNetworkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Show which network the server talks to",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(getServer())
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			info, err := c.Network(ctx)
			if err != nil {
				return fmt.Errorf("fetching network info: %w", err)
			}

			fmt.Printf("Network:  %s\n", info.Network)
			fmt.Printf("Node env: %s\n", info.NodeEnv)
			fmt.Printf("Message:  %s\n", info.Message)
			return nil
		},
	}
}

func createHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(getServer())
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			health, err := c.Health(ctx)
			if err != nil {
				return fmt.Errorf("fetching health: %w", err)
			}

			fmt.Printf("Status:            %s\n", health.Status)
			fmt.Printf("Network:           %s\n", health.Network)
			fmt.Printf("Prover configured: %t\n", health.SP1Configured)
			fmt.Printf("Wallet configured: %t\n", health.WalletConfigured)
			if health.Message != "" {
				fmt.Printf("Message:           %s\n", health.Message)
			}
			return nil
		},
	}
}
