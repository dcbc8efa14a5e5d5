package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/proofgate/proofgate/pkg/client"
)

func createBalanceProofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance-proof",
		Short: "Storage-proof-backed balance proofs",
	}

	cmd.AddCommand(createBalanceProofGenerateCmd())
	cmd.AddCommand(createBalanceProofGetCmd())
	cmd.AddCommand(createBalanceProofListCmd())
	cmd.AddCommand(createBalanceProofDeleteCmd())

	return cmd
}

func createBalanceProofGenerateCmd() *cobra.Command {
	var wallet string
	var minBalance string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a shareable balance proof",
		Long: `Create a balance proof backed by an on-chain storage proof. No payment
is required; the result carries a share identifier for later lookup.

EXAMPLES:
  proofgate balance-proof generate --wallet 0xYourWallet --min-balance 100
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wallet == "" {
				wallet = getDefaultWallet()
			}
			return runBalanceProofGenerate(wallet, minBalance)
		},
	}

	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address to prove (default from config)")
	cmd.Flags().StringVar(&minBalance, "min-balance", "", "minimum balance to prove, in token units (required)")
	_ = cmd.MarkFlagRequired("min-balance")

	return cmd
}

func createBalanceProofGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <share-id>",
		Short: "Fetch a balance proof by share identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalanceProofGet(args[0])
		},
	}
}

func createBalanceProofListCmd() *cobra.Command {
	var wallet string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List balance proofs for a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if wallet == "" {
				wallet = getDefaultWallet()
			}
			return runBalanceProofList(wallet)
		},
	}

	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address (default from config)")

	return cmd
}

func createBalanceProofDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <share-id>",
		Short: "Delete a balance proof",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalanceProofDelete(args[0])
		},
	}
}

func runBalanceProofGenerate(wallet, minBalance string) error {
	if wallet == "" {
		return fmt.Errorf("no wallet given: pass --wallet or set one with 'proofgate config init'")
	}

	c := client.New(getServer())
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	proof, err := c.GenerateBalanceProof(ctx, client.BalanceProofRequest{
		WalletAddress: wallet,
		MinBalance:    minBalance,
	})
	if err != nil {
		return fmt.Errorf("generating balance proof: %w", err)
	}

	fmt.Println("Balance proof created")
	fmt.Printf("  Share ID: %s\n", proof.ShareID)
	fmt.Printf("  Claim:    %s\n", proof.ClaimText)
	fmt.Printf("  Balance:  %s\n", proof.Balance)
	fmt.Printf("  Block:    %d\n", proof.BlockNumber)

	return nil
}

func runBalanceProofGet(shareID string) error {
	c := client.New(getServer())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	proof, err := c.GetBalanceProof(ctx, shareID)
	if err != nil {
		return fmt.Errorf("fetching balance proof: %w", err)
	}

	fmt.Printf("Claim:        %s\n", proof.ClaimText)
	fmt.Printf("Balance:      %s\n", proof.BalanceUSDT)
	fmt.Printf("Min required: %s\n", proof.MinRequired)
	fmt.Printf("Block:        %d\n", proof.BlockNumber)
	fmt.Printf("Timestamp:    %s\n", proof.Timestamp)

	return nil
}

func runBalanceProofList(wallet string) error {
	if wallet == "" {
		return fmt.Errorf("no wallet given: pass --wallet or set one with 'proofgate config init'")
	}

	c := client.New(getServer())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	proofs, err := c.ListBalanceProofs(ctx, wallet)
	if err != nil {
		return fmt.Errorf("listing balance proofs: %w", err)
	}

	if len(proofs) == 0 {
		fmt.Println("No balance proofs found")
		return nil
	}

	for _, p := range proofs {
		fmt.Printf("%s  %s (block %d, %s)\n", p.ShareID, p.ClaimText, p.BlockNumber, p.Timestamp)
	}

	return nil
}

func runBalanceProofDelete(shareID string) error {
	c := client.New(getServer())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.DeleteBalanceProof(ctx, shareID); err != nil {
		return fmt.Errorf("deleting balance proof: %w", err)
	}

	fmt.Printf("Deleted %s\n", shareID)
	return nil
}
