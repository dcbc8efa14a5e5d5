package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/proofgate/proofgate/pkg/client"
)

func createGenerateCmd() *cobra.Command {
	var wallet string
	var token string
	var minAmount string
	var txHash string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Issue a payment-gated proof of balance",
		Long: `Issue a zero-knowledge proof that a wallet holds at least a minimum
token balance. Requires a confirmed payment transaction to the backend
wallet; pass its hash with --tx-hash.

EXAMPLES:
  proofgate generate --wallet 0xYourWallet --token 0xTokenContract \
      --min-amount 100 --tx-hash 0xPaymentTx
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wallet == "" {
				wallet = getDefaultWallet()
			}
			return runGenerate(wallet, token, minAmount, txHash)
		},
	}

	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address to prove (default from config)")
	cmd.Flags().StringVar(&token, "token", "", "token contract address (required)")
	cmd.Flags().StringVar(&minAmount, "min-amount", "", "minimum balance to prove, in token units (required)")
	cmd.Flags().StringVar(&txHash, "tx-hash", "", "payment transaction hash (required)")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("min-amount")
	_ = cmd.MarkFlagRequired("tx-hash")

	return cmd
}

func runGenerate(wallet, token, minAmount, txHash string) error {
	if wallet == "" {
		return fmt.Errorf("no wallet given: pass --wallet or set one with 'proofgate config init'")
	}

	c := client.New(getServer())

	// Live proving can take a while
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fmt.Printf("Generating proof for %s (min %s)...\n", wallet, minAmount)

	proof, err := c.GenerateProof(ctx, client.GenerateProofRequest{
		Wallet:    wallet,
		Token:     token,
		MinAmount: minAmount,
		TxHash:    txHash,
	})
	if err != nil {
		return fmt.Errorf("generating proof: %w", err)
	}

	fmt.Println()
	fmt.Println("Proof issued")
	fmt.Printf("  Wallet:            %s\n", proof.Wallet)
	fmt.Printf("  Token:             %s\n", proof.Token)
	fmt.Printf("  Min amount:        %s\n", proof.MinAmount)
	fmt.Printf("  Network:           %s\n", proof.Network)
	fmt.Printf("  Prover mode:       %s\n", proof.ProverMode)
	fmt.Printf("  Verification code: %s\n", proof.VerificationCode)
	fmt.Printf("  Proof:             %s\n", abbreviate(proof.Proof))
	fmt.Printf("  Public inputs:     %s\n", abbreviate(proof.PublicInputs))

	return nil
}

// abbreviate shortens long hex strings for terminal output
func abbreviate(s string) string {
	if len(s) <= 42 {
		return s
	}
	return s[:20] + "..." + s[len(s)-18:]
}
