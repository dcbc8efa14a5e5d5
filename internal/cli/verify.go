package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/proofgate/proofgate/pkg/client"
)

func createVerifyCmd() *cobra.Command {
	var proof string
	var proofFile string
	var publicInputs string
	var wallet string
	var token string
	var minAmount string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a presented proof artifact",
		Long: `Verify a proof of balance against the server.

The proof can be passed inline or read from a file.

EXAMPLES:
  proofgate verify --proof 0xabc... --public-inputs 0xdef... \
      --wallet 0xYourWallet --token 0xTokenContract

  proofgate verify --proof-file proof.hex --public-inputs 0xdef... \
      --wallet 0xYourWallet --token 0xTokenContract
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if proofFile != "" {
				data, err := os.ReadFile(proofFile)
				if err != nil {
					return fmt.Errorf("reading proof file: %w", err)
				}
				proof = strings.TrimSpace(string(data))
			}
			return runVerify(proof, publicInputs, wallet, token, minAmount)
		},
	}

	cmd.Flags().StringVar(&proof, "proof", "", "hex-encoded proof")
	cmd.Flags().StringVar(&proofFile, "proof-file", "", "file containing the hex-encoded proof")
	cmd.Flags().StringVar(&publicInputs, "public-inputs", "", "hex-encoded public inputs (required)")
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address the proof is about (required)")
	cmd.Flags().StringVar(&token, "token", "", "token contract address (required)")
	cmd.Flags().StringVar(&minAmount, "min-amount", "", "minimum amount claimed")
	_ = cmd.MarkFlagRequired("public-inputs")
	_ = cmd.MarkFlagRequired("wallet")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func runVerify(proof, publicInputs, wallet, token, minAmount string) error {
	if proof == "" {
		return fmt.Errorf("no proof given: pass --proof or --proof-file")
	}

	c := client.New(getServer())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := c.VerifyProof(ctx, client.VerifyProofRequest{
		Proof:        proof,
		PublicInputs: publicInputs,
		Wallet:       wallet,
		MinAmount:    minAmount,
		Token:        token,
	})
	if err != nil {
		return fmt.Errorf("verifying proof: %w", err)
	}

	if result.IsValid {
		fmt.Printf("VALID: %s\n", result.Message)
		return nil
	}

	fmt.Printf("INVALID: %s\n", result.Message)
	os.Exit(1)
	return nil
}
