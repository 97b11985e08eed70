package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leasedoc/internal/service/signature"
)

var webhookSecret string

var signWebhookCmd = &cobra.Command{
	Use:   "sign-webhook <payload-file>",
	Short: "Print the signature header for a webhook payload",
	Long: `Computes the HMAC-SHA256 signature the webhook endpoint expects for the raw
bytes of payload-file, using SIGNATURE_WEBHOOK_SECRET unless --secret is given.
Useful for replaying provider callbacks with curl.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := webhookSecret
		if secret == "" {
			secret = cfg.SignatureWebhookSecret
		}
		if secret == "" {
			return errors.New("no webhook secret: set SIGNATURE_WEBHOOK_SECRET or pass --secret")
		}

		verifier, err := signature.NewVerifier(secret)
		if err != nil {
			return err
		}

		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", signature.SignatureHeader, verifier.Sign(body))
		return nil
	},
}

func init() {
	signWebhookCmd.Flags().StringVar(&webhookSecret, "secret", "", "webhook secret (overrides SIGNATURE_WEBHOOK_SECRET)")
	rootCmd.AddCommand(signWebhookCmd)
}
