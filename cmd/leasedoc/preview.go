package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leasedoc/internal/capabilities"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/service/llm"
	"leasedoc/internal/service/prompt"
)

var previewGenerate bool

var previewCmd = &cobra.Command{
	Use:   "preview <document-type> <form.json>",
	Short: "Print the generation prompt for a form, optionally generating the document",
	Long: `Builds the prompt that POST /api/documents would send for the given form data.
With --generate the prompt is sent to the configured generation provider and the
document text is printed instead. Nothing is stored.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		docType, err := models.ParseDocumentType(args[0])
		if err != nil {
			return fmt.Errorf("%w (supported: %v)", err, models.DocumentTypes)
		}

		raw, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read form data: %w", err)
		}

		form, err := models.DecodeFormData(docType, raw)
		if err != nil {
			return err
		}

		userPrompt, err := prompt.Build(form)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !previewGenerate {
			fmt.Fprintln(out, userPrompt)
			return nil
		}

		registry, err := capabilities.NewRegistry()
		if err != nil {
			return err
		}
		client, err := llm.NewGenerationClient(cfg, registry, logger)
		if err != nil {
			return err
		}

		content, err := client.Complete(cmd.Context(), llm.SystemPrompt, userPrompt)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s\n\n%s\n", form.Title(), content)
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewGenerate, "generate", false, "send the prompt to the generation provider")
	rootCmd.AddCommand(previewCmd)
}
