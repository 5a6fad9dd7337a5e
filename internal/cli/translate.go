package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obryan/passage/internal/config"
	"github.com/obryan/passage/internal/provider"
)

var (
	translateSource   string
	translateTarget   string
	translateSanitize bool
)

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVar(&translateSource, "source", "auto", "Source language code")
	translateCmd.Flags().StringVar(&translateTarget, "target", "", "Target language code (required)")
	translateCmd.Flags().BoolVar(&translateSanitize, "sanitize", false, "Strip unsafe HTML tags from the result")
	translateCmd.MarkFlagRequired("target")
}

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate one text from the command line",
	Long:  "Translates the argument, or stdin when no argument is given.\nMarkup and colons survive the trip through the backend.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text, err := argOrStdin(args)
	if err != nil {
		return err
	}

	source, err := provider.ParseTag(translateSource)
	if err != nil {
		return err
	}
	target, err := provider.ParseTag(translateTarget)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	translator, cleanup, err := buildTranslator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer cleanup()

	out, err := translator.Translate(ctx, provider.Request{
		Text:   text,
		Source: source,
		Target: target,
	})
	if err != nil {
		return err
	}

	result := out.Text
	if translateSanitize {
		result = translator.SanitizeText(result)
	}
	fmt.Println(result)
	return nil
}

// argOrStdin returns the single argument, or stdin when none was given.
func argOrStdin(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
