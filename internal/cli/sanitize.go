package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obryan/passage/internal/preserve"
)

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [text]",
	Short: "Strip unsafe HTML tags from text",
	Long:  "Removes tags not on the safe formatting allow-list.\nEnclosed text is kept; no backend is contacted.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := argOrStdin(args)
		if err != nil {
			return err
		}
		fmt.Println(preserve.Sanitize(text))
		return nil
	},
}
