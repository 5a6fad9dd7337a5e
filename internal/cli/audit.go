package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obryan/passage/internal/audit"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Work with the request log",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify the request log hash chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := audit.Verify(args[0])
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
		if !res.Valid {
			return fmt.Errorf("hash chain broken")
		}
		return nil
	},
}
