package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// orderCmd groups order log commands
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Inspect the order log",
}

var orderGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one order as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		o, err := a.orders.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	},
}

func init() {
	orderCmd.AddCommand(orderGetCmd)
	rootCmd.AddCommand(orderCmd)
}
