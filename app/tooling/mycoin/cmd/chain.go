package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's blockchain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/v1/chain", nil)
	},
}

var validCmd = &cobra.Command{
	Use:   "valid",
	Short: "Ask the node to validate its blockchain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/v1/valid", nil)
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a new block",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/v1/mine", nil)
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(validCmd)
	rootCmd.AddCommand(mineCmd)
}
