package cmd

import (
	"net/http"

	"github.com/ardanlabs/mycoin/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect [node...]",
	Short: "Connect the node to other nodes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodPost, "/v1/node/connect", public.NewNodes{Nodes: args})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Replace the node's chain with the longest chain of its peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/v1/reconcile", nil)
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(reconcileCmd)
}
