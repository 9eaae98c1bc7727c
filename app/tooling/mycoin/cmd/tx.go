package cmd

import (
	"net/http"

	"github.com/ardanlabs/mycoin/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var (
	sender   string
	receiver string
	amount   float64
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Add a transaction to the node's mempool",
	RunE: func(cmd *cobra.Command, args []string) error {
		ntx := public.NewTx{
			Sender:   sender,
			Receiver: receiver,
			Amount:   &amount,
		}
		return call(cmd.OutOrStdout(), http.MethodPost, "/v1/tx/add", ntx)
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the transactions waiting to be mined",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/v1/tx/pending", nil)
	},
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.Flags().StringVarP(&sender, "sender", "s", "", "Account sending the amount.")
	txCmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Account receiving the amount.")
	txCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
	txCmd.MarkFlagRequired("sender")
	txCmd.MarkFlagRequired("receiver")
	txCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(pendingCmd)
}
