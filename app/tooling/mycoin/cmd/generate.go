package cmd

import (
	"fmt"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var keyPath string

// generateCmd creates the private key a node uses for its miner account.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new miner key",
	RunE: func(cmd *cobra.Command, args []string) error {
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			return err
		}
		if err := crypto.SaveECDSA(keyPath, privateKey); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), database.PublicKeyToAccountID(privateKey.PublicKey))
		return nil
	},
}

// accountCmd prints the miner account for a private key.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the miner account of a key",
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := database.LoadAccountID(keyPath)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), account)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(accountCmd)
	generateCmd.Flags().StringVarP(&keyPath, "key", "k", "miner.ecdsa", "Path to the private key.")
	accountCmd.Flags().StringVarP(&keyPath, "key", "k", "miner.ecdsa", "Path to the private key.")
}
