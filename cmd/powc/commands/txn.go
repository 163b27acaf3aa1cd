package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    uint64
)

var txnCmd = &cobra.Command{
	Use:   "txn",
	Short: "submit a transaction",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().NewTransaction(context.Background(), Address(), sender, recipient, amount)
		if err != nil {
			return err
		}
		return printMessage(resp)
	},
}

func init() {
	rootCmd.AddCommand(txnCmd)

	txnCmd.Flags().StringVarP(&sender, "sender", "s", "", "sender of the transfer")
	txnCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "recipient of the transfer")
	txnCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "amount to transfer")
	txnCmd.MarkFlagRequired("sender")
	txnCmd.MarkFlagRequired("recipient")
	txnCmd.MarkFlagRequired("amount")
}
