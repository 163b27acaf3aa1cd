package commands

import (
	"context"
	"encoding/json"

	"github.com/nknorg/powledger/block"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "mine a block holding the pending transactions",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, _ := pterm.DefaultSpinner.Start("Mining a new block ...")
		resp, err := newClient().Mine(context.Background(), Address())
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success("Mined")

		if raw {
			return FormatOutput(resp)
		}

		var mined struct {
			Message string `json:"message"`
			block.Block
		}
		if err := json.Unmarshal(resp, &mined); err != nil {
			return err
		}
		pterm.Success.Printfln("%s: index %d, proof %d, %d transactions", mined.Message, mined.Index, mined.Proof, len(mined.Transactions))
		pterm.Info.Printfln("Previous hash: %s", mined.PreviousHash)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
