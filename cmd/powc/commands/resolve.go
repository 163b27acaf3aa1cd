package commands

import (
	"context"
	"encoding/json"

	"github.com/nknorg/powledger/block"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "adopt the longest valid chain among the node's peers",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, _ := pterm.DefaultSpinner.Start("Resolving against peers ...")
		resp, err := newClient().Resolve(context.Background(), Address())
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success("Resolved")

		if raw {
			return FormatOutput(resp)
		}

		var body struct {
			Message  string         `json:"message"`
			NewChain []*block.Block `json:"new_chain"`
			Chain    []*block.Block `json:"chain"`
		}
		if err := json.Unmarshal(resp, &body); err != nil {
			return err
		}
		pterm.Success.Println(body.Message)

		blocks := body.Chain
		if body.NewChain != nil {
			blocks = body.NewChain
		}
		return renderChain(block.NewChain(blocks...))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
