package commands

import (
	"context"
	"strconv"
	"time"

	"github.com/nknorg/powledger/block"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "show the node's chain",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().FetchChain(context.Background(), Address())
		if err != nil {
			return err
		}
		if raw {
			return FormatOutput(resp)
		}

		c, err := block.DecodeChain(resp)
		if err != nil {
			return err
		}
		return renderChain(c)
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func renderChain(c *block.Chain) error {
	data := pterm.TableData{{"Index", "Time", "Proof", "Previous hash", "Transactions"}}
	for _, b := range c.Blocks() {
		data = append(data, []string{
			strconv.FormatUint(b.Index, 10),
			time.Unix(b.Timestamp, 0).UTC().Format(time.RFC3339),
			strconv.FormatUint(b.Proof, 10),
			b.PreviousHash,
			strconv.Itoa(len(b.Transactions)),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("Chain length: %d", c.Len())

	return nil
}
