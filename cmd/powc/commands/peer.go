package commands

import (
	"context"
	"encoding/json"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "manage the node's peers",
	Long:  "",
}

var peerRegisterCmd = &cobra.Command{
	Use:   "register <address>...",
	Short: "register peer addresses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().RegisterNodes(context.Background(), Address(), args)
		if err != nil {
			return err
		}
		if raw {
			return FormatOutput(resp)
		}

		var body struct {
			Message    string   `json:"message"`
			TotalNodes []string `json:"total_nodes"`
		}
		if err := json.Unmarshal(resp, &body); err != nil {
			return err
		}
		pterm.Success.Println(body.Message)
		return renderPeers(body.TotalNodes)
	},
}

var peerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list registered peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().GetNodes(context.Background(), Address())
		if err != nil {
			return err
		}
		if raw {
			return FormatOutput(resp)
		}

		var body struct {
			Nodes []string `json:"nodes"`
		}
		if err := json.Unmarshal(resp, &body); err != nil {
			return err
		}
		return renderPeers(body.Nodes)
	},
}

func init() {
	rootCmd.AddCommand(peerCmd)
	peerCmd.AddCommand(peerRegisterCmd)
	peerCmd.AddCommand(peerListCmd)
}

func renderPeers(peers []string) error {
	if len(peers) == 0 {
		pterm.Info.Println("No peers registered")
		return nil
	}

	items := make([]pterm.BulletListItem, 0, len(peers))
	for _, peer := range peers {
		items = append(items, pterm.BulletListItem{Level: 0, Text: peer})
	}
	return pterm.DefaultBulletList.WithItems(items).Render()
}
