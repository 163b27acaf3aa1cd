package commands

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/nknorg/powledger/api/httpjson/client"
	"github.com/nknorg/powledger/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Globals
var (
	ip      string
	port    string
	timeout uint
	raw     bool
)

var rootCmd = &cobra.Command{
	Use:     "powc",
	Version: config.Version,
	Short:   "powc - A cli tool for the proof of work ledger node",
	Long:    "",
}

// RootCmd function
func RootCmd() *cobra.Command {
	return rootCmd
}

// Execute function
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&ip, "ip", "localhost", "node's ip address")
	rootCmd.PersistentFlags().StringVar(&port, "port", strconv.Itoa(int(config.Parameters.HttpJsonPort)), "node's http json port")
	rootCmd.PersistentFlags().UintVar(&timeout, "timeout", 120, "request timeout in seconds, 0 for none")
	rootCmd.PersistentFlags().BoolVar(&raw, "raw", false, "print the raw json response")
}

// Address function
func Address() string {
	return "http://" + net.JoinHostPort(ip, port)
}

func newClient() *client.Client {
	return client.NewClient(time.Duration(timeout)*time.Second, config.Parameters.GetMaxChainResponseBytes())
}

// FormatOutput function
func FormatOutput(o []byte) error {
	var out bytes.Buffer
	err := json.Indent(&out, o, "", "\t")
	if err != nil {
		return err
	}
	out.Write([]byte("\n"))
	_, err = out.WriteTo(os.Stdout)

	return err
}

// printMessage prints the "message" field of a response, or the whole
// response with --raw.
func printMessage(resp []byte) error {
	if raw {
		return FormatOutput(resp)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp, &body); err != nil {
		return err
	}
	pterm.Success.Println(body.Message)

	return nil
}
