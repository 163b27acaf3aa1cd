package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nknorg/powledger/api/httpjson"
	"github.com/nknorg/powledger/api/websocket"
	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/node"
	"github.com/nknorg/powledger/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "powd",
	Version: config.Version,
	Short:   "powd - A proof of work ledger node",
	Long:    "",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := powMain(cmd.Flags()); err != nil {
			log.Error(err)
			return err
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&config.ConfigFile, "config", "", "config file name")
	rootCmd.Flags().StringVar(&config.LogPath, "log", "", "directory where your log file will be generated")
	rootCmd.Flags().StringVar(&config.SeedList, "seed", "", "Seed node address to register, multiple seeds should be split by comma")
	rootCmd.Flags().StringVar(&config.NodeIdentifier, "id", "", "node identifier receiving mining rewards (default: random)")
	rootCmd.Flags().IntVar(&config.Difficulty, "difficulty", -1, "number of leading zeros a proof hash needs (default: from config)")
	rootCmd.Flags().IntVar(&config.HttpJsonPort, "port", 0, "http json api port (default: from config)")
}

func powMain(flags *pflag.FlagSet) error {
	err := config.Init()
	if err != nil {
		return err
	}

	err = log.Init()
	if err != nil {
		return err
	}

	log.Infof("Node version: %v", config.Version)
	flags.Visit(func(flag *pflag.Flag) {
		log.Infof("Command line override --%s=%s", flag.Name, flag.Value)
	})

	localNode, err := node.NewLocalNode()
	if err != nil {
		return err
	}

	// start JsonRPC
	rpcServer := httpjson.NewServer(localNode.Ledger, localNode)
	if err := rpcServer.Start(); err != nil {
		return err
	}
	defer rpcServer.Stop()

	// start websocket server
	ws := websocket.NewServer()
	if err := ws.Start(); err != nil {
		return err
	}
	defer ws.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	localNode.Start(ctx)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChan
	log.Infof("Received %v, shutting down", sig)

	cancel()
	localNode.Wait()

	return nil
}
