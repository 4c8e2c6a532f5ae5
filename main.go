package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "actordir",
		Short: "Federated identity directory with WebFinger discovery",
		Long: `actordir mints ActivityPub actors with RSA signing keys, stores them and
answers WebFinger lookups so other federated servers can find them.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(
		serveCmd(),
		loadtestCmd(),
		seedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
