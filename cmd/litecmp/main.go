// Command litecmp renders component templates from the command line.
//
//	litecmp render page.html --props props.yaml
//	litecmp version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "litecmp",
		Short:         "Render litecmp component templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./litecmp.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("key-attr", "", "attribute stamped on keyed list items")

	root.AddCommand(
		renderCmd(&cfgFile),
		versionCmd(),
	)
	return root
}
