/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cortex-be",
	Short: "Retrieval augmented chat backend",
	Long: `cortex-be is the backend for a retrieval augmented chatbot.

It ingests documents and web pages into a vector store and answers
questions grounded in the ingested content. Run "start" to serve the
HTTP API, "ingest" to load a file from the command line, or "reinit"
to rebuild the vector store schema.`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
}
