/*
Copyright © 2025 pustakalab
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pustaka-be",
	Short: "Curation and ingestion backend for the Pustaka knowledge base",
	Long: `pustaka-be runs the curation and ingestion pipeline behind the
Pustaka knowledge base: contributors submit documents, curators approve or
reject them, approved content is chunked, embedded and indexed, and the
search API answers filtered similarity queries with full provenance.`,
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
