/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/frukit/pkg/fru"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "frukit",
	Short: "frukit - IPMI FRU codec and inventory tooling",
	Long: `frukit converts IPMI FRU binary inventory images to and from YAML,
serves the conversion as a REST API, and keeps a small image inventory.`,
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
	rootCmd.PersistentFlags().Bool("strict", false, "Abort on forbidden-but-recoverable conditions instead of continuing")
}

// policyFromFlags returns the codec policy selected by --strict.
func policyFromFlags(cmd *cobra.Command) fru.Policy {
	strict, _ := cmd.Flags().GetBool("strict")
	if strict {
		return fru.Strict()
	}
	return fru.Tolerant()
}
