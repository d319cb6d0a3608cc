package cmd

import (
	"github.com/spf13/cobra"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode [input] [output]",
	Short: "Encode a YAML document to a binary FRU image",
	Long: `Encode a YAML document to a binary FRU image, regardless of content.

Example:
  frukit encode image.yml image.bin`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(args, 0)
		if err != nil {
			return err
		}
		out, err := encodeFromYaml(in, policyFromFlags(cmd))
		if err != nil {
			return err
		}
		return writeOutput(out, true, args, 1)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
