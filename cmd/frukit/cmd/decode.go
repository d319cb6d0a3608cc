package cmd

import (
	"github.com/spf13/cobra"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [input] [output]",
	Short: "Decode a binary FRU image to YAML",
	Long: `Decode a binary FRU image to YAML, regardless of content.

Example:
  frukit decode image.bin image.yml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(args, 0)
		if err != nil {
			return err
		}
		out, err := decodeToYaml(in, policyFromFlags(cmd))
		if err != nil {
			return err
		}
		return writeOutput(out, false, args, 1)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
