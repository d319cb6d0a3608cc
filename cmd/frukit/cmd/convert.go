package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ssargent/frukit/pkg/fru"
	"github.com/ssargent/frukit/pkg/fruyml"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert between binary FRU and YAML, direction chosen by content",
	Long: `Convert between binary FRU images and YAML. An input starting with
the FRU version byte (1) is decoded to YAML; anything else is loaded as
YAML and encoded to binary. Omitted arguments mean stdin and stdout.

Example:
  frukit convert image.bin image.yml
  frukit convert image.yml image.bin
  cat image.bin | frukit convert`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(args, 0)
		if err != nil {
			return err
		}
		if len(in) == 0 {
			return errors.New("empty input")
		}

		policy := policyFromFlags(cmd)
		var (
			out      []byte
			isBinary bool
		)
		if in[0] == 1 {
			out, err = decodeToYaml(in, policy)
		} else {
			out, err = encodeFromYaml(in, policy)
			isBinary = true
		}
		if err != nil {
			return err
		}
		return writeOutput(out, isBinary, args, 1)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func decodeToYaml(data []byte, policy fru.Policy) ([]byte, error) {
	tree, err := fru.Decode(data, policy)
	if err != nil {
		return nil, err
	}
	return fruyml.Dump(tree)
}

func encodeFromYaml(data []byte, policy fru.Policy) ([]byte, error) {
	tree, err := fruyml.Load(data)
	if err != nil {
		return nil, err
	}
	return fru.Encode(tree, policy)
}

// readInput reads from args[idx] when present, stdin otherwise.
func readInput(args []string, idx int) ([]byte, error) {
	if len(args) > idx {
		data, err := os.ReadFile(args[idx])
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// writeOutput writes to args[idx] when present, stdout otherwise. Binary
// data is never written to a terminal.
func writeOutput(data []byte, isBinary bool, args []string, idx int) error {
	if len(args) > idx {
		if err := os.WriteFile(args[idx], data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if isBinary && isatty.IsTerminal(os.Stdout.Fd()) {
		return errors.New("stdout is a terminal, refusing to print binary file")
	}
	_, err := os.Stdout.Write(data)
	return err
}
