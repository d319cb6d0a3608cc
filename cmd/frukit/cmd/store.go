package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/frukit/pkg/store"
)

// storeCmd groups the inventory subcommands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the FRU image inventory",
}

var storePutCmd = &cobra.Command{
	Use:   "put <id> [file]",
	Short: "Store a binary FRU image under an ID",
	Long: `Store a binary FRU image under an ID. The image is validated by a
tolerant decode before it is written. Reads stdin when no file is given.

Example:
  frukit store put rack1-slot3 image.bin`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args, 1)
		if err != nil {
			return err
		}
		inv, err := openInventory(cmd)
		if err != nil {
			return err
		}
		defer inv.Close()

		if err := inv.Put(args[0], data); err != nil {
			return err
		}
		cmd.Printf("Stored %s (%d bytes)\n", args[0], len(data))
		return nil
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <id> [file]",
	Short: "Fetch a stored FRU image",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := openInventory(cmd)
		if err != nil {
			return err
		}
		defer inv.Close()

		data, err := inv.Get(args[0])
		if err != nil {
			return err
		}
		return writeOutput(data, true, args, 1)
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored FRU image IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := openInventory(cmd)
		if err != nil {
			return err
		}
		defer inv.Close()

		ids, err := inv.List()
		if err != nil {
			return err
		}
		for _, id := range ids {
			cmd.Println(id)
		}
		return nil
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored FRU image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := openInventory(cmd)
		if err != nil {
			return err
		}
		defer inv.Close()

		if err := inv.Delete(args[0]); err != nil {
			return err
		}
		cmd.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func openInventory(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	inv, err := store.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	return inv, nil
}

func init() {
	storeCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the inventory")
	storeCmd.AddCommand(storePutCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}
