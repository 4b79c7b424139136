package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/telephone/internal/ports/primary"
	"github.com/example/telephone/internal/wire"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Manage chains (message trees)",
	Long:  "Add, seed, inspect, and prune the message trees of a game",
}

var chainAddCmd = &cobra.Command{
	Use:   "add [game-id]",
	Short: "Add a chain to an existing game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := parseID(args[0])
		if err != nil {
			return err
		}

		resp, err := wire.ChainService().AddChain(context.Background(), gameID)
		if err != nil {
			return fmt.Errorf("failed to add chain: %w", err)
		}

		fmt.Printf("✓ Added chain %d to game %d\n", resp.ChainID, gameID)
		fmt.Printf("  Seed slot: message %d\n", resp.SeedID)
		return nil
	},
}

var chainSeedCmd = &cobra.Command{
	Use:   "seed [chain-id]",
	Short: "Record starting audio into a chain's seed slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, err := parseID(args[0])
		if err != nil {
			return err
		}
		audioPath, _ := cmd.Flags().GetString("audio")
		if audioPath == "" {
			return fmt.Errorf("--audio is required")
		}

		f, err := os.Open(audioPath)
		if err != nil {
			return fmt.Errorf("failed to open audio file: %w", err)
		}
		defer f.Close()

		if err := wire.ChainService().SeedChain(context.Background(), chainID, f); err != nil {
			return fmt.Errorf("failed to seed chain: %w", err)
		}

		fmt.Printf("✓ Seeded chain %d from %s\n", chainID, audioPath)
		return nil
	},
}

var chainInspectCmd = &cobra.Command{
	Use:   "inspect [chain-id]",
	Short: "Show a chain's message tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, err := parseID(args[0])
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		tree, err := wire.ChainService().Nest(context.Background(), chainID)
		if err != nil {
			return fmt.Errorf("failed to inspect chain: %w", err)
		}

		if asJSON {
			data, err := json.MarshalIndent(tree, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode tree: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("\nChain %d: %d generation(s), %d branch(es)\n\n", tree.ChainID, tree.Generations, tree.Branches)
		if tree.Messages != nil {
			printNode(tree.Messages, 0)
		}
		fmt.Println()
		return nil
	},
}

var chainSproutCmd = &cobra.Command{
	Use:   "sprout [message-id]",
	Short: "Grow an extra branch under a filled message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messageID, err := parseID(args[0])
		if err != nil {
			return err
		}

		newID, err := wire.ChainService().Sprout(context.Background(), messageID)
		if err != nil {
			return fmt.Errorf("failed to sprout: %w", err)
		}

		fmt.Printf("✓ Sprouted empty slot %d under message %d\n", newID, messageID)
		return nil
	},
}

var chainCloseCmd = &cobra.Command{
	Use:   "close [message-id]",
	Short: "Prune an empty leaf slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messageID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := wire.ChainService().Close(context.Background(), messageID); err != nil {
			return fmt.Errorf("failed to close message: %w", err)
		}

		fmt.Printf("✓ Closed message %d\n", messageID)
		return nil
	},
}

// printNode renders one message and its subtree, indented by generation.
func printNode(node *primary.MessageNode, depth int) {
	indent := strings.Repeat("  ", depth)

	marker := color.New(color.FgYellow).Sprint("○") // empty slot
	detail := "empty"
	if node.Audio != nil {
		marker = color.New(color.FgGreen).Sprint("●")
		detail = *node.Audio
	}

	var actions []string
	if node.CanSprout {
		actions = append(actions, "sprout")
	}
	if node.CanClose {
		actions = append(actions, "close")
	}
	if node.CanUpload {
		actions = append(actions, "upload")
	}
	suffix := ""
	if len(actions) > 0 {
		suffix = fmt.Sprintf("  [%s]", strings.Join(actions, ", "))
	}

	fmt.Printf("%s%s message %d (gen %d) %s%s\n", indent, marker, node.ID, node.Generation, detail, suffix)
	for _, child := range node.Children {
		printNode(child, depth+1)
	}
}

// ChainCmd returns the chain command with all subcommands
func ChainCmd() *cobra.Command {
	chainSeedCmd.Flags().StringP("audio", "a", "", "Path to the starting audio file")
	chainInspectCmd.Flags().Bool("json", false, "Print the tree as JSON")

	chainCmd.AddCommand(chainAddCmd)
	chainCmd.AddCommand(chainSeedCmd)
	chainCmd.AddCommand(chainInspectCmd)
	chainCmd.AddCommand(chainSproutCmd)
	chainCmd.AddCommand(chainCloseCmd)

	return chainCmd
}
