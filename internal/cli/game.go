package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/telephone/internal/ports/primary"
	"github.com/example/telephone/internal/wire"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Manage games (telephone experiments)",
	Long:  "Create, list, and manage games and their recordings",
}

var gameCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new game",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		chains, _ := cmd.Flags().GetInt("chains")
		order, _ := cmd.Flags().GetString("order")

		resp, err := wire.GameService().CreateGame(context.Background(), primary.CreateGameRequest{
			Name:       name,
			NumChains:  chains,
			ChainOrder: order,
		})
		if err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}

		fmt.Printf("✓ Created game %d", resp.GameID)
		if resp.Game.Name != "" {
			fmt.Printf(": %s", resp.Game.Name)
		}
		fmt.Println()
		fmt.Printf("  Chain order: %s\n", resp.Game.ChainOrder)
		fmt.Printf("  Chains: %v\n", resp.ChainIDs)
		fmt.Println()
		fmt.Printf("  # Seed a chain with starting audio: telephone chain seed %d --audio prompt.wav\n", resp.ChainIDs[0])
		fmt.Printf("  # Start playing: telephone play start %d\n", resp.GameID)
		return nil
	},
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List games",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		games, err := wire.GameService().ListGames(context.Background(), primary.GameFilters{
			IncludeInactive: all,
		})
		if err != nil {
			return fmt.Errorf("failed to list games: %w", err)
		}

		if len(games) == 0 {
			fmt.Println("No games found")
			return nil
		}

		fmt.Printf("\n%-6s %-10s %-8s %-8s %s\n", "ID", "STATUS", "ORDER", "CHAINS", "NAME")
		fmt.Println("────────────────────────────────────────────────────────")
		for _, g := range games {
			status := g.Status
			if g.Status == primary.GameStatusActive {
				status = color.New(color.FgGreen).Sprint(g.Status)
			}
			name := g.Name
			if name == "" {
				name = "-"
			}
			fmt.Printf("%-6d %-10s %-8s %-8d %s\n", g.ID, status, g.ChainOrder, g.NumChains, name)
		}
		fmt.Println()
		return nil
	},
}

var gameShowCmd = &cobra.Command{
	Use:   "show [game-id]",
	Short: "Show game details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := parseID(args[0])
		if err != nil {
			return err
		}

		game, err := wire.GameService().GetGame(context.Background(), gameID)
		if err != nil {
			return fmt.Errorf("failed to get game: %w", err)
		}

		fmt.Printf("\nGame:    %d\n", game.ID)
		if game.Name != "" {
			fmt.Printf("Name:    %s\n", game.Name)
		}
		fmt.Printf("Status:  %s\n", game.Status)
		fmt.Printf("Order:   %s\n", game.ChainOrder)
		fmt.Printf("Chains:  %d\n", game.NumChains)
		if game.CreatedAt != "" {
			fmt.Printf("Created: %s\n", game.CreatedAt)
		}
		fmt.Println()
		return nil
	},
}

var gameActivateCmd = &cobra.Command{
	Use:   "activate [game-id]",
	Short: "Make a game visible to players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setGameStatus(args[0], primary.GameStatusActive)
	},
}

var gameDeactivateCmd = &cobra.Command{
	Use:   "deactivate [game-id]",
	Short: "Hide a game from players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setGameStatus(args[0], primary.GameStatusInactive)
	},
}

var gameExportCmd = &cobra.Command{
	Use:   "export [game-id]",
	Short: "Copy a game's recordings into a directory",
	Long: `Copy every recording in the game into a directory, named so the
file alone tells you where it sits in its chain:

  gen{generation}-{seed|parent<id>}-message{id}.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := parseID(args[0])
		if err != nil {
			return err
		}
		dest, _ := cmd.Flags().GetString("out")

		resp, err := wire.GameService().ExportGame(context.Background(), primary.ExportGameRequest{
			GameID:  gameID,
			DestDir: dest,
		})
		if err != nil {
			return fmt.Errorf("failed to export game: %w", err)
		}

		fmt.Printf("✓ Exported %d recording(s) to %s\n", len(resp.Files), dest)
		for _, f := range resp.Files {
			fmt.Printf("  %s\n", f)
		}
		return nil
	},
}

func setGameStatus(arg, status string) error {
	gameID, err := parseID(arg)
	if err != nil {
		return err
	}
	if err := wire.GameService().SetGameStatus(context.Background(), gameID, status); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	fmt.Printf("✓ Game %d is now %s\n", gameID, status)
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: expected a number", arg)
	}
	return id, nil
}

// GameCmd returns the game command with all subcommands
func GameCmd() *cobra.Command {
	gameCreateCmd.Flags().StringP("name", "n", "", "Display name for the game")
	gameCreateCmd.Flags().IntP("chains", "c", 1, "Number of chains to create")
	gameCreateCmd.Flags().StringP("order", "o", "", "Chain visiting order (sequential, random)")
	gameListCmd.Flags().BoolP("all", "a", false, "Include inactive games")
	gameExportCmd.Flags().StringP("out", "O", ".", "Destination directory")

	gameCmd.AddCommand(gameCreateCmd)
	gameCmd.AddCommand(gameListCmd)
	gameCmd.AddCommand(gameShowCmd)
	gameCmd.AddCommand(gameActivateCmd)
	gameCmd.AddCommand(gameDeactivateCmd)
	gameCmd.AddCommand(gameExportCmd)

	return gameCmd
}
