package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/telephone/internal/ports/primary"
	"github.com/example/telephone/internal/wire"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game as a participant",
	Long: `Walk the participant protocol: start a session, accept the
instructions, then alternate next/submit until the game hands back a
completion code.`,
}

var playStartCmd = &cobra.Command{
	Use:   "start [game-id]",
	Short: "Open a new session against a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := parseID(args[0])
		if err != nil {
			return err
		}

		session, err := wire.AllocationService().StartSession(context.Background(), gameID)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		fmt.Printf("✓ Started session on game %d\n", gameID)
		fmt.Printf("  Token: %s\n", session.Token)
		fmt.Println()
		fmt.Printf("  # Read the instructions, then: telephone play accept %s\n", session.Token)
		return nil
	},
}

var playAcceptCmd = &cobra.Command{
	Use:   "accept [token]",
	Short: "Accept the instructions and begin playing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]

		if err := wire.AllocationService().Accept(context.Background(), token); err != nil {
			return fmt.Errorf("failed to accept: %w", err)
		}

		fmt.Println("✓ Instructions accepted")
		fmt.Printf("  # Get your first task: telephone play next %s\n", token)
		return nil
	},
}

var playNextCmd = &cobra.Command{
	Use:   "next [token]",
	Short: "Show the slot you should record into",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]

		resp, err := wire.AllocationService().NextTask(context.Background(), token)
		if err != nil {
			return fmt.Errorf("failed to get next task: %w", err)
		}

		printTaskResponse(token, resp)
		return nil
	},
}

var playSubmitCmd = &cobra.Command{
	Use:   "submit [token]",
	Short: "Submit a recording for your allocated slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]
		messageID, _ := cmd.Flags().GetInt64("message")
		audioPath, _ := cmd.Flags().GetString("audio")
		if messageID == 0 {
			return fmt.Errorf("--message is required")
		}
		if audioPath == "" {
			return fmt.Errorf("--audio is required")
		}

		f, err := os.Open(audioPath)
		if err != nil {
			return fmt.Errorf("failed to open audio file: %w", err)
		}
		defer f.Close()

		resp, err := wire.AllocationService().Submit(context.Background(), primary.SubmitRequest{
			Token:     token,
			MessageID: messageID,
			Audio:     f,
		})
		if err != nil {
			return fmt.Errorf("failed to submit: %w", err)
		}

		fmt.Println("✓ Recording submitted")
		printTaskResponse(token, resp)
		return nil
	},
}

var playClearCmd = &cobra.Command{
	Use:   "clear [token]",
	Short: "Reset a session's progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]

		if err := wire.AllocationService().Clear(context.Background(), token); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		fmt.Println("✓ Session cleared")
		return nil
	},
}

var playStatusCmd = &cobra.Command{
	Use:   "status [token]",
	Short: "Show a session's progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]

		session, err := wire.AllocationService().GetSession(context.Background(), token)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		fmt.Printf("\nSession:  %s\n", session.Token)
		fmt.Printf("Game:     %d\n", session.GameID)
		fmt.Printf("State:    %s\n", session.State)
		fmt.Printf("Chains:   %d visited\n", len(session.Receipts))
		if len(session.Messages) > 0 {
			fmt.Printf("Messages: %v\n", session.Messages)
		}
		fmt.Println()
		return nil
	},
}

func printTaskResponse(token string, resp *primary.TaskResponse) {
	switch resp.State {
	case primary.StateUninstructed:
		fmt.Println("You have not accepted the instructions yet")
		fmt.Printf("  # telephone play accept %s\n", token)

	case primary.StatePlaying:
		task := resp.Task
		fmt.Printf("\nRecord into message %d (chain %d, generation %d)\n", task.MessageID, task.ChainID, task.Generation)
		if task.PromptAudio == "" {
			fmt.Println("  This is a seed slot: record anything you like")
		} else {
			fmt.Printf("  Listen first: %s\n", task.PromptAudio)
		}
		fmt.Printf("  # telephone play submit %s --message %d --audio recording.wav\n", token, task.MessageID)

	case primary.StateComplete:
		fmt.Printf("\n%s You have visited every chain\n", color.New(color.FgGreen).Sprint("✓"))
		fmt.Printf("  Completion code: %s\n", resp.CompletionCode)
	}
}

// PlayCmd returns the play command with all subcommands
func PlayCmd() *cobra.Command {
	playSubmitCmd.Flags().Int64P("message", "m", 0, "Allocated message id")
	playSubmitCmd.Flags().StringP("audio", "a", "", "Path to the recorded audio file")

	playCmd.AddCommand(playStartCmd)
	playCmd.AddCommand(playAcceptCmd)
	playCmd.AddCommand(playNextCmd)
	playCmd.AddCommand(playSubmitCmd)
	playCmd.AddCommand(playClearCmd)
	playCmd.AddCommand(playStatusCmd)

	return playCmd
}
