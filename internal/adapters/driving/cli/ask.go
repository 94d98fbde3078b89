package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask [paper-id] [question]",
	Short: "Ask a question about a paper",
	Long: `Runs one chat turn: retrieves the most relevant chunks of the paper,
generates an answer and prints it with page-level citations. Without
--session a fresh session is created for the question.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSessionID, "session", "s", "", "continue an existing session")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	paperID, question := args[0], args[1]

	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()

	sessionID := askSessionID
	if sessionID == "" {
		session, err := chatService.CreateSession(ctx, owner, paperID, "")
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		sessionID = session.ID
	}

	reply, err := chatService.Answer(ctx, owner, sessionID, question)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println(reply.Content)

	if len(reply.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, citation := range reply.Citations {
			cmd.Printf("  [%d] page %d (%.2f)\n", i+1, citation.PageNumber, citation.Score)
		}
	}

	cmd.Println()
	cmd.Printf("Session: %s\n", sessionID)
	return nil
}
