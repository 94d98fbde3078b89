package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillhq/paperchat/internal/core/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage chat sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list [paper-id]",
	Short: "List your sessions for a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionList,
}

var sessionHistoryCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show a session's conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionHistory,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionHistoryCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	sessions, err := chatService.ListSessions(context.Background(), owner, args[0])
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions for this paper.")
		return nil
	}

	for i := range sessions {
		cmd.Printf("  %s  %s  (%s)\n", sessions[i].ID, sessions[i].Title,
			sessions[i].UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionHistory(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	messages, err := chatService.History(context.Background(), owner, args[0])
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No messages yet.")
		return nil
	}

	for i := range messages {
		switch messages[i].Role {
		case domain.RoleUser:
			cmd.Printf("> %s\n", messages[i].Content)
		case domain.RoleAssistant:
			cmd.Println(messages[i].Content)
			for j, citation := range messages[i].Citations {
				cmd.Printf("  [%d] page %d (%.2f)\n", j+1, citation.PageNumber, citation.Score)
			}
		}
		cmd.Println()
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.DeleteSession(context.Background(), owner, args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Println("Deleted.")
	return nil
}
