package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/paperchat/internal/core/domain"
)

var (
	uploadTitle string
	listJSON    bool
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Manage papers",
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document and process it",
	Long: `Stores the document, splits it into chunks, embeds them and makes the
paper ready for questions. Processing runs to completion before the
command returns.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var addURLCmd = &cobra.Command{
	Use:   "add-url [url]",
	Short: "Register a paper by URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddURL,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your papers",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var processCmd = &cobra.Command{
	Use:   "process [paper-id]",
	Short: "Run ingestion for a pending paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

var reprocessCmd = &cobra.Command{
	Use:   "reprocess [paper-id]",
	Short: "Reset a finished paper and ingest it again",
	Args:  cobra.ExactArgs(1),
	RunE:  runReprocess,
}

var statusCmd = &cobra.Command{
	Use:   "status [paper-id]",
	Short: "Show a paper's processing status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [paper-id]",
	Short: "Delete a paper and everything derived from it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "paper title (defaults to the file name)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	paperCmd.AddCommand(uploadCmd)
	paperCmd.AddCommand(addURLCmd)
	paperCmd.AddCommand(listCmd)
	paperCmd.AddCommand(processCmd)
	paperCmd.AddCommand(reprocessCmd)
	paperCmd.AddCommand(statusCmd)
	paperCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(paperCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]

	if paperService == nil {
		return errors.New("paper service not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	title := uploadTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ctx := context.Background()
	paper, err := paperService.Upload(ctx, owner, title, data)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s (%s)\n", paper.Title, paper.ID)

	if err := paperService.Process(ctx, owner, paper.ID); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	status, err := paperService.Status(ctx, owner, paper.ID)
	if err != nil {
		return fmt.Errorf("status lookup failed: %w", err)
	}
	cmd.Printf("Processed: %d chunks\n", status.ChunksCreated)
	return nil
}

func runAddURL(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	paper, err := paperService.AddByURL(context.Background(), owner, args[0], args[0])
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	cmd.Printf("Registered %s (%s)\n", paper.Title, paper.ID)
	cmd.Println("The paper stays pending until its content is fetched.")
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	papers, err := paperService.List(context.Background(), owner)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(papers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal papers: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(papers) == 0 {
		cmd.Println("No papers yet. Use 'paperchat paper upload' to add one.")
		return nil
	}

	for i := range papers {
		cmd.Printf("  %s  %s", papers[i].ID, papers[i].Title)
		if papers[i].PageCount > 0 {
			cmd.Printf(" (%d pages)", papers[i].PageCount)
		}
		cmd.Println()
	}
	return nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	ctx := context.Background()
	if err := paperService.Process(ctx, owner, args[0]); err != nil {
		if errors.Is(err, domain.ErrIngestionInProgress) {
			return errors.New("this paper is already being processed")
		}
		return fmt.Errorf("processing failed: %w", err)
	}

	return printStatus(cmd, args[0])
}

func runReprocess(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	if err := paperService.Reprocess(context.Background(), owner, args[0]); err != nil {
		return fmt.Errorf("reprocessing failed: %w", err)
	}

	return printStatus(cmd, args[0])
}

func runStatus(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}
	return printStatus(cmd, args[0])
}

func runDelete(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	if err := paperService.Delete(context.Background(), owner, args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Println("Deleted.")
	return nil
}

func printStatus(cmd *cobra.Command, paperID string) error {
	status, err := paperService.Status(context.Background(), owner, paperID)
	if err != nil {
		return fmt.Errorf("status lookup failed: %w", err)
	}

	cmd.Printf("State: %s\n", status.State)
	switch status.State {
	case domain.StateCompleted:
		cmd.Printf("Chunks: %d\n", status.ChunksCreated)
	case domain.StateFailed:
		cmd.Printf("Error: %s\n", status.Error)
	}
	return nil
}
