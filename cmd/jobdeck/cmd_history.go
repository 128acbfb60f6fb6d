package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobdeck/internal/history"
)

var historyLimit int

// historyCmd groups the stored-search subcommands
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage stored searches",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored search records, newest first",
	RunE:  runHistoryList,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one search record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every search record",
	RunE:  runHistoryClear,
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum records to show (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// runHistoryList prints stored records as a table
func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No searches recorded yet.")
		return nil
	}

	fmt.Printf("%-36s  %-24s  %-14s  %-14s  %7s  %s\n",
		"ID", "QUERY", "LOCATION", "STATUS", "RESULTS", "WHEN")
	for _, rec := range records {
		fmt.Printf("%-36s  %-24s  %-14s  %-14s  %7d  %s\n",
			rec.ID,
			truncate(rec.Query, 24),
			truncate(rec.Location, 14),
			statusMark(rec.Status),
			rec.ResultCount,
			humanize.Time(rec.SearchedAt))
	}
	return nil
}

// runHistoryDelete removes a single record by ID
func runHistoryDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	logger.Info("Deleting search record", zap.String("id", id))

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(id); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted record %s\n", id)
	return nil
}

// runHistoryClear wipes every stored search
func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}

	logger.Info("History cleared", zap.Int("records", count))
	fmt.Printf("✓ Cleared %d stored searches\n", count)
	return nil
}

// statusMark prefixes terminal states with the dashboard's ✓/✗ marks.
func statusMark(s history.Status) string {
	switch s {
	case history.StatusCompleted:
		return "✓ " + string(s)
	case history.StatusFailed:
		return "✗ " + string(s)
	default:
		return string(s)
	}
}

// truncate shortens s to at most max bytes with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
