package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/internal/infrastructure"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent download attempts",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")
		batchID, _ := cmd.Flags().GetString("batch")

		rt, repo := openHistory()
		defer repo.Close()

		var (
			attempts []*domain.Attempt
			err      error
		)
		if batchID != "" {
			attempts, err = repo.FindByBatch(batchID)
		} else {
			attempts, err = repo.FindRecent(limit, failed)
		}
		if err != nil {
			rt.printer.Errorf("Error: %v", err)
			os.Exit(1)
		}
		rt.printer.Attempts(attempts)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download history statistics",
	Run: func(cmd *cobra.Command, args []string) {
		rt, repo := openHistory()
		defer repo.Close()

		stats, err := repo.GetStats()
		if err != nil {
			rt.printer.Errorf("Error: %v", err)
			os.Exit(1)
		}
		rt.printer.Stats(stats)
	},
}

func openHistory() (*cliEnv, *infrastructure.SQLiteAttemptRepository) {
	rt, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !rt.config.History.Enabled {
		rt.printer.Errorf("History is disabled (history.enabled: false)")
		os.Exit(1)
	}
	repo, err := infrastructure.NewSQLiteAttemptRepository(rt.config.History.DatabasePath)
	if err != nil {
		rt.printer.Errorf("Error: %v", err)
		os.Exit(1)
	}
	return rt, repo
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show (0 for all)")
	historyCmd.Flags().Bool("failed", false, "Only show failed attempts")
	historyCmd.Flags().String("batch", "", "Show the attempts of one batch")
}
