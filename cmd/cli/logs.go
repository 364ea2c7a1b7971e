package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/tubefetch/pkg/logger"
)

var logsCmd = &cobra.Command{
	Use:       "logs [batch|error|download]",
	Short:     "Show today's category log",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"batch", "error", "download"},
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		query, _ := cmd.Flags().GetString("search")
		dateStr, _ := cmd.Flags().GetString("date")

		name := string(logger.CategoryBatch)
		if len(args) > 0 {
			name = args[0]
		}
		category, err := logger.ParseCategory(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		date := time.Now()
		if dateStr != "" {
			date, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid date format, use YYYY-MM-DD\n")
				os.Exit(1)
			}
		}

		rt, err := loadEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		reader := logger.NewLogReader(rt.config.Logging.LogsDir)
		var entries []logger.LogEntry
		if query != "" {
			entries, err = reader.SearchLogs(category, date, query, limit)
		} else {
			entries, err = reader.ReadLogs(category, date, limit)
		}
		if err != nil {
			rt.printer.Errorf("Error: %v", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			rt.printer.Warnf("No entries in %s", reader.GetLogPath(category, date))
			return
		}
		rt.printer.LogEntries(entries)
	},
}

func init() {
	logsCmd.Flags().IntP("limit", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringP("search", "s", "", "Only show entries containing this text")
	logsCmd.Flags().String("date", "", "Day to read (YYYY-MM-DD, default today)")
}
