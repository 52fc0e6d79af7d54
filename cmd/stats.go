package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ktnk/toeiq/internal/history"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics from the local history",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		hist, err := history.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer hist.Close()

		summaries, err := hist.Summaries(context.Background())
		if err != nil {
			return fmt.Errorf("read summaries: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No study history yet.")
			return nil
		}

		var attempts, correct, favorites int
		for _, s := range summaries {
			attempts += s.TotalCount
			correct += s.TotalCorrect
			if s.Favorite {
				favorites++
			}
		}

		fmt.Printf("Questions studied: %d\n", len(summaries))
		fmt.Printf("Total attempts:    %d\n", attempts)
		if attempts > 0 {
			fmt.Printf("Accuracy:          %.0f%%\n", float64(correct)/float64(attempts)*100)
		}
		fmt.Printf("Favorites:         %d\n", favorites)
		fmt.Println()

		fmt.Printf("%-36s  %-8s  %-8s  %-4s  %s\n", "Question", "Attempts", "Correct", "Fav", "Last studied")
		fmt.Println(strings.Repeat("─", 80))
		for _, s := range summaries {
			fav := ""
			if s.Favorite {
				fav = "★"
			}
			fmt.Printf("%-36s  %-8d  %-8d  %-4s  %s\n",
				s.QuestionID, s.TotalCount, s.TotalCorrect, fav,
				s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}
