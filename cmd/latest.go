package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktnk/toeiq/internal/questiongen"
	"github.com/ktnk/toeiq/internal/questionstore"
	"github.com/ktnk/toeiq/internal/toeic"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the newest cached question batch as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := newLogger()

		levelStr, _ := cmd.Flags().GetString("level")
		level := toeic.Level(levelStr)
		if !level.Valid() {
			return fmt.Errorf("unknown level %q", levelStr)
		}

		cache := questionstore.Open(ctx, log)
		batch, err := questionstore.CheckLatest(ctx, cache, level, toeic.AllTypes, questiongen.DefaultConfig().Total)
		if err != nil {
			return fmt.Errorf("check latest: %w", err)
		}
		if len(batch) == 0 {
			fmt.Println("No cached questions for this level.")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	},
}

func init() {
	latestCmd.Flags().String("level", string(toeic.Level600), "Target score band")
}
