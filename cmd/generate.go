package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/questiongen"
	"github.com/ktnk/toeiq/internal/questionstore"
	"github.com/ktnk/toeiq/internal/toeic"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question batch and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := newLogger()

		levelStr, _ := cmd.Flags().GetString("level")
		typeStrs, _ := cmd.Flags().GetStringSlice("types")
		total, _ := cmd.Flags().GetInt("total")
		save, _ := cmd.Flags().GetBool("save")

		level := toeic.Level(levelStr)
		if !level.Valid() {
			return fmt.Errorf("unknown level %q", levelStr)
		}
		var types []toeic.QuestionType
		for _, ts := range typeStrs {
			t := toeic.QuestionType(ts)
			if !t.Valid() || t == toeic.TypeWord {
				return fmt.Errorf("unknown question type %q", ts)
			}
			types = append(types, t)
		}

		provider, err := llm.NewProviderFromEnv(ctx, log)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		var saver questiongen.Saver
		if save {
			saver = questionstore.Open(ctx, log)
		}

		cfg := questiongen.DefaultConfig()
		if total > 0 {
			cfg.Total = total
		}

		svc := questiongen.New(provider, saver, cfg, log)
		batch, err := svc.Generate(ctx, level, types)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	},
}

func init() {
	generateCmd.Flags().String("level", string(toeic.Level600), "Target score band (~200, 201-400, 401-600, 601-800, 801-990)")
	generateCmd.Flags().StringSlice("types", []string{"grammar", "partOfSpeech", "vocabulary"}, "Question categories")
	generateCmd.Flags().Int("total", 0, "Batch size (default from config)")
	generateCmd.Flags().Bool("save", false, "Save the batch to the shared cache")
}
