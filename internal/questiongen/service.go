package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/toeic"
)

// ErrNoTypes is returned when a batch is requested with no enabled types.
var ErrNoTypes = errors.New("at least one question type must be enabled")

// Saver persists a generated batch. Save failures are logged, never
// surfaced: a batch the user can study is worth more than a write.
type Saver interface {
	Save(ctx context.Context, items []toeic.Question, level toeic.Level) error
}

// Service runs the two-pass generation pipeline: draft a batch against a
// slot plan, then have a second LLM pass repair, gate, and enrich it.
type Service struct {
	provider llm.Provider
	saver    Saver
	cfg      Config
	log      *slog.Logger
	rng      *rand.Rand
}

// New creates a Service. saver may be nil to skip persistence.
func New(provider llm.Provider, saver Saver, cfg Config, log *slog.Logger) *Service {
	return &Service{
		provider: provider,
		saver:    saver,
		cfg:      cfg,
		log:      log,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())>>32)),
	}
}

// draftItem is one raw question from the generation pass.
type draftItem struct {
	Type    toeic.QuestionType `json:"type"`
	Prompt  string             `json:"prompt"`
	Choices []string           `json:"choices"`
}

type draftEnvelope struct {
	Questions []draftItem `json:"questions"`
}

// Generate produces one verified batch for the level and enabled types.
// The whole pipeline is retried up to cfg.MaxAttempts times on generation
// failure. A verification failure is not retried: the drafts are returned
// as-is, without explanations.
func (s *Service) Generate(ctx context.Context, level toeic.Level, types []toeic.QuestionType) ([]toeic.Question, error) {
	if len(types) == 0 {
		return nil, ErrNoTypes
	}
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level %q", level)
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("invalid question type %q", t)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		items, err := s.generateOnce(ctx, level, types)
		if err != nil {
			lastErr = err
			s.log.Warn("question generation attempt failed",
				slog.Int("attempt", attempt),
				slog.String("level", string(level)),
				slog.String("error", err.Error()))
			continue
		}
		return items, nil
	}
	return nil, fmt.Errorf("question generation failed after %d attempts: %w", s.cfg.MaxAttempts, lastErr)
}

func (s *Service) generateOnce(ctx context.Context, level toeic.Level, types []toeic.QuestionType) ([]toeic.Question, error) {
	plans := BuildPlans(s.rng, level, types, s.cfg.Total)

	drafts, err := s.draft(ctx, plans, level)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("generation pass returned no questions")
	}

	verified, err := s.verify(ctx, drafts, level)
	if err != nil {
		// Degrade to unverified drafts rather than lose the batch.
		s.log.Warn("verification pass failed, returning drafts",
			slog.String("level", string(level)),
			slog.String("error", err.Error()))
		verified = drafts
	}

	if s.saver != nil && len(verified) > 0 {
		if err := s.saver.Save(ctx, verified, level); err != nil {
			s.log.Warn("saving generated batch failed",
				slog.String("level", string(level)),
				slog.String("error", err.Error()))
		}
	}

	return verified, nil
}

// draft runs the generation pass and maps the envelope to Questions.
// Every draft's correct answer sits at choices[0].
func (s *Service) draft(ctx context.Context, plans []toeic.ItemPlan, level toeic.Level) ([]toeic.Question, error) {
	ctx = llm.WithPurpose(ctx, "part5-generate")

	req := llm.Request{
		System: generationSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGenerationPrompt(plans, level)},
		},
		Schema:      DraftSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generation pass: %w", err)
	}

	var env draftEnvelope
	if err := json.Unmarshal(resp.Content, &env); err != nil {
		return nil, fmt.Errorf("parse generation response: %w", err)
	}

	items := make([]toeic.Question, 0, len(env.Questions))
	for _, d := range env.Questions {
		items = append(items, toeic.Question{
			ID:          uuid.New(),
			Type:        d.Type,
			Prompt:      d.Prompt,
			Choices:     d.Choices,
			AnswerIndex: 0,
		})
	}
	return items, nil
}

// verify runs the review pass and merges verdicts into the drafts.
func (s *Service) verify(ctx context.Context, drafts []toeic.Question, level toeic.Level) ([]toeic.Question, error) {
	if len(drafts) == 0 {
		return drafts, nil
	}
	ctx = llm.WithPurpose(ctx, "part5-verify")

	payload := verifyPayload{Questions: make([]verifyInput, len(drafts))}
	for i, q := range drafts {
		payload.Questions[i] = verifyInput{
			Index:   i,
			Type:    string(q.Type),
			Prompt:  q.Prompt,
			Choices: q.Choices,
		}
	}

	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode verification payload: %w", err)
	}

	req := llm.Request{
		System: verificationSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildVerificationPrompt(string(payloadJSON))},
		},
		Schema:    VerifiedSchema,
		MaxTokens: s.cfg.MaxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("verification pass: %w", err)
	}

	var env verifyEnvelope
	if err := json.Unmarshal(resp.Content, &env); err != nil {
		return nil, fmt.Errorf("parse verification response: %w", err)
	}

	return mergeVerified(drafts, env), nil
}
