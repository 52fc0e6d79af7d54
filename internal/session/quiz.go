// Package session holds the study state machines: the Part 5 quiz run and
// the vocabulary drill with its batch windows. Both are plain state, free
// of UI and storage concerns, driven by the screens and wired to history
// and counters through small interfaces.
package session

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/toeic"
)

// AttemptRecorder receives each answered question. Implementations must
// not fail the session; errors stay on their side.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, questionID uuid.UUID, correct bool)
}

// ChoiceCounter receives the picked option when the user moves on.
type ChoiceCounter interface {
	IncrementChoice(ctx context.Context, level toeic.Level, id uuid.UUID, choice int) error
}

// QuizRun steps through one batch of Part 5 questions. Stored questions
// keep the correct answer at index 0; the run shuffles presentation per
// question and maps selections back to storage order.
type QuizRun struct {
	level     toeic.Level
	questions []toeic.Question
	rng       *rand.Rand

	recorder AttemptRecorder
	counter  ChoiceCounter
	log      *slog.Logger

	idx      int
	order    []int // display position -> storage index
	selected int   // display position, -1 before submit
	revealed bool
	correct  int
}

// NewQuizRun creates a run over the batch. recorder, counter, and log may
// be nil; a nil log discards counter-write warnings.
func NewQuizRun(rng *rand.Rand, level toeic.Level, questions []toeic.Question, recorder AttemptRecorder, counter ChoiceCounter, log *slog.Logger) *QuizRun {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &QuizRun{
		level:     level,
		questions: questions,
		rng:       rng,
		recorder:  recorder,
		counter:   counter,
		log:       log,
		selected:  -1,
	}
	r.shuffleCurrent()
	return r
}

// Current returns the question being shown, nil when the run is over.
func (r *QuizRun) Current() *toeic.Question {
	if r.idx < 0 || r.idx >= len(r.questions) {
		return nil
	}
	return &r.questions[r.idx]
}

// DisplayChoices returns the current question's options in presentation
// order.
func (r *QuizRun) DisplayChoices() []string {
	q := r.Current()
	if q == nil {
		return nil
	}
	out := make([]string, len(r.order))
	for pos, storageIdx := range r.order {
		out[pos] = q.Choices[storageIdx]
	}
	return out
}

// Submit answers the current question with a display position. It reveals
// the explanation and records the attempt. Reports whether the pick was
// correct; a second submit on the same question is ignored.
func (r *QuizRun) Submit(ctx context.Context, displayPos int) bool {
	q := r.Current()
	if q == nil || r.revealed || displayPos < 0 || displayPos >= len(r.order) {
		return false
	}
	r.selected = displayPos
	r.revealed = true

	ok := q.Correct(r.order[displayPos])
	if ok {
		r.correct++
	}
	if r.recorder != nil {
		r.recorder.RecordAttempt(ctx, q.ID, ok)
	}
	return ok
}

// Revealed reports whether the current question's answer is shown.
func (r *QuizRun) Revealed() bool {
	return r.revealed
}

// Selected returns the submitted display position, -1 before submit.
func (r *QuizRun) Selected() int {
	return r.selected
}

// CorrectDisplayPos returns where the correct answer sits in presentation
// order, -1 when the run is over.
func (r *QuizRun) CorrectDisplayPos() int {
	q := r.Current()
	if q == nil {
		return -1
	}
	for pos, storageIdx := range r.order {
		if storageIdx == q.AnswerIndex {
			return pos
		}
	}
	return -1
}

// Next ships the picked choice to the counter and advances. It returns
// false when the run is finished. The counter fires on the last question
// too, before the run ends.
func (r *QuizRun) Next(ctx context.Context) bool {
	if q := r.Current(); q != nil && r.counter != nil && r.selected >= 0 {
		// Counter failures only matter to the shared store, not the run.
		if err := r.counter.IncrementChoice(ctx, r.level, q.ID, r.order[r.selected]); err != nil {
			r.log.Warn("incrementing choice counter failed",
				slog.String("question", q.ID.String()),
				slog.String("error", err.Error()))
		}
	}
	if r.idx+1 >= len(r.questions) {
		r.idx = len(r.questions)
		return false
	}
	r.idx++
	r.shuffleCurrent()
	return true
}

// Progress returns the 1-based position and total.
func (r *QuizRun) Progress() (current, total int) {
	pos := min(r.idx+1, len(r.questions))
	return pos, len(r.questions)
}

// Score returns the tally so far.
func (r *QuizRun) Score() toeic.Score {
	return toeic.Score{Total: len(r.questions), Correct: r.correct}
}

// Finished reports whether all questions have been advanced past.
func (r *QuizRun) Finished() bool {
	return r.idx >= len(r.questions)
}

func (r *QuizRun) shuffleCurrent() {
	r.selected = -1
	r.revealed = false

	q := r.Current()
	if q == nil {
		r.order = nil
		return
	}
	r.order = make([]int, len(q.Choices))
	for i := range r.order {
		r.order[i] = i
	}
	if r.rng != nil {
		r.rng.Shuffle(len(r.order), func(i, j int) {
			r.order[i], r.order[j] = r.order[j], r.order[i]
		})
	}
}
