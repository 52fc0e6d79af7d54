package session

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/toeic"
	"github.com/ktnk/toeiq/internal/vocab"
)

// VocabItem is one drill card: the word under test plus its four-choice
// meaning question in presentation order.
type VocabItem struct {
	Word    dataset.NgslWord
	WordID  uuid.UUID
	Choices []string

	// Answer is the position of the correct meaning within Choices.
	Answer int
}

// VocabSession drills a filtered word queue in fixed-size batches. Each
// batch is a contiguous window over the queue; finishing a window yields a
// score and the choice of repeating it or moving to the next one. Starting
// past the end of the queue produces an empty, already-finished batch.
type VocabSession struct {
	queue     []dataset.NgslWord
	batchSize int
	rng       *rand.Rand
	recorder  AttemptRecorder

	cur        int
	batchStart int
	batchEnd   int // exclusive

	total    int
	correct  int
	finished bool
	current  *VocabItem

	selected int
	revealed bool
}

// NewVocabSession creates a session over the queue. batchSize below 1 is
// treated as 1. recorder may be nil.
func NewVocabSession(rng *rand.Rand, queue []dataset.NgslWord, batchSize int, recorder AttemptRecorder) *VocabSession {
	return &VocabSession{
		queue:     queue,
		batchSize: max(1, batchSize),
		rng:       rng,
		recorder:  recorder,
		selected:  -1,
	}
}

// Start opens the batch window at the current position. An exhausted queue
// yields a zero-length window that is finished immediately.
func (s *VocabSession) Start() {
	s.batchStart = s.cur
	s.batchEnd = min(len(s.queue), s.batchStart+s.batchSize)

	s.total = s.batchEnd - s.batchStart
	s.correct = 0
	s.selected = -1
	s.revealed = false

	if s.total == 0 {
		s.finished = true
		s.current = nil
		return
	}
	s.finished = false
	s.load()
}

// Current returns the card being shown, nil when the batch is finished.
func (s *VocabSession) Current() *VocabItem {
	return s.current
}

// Submit answers the current card. It reveals the meaning and records the
// attempt keyed by the word's meaning-derived ID. A second submit on the
// same card is ignored.
func (s *VocabSession) Submit(ctx context.Context, choice int) bool {
	if s.current == nil || s.revealed || choice < 0 || choice >= len(s.current.Choices) {
		return false
	}
	s.selected = choice
	s.revealed = true

	ok := choice == s.current.Answer
	if ok {
		s.correct++
	}
	if s.recorder != nil {
		s.recorder.RecordAttempt(ctx, s.current.WordID, ok)
	}
	return ok
}

// Revealed reports whether the current card's answer is shown.
func (s *VocabSession) Revealed() bool {
	return s.revealed
}

// Selected returns the submitted choice index, -1 before submit.
func (s *VocabSession) Selected() int {
	return s.selected
}

// Next advances within the batch. At the window's end the batch finishes
// and Next returns false.
func (s *VocabSession) Next() bool {
	if s.finished {
		return false
	}
	s.cur++
	s.selected = -1
	s.revealed = false
	if s.cur >= s.batchEnd {
		s.finished = true
		s.current = nil
		return false
	}
	s.load()
	return true
}

// Finished reports whether the current batch is done.
func (s *VocabSession) Finished() bool {
	return s.finished
}

// Score returns the finished batch's tally.
func (s *VocabSession) Score() toeic.Score {
	return toeic.Score{Total: s.total, Correct: s.correct}
}

// Progress renders the in-batch position as "n/total".
func (s *VocabSession) Progress() string {
	if s.total == 0 {
		return "0/0"
	}
	pos := s.cur - s.batchStart + 1
	if s.finished {
		pos = s.total
	}
	return fmt.Sprintf("%d/%d", pos, s.total)
}

// HasNextRange reports whether queue words remain beyond this window.
func (s *VocabSession) HasNextRange() bool {
	return s.batchEnd < len(s.queue)
}

// RestartSameRange replays the current window from its first word.
func (s *VocabSession) RestartSameRange() {
	s.cur = s.batchStart
	s.Start()
}

// StartNextRange opens the window that follows the current one.
func (s *VocabSession) StartNextRange() {
	s.cur = s.batchEnd
	s.Start()
}

func (s *VocabSession) load() {
	w := s.queue[s.cur]
	choices, answer, id := vocab.BuildChoices(s.rng, w.Meaning, w.POS)
	if s.rng != nil {
		s.rng.Shuffle(len(choices), func(i, j int) {
			choices[i], choices[j] = choices[j], choices[i]
			switch answer {
			case i:
				answer = j
			case j:
				answer = i
			}
		})
	}
	s.current = &VocabItem{Word: w, WordID: id, Choices: choices, Answer: answer}
}
