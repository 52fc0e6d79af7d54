package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/history"
)

func drillQueue(n int) []dataset.NgslWord {
	words := make([]dataset.NgslWord, n)
	for i := range words {
		words[i] = dataset.NgslWord{
			Word:    fmt.Sprintf("word%02d", i),
			Meaning: fmt.Sprintf("意味%02d", i),
			POS:     "名詞",
		}
	}
	return words
}

func TestVocabSessionBatchWindows(t *testing.T) {
	s := NewVocabSession(testRand(), drillQueue(23), 10, nil)

	drain := func() {
		ctx := context.Background()
		for !s.Finished() {
			s.Submit(ctx, s.Current().Answer)
			s.Next()
		}
	}

	s.Start()
	require.Equal(t, 10, s.Score().Total)
	drain()
	require.True(t, s.HasNextRange(), "expected a second window")

	s.StartNextRange()
	require.Equal(t, 10, s.Score().Total)
	drain()
	require.True(t, s.HasNextRange(), "expected a third window")

	s.StartNextRange()
	require.Equal(t, 3, s.Score().Total)
	drain()
	assert.False(t, s.HasNextRange(), "no words remain")

	// Past the end: empty window, finished immediately.
	s.StartNextRange()
	require.True(t, s.Finished())
	assert.Equal(t, 0, s.Score().Total)
	assert.Equal(t, "0/0", s.Progress())
}

func TestVocabSessionRestartSameRange(t *testing.T) {
	ctx := context.Background()
	s := NewVocabSession(testRand(), drillQueue(5), 3, nil)

	s.Start()
	s.Submit(ctx, s.Current().Answer)
	s.Next()
	s.Submit(ctx, (s.Current().Answer+1)%4)
	s.Next()
	s.Submit(ctx, s.Current().Answer)
	s.Next()

	require.True(t, s.Finished(), "window of 3 not finished after 3 answers")
	require.Equal(t, 3, s.Score().Total)
	require.Equal(t, 2, s.Score().Correct)

	s.RestartSameRange()
	require.False(t, s.Finished(), "restarted window already finished")
	assert.Equal(t, 3, s.Score().Total)
	assert.Equal(t, 0, s.Score().Correct)
	assert.Equal(t, "word00", s.Current().Word.Word)
}

func TestVocabSessionRecordsByMeaningID(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	queue := drillQueue(2)
	s := NewVocabSession(testRand(), queue, 2, rec)

	s.Start()
	first := s.Current()
	s.Submit(ctx, first.Answer)
	s.Next()
	s.Submit(ctx, (s.Current().Answer+1)%4)

	require.Len(t, rec.attempts, 2)
	assert.Equal(t, history.WordID(queue[0].Meaning), rec.attempts[0].id)
	assert.True(t, rec.attempts[0].correct)
	assert.False(t, rec.attempts[1].correct)
}

func TestVocabSessionCardShape(t *testing.T) {
	s := NewVocabSession(testRand(), drillQueue(1), 10, nil)
	s.Start()

	card := s.Current()
	require.NotNil(t, card)
	require.Len(t, card.Choices, 4)
	assert.Equal(t, card.Word.Meaning, card.Choices[card.Answer])
	assert.Equal(t, "1/1", s.Progress())
}

func TestVocabSessionIgnoresDoubleSubmit(t *testing.T) {
	ctx := context.Background()
	s := NewVocabSession(testRand(), drillQueue(3), 3, nil)
	s.Start()

	s.Submit(ctx, s.Current().Answer)
	assert.False(t, s.Submit(ctx, s.Current().Answer), "second submit accepted")
	assert.Equal(t, 1, s.Score().Correct)
}
