package toeic

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType is the category of a Part 5 item.
type QuestionType string

const (
	TypeGrammar      QuestionType = "grammar"
	TypePartOfSpeech QuestionType = "partOfSpeech"
	TypeVocabulary   QuestionType = "vocabulary"
	// TypeWord marks vocabulary-drill items built locally from the word list
	// rather than generated remotely.
	TypeWord QuestionType = "word"
)

// AllTypes is the set of remotely generated question types.
var AllTypes = []QuestionType{TypeGrammar, TypePartOfSpeech, TypeVocabulary}

// DisplayName returns the Japanese label shown in type pickers.
func (t QuestionType) DisplayName() string {
	switch t {
	case TypeGrammar:
		return "文法"
	case TypePartOfSpeech:
		return "品詞"
	case TypeVocabulary:
		return "語彙"
	case TypeWord:
		return "単語"
	}
	return string(t)
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeGrammar, TypePartOfSpeech, TypeVocabulary, TypeWord:
		return true
	}
	return false
}

// Question is a multiple-choice Part 5 item. The correct answer is always
// choices[AnswerIndex], and after verification AnswerIndex is always 0; the
// display layer shuffles presentation order without touching Choices.
type Question struct {
	ID          uuid.UUID    `json:"id"`
	Type        QuestionType `json:"type"`
	Prompt      string       `json:"prompt"`
	Choices     []string     `json:"choices"`
	AnswerIndex int          `json:"answerIndex"`

	// Explanation is Japanese prose added by the verification pass,
	// normalized to contain no quotes, backticks, or backslashes.
	Explanation string `json:"explanation,omitempty"`

	// FilledSentence is the prompt with the correct choice substituted in,
	// and FilledSentenceJa its Japanese translation. Both optional.
	FilledSentence   string `json:"filledSentence,omitempty"`
	FilledSentenceJa string `json:"filledSentenceJa,omitempty"`

	// ChoiceTranslationsJa holds per-choice Japanese glosses, aligned with
	// Choices. Optional.
	ChoiceTranslationsJa []string `json:"choiceTranslationsJa,omitempty"`

	// Headword is set for word-drill items only: the English word whose
	// meaning is being tested.
	Headword string `json:"headword,omitempty"`

	// Timestamps are managed by the remote store on save; zero for
	// freshly generated items.
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Correct reports whether the given choice index is the right answer.
func (q *Question) Correct(choice int) bool {
	return choice == q.AnswerIndex
}
