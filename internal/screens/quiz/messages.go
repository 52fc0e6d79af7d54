package quiz

import (
	"github.com/ktnk/toeiq/internal/toeic"
)

// questionsReadyMsg is sent when the question batch has been loaded,
// either freshly generated or read from the shared cache.
type questionsReadyMsg struct {
	Questions []toeic.Question
	FromCache bool
	Err       error
}
