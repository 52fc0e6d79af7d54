package history

import (
	"crypto/sha256"

	"github.com/google/uuid"
)

// WordID derives a stable question ID for a drilled word from its meaning
// text. Word items have no server-assigned ID, so attempts on the same
// word must hash to the same history row across sessions.
func WordID(meaning string) uuid.UUID {
	sum := sha256.Sum256([]byte(meaning))
	var id uuid.UUID
	copy(id[:], sum[:16])
	return id
}
