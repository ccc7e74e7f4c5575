package services

import (
	"errors"

	"mathtutor-backend/internal/models"
	"mathtutor-backend/internal/prompt"
)

// ErrEmptyResponse means the model answered without any usable text.
var ErrEmptyResponse = errors.New("model returned no text")

// BuildContents prepends the priming turns to the caller's history. The
// history slice is not modified and its order is kept.
func BuildContents(history []models.Turn) []models.Turn {
	priming := prompt.PrimingTurns()
	contents := make([]models.Turn, 0, len(priming)+len(history))
	contents = append(contents, priming...)
	contents = append(contents, history...)
	return contents
}
