package shared_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

func TestIsNotFound(t *testing.T) {
	err := shared.NewNotFoundError("scenario", "scn-1")
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "scenario scn-1 not found", err.Error())

	wrapped := fmt.Errorf("failed to load state: %w", err)
	assert.True(t, shared.IsNotFound(wrapped))

	assert.False(t, shared.IsNotFound(shared.NewDomainError("boom")))
	assert.False(t, shared.IsNotFound(nil))
}

func TestValidationError_Message(t *testing.T) {
	err := shared.NewValidationError("name", "is required")
	assert.Equal(t, "name: is required", err.Error())
}

func TestInvalidTransitionError(t *testing.T) {
	err := shared.NewInvalidTransitionError("PLANNED", "ENGAGED")
	assert.Equal(t, "PLANNED", err.From)
	assert.Equal(t, "ENGAGED", err.To)
	assert.Contains(t, err.Error(), "PLANNED -> ENGAGED")
}
