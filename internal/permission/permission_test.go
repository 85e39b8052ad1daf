package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/npcbot/internal/domain"
)

func TestRequireOwner(t *testing.T) {
	c := domain.NewCharacter("guild-1", "Bob", "", "", "owner")
	c.Grant("helper")

	assert.NoError(t, RequireOwner(c, "owner"))
	assert.True(t, errors.Is(RequireOwner(c, "helper"), domain.ErrNotOwner))
	assert.True(t, errors.Is(RequireOwner(c, "stranger"), domain.ErrNotOwner))
	assert.True(t, errors.Is(RequireOwner(c, ""), domain.ErrNotOwner))
	assert.True(t, errors.Is(RequireOwner(nil, "owner"), domain.ErrNotOwner))
}

func TestRequireAllowed(t *testing.T) {
	c := domain.NewCharacter("guild-1", "Bob", "", "", "owner")
	c.Grant("helper")

	assert.NoError(t, RequireAllowed(c, "owner"))
	assert.NoError(t, RequireAllowed(c, "helper"))
	assert.True(t, errors.Is(RequireAllowed(c, "stranger"), domain.ErrNotAllowed))
	assert.True(t, errors.Is(RequireAllowed(nil, "owner"), domain.ErrNotAllowed))
}

func TestCanSeePricing(t *testing.T) {
	c := domain.NewCharacter("guild-1", "Bob", "", "", "owner")

	assert.True(t, CanSeePricing(c, "owner"))
	assert.False(t, CanSeePricing(c, "stranger"))
	assert.False(t, CanSeePricing(nil, "owner"))
}
