package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	var s Selection
	assert.Empty(t, s.Selected())

	_, err := s.Pick(1)
	assert.ErrorIs(t, err, ErrNoSuchSuggestion)

	s.Show(sample[:2])
	name, err := s.Pick(2)
	require.NoError(t, err)
	assert.Equal(t, "Ervin Howell", name)
	assert.Equal(t, "Ervin Howell", s.Selected())

	_, err = s.Pick(3)
	assert.ErrorIs(t, err, ErrNoSuchSuggestion)
	_, err = s.Pick(0)
	assert.ErrorIs(t, err, ErrNoSuchSuggestion)

	assert.Equal(t, "Leanne Graham", s.Select("Leanne Graham"))
	assert.Equal(t, "Leanne Graham", s.Selected())
	assert.Len(t, s.Shown(), 2)
}

func TestSelection_ShowCopies(t *testing.T) {
	var s Selection
	list := append(sample[:0:0], sample...)
	s.Show(list)
	list[0].Name = "changed"

	assert.Equal(t, "Leanne Graham", s.Shown()[0].Name)
}
