package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedPayload struct {
	Name   string `json:"name" validate:"required,max=5"`
	Amount string `json:"amount" validate:"positive_money"`
}

func TestMessages_SortedFieldLines(t *testing.T) {
	err := NewValidator().Struct(namedPayload{Name: "", Amount: "-1"})
	require.Error(t, err)

	assert.Equal(t, []string{
		"amount: must be greater than 0 with at most 2 decimal places",
		"name: is required",
	}, Messages(err))
}

func TestMessages_LengthLimit(t *testing.T) {
	err := NewValidator().Struct(namedPayload{Name: "toolong", Amount: "1"})
	require.Error(t, err)

	assert.Equal(t, []string{"name: must be at most 5 characters long"}, Messages(err))
}

func TestMessages_PlainError(t *testing.T) {
	assert.Equal(t, []string{"boom"}, Messages(errors.New("boom")))
}
