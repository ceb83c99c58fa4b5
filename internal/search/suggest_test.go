package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	history := []string{"credit score", "taxes", "tfsa limits"}
	assert.Equal(t, history, Suggest("", history, 0))
	assert.Equal(t, []string{"credit score"}, Suggest("crd", history, 0))
	assert.Len(t, Suggest("", history, 2), 2)
	assert.Empty(t, Suggest("zzz", history, 0))
}
