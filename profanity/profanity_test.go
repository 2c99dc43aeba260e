package profanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector(t *testing.T) {
	t.Parallel()
	d := NewDetector()

	assert.True(t, d.IsProfane("shit"))
	assert.False(t, d.IsProfane("apple"))
	assert.False(t, d.IsProfane("banana"))
}
