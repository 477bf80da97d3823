package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Format(t *testing.T) {
	ref := New()

	assert.True(t, strings.HasPrefix(ref, "BK"))
	assert.Len(t, ref, len("BK")+13+8)
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := New()
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
