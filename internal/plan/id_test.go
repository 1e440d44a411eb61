package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "single letter", id: "a", want: true},
		{name: "single digit", id: "7", want: true},
		{name: "mixed charset", id: "t_1-abc", want: true},
		{name: "max length", id: "a" + strings.Repeat("b", 127), want: true},
		{name: "empty", id: "", want: false},
		{name: "leading underscore", id: "_a", want: false},
		{name: "leading dash", id: "-a", want: false},
		{name: "too long", id: "a" + strings.Repeat("b", 128), want: false},
		{name: "dollar sign", id: "a$b", want: false},
		{name: "space", id: "a b", want: false},
		{name: "dot", id: "a.b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsValidID(tt.id))
		})
	}
}

func TestNewTaskID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 100 {
		id := NewTaskID()

		require.True(t, IsValidID(id), "generated id %q must satisfy the id grammar", id)
		require.True(t, strings.HasPrefix(id, "t-"))
		require.False(t, seen[id], "generated id %q repeated", id)

		seen[id] = true
	}
}
