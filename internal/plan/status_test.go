package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusSymbolRoundTrip(t *testing.T) {
	t.Parallel()

	for _, status := range []Status{StatusTodo, StatusDoing, StatusDone} {
		sym, err := status.Symbol()
		require.NoError(t, err)

		back, ok := StatusForSymbol(sym)
		require.True(t, ok)
		assert.Equal(t, status, back)
	}
}

func TestStatusSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		sym    byte
	}{
		{StatusTodo, ' '},
		{StatusDoing, '*'},
		{StatusDone, 'x'},
	}

	for _, tt := range tests {
		sym, err := tt.status.Symbol()
		require.NoError(t, err)
		assert.Equal(t, tt.sym, sym)
	}
}

func TestStatusForSymbolRejectsUnknown(t *testing.T) {
	t.Parallel()

	for _, sym := range []byte{'y', '-', '?', 'X', '0'} {
		_, ok := StatusForSymbol(sym)
		assert.False(t, ok, "symbol %q must not decode", string(sym))
	}
}

func TestSymbolRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	_, err := Status("blocked").Symbol()
	require.Error(t, err)
}
