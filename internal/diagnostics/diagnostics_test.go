package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/compiler/internal/lexer"
	"github.com/hassandahiru/compiler/internal/semantic/types"
)

func pos(line, col int) lexer.Position {
	return lexer.Position{Filename: "test.src", Line: line, Column: col}
}

func TestSink_ErrorfFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Errorf(pos(3, 7), "undefined symbol: %s", "x")

	require.Len(t, sink.Errors, 1)
	assert.Equal(t, "error(3:7): undefined symbol: x", sink.Errors[0])
	assert.Equal(t, "error(3:7): undefined symbol: x\n", buf.String())
	assert.True(t, sink.HasErrors())
}

func TestSink_WarnfFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Warnf(pos(1, 1), "value discarded")

	require.Len(t, sink.Warnings, 1)
	assert.Equal(t, "warning(1:1): value discarded", sink.Warnings[0])
	assert.False(t, sink.HasErrors())
}

func TestSink_InvalidPositionOmitsLineCol(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Errorf(lexer.Position{}, "something went wrong")

	require.Len(t, sink.Errors, 1)
	assert.Equal(t, "error: something went wrong", sink.Errors[0])
}

func TestSink_Op(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Op(pos(1, 5), "+", "numeric type", types.Bool)

	assert.Equal(t, "error(1:5): + requires numeric type, found bool", sink.Errors[0])
}

func TestSink_Mismatch(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Mismatch(pos(2, 2), "=", types.Int, types.Bool)

	assert.Equal(t, "error(2:2): type mismatch between int and bool for =", sink.Errors[0])
}

func TestSink_Degree(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Degree(pos(4, 1), "parameters", 1, 0, "f")

	assert.Equal(t, "error(4:1): 1 parameters expected, 0 given to f", sink.Errors[0])
}

func TestSink_ParamMismatch(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.ParamMismatch(pos(5, 1), 1, "f", types.Int, types.Bool)

	assert.Equal(t, "error(5:1): type mismatch at parameter 1 of f: expected int, found bool", sink.Errors[0])
}

func TestSink_Member(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Member(pos(6, 3), "->", types.Int, "field")

	assert.Equal(t, "error(6:3): -> expected field of int, found field", sink.Errors[0])
}

func TestSink_NoColorWhenNotATerminal(t *testing.T) {
	// bytes.Buffer is never a terminal, so output must stay plain regardless
	// of what color would otherwise do to it.
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.Errorf(pos(1, 1), "boom")

	assert.NotContains(t, buf.String(), "\x1b[")
}
