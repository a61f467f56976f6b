package semantic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/compiler/internal/diagnostics"
	"github.com/hassandahiru/compiler/internal/lexer"
	"github.com/hassandahiru/compiler/internal/parser"
)

func analyze(t *testing.T, src string) (*Analyzer, *diagnostics.Sink) {
	t.Helper()
	l := lexer.New(src, "test.src")
	p := parser.New(l)
	file, parseErrs := p.ParseFile("test.src")
	require.Empty(t, parseErrs, "unexpected parse errors: %v", parseErrs)

	var buf bytes.Buffer
	sink := diagnostics.NewSink(&buf)
	a := New(WithSink(sink))
	a.Analyze(file)
	return a, sink
}

func TestAnalyzer_NumericBinaryOperandMismatch(t *testing.T) {
	_, sink := analyze(t, "package main\nvar x = 1 + true;\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "requires numeric type, found bool")
}

func TestAnalyzer_TernaryCompatibleBranches(t *testing.T) {
	_, sink := analyze(t, "package main\nvar a = 1;\nvar b = 2;\nvar x = a == b ? 1 : 2;\n")

	assert.Empty(t, sink.Errors)
}

func TestAnalyzer_TernaryIncompatibleBranches(t *testing.T) {
	_, sink := analyze(t, "package main\nvar x = true ? 1 : true;\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "type mismatch")
}

func TestAnalyzer_CommaAcceptsNonVoidRight(t *testing.T) {
	_, sink := analyze(t, "package main\nfunc g() { }\nfunc f() { g(), 1; }\n")

	for _, e := range sink.Errors {
		assert.NotContains(t, e, "requires non-void")
	}
}

func TestAnalyzer_CommaRejectsVoidRight(t *testing.T) {
	_, sink := analyze(t, "package main\nfunc g() { }\nfunc f() { 1, g(); }\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "requires non-void")
}

func TestAnalyzer_PointerDerefAndAddressOf(t *testing.T) {
	_, sink := analyze(t, "package main\nvar v = 1;\nvar p = &v;\nvar w = *p;\n")

	assert.Empty(t, sink.Errors)
}

func TestAnalyzer_DereferenceNonPointer(t *testing.T) {
	_, sink := analyze(t, "package main\nvar v = 1;\nvar w = *v;\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "requires pointer")
}

func TestAnalyzer_ArrowMemberAccessOnNonPointerStruct(t *testing.T) {
	_, sink := analyze(t, "package main\nstruct S { a int; }\nfunc f(s S) { s->a; }\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "requires pointer")
}

func TestAnalyzer_DotMemberAccessOnStruct(t *testing.T) {
	_, sink := analyze(t, "package main\nstruct S { a int; }\nfunc f(s S) { s.a; }\n")

	assert.Empty(t, sink.Errors)
}

func TestAnalyzer_CallArityMismatch(t *testing.T) {
	_, sink := analyze(t, "package main\nfunc f(a int) { }\nfunc g() { f(); }\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "parameters expected")
}

func TestAnalyzer_IndexRequiresNumeric(t *testing.T) {
	_, sink := analyze(t, "package main\nvar p *int;\nfunc f() { p[true]; }\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "requires numeric index")
}

func TestAnalyzer_DoWhileConditionMustBeConditionType(t *testing.T) {
	_, sink := analyze(t, "package main\nfunc g() { }\nfunc f() { do { } while (g()); }\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "do-while")
}

func TestAnalyzer_DoWhileAcceptsNumericCondition(t *testing.T) {
	_, sink := analyze(t, "package main\nvar x = 1;\nfunc f() { do { x = x + 1; } while (x); }\n")

	assert.Empty(t, sink.Errors)
}

func TestAnalyzer_AssignmentMismatchReportsTypeMismatch(t *testing.T) {
	_, sink := analyze(t, "package main\nvar x int;\nfunc f() { x = true; }\n")

	require.Len(t, sink.Errors, 1)
	assert.Contains(t, sink.Errors[0], "type mismatch")
}

func TestAnalyzer_CompoundAssignmentResultDerivesFromValue(t *testing.T) {
	_, sink := analyze(t, "package main\nvar x int;\nfunc f() { x += 1; }\n")

	assert.Empty(t, sink.Errors)
}
