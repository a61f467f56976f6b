package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/compiler/internal/lexer"
	"github.com/hassandahiru/compiler/internal/parser/ast"
)

func parseSource(t *testing.T, src string) *ast.File {
	t.Helper()
	l := lexer.New(src, "test.src")
	p := New(l)
	file, errs := p.ParseFile("test.src")
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return file
}

func firstVarInit(t *testing.T, file *ast.File) ast.Expr {
	t.Helper()
	require.NotEmpty(t, file.Decls)
	v, ok := file.Decls[0].(*ast.VarDecl)
	require.True(t, ok, "expected first decl to be a VarDecl, got %T", file.Decls[0])
	require.NotNil(t, v.Initializer)
	return v.Initializer
}

func TestParsePointerType(t *testing.T) {
	file := parseSource(t, "package main\nvar p *int;\n")
	v := file.Decls[0].(*ast.VarDecl)
	ptr, ok := v.Type.(*ast.PointerTypeExpr)
	require.True(t, ok, "expected PointerTypeExpr, got %T", v.Type)
	base, ok := ptr.Base.(*ast.IdentifierExpr)
	require.True(t, ok)
	assert.Equal(t, "int", base.Name)
}

func TestParsePointerToPointerType(t *testing.T) {
	file := parseSource(t, "package main\nvar p **int;\n")
	v := file.Decls[0].(*ast.VarDecl)
	outer, ok := v.Type.(*ast.PointerTypeExpr)
	require.True(t, ok)
	inner, ok := outer.Base.(*ast.PointerTypeExpr)
	require.True(t, ok, "expected nested PointerTypeExpr, got %T", outer.Base)
	base, ok := inner.Base.(*ast.IdentifierExpr)
	require.True(t, ok)
	assert.Equal(t, "int", base.Name)
}

func TestParseTernaryExpr(t *testing.T) {
	file := parseSource(t, "package main\nvar x = a ? b : c;\n")
	expr := firstVarInit(t, file)
	ternary, ok := expr.(*ast.TernaryExpr)
	require.True(t, ok, "expected TernaryExpr, got %T", expr)
	assert.IsType(t, &ast.IdentifierExpr{}, ternary.Condition)
	assert.IsType(t, &ast.IdentifierExpr{}, ternary.Then)
	assert.IsType(t, &ast.IdentifierExpr{}, ternary.Else)
}

func TestParseTernaryRightAssociative(t *testing.T) {
	// a ? b : c ? d : e  ==  a ? b : (c ? d : e)
	file := parseSource(t, "package main\nvar x = a ? b : c ? d : e;\n")
	expr := firstVarInit(t, file)
	outer, ok := expr.(*ast.TernaryExpr)
	require.True(t, ok)
	_, innerIsTernary := outer.Else.(*ast.TernaryExpr)
	assert.True(t, innerIsTernary, "expected else-branch to nest a ternary, got %T", outer.Else)
}

func TestParseCommaInExprStmt(t *testing.T) {
	file := parseSource(t, "package main\nfunc f() { a, b; }\n")
	fn := file.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Statements, 1)
	stmt := fn.Body.Statements[0].(*ast.ExprStmt)
	_, ok := stmt.Expression.(*ast.CommaExpr)
	assert.True(t, ok, "expected CommaExpr at statement position, got %T", stmt.Expression)
}

func TestCommaNotAbsorbedInCallArgs(t *testing.T) {
	// Call arguments are parsed at PrecAssignment; the comma here separates
	// arguments, it must not be swallowed into a CommaExpr.
	file := parseSource(t, "package main\nfunc f() { g(a, b); }\n")
	fn := file.Decls[0].(*ast.FuncDecl)
	stmt := fn.Body.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.Expression.(*ast.CallExpr)
	require.True(t, ok, "expected CallExpr, got %T", stmt.Expression)
	assert.Len(t, call.Args, 2)
}

func TestParseForPostCommaAbsorbed(t *testing.T) {
	file := parseSource(t, "package main\nfunc f() { for (i = 0; i; i = i + 1, j = j - 1) { } }\n")
	fn := file.Decls[0].(*ast.FuncDecl)
	forStmt := fn.Body.Statements[0].(*ast.ForStmt)
	require.NotNil(t, forStmt.Post)
	postStmt, ok := forStmt.Post.(*ast.ExprStmt)
	require.True(t, ok, "expected post-clause to be an ExprStmt, got %T", forStmt.Post)
	_, ok = postStmt.Expression.(*ast.CommaExpr)
	assert.True(t, ok, "expected the for-loop post-clause to absorb the comma, got %T", postStmt.Expression)
}

func TestParseArrowMemberAccess(t *testing.T) {
	file := parseSource(t, "package main\nvar x = p->field;\n")
	expr := firstVarInit(t, file)
	member, ok := expr.(*ast.MemberExpr)
	require.True(t, ok, "expected MemberExpr, got %T", expr)
	assert.True(t, member.Arrow)
	assert.Equal(t, "->", member.Operator())
}

func TestParseDotMemberAccess(t *testing.T) {
	file := parseSource(t, "package main\nvar x = s.field;\n")
	expr := firstVarInit(t, file)
	member, ok := expr.(*ast.MemberExpr)
	require.True(t, ok, "expected MemberExpr, got %T", expr)
	assert.False(t, member.Arrow)
	assert.Equal(t, ".", member.Operator())
}

func TestParseDoWhileStmt(t *testing.T) {
	file := parseSource(t, "package main\nfunc f() { do { x = x + 1; } while (x); }\n")
	fn := file.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Statements, 1)
	loop, ok := fn.Body.Statements[0].(*ast.WhileStmt)
	require.True(t, ok, "expected WhileStmt, got %T", fn.Body.Statements[0])
	assert.True(t, loop.IsDoWhile)
	assert.Len(t, loop.Body.Statements, 1)
	_, ok = loop.Condition.(*ast.IdentifierExpr)
	assert.True(t, ok, "expected condition to be an IdentifierExpr, got %T", loop.Condition)
}

func TestParseWhileStmtIsNotDoWhile(t *testing.T) {
	file := parseSource(t, "package main\nfunc f() { while (x) { x = x - 1; } }\n")
	fn := file.Decls[0].(*ast.FuncDecl)
	loop, ok := fn.Body.Statements[0].(*ast.WhileStmt)
	require.True(t, ok, "expected WhileStmt, got %T", fn.Body.Statements[0])
	assert.False(t, loop.IsDoWhile)
}

func TestParseDereferenceAndAddressOf(t *testing.T) {
	file := parseSource(t, "package main\nvar x = *p;\nvar y = &v;\n")
	require.Len(t, file.Decls, 2)

	deref := file.Decls[0].(*ast.VarDecl).Initializer.(*ast.UnaryExpr)
	assert.Equal(t, lexer.TokenStar, deref.Operator.Type)

	addr := file.Decls[1].(*ast.VarDecl).Initializer.(*ast.UnaryExpr)
	assert.Equal(t, lexer.TokenBitAnd, addr.Operator.Type)
}
