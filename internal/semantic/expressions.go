package semantic

import (
	"fmt"

	"github.com/hassandahiru/compiler/internal/lexer"
	"github.com/hassandahiru/compiler/internal/parser/ast"
	"github.com/hassandahiru/compiler/internal/semantic/types"
	"github.com/hassandahiru/compiler/internal/symtab"
)

// Expression visitor methods for semantic analysis.
//
// The operator-classifying predicates below (isNumericOp, isOrdinalOp, ...)
// mirror the original source's isNumericBOP/isOrdinalBOP/... string
// classifiers one for one, just keyed on token type instead of an operator
// string.

func isNumericOp(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash,
		lexer.TokenPercent, lexer.TokenBitAnd, lexer.TokenBitOr, lexer.TokenBitXor,
		lexer.TokenShl, lexer.TokenShr,
		lexer.TokenPlusEq, lexer.TokenMinusEq, lexer.TokenStarEq, lexer.TokenSlashEq,
		lexer.TokenPercentEq, lexer.TokenAndEq, lexer.TokenOrEq, lexer.TokenXorEq,
		lexer.TokenShlEq, lexer.TokenShrEq:
		return true
	default:
		return false
	}
}

func isOrdinalOp(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenGreater, lexer.TokenLess, lexer.TokenGreaterEqual, lexer.TokenLessEqual:
		return true
	default:
		return false
	}
}

func isEqualityOp(t lexer.TokenType) bool {
	return t == lexer.TokenEqual || t == lexer.TokenNotEqual
}

func (a *Analyzer) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	if isNumericOp(expr.Operator.Type) {
		return a.analyzeBOP(expr)
	}
	if isOrdinalOp(expr.Operator.Type) || isEqualityOp(expr.Operator.Type) {
		return a.analyzeComparisonBOP(expr)
	}

	a.trace.Unhandled("analyzerValue", "operator", expr.Operator.Lexeme)
	a.exprTypes[expr] = types.Invalid
	return types.Invalid, nil
}

// analyzeBOP handles the arithmetic/bitwise operator family, grounded on
// analyzerBOP. The assignment-operator branch of the original lives in
// VisitAssignmentExpr instead: the parser routes every assignment token to
// ast.AssignmentExpr, never ast.BinaryExpr, so this function never sees one.
func (a *Analyzer) analyzeBOP(expr *ast.BinaryExpr) (interface{}, error) {
	a.trace.Enter("BOP")
	defer a.trace.Leave()

	left := a.valueType(expr.Left)
	right := a.valueType(expr.Right)
	op := expr.Operator.Lexeme

	var result types.Type
	if !types.IsNumeric(left) || !types.IsNumeric(right) {
		if !types.IsNumeric(left) {
			a.sink.Op(expr.Left.Pos(), op, "numeric type", left)
		} else {
			a.sink.Op(expr.Right.Pos(), op, "numeric type", right)
		}
		result = types.Invalid
	} else if types.IsCompatible(left, right) {
		result = types.DeriveFromTwo(left, right)
	} else {
		a.sink.Mismatch(expr.Pos(), op, left, right)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

// analyzeComparisonBOP handles ordinal (<, <=, >, >=) and equality (==, !=)
// operators, grounded on analyzerComparisonBOP.
func (a *Analyzer) analyzeComparisonBOP(expr *ast.BinaryExpr) (interface{}, error) {
	a.trace.Enter("ComparisonBOP")
	defer a.trace.Leave()

	left := a.valueType(expr.Left)
	right := a.valueType(expr.Right)
	op := expr.Operator.Lexeme

	if isOrdinalOp(expr.Operator.Type) {
		if !types.IsOrdinal(left) || !types.IsOrdinal(right) {
			if !types.IsOrdinal(left) {
				a.sink.Op(expr.Left.Pos(), op, "comparable type", left)
			} else {
				a.sink.Op(expr.Right.Pos(), op, "comparable type", right)
			}
		}
	} else if !types.IsEquality(left) || !types.IsEquality(right) {
		if !types.IsEquality(left) {
			a.sink.Op(expr.Left.Pos(), op, "comparable type", left)
		} else {
			a.sink.Op(expr.Right.Pos(), op, "comparable type", right)
		}
	}

	var result types.Type
	if types.IsCompatible(left, right) {
		result = types.DeriveFromTwo(left, right)
	} else {
		a.sink.Mismatch(expr.Pos(), op, left, right)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	a.trace.Enter("UOP")
	defer a.trace.Leave()

	operand := a.valueType(expr.Operand)
	op := expr.Operator.Lexeme

	var result types.Type

	switch expr.Operator.Type {
	// Numeric operator family: arithmetic negation, increment/decrement,
	// logical not, bitwise not. All five share one requirement: a numeric
	// operand (see IsNumeric, which excludes bool).
	case lexer.TokenMinus, lexer.TokenPlusPlus, lexer.TokenMinusMinus,
		lexer.TokenNot, lexer.TokenBitNot:
		if !types.IsNumeric(operand) {
			a.sink.Op(expr.Operand.Pos(), op, "numeric type", operand)
			result = types.Invalid
		} else if expr.Operator.Type == lexer.TokenPlusPlus || expr.Operator.Type == lexer.TokenMinusMinus {
			a.checkLvalue(expr.Operand.Pos(), expr.Operand, operand, op)
			result = types.DeriveFrom(operand)
		} else {
			result = types.DeriveFrom(operand)
		}

	// Pointer dereference
	case lexer.TokenStar:
		if types.IsPtr(operand) {
			result = types.DeriveBase(operand)
		} else {
			a.sink.Op(expr.Operand.Pos(), op, "pointer", operand)
			result = types.Invalid
		}

	// Address-of
	case lexer.TokenBitAnd:
		a.checkLvalue(expr.Operand.Pos(), expr.Operand, operand, op)
		result = types.DerivePtr(operand)

	default:
		a.trace.Unhandled("analyzerUOP", "operator", op)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitLogicalExpr(expr *ast.LogicalExpr) (interface{}, error) {
	// && and || operate over the same condition-shaped operands as if/while/
	// ternary conditions (ordinals plus booleans), not a distinct boolean-only
	// check — this source language has no storage class separating bool from
	// int, so a numeric left/right is as legal here as it is in `if (x)`.
	left := a.valueType(expr.Left)
	right := a.valueType(expr.Right)

	op := expr.Operator.Lexeme
	if !types.IsCondition(left) {
		a.sink.Op(expr.Left.Pos(), op, "condition value", left)
	}
	if !types.IsCondition(right) {
		a.sink.Op(expr.Right.Pos(), op, "condition value", right)
	}

	a.exprTypes[expr] = types.Bool
	return types.Bool, nil
}

func (a *Analyzer) VisitTernaryExpr(expr *ast.TernaryExpr) (interface{}, error) {
	a.trace.Enter("Ternary")
	defer a.trace.Leave()

	cond := a.valueType(expr.Condition)
	then := a.valueType(expr.Then)
	els := a.valueType(expr.Else)

	if !types.IsCondition(cond) {
		a.sink.Op(expr.Condition.Pos(), "ternary ?:", "condition value", cond)
	}

	var result types.Type
	if types.IsCompatible(then, els) {
		result = types.DeriveUnified(then, els)
	} else {
		a.sink.Mismatch(expr.Pos(), "ternary ?:", then, els)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitCommaExpr(expr *ast.CommaExpr) (interface{}, error) {
	a.trace.Enter("CommaBOP")
	defer a.trace.Leave()

	_ = a.valueType(expr.Left)
	right := a.valueType(expr.Right)

	// The category predicates answer positively when given Invalid, while the
	// structural IsVoid does not; this is one of the rare spots where Invalid
	// needs its own answer, so IsInvalid is checked explicitly.
	var result types.Type
	if !types.IsVoid(right) || types.IsInvalid(right) {
		result = types.DeepCopy(right)
	} else {
		a.sink.Op(expr.Comma.Position, ",", "non-void", right)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitPointerTypeExpr(expr *ast.PointerTypeExpr) (interface{}, error) {
	// Pointer-type syntax only ever appears in type position (var/param/field
	// declarators), which resolveType handles directly without visiting the
	// node as a value. Reaching here means the parser produced a pointer
	// type where an expression was expected - an internal invariant failure,
	// not a user-facing diagnostic.
	a.trace.Unhandled("analyzerValue", "AST class", "PointerTypeExpr")
	return types.Invalid, nil
}

func (a *Analyzer) VisitLiteralExpr(expr *ast.LiteralExpr) (interface{}, error) {
	a.trace.Enter("Literal")
	defer a.trace.Leave()

	var resultType types.Type

	switch expr.Token.Type {
	case lexer.TokenNumber:
		// Determine if int or float based on the value
		switch expr.Value.(type) {
		case int64:
			resultType = types.Int
		case float64:
			resultType = types.Float
		default:
			resultType = types.Invalid
		}

	case lexer.TokenString:
		resultType = types.String

	case lexer.TokenChar:
		resultType = types.Char

	case lexer.TokenTrue, lexer.TokenFalse:
		resultType = types.Bool

	case lexer.TokenNil:
		resultType = types.Nil

	default:
		a.trace.Unhandled("analyzerLiteral", "AST class", expr.Token.Type.String())
		resultType = types.Invalid
	}

	a.exprTypes[expr] = resultType
	return resultType, nil
}

func (a *Analyzer) VisitIdentifierExpr(expr *ast.IdentifierExpr) (interface{}, error) {
	// Look up the symbol
	symbol := a.currentScope.Lookup(expr.Name)
	if symbol == nil {
		a.error(expr.Pos(), fmt.Sprintf("undefined: %s", expr.Name))
		a.exprTypes[expr] = types.Invalid
		return types.Invalid, nil
	}

	// Check it's not a type being used as a value
	if symbol.Kind == symtab.SymbolType {
		a.error(expr.Pos(), fmt.Sprintf("%s is a type, not a value", expr.Name))
		a.exprTypes[expr] = types.Invalid
		return types.Invalid, nil
	}

	symbol.MarkUsed()

	// Identifiers deep-copy their symbol's type, same as analyzerLiteral's
	// literalIdent case, so later mutation (e.g. derive_from stripping
	// lvalue-ness) never reaches back into the symbol table.
	resultType := types.DeepCopy(symbol.Type)
	a.exprTypes[expr] = resultType
	return resultType, nil
}

func (a *Analyzer) VisitCallExpr(expr *ast.CallExpr) (interface{}, error) {
	a.trace.Enter("Call")
	defer a.trace.Leave()

	calleeType := a.valueType(expr.Callee)

	if !types.IsCallable(calleeType) {
		a.sink.Op(expr.Callee.Pos(), "()", "function", calleeType)
		a.exprTypes[expr] = types.Invalid
		return types.Invalid, nil
	}

	// If callable, a result type can always be derived, regardless of
	// whether the parameter list matches.
	resultType := types.DeepCopy(types.DeriveReturn(calleeType))

	funcType, ok := calleeType.(*types.FunctionType)
	if !ok {
		if ptr, isPtr := calleeType.(*types.PointerType); isPtr {
			funcType, ok = ptr.Base.(*types.FunctionType)
		}
	}

	if ok && funcType != nil {
		if len(expr.Args) != len(funcType.Parameters) {
			callee := calleeName(expr.Callee)
			a.sink.Degree(expr.Pos(), "parameters", len(funcType.Parameters), len(expr.Args), callee)
		} else {
			for i, arg := range expr.Args {
				argType := a.valueType(arg)
				expected := funcType.Parameters[i]
				if !types.IsCompatible(argType, expected) {
					a.sink.ParamMismatch(expr.Pos(), i, calleeName(expr.Callee), expected, argType)
				}
			}
		}
	}

	a.exprTypes[expr] = resultType
	return resultType, nil
}

// calleeName extracts a human-readable name for a call's callee, for use in
// parameter-mismatch diagnostics. Falls back to a generic label when the
// callee isn't a plain identifier.
func calleeName(callee ast.Expr) string {
	if ident, ok := callee.(*ast.IdentifierExpr); ok {
		return ident.Name
	}
	return "<expression>"
}

func (a *Analyzer) VisitIndexExpr(expr *ast.IndexExpr) (interface{}, error) {
	a.trace.Enter("Index")
	defer a.trace.Leave()

	object := a.valueType(expr.Object)
	index := a.valueType(expr.Index)

	if !types.IsNumeric(index) {
		a.sink.Op(expr.Index.Pos(), "[]", "numeric index", index)
	}

	var result types.Type
	if types.IsArray(object) || types.IsPtr(object) {
		result = types.DeriveBase(object)
	} else {
		a.sink.Op(expr.Object.Pos(), "[]", "array or pointer", object)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitMemberExpr(expr *ast.MemberExpr) (interface{}, error) {
	a.trace.Enter("MemberBOP")
	defer a.trace.Leave()

	object := a.valueType(expr.Object)
	op := expr.Operator()

	var recordSymbol *symtab.Symbol

	if expr.Arrow {
		if !types.IsPtr(object) {
			a.sink.Op(expr.Object.Pos(), op, "pointer", object)
		} else if base := types.DeriveBase(object); !types.IsRecord(base) {
			a.sink.Op(expr.Object.Pos(), op, "structure pointer", object)
		}
	} else if !types.IsRecord(object) {
		a.sink.Op(expr.Object.Pos(), op, "structure type", object)
	}

	recordSymbol = a.recordSymbolFor(object)
	var field *symtab.Symbol
	if recordSymbol != nil {
		field = recordSymbol.Child(expr.Member.Name)
	}

	var result types.Type
	if field != nil {
		result = types.DeepCopy(field.Type)
	} else {
		a.sink.Member(expr.Member.Pos(), op, object, expr.Member.Name)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

// recordSymbolFor finds the symbol table entry backing a struct (or
// pointer-to-struct) type, so member access can walk its recorded children.
func (a *Analyzer) recordSymbolFor(t types.Type) *symtab.Symbol {
	if ptr, ok := t.(*types.PointerType); ok {
		t = ptr.Base
	}
	st, ok := t.(*types.StructType)
	if !ok {
		return nil
	}
	sym := a.globalScope.LookupLocal(st.Name)
	if sym == nil {
		sym = a.globalScope.Lookup(st.Name)
	}
	return sym
}

// VisitAssignmentExpr handles every assignment operator (=, +=, -=, ...).
// Grounded on analyzerBOP's assignment branch (analyzer-value.c:140-171):
// the parser routes assignment tokens here rather than to ast.BinaryExpr, so
// this is where that logic actually has to live.
func (a *Analyzer) VisitAssignmentExpr(expr *ast.AssignmentExpr) (interface{}, error) {
	op := expr.Operator.Lexeme
	targetType := a.valueType(expr.Target)
	valueType := a.valueType(expr.Value)

	if !types.IsAssignment(targetType) || !types.IsAssignment(valueType) {
		if !types.IsAssignment(targetType) {
			a.sink.Op(expr.Target.Pos(), op, "assignable type", targetType)
		} else {
			a.sink.Op(expr.Value.Pos(), op, "assignable type", valueType)
		}
	}

	a.checkLvalue(expr.Target.Pos(), expr.Target, targetType, op)

	var result types.Type
	if types.IsCompatible(targetType, valueType) {
		result = types.DeriveFrom(valueType)
	} else {
		a.sink.Mismatch(expr.Pos(), op, targetType, valueType)
		result = types.Invalid
	}

	a.exprTypes[expr] = result
	return result, nil
}

func (a *Analyzer) VisitGroupingExpr(expr *ast.GroupingExpr) (interface{}, error) {
	// Just pass through the inner expression's type
	innerType := a.valueType(expr.Expression)
	a.exprTypes[expr] = innerType
	return innerType, nil
}

func (a *Analyzer) VisitArrayLiteralExpr(expr *ast.ArrayLiteralExpr) (interface{}, error) {
	a.trace.Enter("ArrayLiteral")
	defer a.trace.Leave()

	var elementType types.Type

	if expr.ElementType != nil {
		// Explicit element type
		elementType = a.resolveType(expr.ElementType)
	} else if len(expr.Elements) > 0 {
		// Infer from first element, as the original does
		elementType = a.valueType(expr.Elements[0])
	} else {
		a.error(expr.Pos(), "cannot infer array type from empty literal")
		elementType = types.Invalid
	}

	// TODO: Check element types match (the original leaves this unchecked
	// too; only the first element's type determines the array's element
	// type, everything after it is analyzed for side effects only).
	for i, elem := range expr.Elements {
		if i == 0 && expr.ElementType == nil {
			continue // already analyzed above
		}
		a.valueType(elem)
	}

	arrayType := types.NewArray(elementType, len(expr.Elements))
	a.exprTypes[expr] = arrayType
	return arrayType, nil
}

func (a *Analyzer) VisitStructLiteralExpr(expr *ast.StructLiteralExpr) (interface{}, error) {
	// Look up struct type
	symbol := a.currentScope.Lookup(expr.TypeName.Name)
	if symbol == nil {
		a.error(expr.TypeName.Pos(), fmt.Sprintf("undefined struct: %s", expr.TypeName.Name))
		a.exprTypes[expr] = types.Invalid
		return types.Invalid, nil
	}

	if symbol.Kind != symtab.SymbolStruct {
		a.error(expr.TypeName.Pos(), fmt.Sprintf("%s is not a struct", expr.TypeName.Name))
		a.exprTypes[expr] = types.Invalid
		return types.Invalid, nil
	}

	structType := symbol.Type.(*types.StructType)

	// Check fields
	providedFields := make(map[string]bool)
	for _, field := range expr.Fields {
		// Check field exists
		structField := structType.LookupField(field.Name.Name)
		if structField == nil {
			a.error(field.Name.Pos(),
				fmt.Sprintf("struct %s has no field %s", structType.Name, field.Name.Name))
			continue
		}

		// Check for duplicate fields
		if providedFields[field.Name.Name] {
			a.error(field.Name.Pos(), fmt.Sprintf("duplicate field: %s", field.Name.Name))
			continue
		}
		providedFields[field.Name.Name] = true

		// Check field value type
		valueType := a.valueType(field.Value)
		a.assignable(valueType, structField.Type, field.Value.Pos())
	}

	// Check all fields are provided
	for _, structField := range structType.Fields {
		if !providedFields[structField.Name] {
			a.error(expr.Pos(), fmt.Sprintf("missing field: %s", structField.Name))
		}
	}

	a.exprTypes[expr] = structType
	return structType, nil
}
