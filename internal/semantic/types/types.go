// Package types implements the type system for the compiler.
//
// DESIGN PHILOSOPHY:
// A strong, static type system catches errors at compile time and enables optimizations.
// Our type system supports:
// 1. Primitive types (int, float, bool, string, char)
// 2. Composite types (arrays, structs, pointers)
// 3. Function types
// 4. Category predicates (numeric, ordinal, condition-shaped, assignable, callable...)
// 5. Shape-deriving operations used by the expression analyzer
//
// KEY DESIGN CHOICES:
// - Nominal typing for structs (struct Point != struct{x int; y int})
// - Structural typing for function and pointer types
// - Invalid is a propagating poison: most predicates answer positively for it so that
//   one root-cause error does not cascade into hundreds of follow-on diagnostics.
package types

import (
	"fmt"
	"strings"
)

// Type is the interface that all types implement.
//
// DESIGN CHOICE: Use an interface rather than a struct with a "kind" field because:
// - Type-safe (each type has its own struct)
// - Easy to extend (add new methods to specific types)
// - Pattern matching via type switches
// - Follows Go conventions (ast.Node, etc.)
type Type interface {
	// String returns a human-readable representation of the type
	String() string

	// Equals checks if this type is structurally identical to another type.
	// This is stricter than IsCompatible: it never treats Invalid as a wildcard
	// and never decays arrays to pointers.
	Equals(other Type) bool

	// AssignableTo checks if a value of this type can be assigned to another type
	AssignableTo(other Type) bool

	// Describe renders the type in declarator style, splicing suffix into the
	// position a C-style declarator would put the identifier being declared.
	// Describe("") is equivalent to String() with the trailing space trimmed.
	Describe(suffix string) string

	// kind returns the kind of type (for internal use)
	// We don't export this because external code should use type switches
	kind() TypeKind
}

// TypeKind represents the kind of type.
// This is used internally for quick type checks.
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindVoid
	KindInt
	KindFloat
	KindBool
	KindString
	KindChar
	KindArray
	KindStruct
	KindFunction
	KindPointer
	KindNil
)

// Base type implementations

// InvalidType represents an invalid or error type.
// This is used when type checking fails, to allow checking to continue.
//
// INVARIANT: Invalid is a poison value. Equals/AssignableTo answer true against
// anything so that a single root-cause type error does not produce a cascade of
// unrelated follow-on diagnostics at every site that touches the broken value.
// Callers that need to distinguish a genuine Invalid from "anything goes" must
// use IsInvalid, not Equals/AssignableTo (the comma operator is the one site
// in this analyzer that needs that distinction).
type InvalidType struct{}

func (i *InvalidType) String() string                  { return "<invalid>" }
func (i *InvalidType) Equals(other Type) bool          { return true }
func (i *InvalidType) AssignableTo(other Type) bool    { return true }
func (i *InvalidType) Describe(suffix string) string   { return joinDeclarator("<invalid>", suffix) }
func (i *InvalidType) kind() TypeKind                  { return KindInvalid }

// VoidType represents the absence of a type (void functions)
type VoidType struct{}

func (v *VoidType) String() string                { return "void" }
func (v *VoidType) Equals(other Type) bool        { return IsInvalid(other) || isKind(other, KindVoid) }
func (v *VoidType) AssignableTo(other Type) bool  { return false }
func (v *VoidType) Describe(suffix string) string { return joinDeclarator("void", suffix) }
func (v *VoidType) kind() TypeKind                 { return KindVoid }

// IntType represents integer type
type IntType struct{}

func (i *IntType) String() string                { return "int" }
func (i *IntType) Equals(other Type) bool        { return IsInvalid(other) || isKind(other, KindInt) }
func (i *IntType) AssignableTo(other Type) bool  { return i.Equals(other) }
func (i *IntType) Describe(suffix string) string { return joinDeclarator("int", suffix) }
func (i *IntType) kind() TypeKind                 { return KindInt }

// FloatType represents floating-point type
type FloatType struct{}

func (f *FloatType) String() string                { return "float" }
func (f *FloatType) Equals(other Type) bool        { return IsInvalid(other) || isKind(other, KindFloat) }
func (f *FloatType) AssignableTo(other Type) bool  { return f.Equals(other) }
func (f *FloatType) Describe(suffix string) string { return joinDeclarator("float", suffix) }
func (f *FloatType) kind() TypeKind                 { return KindFloat }

// BoolType represents boolean type
type BoolType struct{}

func (b *BoolType) String() string                { return "bool" }
func (b *BoolType) Equals(other Type) bool        { return IsInvalid(other) || isKind(other, KindBool) }
func (b *BoolType) AssignableTo(other Type) bool  { return b.Equals(other) }
func (b *BoolType) Describe(suffix string) string { return joinDeclarator("bool", suffix) }
func (b *BoolType) kind() TypeKind                 { return KindBool }

// StringType represents string type
type StringType struct{}

func (s *StringType) String() string                { return "string" }
func (s *StringType) Equals(other Type) bool        { return IsInvalid(other) || isKind(other, KindString) }
func (s *StringType) AssignableTo(other Type) bool  { return s.Equals(other) }
func (s *StringType) Describe(suffix string) string { return joinDeclarator("string", suffix) }
func (s *StringType) kind() TypeKind                 { return KindString }

// CharType represents character type
type CharType struct{}

func (c *CharType) String() string                { return "char" }
func (c *CharType) Equals(other Type) bool        { return IsInvalid(other) || isKind(other, KindChar) }
func (c *CharType) AssignableTo(other Type) bool  { return c.Equals(other) }
func (c *CharType) Describe(suffix string) string { return joinDeclarator("char", suffix) }
func (c *CharType) kind() TypeKind                 { return KindChar }

// NilType represents the type of the nil literal
//
// DESIGN CHOICE: Separate type for nil because:
// - nil is assignable to many types (pointers, arrays, etc.)
// - Makes type checking clearer
// - Matches languages like Go, Java
type NilType struct{}

func (n *NilType) String() string         { return "nil" }
func (n *NilType) Equals(other Type) bool { return IsInvalid(other) || isKind(other, KindNil) }
func (n *NilType) AssignableTo(other Type) bool {
	// nil is assignable to pointers, arrays, and structs (nullable types)
	switch other.(type) {
	case *PointerType, *ArrayType, *StructType:
		return true
	default:
		return IsInvalid(other)
	}
}
func (n *NilType) Describe(suffix string) string { return joinDeclarator("nil", suffix) }
func (n *NilType) kind() TypeKind                 { return KindNil }

// Composite types

// PointerType represents a pointer type: *T
//
// Absent from the teacher's original type system (the donor language had no
// pointer support); required by this analyzer for `*`/`&`/`->` semantics.
type PointerType struct {
	Base Type
}

func (p *PointerType) String() string { return p.Describe("") }

func (p *PointerType) Equals(other Type) bool {
	if IsInvalid(other) {
		return true
	}
	otherPtr, ok := other.(*PointerType)
	if !ok {
		return false
	}
	return p.Base.Equals(otherPtr.Base)
}

func (p *PointerType) AssignableTo(other Type) bool {
	return p.Equals(other)
}

func (p *PointerType) Describe(suffix string) string {
	inner := "*" + suffix
	if needsGrouping(p.Base) {
		inner = "(" + inner + ")"
	}
	return p.Base.Describe(inner)
}

func (p *PointerType) kind() TypeKind { return KindPointer }

// ArrayType represents an array type: []T or [N]T
//
// DESIGN CHOICE: Single type for both fixed and dynamic arrays because:
// - Similar operations (indexing, iteration)
// - Size -1 indicates dynamic array
// - Simplifies type checking
type ArrayType struct {
	ElementType Type
	Size        int // -1 for dynamic arrays (slices)
}

func (a *ArrayType) String() string {
	if a.Size < 0 {
		return "[]" + a.ElementType.String()
	}
	return fmt.Sprintf("[%d]%s", a.Size, a.ElementType.String())
}

func (a *ArrayType) Equals(other Type) bool {
	if IsInvalid(other) {
		return true
	}
	otherArray, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	return a.Size == otherArray.Size && a.ElementType.Equals(otherArray.ElementType)
}

func (a *ArrayType) AssignableTo(other Type) bool {
	return a.Equals(other)
}

func (a *ArrayType) Describe(suffix string) string {
	var dims string
	if a.Size < 0 {
		dims = "[]"
	} else {
		dims = fmt.Sprintf("[%d]", a.Size)
	}
	return a.ElementType.Describe(suffix + dims)
}

func (a *ArrayType) kind() TypeKind {
	return KindArray
}

// StructType represents a struct type
//
// NOMINAL TYPING: Structs are equal only if they're the same struct.
// struct Point {x int; y int} != struct {x int; y int}
type StructType struct {
	Name   string
	Fields []StructField
}

// StructField represents a field in a struct
type StructField struct {
	Name string
	Type Type
}

func (s *StructType) String() string {
	if s.Name != "" {
		return "struct " + s.Name
	}
	// Anonymous struct
	parts := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		parts[i] = field.Name + " " + field.Type.String()
	}
	return "struct {" + strings.Join(parts, "; ") + "}"
}

func (s *StructType) Equals(other Type) bool {
	if IsInvalid(other) {
		return true
	}
	otherStruct, ok := other.(*StructType)
	if !ok {
		return false
	}
	// Named structs: compare by name (nominal typing)
	if s.Name != "" && otherStruct.Name != "" {
		return s.Name == otherStruct.Name
	}
	// Anonymous structs: compare structurally
	if len(s.Fields) != len(otherStruct.Fields) {
		return false
	}
	for i, field := range s.Fields {
		otherField := otherStruct.Fields[i]
		if field.Name != otherField.Name || !field.Type.Equals(otherField.Type) {
			return false
		}
	}
	return true
}

func (s *StructType) AssignableTo(other Type) bool {
	return s.Equals(other)
}

func (s *StructType) Describe(suffix string) string {
	return joinDeclarator(s.String(), suffix)
}

func (s *StructType) kind() TypeKind {
	return KindStruct
}

// LookupField finds a field by name.
// Returns nil if not found.
func (s *StructType) LookupField(name string) *StructField {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FunctionType represents a function type
//
// STRUCTURAL TYPING: Functions are equal if they have the same signature.
type FunctionType struct {
	Parameters []Type
	ReturnType Type
}

func (f *FunctionType) String() string { return f.Describe("") }

func (f *FunctionType) Equals(other Type) bool {
	if IsInvalid(other) {
		return true
	}
	otherFunc, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if !f.ReturnType.Equals(otherFunc.ReturnType) {
		return false
	}
	if len(f.Parameters) != len(otherFunc.Parameters) {
		return false
	}
	for i, param := range f.Parameters {
		if !param.Equals(otherFunc.Parameters[i]) {
			return false
		}
	}
	return true
}

func (f *FunctionType) AssignableTo(other Type) bool {
	return f.Equals(other)
}

func (f *FunctionType) Describe(suffix string) string {
	params := make([]string, len(f.Parameters))
	for i, param := range f.Parameters {
		params[i] = param.String()
	}
	inner := suffix + "(" + strings.Join(params, ", ") + ")"
	return f.ReturnType.Describe(inner)
}

func (f *FunctionType) kind() TypeKind {
	return KindFunction
}

// needsGrouping reports whether a pointer/array wrapping t needs parentheses
// around the declarator suffix to keep C-style declarator syntax unambiguous,
// e.g. "int (*)(char, char)" (pointer to function) vs "int *(char, char)"
// (function returning pointer).
func needsGrouping(t Type) bool {
	switch t.kind() {
	case KindFunction, KindArray:
		return true
	default:
		return false
	}
}

// joinDeclarator glues a base type name to a declarator suffix, matching the
// original C emitter's typeToStr(t, suffix) convention.
func joinDeclarator(name, suffix string) string {
	if suffix == "" {
		return name
	}
	return name + " " + suffix
}

func isKind(t Type, k TypeKind) bool {
	return t != nil && t.kind() == k
}

// Predefined type instances (singletons)
// These are used throughout the compiler to avoid allocating new type instances
var (
	Invalid = &InvalidType{}
	Void    = &VoidType{}
	Int     = &IntType{}
	Float   = &FloatType{}
	Bool    = &BoolType{}
	String  = &StringType{}
	Char    = &CharType{}
	Nil     = &NilType{}
)

// Category predicates
//
// These mirror the original analyzer's typeIsXxx family exactly: they are the
// vocabulary every operator-typing rule in the expression analyzer is built
// from (see internal/semantic/expressions.go).

// IsInvalid reports whether t is the Invalid poison type.
func IsInvalid(t Type) bool {
	return isKind(t, KindInvalid)
}

// IsVoid reports whether t is Void.
func IsVoid(t Type) bool {
	return isKind(t, KindVoid)
}

// IsPtr reports whether t is a pointer type.
func IsPtr(t Type) bool {
	return isKind(t, KindPointer)
}

// IsArray reports whether t is an array type.
func IsArray(t Type) bool {
	return isKind(t, KindArray)
}

// IsRecord reports whether t is a struct (or, were union declarations
// supported by this port's grammar, a union) type.
func IsRecord(t Type) bool {
	return isKind(t, KindStruct)
}

// IsBasic reports whether t is one of the primitive scalar kinds.
func IsBasic(t Type) bool {
	switch t.kind() {
	case KindInt, KindFloat, KindBool, KindString, KindChar:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t is integer, floating-point or character-like.
// Booleans, pointers, and compound types are not numeric; Invalid answers
// true so that it does not trigger follow-on diagnostics.
func IsNumeric(t Type) bool {
	switch t.kind() {
	case KindInt, KindFloat, KindChar, KindInvalid:
		return true
	default:
		return false
	}
}

// IsOrdinal reports whether t admits <, <=, >, >=: numerics and pointers.
func IsOrdinal(t Type) bool {
	return IsNumeric(t) || IsPtr(t)
}

// IsEquality reports whether t admits ==, !=: ordinals plus booleans.
func IsEquality(t Type) bool {
	return IsOrdinal(t) || isKind(t, KindBool)
}

// IsCondition reports whether t may drive if/while/for/?:: ordinals plus booleans.
func IsCondition(t Type) bool {
	return IsOrdinal(t) || isKind(t, KindBool)
}

// IsAssignment reports whether t is a legal operand of assignment: anything
// but function and void.
func IsAssignment(t Type) bool {
	return !isKind(t, KindFunction) && !IsVoid(t)
}

// IsCallable reports whether t can appear as a call's callee: a function, or
// a pointer to one. Invalid answers true.
func IsCallable(t Type) bool {
	if IsInvalid(t) {
		return true
	}
	if isKind(t, KindFunction) {
		return true
	}
	if ptr, ok := t.(*PointerType); ok {
		return isKind(ptr.Base, KindFunction)
	}
	return false
}

// IsBooleanType returns true if the type is boolean.
func IsBooleanType(t Type) bool {
	return isKind(t, KindBool)
}

// IsIntegerType returns true if the type is integer.
func IsIntegerType(t Type) bool {
	return isKind(t, KindInt)
}

// IsComparable returns true if values of this type can be compared with ==, !=.
// Retained from the teacher's original helper set for callers that want plain
// equality without the ordinal/boolean split IsEquality draws.
func IsComparable(t Type) bool {
	switch t.kind() {
	case KindInt, KindFloat, KindBool, KindString, KindChar:
		return true
	default:
		return false
	}
}

// IsOrdered returns true if values of this type can be compared with <, <=, >, >=.
func IsOrdered(t Type) bool {
	switch t.kind() {
	case KindInt, KindFloat, KindString, KindChar:
		return true
	default:
		return false
	}
}

// IsCompatible answers whether a and b may be merged at an operator or
// assignment site: equal after decaying arrays to pointers, and permissive
// the moment either side is Invalid. This is the one relation every binary
// operator, return statement, and call argument check routes through.
func IsCompatible(a, b Type) bool {
	if IsInvalid(a) || IsInvalid(b) {
		return true
	}
	return decayArray(a).Equals(decayArray(b))
}

func decayArray(t Type) Type {
	if arr, ok := t.(*ArrayType); ok {
		return &PointerType{Base: arr.ElementType}
	}
	return t
}

// Derivations
//
// Every derivation returns a freshly allocated type (a "deep duplicate" in
// the original's terms) so that later mutation of one node's dt can never be
// observed through another node that merely shares a shape.

// DeepCopy returns a structural duplicate of t. Used at the handful of sites
// the spec calls out explicitly (member field access, identifier literals,
// call return types) to keep surfaced types independent of the symbol table
// entries they were copied from.
func DeepCopy(t Type) Type {
	switch v := t.(type) {
	case *InvalidType:
		return Invalid
	case *VoidType:
		return Void
	case *IntType:
		return Int
	case *FloatType:
		return Float
	case *BoolType:
		return Bool
	case *StringType:
		return String
	case *CharType:
		return Char
	case *NilType:
		return Nil
	case *PointerType:
		return &PointerType{Base: DeepCopy(v.Base)}
	case *ArrayType:
		return &ArrayType{ElementType: DeepCopy(v.ElementType), Size: v.Size}
	case *StructType:
		fields := make([]StructField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = StructField{Name: f.Name, Type: DeepCopy(f.Type)}
		}
		return &StructType{Name: v.Name, Fields: fields}
	case *FunctionType:
		params := make([]Type, len(v.Parameters))
		for i, p := range v.Parameters {
			params[i] = DeepCopy(p)
		}
		return &FunctionType{Parameters: params, ReturnType: DeepCopy(v.ReturnType)}
	default:
		return Invalid
	}
}

// DeriveFrom strips lvalue-ness but preserves shape. Go's Type values carry no
// lvalue bit to strip, so this is a deep copy; it exists as a named operation
// because the expression analyzer's rules (§4.4) are written in terms of it.
func DeriveFrom(t Type) Type {
	return DeepCopy(t)
}

// numericRank orders numeric kinds from narrowest to widest so DeriveFromTwo
// and DeriveUnified can pick the wider shape, matching typical C promotion.
func numericRank(t Type) int {
	switch t.kind() {
	case KindChar:
		return 1
	case KindInt:
		return 2
	case KindFloat:
		return 3
	default:
		return 0
	}
}

// DeriveFromTwo picks a common shape for two compatible operand types, e.g.
// the wider of two numeric types. Used by both arithmetic and comparison
// binary operators (comparisons do not special-case a boolean result here;
// the original source does not either, and is_condition already admits
// ordinals so a non-bool comparison result still drives if/while/?:).
func DeriveFromTwo(a, b Type) Type {
	if IsInvalid(a) {
		return DeepCopy(b)
	}
	if IsInvalid(b) {
		return DeepCopy(a)
	}
	if ra, rb := numericRank(a), numericRank(b); ra > 0 && rb > 0 {
		if ra >= rb {
			return DeepCopy(a)
		}
		return DeepCopy(b)
	}
	return DeepCopy(a)
}

// DeriveUnified picks the result shape for the ternary operator's two
// branches. Kept distinct from DeriveFromTwo (even though both currently
// apply the same widening policy) because the two call sites are
// conceptually different merge points and a future divergence in policy
// should not require renaming either.
func DeriveUnified(a, b Type) Type {
	return DeriveFromTwo(a, b)
}

// DeriveBase peels one pointer or array layer. Invalid if t is neither.
func DeriveBase(t Type) Type {
	switch v := t.(type) {
	case *PointerType:
		return DeepCopy(v.Base)
	case *ArrayType:
		return DeepCopy(v.ElementType)
	default:
		return Invalid
	}
}

// DerivePtr wraps t in a pointer.
func DerivePtr(t Type) Type {
	return &PointerType{Base: DeepCopy(t)}
}

// DeriveReturn extracts a function's return type, unwrapping one pointer
// layer first if necessary. Invalid if t is not callable.
func DeriveReturn(t Type) Type {
	switch v := t.(type) {
	case *FunctionType:
		return DeepCopy(v.ReturnType)
	case *PointerType:
		if fn, ok := v.Base.(*FunctionType); ok {
			return DeepCopy(fn.ReturnType)
		}
	}
	return Invalid
}

// DeriveArray wraps elem as an array of length n.
func DeriveArray(elem Type, n int) Type {
	return &ArrayType{ElementType: DeepCopy(elem), Size: n}
}

// NewArray creates a new array type
func NewArray(elementType Type, size int) *ArrayType {
	return &ArrayType{
		ElementType: elementType,
		Size:        size,
	}
}

// NewStruct creates a new struct type
func NewStruct(name string, fields []StructField) *StructType {
	return &StructType{
		Name:   name,
		Fields: fields,
	}
}

// NewFunction creates a new function type
func NewFunction(parameters []Type, returnType Type) *FunctionType {
	return &FunctionType{
		Parameters: parameters,
		ReturnType: returnType,
	}
}

// NewPointer creates a new pointer type.
func NewPointer(base Type) *PointerType {
	return &PointerType{Base: base}
}
