package semantics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripConstUnwrapsSingleLayer(t *testing.T) {
	assert.Equal(t, IntType(), StripConst(ConstOf(IntType())))
	assert.Equal(t, IntType(), StripConst(IntType()))
}

func TestConstOfCollapsesDoubleConst(t *testing.T) {
	twice := ConstOf(ConstOf(CharType()))
	assert.Equal(t, ConstKind, twice.Kind)
	assert.Equal(t, CharType(), *twice.Elem)
}

func TestIsIntConvertible(t *testing.T) {
	assert.True(t, IsIntConvertible(IntType()))
	assert.True(t, IsIntConvertible(CharType()))
	assert.True(t, IsIntConvertible(ConstOf(IntType())))
	assert.False(t, IsIntConvertible(VoidType()))
	assert.False(t, IsIntConvertible(ArrayOf(IntType())))
}

func TestAssignableScalarWidening(t *testing.T) {
	assert.True(t, Assignable(CharType(), IntType()))
	assert.True(t, Assignable(IntType(), CharType()))
	assert.True(t, Assignable(ConstOf(IntType()), IntType()))
}

func TestAssignableRejectsConstTarget(t *testing.T) {
	assert.False(t, Assignable(IntType(), ConstOf(IntType())))
}

func TestAssignableArraysRequireSameElement(t *testing.T) {
	assert.True(t, Assignable(ArrayOf(IntType()), ArrayOf(IntType())))
	assert.False(t, Assignable(ArrayOf(CharType()), ArrayOf(IntType())))
	assert.False(t, Assignable(IntType(), ArrayOf(IntType())))
}

func TestSameTypeComparesFunctionSignatures(t *testing.T) {
	a := FuncType(IntType(), []Type{IntType(), CharType()})
	b := FuncType(IntType(), []Type{IntType(), CharType()})
	c := FuncType(IntType(), []Type{IntType()})
	assert.True(t, SameType(a, b))
	assert.False(t, SameType(a, c))
}
