package vm_test

import (
	"testing"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/vm"
	"github.com/stretchr/testify/require"
)

func TestStore_DeclareAndGet(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)

	cell, ok := s.Get("a")
	require.True(t, ok)
	require.False(t, cell.Has, "declared variable should start uninitialised")
	require.Equal(t, parser.TagInt, cell.Tag)
}

func TestStore_ExistsAndLen(t *testing.T) {
	s := vm.NewStore()
	require.False(t, s.Exists("a"))

	s.Declare("a", parser.TagInt)
	s.Declare("b", parser.TagFlt)
	require.True(t, s.Exists("a"))
	require.Equal(t, 2, s.Len())
}

func TestStore_MustSetOverwrites(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)
	s.MustSet("a", vm.NewIntCell(7))

	cell, ok := s.Get("a")
	require.True(t, ok)
	require.True(t, cell.Has)
	require.EqualValues(t, 7, cell.IntVal)
}

func TestStore_WriteCarryCreatesLazily(t *testing.T) {
	s := vm.NewStore()
	require.False(t, s.Exists(vm.CarryName))

	s.WriteCarry(vm.NewIntCell(10))
	cell, ok := s.Get(vm.CarryName)
	require.True(t, ok)
	require.EqualValues(t, 10, cell.IntVal)

	s.WriteCarry(vm.NewFltCell(2.5))
	cell, ok = s.Get(vm.CarryName)
	require.True(t, ok)
	require.Equal(t, parser.TagFlt, cell.Tag, "carry tag may change between writes")
}

func TestStore_NamesSorted(t *testing.T) {
	s := vm.NewStore()
	s.Declare("z", parser.TagInt)
	s.Declare("a", parser.TagInt)
	require.Equal(t, []string{"a", "z"}, s.Names())
}
