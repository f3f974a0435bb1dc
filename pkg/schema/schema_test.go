package schema

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/layj/pkg/value"
)

var (
	tString    = Primitive{Kind: value.KindString}
	tNumber    = Primitive{Kind: value.KindNumber}
	tBool      = Primitive{Kind: value.KindBoolean}
	tNull      = Primitive{Kind: value.KindNull}
	tUndefined = Primitive{Kind: value.KindUndefined}
)

func rec(pairs ...any) Record {
	r := NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1].(Schema))
	}
	return r
}

func union(members ...Schema) Union {
	return Union{Members: members}
}

func obj(pairs ...any) value.Value {
	o := value.NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return o
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Schema
		want bool
	}{
		{"same primitive", tString, tString, true},
		{"different primitive", tString, tNumber, false},
		{"null vs undefined", tNull, tUndefined, false},
		{"literal vs primitive", Literal{Token: `"string"`}, tString, false},
		{"same literal", Literal{Token: "1"}, Literal{Token: "1"}, true},
		{"sequences", Sequence{Elem: tString}, Sequence{Elem: tString}, true},
		{"sequence elem differs", Sequence{Elem: tString}, Sequence{Elem: tNumber}, false},
		{"sequence vs union", Sequence{Elem: tString}, union(tString), false},
		{"records", rec("a", tString), rec("a", tString), true},
		{"records field order ignored", rec("a", tString, "b", tNumber), rec("b", tNumber, "a", tString), true},
		{"records disjoint keys", rec("a", tString), rec("b", tString), false},
		{"records size differs", rec("a", tString), rec("a", tString, "b", tString), false},
		{"unions", union(tString, tNumber), union(tString, tNumber), true},
		{"unions are ordered", union(tString, tNumber), union(tNumber, tString), false},
		{"nil", tString, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqual_Reflexive(t *testing.T) {
	schemas := []Schema{
		tString,
		Literal{Token: `"x"`},
		Sequence{Elem: union(tString, tNumber)},
		rec("a", tString, "b", rec("c", Sequence{Elem: tBool})),
		union(rec("a", tString), tNull),
		NewRecord(),
	}
	for _, s := range schemas {
		assert.True(t, Equal(s, s), "%#v", s)
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Schema
		want bool
	}{
		{"equal primitives", tString, tString, true},
		{"different primitives", tString, tNumber, false},
		{"identical literals", Literal{Token: `"a"`}, Literal{Token: `"a"`}, true},
		{"different literals", Literal{Token: `"a"`}, Literal{Token: `"b"`}, false},
		{"literal and its kind", Literal{Token: `"a"`}, tString, false},
		{"sequences always share their element position", Sequence{Elem: tString}, Sequence{Elem: tNumber}, true},
		{"records sharing a key", rec("a", tString, "b", tNumber), rec("b", tBool), true},
		{"records without shared keys", rec("a", tString), rec("b", tString), false},
		{"empty records", NewRecord(), NewRecord(), false},
		{"record vs sequence", rec("0", tString), Sequence{Elem: tString}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlap(tt.a, tt.b))
		})
	}
}

func TestCombine_IdenticalPrimitivesCollapse(t *testing.T) {
	assert.Equal(t, tString, Combine(tString, tString))
}

func TestCombine_DistinctPrimitivesUnion(t *testing.T) {
	got := Combine(tString, tNumber)
	assert.True(t, Equal(union(tString, tNumber), got), "%#v", got)
}

func TestCombine_RecordsMergeFieldByField(t *testing.T) {
	got := Combine(
		rec("a", tString, "b", tNumber),
		rec("a", tString, "c", tBool),
	)

	want := rec(
		"a", tString,
		"b", union(tNumber, tUndefined),
		"c", union(tBool, tUndefined),
	)
	require.True(t, Equal(want, got), "%#v", got)
	assert.Equal(t, []string{"a", "b", "c"}, got.(Record).Keys())
}

func TestCombine_DisjointRecordsStaySeparate(t *testing.T) {
	got := Combine(rec("a", tString), rec("b", tString))
	assert.True(t, Equal(union(rec("a", tString), rec("b", tString)), got))
}

func TestCombine_Sequences(t *testing.T) {
	got := Combine(Sequence{Elem: tString}, Sequence{Elem: tNumber})
	assert.True(t, Equal(Sequence{Elem: union(tString, tNumber)}, got))
}

func TestCombine_UnionAbsorbsMembers(t *testing.T) {
	u := union(tString, tNumber)

	assert.True(t, Equal(u, Combine(u, tString)), "existing member is dropped")
	assert.True(t, Equal(union(tString, tNumber, tNull), Combine(u, tNull)))
	assert.True(t, Equal(union(tString, tNumber, tNull), Combine(tNull, u)), "union members come first")
	assert.True(t, Equal(union(tString, tNumber, tBool), Combine(u, union(tNumber, tBool))))
}

func TestCombine_UnionFusesOverlappingRecord(t *testing.T) {
	u := union(rec("name", tString), tNull)
	got := Combine(u, rec("name", tString, "age", tNumber))

	want := union(rec("name", tString, "age", union(tNumber, tUndefined)), tNull)
	assert.True(t, Equal(want, got), "%#v", got)
}

func TestCombine_NeverNestsUnions(t *testing.T) {
	got := Fold(tString, tNumber, union(tBool, tNull), Sequence{Elem: tString}, tNumber)

	u, ok := got.(Union)
	require.True(t, ok)
	for _, m := range u.Members {
		_, nested := m.(Union)
		assert.False(t, nested)
	}
	for i := range u.Members {
		for j := i + 1; j < len(u.Members); j++ {
			assert.False(t, Equal(u.Members[i], u.Members[j]), "members %d and %d are equal", i, j)
		}
	}
	assert.Len(t, u.Members, 5)
}

// Fold order is part of the output contract: the overlap heuristic is not
// associative for partially overlapping records.
func TestFold_OrderSensitive(t *testing.T) {
	a := rec("x", tString)
	b := rec("y", tString)
	c := rec("x", tString, "y", tString)

	abc := Fold(a, b, c)
	cab := Fold(c, a, b)

	assert.True(t, Equal(union(rec("x", tString, "y", union(tString, tUndefined)), rec("y", tString)), abc), "%#v", abc)
	assert.True(t, Equal(rec("x", union(tString, tUndefined), "y", union(tString, tUndefined)), cab), "%#v", cab)
	assert.False(t, Equal(abc, cab))
}

func TestFold_Empty(t *testing.T) {
	assert.Equal(t, Undefined(), Fold())
}

func TestFromValue_Primitives(t *testing.T) {
	tests := []struct {
		v    value.Value
		want value.Kind
	}{
		{value.String("a"), value.KindString},
		{value.Number(1), value.KindNumber},
		{value.BigInt(big.NewInt(1)), value.KindBigInt},
		{value.Bool(false), value.KindBoolean},
		{value.Undefined(), value.KindUndefined},
		{value.Symbol("s"), value.KindSymbol},
		{value.Null(), value.KindNull},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, Primitive{Kind: tt.want}, FromValue(tt.v, LiteralSpec{}))
		})
	}
}

func TestFromValue_ArrayFoldsElements(t *testing.T) {
	got := FromValue(value.Array(value.Number(1), value.String("cats"), value.Bool(false)), LiteralSpec{})
	assert.True(t, Equal(Sequence{Elem: union(tNumber, tString, tBool)}, got))
}

func TestFromValue_EmptyArray(t *testing.T) {
	got := FromValue(value.Array(), LiteralSpec{})
	assert.Equal(t, Sequence{Elem: tUndefined}, got)
}

func TestFromValue_ThreeExampleFold(t *testing.T) {
	examples := []value.Value{
		obj("name", value.String("a")),
		obj("name", value.String("a"), "email", value.String("x")),
		obj("name", value.String("a"), "age", value.Number(1)),
	}

	schemas := make([]Schema, 0, len(examples))
	for _, ex := range examples {
		schemas = append(schemas, FromValue(ex, LiteralSpec{}))
	}
	got := Fold(schemas...)

	want := rec(
		"name", tString,
		"email", union(tString, tUndefined),
		"age", union(tNumber, tUndefined),
	)
	require.True(t, Equal(want, got), "%#v", got)
	assert.Equal(t, []string{"name", "email", "age"}, got.(Record).Keys())
}

func TestFromValue_LiteralPinning(t *testing.T) {
	spec, err := ParseLiterals(map[string]any{"dataType": true})
	require.NoError(t, err)

	got := Fold(
		FromValue(obj("dataType", value.String("type1")), spec),
		FromValue(obj("dataType", value.String("type2")), spec),
	)

	want := rec("dataType", union(Literal{Token: `"type1"`}, Literal{Token: `"type2"`}))
	assert.True(t, Equal(want, got), "%#v", got)
}

func TestFromValue_LiteralExampleSet(t *testing.T) {
	spec, err := ParseLiterals(map[string]any{"isError": true, "dataType": true})
	require.NoError(t, err)

	request := func(dataType string) value.Value {
		return obj("isError", value.Bool(false), "data", value.String("bla bla"), "dataType", value.String(dataType))
	}
	examples := []value.Value{
		request("type 1"),
		request("type 2"),
		request("type 3"),
		request("type 1"),
		obj("isError", value.Bool(true)),
	}

	var schemas []Schema
	for _, ex := range examples {
		schemas = append(schemas, FromValue(ex, spec))
	}
	got := Fold(schemas...)

	want := rec(
		"isError", union(Literal{Token: "false"}, Literal{Token: "true"}),
		"data", union(tString, tUndefined),
		"dataType", union(Literal{Token: `"type 1"`}, Literal{Token: `"type 2"`}, Literal{Token: `"type 3"`}, tUndefined),
	)
	assert.True(t, Equal(want, got), "%#v", got)
}

func TestFromValue_PinnedKindsWithoutLiterals(t *testing.T) {
	pin := LiteralSpec{Pin: true}
	assert.Equal(t, tNull, FromValue(value.Null(), pin))
	assert.Equal(t, tUndefined, FromValue(value.Undefined(), pin))
	assert.Equal(t, Literal{Token: "12n"}, FromValue(value.BigInt(big.NewInt(12)), pin))
	assert.Equal(t, Literal{Token: `{"a":1}`}, FromValue(obj("a", value.Number(1)), pin))
}

func TestFromValue_PinsDoNotReachIntoArrays(t *testing.T) {
	spec, err := ParseLiterals(map[string]any{"tags": map[string]any{"0": true}})
	require.NoError(t, err)

	got := FromValue(obj("tags", value.Array(value.String("a"))), spec)
	assert.True(t, Equal(rec("tags", Sequence{Elem: tString}), got))
}

func TestParseLiterals(t *testing.T) {
	spec, err := ParseLiterals(map[string]any{
		"kind": true,
		"meta": map[string]any{"version": true, "note": false},
	})
	require.NoError(t, err)
	assert.True(t, spec.Field("kind").Pin)
	assert.True(t, spec.Field("meta").Field("version").Pin)
	assert.False(t, spec.Field("meta").Field("note").Pin)
	assert.False(t, spec.Field("other").Pin)

	whole, err := ParseLiterals(true)
	require.NoError(t, err)
	assert.True(t, whole.Pin)

	_, err = ParseLiterals(map[string]any{"kind": "yes"})
	assert.ErrorContains(t, err, "literals.kind")
}

func TestNewUnion(t *testing.T) {
	assert.Equal(t, tString, NewUnion(tString, tString))
	got := NewUnion(tString, union(tNumber, tString), tNull)
	assert.True(t, Equal(union(tString, tNumber, tNull), got))
}

func TestIsOptional(t *testing.T) {
	assert.True(t, IsOptional(tUndefined))
	assert.True(t, IsOptional(union(tString, tUndefined)))
	assert.False(t, IsOptional(tString))
	assert.False(t, IsOptional(Sequence{Elem: tUndefined}))
}
