package schema

// Equal reports whether a and b are structurally identical.
//
// Records are compared by field count and then field by field over the keys
// of a. This mirrors value.Equal; because a schema never holds an absent
// field, a key missing from b always makes the records differ here.
// Unions compare member by member, so member order matters.
func Equal(a, b Schema) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Kind == y.Kind

	case Literal:
		y, ok := b.(Literal)
		return ok && x.Token == y.Token

	case Sequence:
		y, ok := b.(Sequence)
		return ok && Equal(x.Elem, y.Elem)

	case Record:
		y, ok := b.(Record)
		if !ok || x.Len() != y.Len() {
			return false
		}
		if x.Fields == nil {
			return true
		}
		for pair := x.Fields.Oldest(); pair != nil; pair = pair.Next() {
			other, _ := y.Get(pair.Key)
			if !Equal(pair.Value, other) {
				return false
			}
		}
		return true

	case Union:
		y, ok := b.(Union)
		if !ok || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			if !Equal(x.Members[i], y.Members[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Overlap reports whether a and b belong to the same union branch and should
// be fused rather than kept as separate alternatives.
//
// Primitives and literals overlap only when equal. Two sequences always
// overlap: they share their single element position. Two records overlap
// when they share at least one field name.
func Overlap(a, b Schema) bool {
	switch x := a.(type) {
	case Primitive, Literal:
		return Equal(a, b)

	case Sequence:
		_, ok := b.(Sequence)
		return ok

	case Record:
		y, ok := b.(Record)
		if !ok || x.Fields == nil {
			return false
		}
		for pair := x.Fields.Oldest(); pair != nil; pair = pair.Next() {
			if _, shared := y.Get(pair.Key); shared {
				return true
			}
		}
		return false
	}
	return false
}
