package value

// Equal reports whether a and b are structurally identical.
//
// Objects are compared by key count and then key by key over the keys of a,
// with a key missing from b read as undefined. Two objects of the same size
// with different key names can therefore compare equal when the values under
// a's keys are all undefined. Schema snapshots depend on this rule; use
// EqualStrict for a comparison that also checks key names.
func Equal(a, b Value) bool {
	return equal(a, b, false)
}

// EqualStrict is Equal with key names checked for objects.
func EqualStrict(a, b Value) bool {
	return equal(a, b, true)
}

func equal(a, b Value, strict bool) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case KindString:
		return a.str == b.str
	case KindNumber:
		return a.num == b.num
	case KindBigInt:
		return a.big.Cmp(b.big) == 0
	case KindBoolean:
		return a.b == b.b
	case KindUndefined, KindNull:
		return true
	case KindSymbol:
		return a.sym == b.sym
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !equal(a.items[i], b.items[i], strict) {
				return false
			}
		}
		return true
	case KindObject:
		if a.fields.Len() != b.fields.Len() {
			return false
		}
		for pair := a.fields.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := b.fields.Get(pair.Key)
			if !ok && strict {
				return false
			}
			if !equal(pair.Value, other, strict) {
				return false
			}
		}
		return true
	}
	return false
}
