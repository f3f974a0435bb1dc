package schema

// Combine merges two schemas into the smallest schema describing both.
//
// Shapes that overlap are fused (records field by field, sequences by their
// element type); shapes that do not are kept as distinct union members.
// Combine is not order-independent for three or more partially overlapping
// shapes, so callers fold left to right with Fold to get reproducible output.
func Combine(a, b Schema) Schema {
	if Equal(a, b) {
		return a
	}

	ua, aIsUnion := a.(Union)
	ub, bIsUnion := b.(Union)
	if aIsUnion || bIsUnion {
		var candidates []Schema
		switch {
		case aIsUnion && bIsUnion:
			candidates = append(append(candidates, ua.Members...), ub.Members...)
		case aIsUnion:
			candidates = append(append(candidates, ua.Members...), b)
		default:
			candidates = append(append(candidates, ub.Members...), a)
		}
		return mergeMembers(candidates)
	}

	if VariantOf(a) != VariantOf(b) || !Overlap(a, b) {
		return Union{Members: []Schema{a, b}}
	}

	switch x := a.(type) {
	case Sequence:
		return Sequence{Elem: Combine(x.Elem, b.(Sequence).Elem)}
	case Record:
		return combineRecords(x, b.(Record))
	}

	return Union{Members: []Schema{a, b}}
}

// Fold combines schemas left to right, the first one seeding the result.
// An empty fold yields the undefined primitive.
func Fold(schemas ...Schema) Schema {
	if len(schemas) == 0 {
		return Undefined()
	}
	acc := schemas[0]
	for _, s := range schemas[1:] {
		acc = Combine(acc, s)
	}
	return acc
}

// mergeMembers reduces a flat candidate list into union members. A candidate
// equal to an earlier candidate or to an accumulated member is dropped; one
// that overlaps an accumulated member is fused into it; anything else is
// appended.
func mergeMembers(candidates []Schema) Schema {
	acc := make([]Schema, 0, len(candidates))

	for i, c := range candidates {
		if indexOfEqual(candidates[:i], c) != -1 || indexOfEqual(acc, c) != -1 {
			continue
		}

		fused := false
		for j, e := range acc {
			if !Overlap(e, c) {
				continue
			}
			merged := Combine(e, c)
			if u, ok := merged.(Union); ok {
				acc[j] = u.Members[0]
				acc = append(acc, u.Members[1:]...)
			} else {
				acc[j] = merged
			}
			fused = true
			break
		}
		if !fused {
			acc = append(acc, c)
		}
	}

	// Fusion can make two members identical; keep the first.
	return NewUnion(acc...)
}

// combineRecords merges two overlapping records. Keys of a come first, then
// keys only b has. A key present on one side only is merged with undefined.
func combineRecords(a, b Record) Record {
	out := NewRecord()

	for pair := a.Fields.Oldest(); pair != nil; pair = pair.Next() {
		other, ok := b.Get(pair.Key)
		switch {
		case !ok:
			out.Set(pair.Key, Combine(pair.Value, Undefined()))
		case Equal(pair.Value, other):
			out.Set(pair.Key, pair.Value)
		default:
			out.Set(pair.Key, Combine(pair.Value, other))
		}
	}

	for pair := b.Fields.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := a.Get(pair.Key); ok {
			continue
		}
		out.Set(pair.Key, Combine(pair.Value, Undefined()))
	}

	return out
}
