package jsonvalue

// Merge deep-merges child over parent and returns the result. Neither input
// is modified.
//
// When both sides are objects the result holds the parent's keys in their
// original order, each overwritten by the recursive merge with the child's
// value when the child defines it, followed by the keys only the child
// defines, in the child's order. In every other case the child wins
// verbatim; arrays are replaced, never concatenated.
func Merge(parent, child Value) Value {
	if parent.kind != Object || child.kind != Object {
		return child
	}

	merged := parent.obj.Clone()
	for _, key := range child.obj.keys {
		childValue := child.obj.values[key]
		if existing, ok := merged.Get(key); ok {
			merged.Set(key, Merge(existing, childValue))
			continue
		}
		merged.Set(key, childValue)
	}
	return Value{kind: Object, obj: merged}
}

// MergeAll folds Merge left to right, so the last value wins on conflict.
// It returns null for an empty input.
func MergeAll(values ...Value) Value {
	if len(values) == 0 {
		return NullValue()
	}
	result := values[0]
	for _, v := range values[1:] {
		result = Merge(result, v)
	}
	return result
}
