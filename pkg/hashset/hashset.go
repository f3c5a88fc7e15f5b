package hashset

func NewSet[T comparable]() Set[T] {
	return map[T]struct{}{}
}

type Set[T comparable] map[T]struct{}

func SetFromSlice[T comparable](vals []T) Set[T] {
	set := NewSet[T]()
	for _, v := range vals {
		set.Set(v)
	}
	return set
}

func (vs Set[T]) Set(v T) {
	vs[v] = struct{}{}
}

func (vs Set[T]) Has(v T) bool {
	_, ok := vs[v]
	return ok
}

func (vs Set[T]) Len() int {
	return len(vs)
}

// IntersectCount returns the number of elements present in both sets.
func (vs Set[T]) IntersectCount(xs Set[T]) int {
	small, large := vs, xs
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for v := range small {
		if large.Has(v) {
			n++
		}
	}
	return n
}

// UnionCount returns the number of distinct elements across both sets.
func (vs Set[T]) UnionCount(xs Set[T]) int {
	return len(vs) + len(xs) - vs.IntersectCount(xs)
}

func (vs Set[T]) AsSlice() []T {
	slice := make([]T, 0, len(vs))
	for s := range vs {
		slice = append(slice, s)
	}
	return slice
}
