package vulkan

import "github.com/dolthub/swiss"

// table hands out stable uint64 handles for Vulkan objects. Zero is never
// issued so it stays the null handle on the gpu side.
type table[T any] struct {
	next  uint64
	items *swiss.Map[uint64, T]
}

func newTable[T any]() *table[T] {
	return &table[T]{items: swiss.NewMap[uint64, T](16)}
}

func (t *table[T]) add(v T) uint64 {
	t.next++
	t.items.Put(t.next, v)
	return t.next
}

func (t *table[T]) get(h uint64) T {
	v, _ := t.items.Get(h)
	return v
}

func (t *table[T]) remove(h uint64) (T, bool) {
	v, ok := t.items.Get(h)
	if ok {
		t.items.Delete(h)
	}
	return v, ok
}

func (t *table[T]) len() int {
	return t.items.Count()
}

// each visits every live entry; used to report leaks on teardown.
func (t *table[T]) each(fn func(h uint64, v T)) {
	t.items.Iter(func(h uint64, v T) bool {
		fn(h, v)
		return false
	})
}
