package pool

import "sync"

// int64SlicePool reuses the residual vectors the decoder fills once per
// main, GNSS and H frame (Slow records are not pooled). Reuse matters here because a
// multi-hour flight log can emit hundreds of thousands of records and each
// one would otherwise cost a fresh allocation.
var int64SlicePool = sync.Pool{
	New: func() any { return &[]int64{} },
}

// GetInt64Slice retrieves and resizes an int64 slice from the pool.
//
// The returned slice will have the exact length specified by size. If the
// pooled slice has insufficient capacity, a new slice is allocated instead.
// The caller must call the returned cleanup function, typically with defer,
// to return the slice to the pool.
func GetInt64Slice(size int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int64, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { int64SlicePool.Put(ptr) }
}
