// Package bitmap provides the bit-addressable get/set/test/is-all-ones
// utility that the inode bitmap and used-block bitmap are built on. It wraps
// github.com/boljen/go-bitmap, which is already least-significant-bit-first
// within each byte, matching the on-disk convention this filesystem requires.
package bitmap

import (
	bolbitmap "github.com/boljen/go-bitmap"
)

// Bitmap is a fixed-size, bit-addressable array backed by a byte slice
// suitable for writing verbatim to a disk block.
type Bitmap struct {
	bits bolbitmap.Bitmap
	size int
}

// New creates a zeroed Bitmap with room for at least size bits.
func New(size int) *Bitmap {
	return &Bitmap{bits: bolbitmap.New(size), size: size}
}

// FromBytes wraps an existing byte slice (e.g. one just read off disk) as a
// Bitmap of size bits. The slice is used directly, not copied.
func FromBytes(data []byte, size int) *Bitmap {
	return &Bitmap{bits: bolbitmap.Bitmap(data), size: size}
}

// Bytes returns the raw backing array, suitable for writing to a disk block.
func (b *Bitmap) Bytes() []byte {
	return b.bits.Data(false)
}

// Test reports whether bit i is set.
func (b *Bitmap) Test(i int) bool {
	return b.bits.Get(i)
}

// Set assigns bit i. It is idempotent: setting a bit to its current value is
// a no-op.
func (b *Bitmap) Set(i int, value bool) {
	if b.bits.Get(i) == value {
		return
	}
	b.bits.Set(i, value)
}

// IsAllOnes reports whether every one of the first size bits is set.
func (b *Bitmap) IsAllOnes(size int) bool {
	for i := 0; i < size; i++ {
		if !b.bits.Get(i) {
			return false
		}
	}
	return true
}

// FirstClear returns the index of the first unset bit in [0, size), or -1 if
// none is found.
func (b *Bitmap) FirstClear(size int) int {
	for i := 0; i < size; i++ {
		if !b.bits.Get(i) {
			return i
		}
	}
	return -1
}

// Size returns the number of addressable bits this Bitmap was created with.
func (b *Bitmap) Size() int {
	return b.size
}
