package bitmap_test

import (
	"testing"

	"github.com/aaron-ang/file-system/bitmap"
	"github.com/stretchr/testify/assert"
)

func TestSetAndTest(t *testing.T) {
	b := bitmap.New(64)
	assert.False(t, b.Test(5))

	b.Set(5, true)
	assert.True(t, b.Test(5))

	b.Set(5, false)
	assert.False(t, b.Test(5))
}

func TestSetIsIdempotent(t *testing.T) {
	b := bitmap.New(16)
	b.Set(3, true)
	b.Set(3, true)
	assert.True(t, b.Test(3))
}

func TestIsAllOnes(t *testing.T) {
	b := bitmap.New(8)
	assert.False(t, b.IsAllOnes(8))

	for i := 0; i < 8; i++ {
		b.Set(i, true)
	}
	assert.True(t, b.IsAllOnes(8))

	b.Set(3, false)
	assert.False(t, b.IsAllOnes(8))
}

func TestFirstClear(t *testing.T) {
	b := bitmap.New(8)
	for i := 0; i < 5; i++ {
		b.Set(i, true)
	}
	assert.Equal(t, 5, b.FirstClear(8))

	for i := 0; i < 8; i++ {
		b.Set(i, true)
	}
	assert.Equal(t, -1, b.FirstClear(8))
}

func TestFromBytesSharesStorage(t *testing.T) {
	raw := make([]byte, 8)
	b := bitmap.FromBytes(raw, 64)
	b.Set(0, true)
	assert.Equal(t, byte(1), raw[0])
}
