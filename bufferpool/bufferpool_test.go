package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BucketFor(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		expectedID  int
		expectedCap int
	}{
		{"zero size", 0, 0, 256},
		{"one byte", 1, 0, 256},
		{"max small bucket", 256, 0, 256},
		{"min medium bucket", 257, 1, 512},
		{"max medium bucket", 512, 1, 512},
		{"min large bucket", 513, 2, 1024},
		{"one megabyte", 1 << 20, 12, 1 << 20},
		{"negative size", -1, 0, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, bucketCap := bucketFor(tt.size)
			assert.Equal(t, tt.expectedID, id)
			assert.Equal(t, tt.expectedCap, bucketCap)
		})
	}
}

func Test_Get(t *testing.T) {
	p := New()

	tests := []struct {
		size        int
		expectedCap int
	}{
		{0, 256},
		{128, 256},
		{300, 512},
		{1000, 1024},
		{256 * 1024, 256 * 1024},
	}

	for _, tt := range tests {
		b := p.Get(tt.size)
		assert.Equal(t, tt.expectedCap, cap(b))
		assert.Equal(t, 0, len(b))
	}
}

func Test_PutAndReuse(t *testing.T) {
	p := New()

	b := p.Get(1024)
	b = append(b, "marker"...)
	p.Put(b)

	// The next request for the same bucket may observe the pooled slice;
	// either way it must come back empty with the bucket capacity.
	b2 := p.Get(1024)
	assert.Equal(t, 0, len(b2))
	assert.Equal(t, 1024, cap(b2))
}

func Test_Put_OversizedIsDropped(t *testing.T) {
	p := New()

	// Capacity 300 belongs to the 512 bucket but is smaller than the
	// bucket's capacity, pooling it would hand out undersized buffers.
	p.Put(make([]byte, 0, 300))
	b := p.Get(400)
	assert.Equal(t, 512, cap(b))
}
