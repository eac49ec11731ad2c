package bufferpool

import (
	"math/bits"
	"sync"
)

const bucketCount = 64

// Pool hands out byte slices from power-of-two sized buckets, so block
// buffers of a stable size are reused instead of reallocated. Buckets
// cover capacities 0..256, 257..512, 513..1024 and so on.
type Pool struct {
	buckets [bucketCount]sync.Pool
}

func New() *Pool {
	return &Pool{}
}

// Get returns a zero-length slice whose capacity is at least size.
func (p *Pool) Get(size int) []byte {
	id, bucketCap := bucketFor(size)
	if b := p.buckets[id].Get(); b != nil {
		return b.([]byte)
	}
	return make([]byte, 0, bucketCap)
}

// Put returns a slice to its bucket. Slices whose capacity is not an
// exact bucket capacity are dropped for the GC to collect, so Get can
// guarantee its lower bound.
func (p *Pool) Put(buf []byte) {
	capacity := cap(buf)
	id, bucketCap := bucketFor(capacity)
	if capacity != bucketCap {
		return
	}
	p.buckets[id].Put(buf[:0])
}

// bucketFor maps a size to its bucket index and that bucket's capacity.
func bucketFor(size int) (int, int) {
	size--
	size = max(size, 0)
	size >>= 8
	id := bits.Len(uint(size))
	id = min(id, bucketCount-1)
	return id, 1 << (id + 8)
}
