// Package arena provides a block-based bump allocator for token payloads.
//
// The arena hands out byte regions carved from fixed-size blocks. Blocks are
// never resized or moved once allocated, so every region returned stays valid
// (and keeps its contents) until the arena is reset or dropped. Growth appends a
// new block instead of copying, which is what lets tokens keep references into
// the arena while the lexer is still producing more payloads.
//
// Example usage:
//
//	a := arena.New(arena.DefaultBlockSize)
//	ref := a.Copy([]byte("hello"))
//	fmt.Println(a.String(ref)) // hello
package arena

// DefaultBlockSize is the base block capacity used when none is given.
const DefaultBlockSize = 4 << 10

// Ref addresses a region previously issued by an Arena.
// Two refs are equal exactly when they address the same arena bytes,
// so == on refs is reference equality.
type Ref struct {
	Block  int // Index of the owning block
	Offset int // Byte offset inside the block
	Len    int // Region length in bytes
}

// IsZero reports whether r is the zero reference (an empty region).
func (r Ref) IsZero() bool {
	return r == Ref{}
}

// block is a fixed-capacity chunk of storage with a bump cursor.
type block struct {
	buf []byte // len(buf) is the capacity, never changes
	off int    // Write cursor
}

// Arena is a growable bump allocator. It is not safe for concurrent use.
type Arena struct {
	blocks    []*block
	blockSize int
	allocs    int
}

// New creates an arena whose blocks hold at least blockSize bytes.
// A non-positive blockSize selects DefaultBlockSize.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	a := &Arena{blockSize: blockSize}
	a.grow(blockSize)
	return a
}

// BlockSize returns the base capacity of newly created blocks.
func (a *Arena) BlockSize() int {
	return a.blockSize
}

// Alloc reserves size bytes and returns their reference together with a
// writable view of exactly size bytes. A zero or negative size returns the
// zero Ref and a nil slice.
func (a *Arena) Alloc(size int) (Ref, []byte) {
	if size <= 0 {
		return Ref{}, nil
	}

	cur := a.blocks[len(a.blocks)-1]
	if len(cur.buf)-cur.off < size {
		cur = a.grow(max(a.blockSize, size))
	}

	ref := Ref{Block: len(a.blocks) - 1, Offset: cur.off, Len: size}
	cur.off += size
	a.allocs++

	// Cap the view so appends by the caller can never spill into a neighbour.
	return ref, cur.buf[ref.Offset : ref.Offset+size : ref.Offset+size]
}

// Copy stores a copy of b in the arena and returns its reference.
func (a *Arena) Copy(b []byte) Ref {
	ref, dst := a.Alloc(len(b))
	copy(dst, b)
	return ref
}

// Bytes returns the bytes addressed by r. The slice aliases arena storage and
// must not be appended to.
func (a *Arena) Bytes(r Ref) []byte {
	if r.Len == 0 {
		return nil
	}
	b := a.blocks[r.Block]
	return b.buf[r.Offset : r.Offset+r.Len : r.Offset+r.Len]
}

// String materializes the text addressed by r.
func (a *Arena) String(r Ref) string {
	return string(a.Bytes(r))
}

// Reset releases every block and starts over with a single fresh block.
// All refs issued before the reset become invalid.
func (a *Arena) Reset() {
	a.blocks = nil
	a.allocs = 0
	a.grow(a.blockSize)
}

func (a *Arena) grow(capacity int) *block {
	b := &block{buf: make([]byte, capacity)}
	a.blocks = append(a.blocks, b)
	return b
}

// BlockStats describes a single arena block.
type BlockStats struct {
	Capacity int
	Used     int
}

// Stats summarizes arena usage.
type Stats struct {
	Blocks      []BlockStats
	TotalUsed   int // Bytes issued across all blocks
	TotalCap    int // Bytes reserved across all blocks
	Allocations int
}

// Stats returns a snapshot of the arena's usage.
func (a *Arena) Stats() Stats {
	s := Stats{
		Blocks:      make([]BlockStats, 0, len(a.blocks)),
		Allocations: a.allocs,
	}
	for _, b := range a.blocks {
		s.Blocks = append(s.Blocks, BlockStats{Capacity: len(b.buf), Used: b.off})
		s.TotalUsed += b.off
		s.TotalCap += len(b.buf)
	}
	return s
}
