package lexer

import (
	"bytes"
	"hash/maphash"

	"github.com/doyt-lang/doyt/arena"
)

// Interner maps decoded text to a single arena-owned copy, so repeated
// identifiers and string literals share storage.
//
// The pool holds only arena references: entries are bucketed by a hash of
// their content and collisions are resolved by comparing against the arena
// bytes, so no second owning copy of the text is ever kept.
type Interner struct {
	arena *arena.Arena
	seed  maphash.Seed
	pool  map[uint64][]arena.Ref
	size  int
}

// NewInterner creates an interner storing its text in a.
// capacity is a hint for the number of unique strings expected.
func NewInterner(a *arena.Arena, capacity int) *Interner {
	return &Interner{
		arena: a,
		seed:  maphash.MakeSeed(),
		pool:  make(map[uint64][]arena.Ref, capacity),
	}
}

// Intern returns the reference of the canonical copy of text.
// If text is already in the pool, returns the existing reference.
// Otherwise copies it into the arena and adds it to the pool.
func (i *Interner) Intern(text []byte) arena.Ref {
	if len(text) == 0 {
		return arena.Ref{}
	}

	h := maphash.Bytes(i.seed, text)
	for _, ref := range i.pool[h] {
		if bytes.Equal(i.arena.Bytes(ref), text) {
			return ref
		}
	}

	ref := i.arena.Copy(text)
	i.pool[h] = append(i.pool[h], ref)
	i.size++
	return ref
}

// Size returns the number of unique strings in the intern pool.
func (i *Interner) Size() int {
	return i.size
}

// Arena returns the arena backing the pool.
func (i *Interner) Arena() *arena.Arena {
	return i.arena
}
