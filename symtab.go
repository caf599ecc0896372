package rdpcalc

import (
	"errors"

	"fortio.org/log"
)

// Flags describe how a name may be used.
type Flags uint8

// ReadOnly marks a binding made with ':=' which cannot be assigned again.
const ReadOnly Flags = 1 << iota

// Descriptor is the value bound to a name plus its flags.
type Descriptor struct {
	Value float64
	Flags Flags
}

// IsConst reports whether the descriptor is read-only.
func (d Descriptor) IsConst() bool {
	return d.Flags&ReadOnly != 0
}

// DefaultTableCapacity is the initial bucket count of a Context's symbol
// table unless TableCapacity says otherwise.
const DefaultTableCapacity = 16

const (
	// maxLoad is the load factor at which an insert first doubles the table.
	maxLoad = 0.75
	// minCapacity keeps the load factor below 1 after any resize.
	minCapacity = 2
)

// ErrTableFull is returned when doubling the symbol table would overflow its
// capacity.
var ErrTableFull = errors.New("symbol table: maximum size exceeded")

type entry struct {
	key  string
	desc Descriptor
	next *entry
}

// SymbolTable is a hash table from names to descriptors, with separate
// chaining. It is not safe for concurrent use.
//
// Insert does not replace existing keys. Inserting a key twice leaves both
// entries in the table, and Find returns the most recent one.
type SymbolTable struct {
	buckets []*entry
	size    int
	lf      float64
}

// NewSymbolTable creates a table with the given number of buckets. Capacities
// below 2 are raised to 2.
func NewSymbolTable(capacity int) *SymbolTable {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &SymbolTable{buckets: make([]*entry, capacity)}
}

// Len returns the number of entries, including shadowed ones.
func (t *SymbolTable) Len() int {
	return t.size
}

// Cap returns the number of buckets.
func (t *SymbolTable) Cap() int {
	return len(t.buckets)
}

// LoadFactor returns Len()/Cap() as of the last insert or remove.
func (t *SymbolTable) LoadFactor() float64 {
	return t.lf
}

// Insert adds a binding for key. If the load factor has reached 0.75, the
// table doubles first. The only possible error is ErrTableFull.
func (t *SymbolTable) Insert(key string, d Descriptor) error {
	if t.lf >= maxLoad {
		if err := t.resize(); err != nil {
			return err
		}
	}
	h := hash(key, len(t.buckets))
	t.buckets[h] = &entry{key: key, desc: d, next: t.buckets[h]}
	t.size++
	t.lf = float64(t.size) / float64(len(t.buckets))
	return nil
}

// Find returns the most recently inserted descriptor for key, or nil if there
// is none. The descriptor may be modified in place.
func (t *SymbolTable) Find(key string) *Descriptor {
	for e := t.buckets[hash(key, len(t.buckets))]; e != nil; e = e.next {
		if e.key == key {
			return &e.desc
		}
	}
	return nil
}

// Remove unlinks the most recent entry for key and copies its descriptor to
// out, if out is not nil. If there is no such entry, Remove leaves out alone
// and returns false.
func (t *SymbolTable) Remove(key string, out *Descriptor) bool {
	h := hash(key, len(t.buckets))
	var prev *entry
	for e := t.buckets[h]; e != nil; prev, e = e, e.next {
		if e.key != key {
			continue
		}
		if out != nil {
			*out = e.desc
		}
		if prev == nil {
			t.buckets[h] = e.next
		} else {
			prev.next = e.next
		}
		t.size--
		t.lf = float64(t.size) / float64(len(t.buckets))
		return true
	}
	return false
}

// Each calls f for every entry. Entries for the same key come newest first.
func (t *SymbolTable) Each(f func(key string, d Descriptor)) {
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			f(e.key, e.desc)
		}
	}
}

// resize doubles the bucket count and rehashes every entry. Entries are
// relinked at the tails of their new chains, so shadowed entries stay behind
// the ones that shadow them.
func (t *SymbolTable) resize() error {
	n, ok := grow(len(t.buckets))
	if !ok {
		return ErrTableFull
	}
	buckets := make([]*entry, n)
	tails := make([]*entry, n)
	for _, e := range t.buckets {
		for e != nil {
			next := e.next
			h := hash(e.key, n)
			e.next = nil
			if tails[h] == nil {
				buckets[h] = e
			} else {
				tails[h].next = e
			}
			tails[h] = e
			e = next
		}
	}
	log.LogVf("symbol table: resized from %d to %d buckets with %d entries", len(t.buckets), n, t.size)
	t.buckets = buckets
	t.lf = float64(t.size) / float64(n)
	return nil
}

// grow returns double the capacity, or false if that overflows.
func grow(capacity int) (int, bool) {
	n := capacity << 1
	if n <= capacity {
		return 0, false
	}
	return n, true
}

// hash is DJB2 reduced modulo capacity.
func hash(key string, capacity int) int {
	var h uint64 = 5381
	for i := 0; i < len(key); i++ {
		h = h*33 + uint64(key[i])
	}
	return int(h % uint64(capacity))
}
