package rigid

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Pair is an unordered pair of body indices, stored with A < B.
type Pair struct {
	A, B int
}

func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{a, b}
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.A, p.B)
}

// HashValue is the Szudzik pairing of the ordered indices run through xxhash.
func (p Pair) HashValue() uint64 {
	var buf [8]byte
	key := uint64(p.B)*uint64(p.B) + uint64(p.A)
	binary.LittleEndian.PutUint64(buf[:], key)
	return xxhash.Sum64(buf[:])
}

type binState uint8

const (
	binEmpty binState = iota
	binOccupied
	binTombstone
)

type tableBin struct {
	key   Pair
	value *Manifold
	state binState
}

// Table is an open addressing map from body pairs to their manifold. Removed bins are left
// as tombstones so probe chains stay intact; growing rehashes only live entries.
type Table struct {
	bins       []tableBin
	entries    int
	tombstones int
	loadFactor float64
}

const minTableCapacity = 16

// NewTable rounds capacity up to a power of two.
func NewTable(capacity int, loadFactor float64) *Table {
	size := minTableCapacity
	for size < capacity {
		size <<= 1
	}
	if !(loadFactor > 0 && loadFactor < 1) {
		loadFactor = 0.75
	}
	return &Table{
		bins:       make([]tableBin, size),
		loadFactor: loadFactor,
	}
}

func (t *Table) Count() int {
	return t.entries
}

func (t *Table) Capacity() int {
	return len(t.bins)
}

func (t *Table) Tombstones() int {
	return t.tombstones
}

// find returns the bin holding key, or the slot an insert of key should use.
func (t *Table) find(key Pair) (int, bool) {
	mask := uint64(len(t.bins) - 1)
	i := key.HashValue() & mask
	firstTombstone := -1

	for n := 0; n < len(t.bins); n++ {
		bin := &t.bins[i]
		switch bin.state {
		case binEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return int(i), false
		case binTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(i)
			}
		case binOccupied:
			if bin.key == key {
				return int(i), true
			}
		}
		i = (i + 1) & mask
	}

	assertTrue(firstTombstone >= 0, "Internal Error: manifold table has no free bin")
	return firstTombstone, false
}

func (t *Table) Find(a, b int) *Manifold {
	i, ok := t.find(NewPair(a, b))
	if !ok {
		return nil
	}
	return t.bins[i].value
}

// Insert stores value under the pair, replacing any existing manifold.
func (t *Table) Insert(a, b int, value *Manifold) {
	key := NewPair(a, b)
	i, ok := t.find(key)
	if ok {
		t.bins[i].value = value
		return
	}
	if t.needsGrow() {
		t.grow()
		i, _ = t.find(key)
	}
	t.put(i, key, value)
}

// FindOrInsert returns the manifold for the pair, creating it with trans when absent.
// The boolean reports whether it was created.
func (t *Table) FindOrInsert(a, b int, trans func() *Manifold) (*Manifold, bool) {
	key := NewPair(a, b)
	i, ok := t.find(key)
	if ok {
		return t.bins[i].value, false
	}
	if t.needsGrow() {
		t.grow()
		i, _ = t.find(key)
	}
	value := trans()
	t.put(i, key, value)
	return value, true
}

func (t *Table) put(i int, key Pair, value *Manifold) {
	if t.bins[i].state == binTombstone {
		t.tombstones--
	}
	t.bins[i] = tableBin{key: key, value: value, state: binOccupied}
	t.entries++
}

func (t *Table) Remove(a, b int) *Manifold {
	i, ok := t.find(NewPair(a, b))
	if !ok {
		return nil
	}
	value := t.bins[i].value
	t.bins[i] = tableBin{state: binTombstone}
	t.entries--
	t.tombstones++
	return value
}

func (t *Table) needsGrow() bool {
	return float64(t.entries+t.tombstones+1)/float64(len(t.bins)) >= t.loadFactor
}

// grow doubles the bin array and rehashes live entries, dropping every tombstone. When
// tombstones rather than live entries filled the table it is rehashed at the same size.
func (t *Table) grow() {
	old := t.bins
	size := len(old) * 2
	if float64(t.entries+1) < float64(len(old))*t.loadFactor/2 {
		size = len(old)
	}
	t.bins = make([]tableBin, size)
	t.entries = 0
	t.tombstones = 0

	for _, bin := range old {
		if bin.state != binOccupied {
			continue
		}
		i, _ := t.find(bin.key)
		t.put(i, bin.key, bin.value)
	}
}

// Each visits live entries in bin order.
func (t *Table) Each(f func(key Pair, value *Manifold)) {
	for i := range t.bins {
		if t.bins[i].state == binOccupied {
			f(t.bins[i].key, t.bins[i].value)
		}
	}
}

// Filter removes every entry for which keep returns false and returns how many were removed.
func (t *Table) Filter(keep func(key Pair, value *Manifold) bool) int {
	removed := 0
	for i := range t.bins {
		bin := &t.bins[i]
		if bin.state != binOccupied {
			continue
		}
		if !keep(bin.key, bin.value) {
			*bin = tableBin{state: binTombstone}
			t.entries--
			t.tombstones++
			removed++
		}
	}
	return removed
}
