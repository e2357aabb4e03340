// Package handlecache implements the Handle Cache and LRU File Chain of
// spec.md §4.4/§4.5: a keyed store of open driver handles, plus a
// doubly-linked MRU→LRU chain over the file-backed subset that enforces
// an open-file cap.
//
// ncobase/ncore's cache.go (formerly cache/cache.go) embeds its keyed
// store directly in a Redis client; this package follows spec.md §9's
// "Intrusive LRU in a cache tree" redesign note instead: an arena of
// slots addressed by integer index, with prev/next fields on the slots
// themselves, rather than a pointer-linked list. That avoids a
// self-referential-pointer style entirely (not reachable from any
// example in the pack, since none of ncobase/ncore's own caches need an
// LRU) while still being the "intrusive doubly-linked list" spec.md
// §4.5 calls for — just addressed by slot index instead of pointer,
// which is also trivially inspectable for debugging/tests (Stats,
// len(lru chain)).
package handlecache

import "github.com/ncobase/lookup/itemcache"

// maxResourceBytes is the filename-truncation bound from spec.md §4.4 step 2.
const maxResourceBytes = 254

const nilSlot = -1

// Slot is one entry in the handle cache, per spec.md §3's Handle.
type Slot struct {
	Key         string
	DriverIndex int
	Resource    string // filename, or "" for query-style drivers
	Handle      any    // nil once closed by LRU eviction
	FileBacked  bool
	Items       *itemcache.Cache

	prev, next int // LRU neighbors; meaningless unless FileBacked
	inChain    bool
}

// Cache is the process-wide handle cache plus its LRU file chain.
type Cache struct {
	byKey map[string]int
	slots []Slot

	head, tail int // LRU chain: head = most recently used
	count      int // number of file-backed slots currently in the chain
	max        int // open_filecount cap (spec.md §5)
}

// New returns an empty handle cache with the given open-file cap.
func New(maxOpenFiles int) *Cache {
	return &Cache{
		byKey: make(map[string]int),
		head:  nilSlot,
		tail:  nilSlot,
		max:   maxOpenFiles,
	}
}

// MakeKey composes the handle-cache key from spec.md §4.4 step 2: a
// single-character driver-index prefix (keeping keys short and disjoint
// between drivers) followed by the resource name, truncated at 254 bytes.
func MakeKey(driverIndex int, resource string) string {
	if len(resource) > maxResourceBytes {
		resource = resource[:maxResourceBytes]
	}
	return string([]byte{byte(driverIndex)}) + resource
}

// Lookup returns the slot index for key, if any.
func (c *Cache) Lookup(key string) (int, bool) {
	i, ok := c.byKey[key]
	return i, ok
}

// Slot returns a pointer to the slot at index i, mutable in place.
func (c *Cache) Slot(i int) *Slot {
	return &c.slots[i]
}

// Insert creates a brand-new slot for key (no prior entry existed) and
// returns its index. The caller is responsible for setting Handle and,
// for file-backed drivers, calling PromoteToHead afterward.
func (c *Cache) Insert(key string, driverIndex int, resource string, fileBacked bool) int {
	idx := len(c.slots)
	c.slots = append(c.slots, Slot{
		Key:         key,
		DriverIndex: driverIndex,
		Resource:    resource,
		FileBacked:  fileBacked,
		Items:       itemcache.New(),
		prev:        nilSlot,
		next:        nilSlot,
	})
	c.byKey[key] = idx
	return idx
}

// Count reports the number of live file-backed handles (open_filecount).
func (c *Cache) Count() int { return c.count }

// Max reports the configured open-file cap.
func (c *Cache) Max() int { return c.max }

// SetMax adjusts the open-file cap at runtime.
func (c *Cache) SetMax(n int) { c.max = n }

// PromoteToHead implements spec.md §4.5: splice slot i to the head of the
// LRU chain, inserting it if not already present. Constant-time. No-op
// for non-file-backed slots.
func (c *Cache) PromoteToHead(i int) {
	s := &c.slots[i]
	if !s.FileBacked {
		return
	}
	if s.inChain {
		if c.head == i {
			return
		}
		c.unlink(i)
	} else {
		s.inChain = true
		c.count++
	}
	c.linkAtHead(i)
}

func (c *Cache) linkAtHead(i int) {
	s := &c.slots[i]
	s.prev = nilSlot
	s.next = c.head
	if c.head != nilSlot {
		c.slots[c.head].prev = i
	}
	c.head = i
	if c.tail == nilSlot {
		c.tail = i
	}
}

func (c *Cache) unlink(i int) {
	s := &c.slots[i]
	if s.prev != nilSlot {
		c.slots[s.prev].next = s.next
	} else {
		c.head = s.next
	}
	if s.next != nilSlot {
		c.slots[s.next].prev = s.prev
	} else {
		c.tail = s.prev
	}
	s.prev, s.next = nilSlot, nilSlot
}

// EvictTail removes the LRU chain's tail slot from the chain (decrementing
// Count) and returns its index, without touching Handle — closing the
// backend handle and nulling it out is the caller's job (core needs to
// invoke the driver's Close hook first). Returns (0, false) if the chain
// is empty.
func (c *Cache) EvictTail() (int, bool) {
	if c.tail == nilSlot {
		return 0, false
	}
	i := c.tail
	c.unlink(i)
	c.slots[i].inChain = false
	c.count--
	return i, true
}

// All returns every slot, for Tidy to walk.
func (c *Cache) All() []Slot {
	return c.slots
}

// Tidy resets the cache to empty, per spec.md §4.8: callers must already
// have closed every live handle (via the driver's Close hook) before
// calling this — Tidy itself only drops the bookkeeping state, including
// every handle's item cache (released "as part of the memory region").
func (c *Cache) Tidy() {
	c.byKey = make(map[string]int)
	c.slots = nil
	c.head, c.tail, c.count = nilSlot, nilSlot, 0
}
