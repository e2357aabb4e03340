package handlecache

import "testing"

func TestInsertAndLookup(t *testing.T) {
	c := New(2)
	key := MakeKey(0, "/etc/a")
	idx := c.Insert(key, 0, "/etc/a", true)
	c.Slot(idx).Handle = "h1"

	got, ok := c.Lookup(key)
	if !ok || got != idx {
		t.Fatalf("Lookup: got (%d, %v)", got, ok)
	}
}

func TestLRUEvictionOrder(t *testing.T) {
	c := New(2)

	open := func(name string) int {
		key := MakeKey(0, name)
		idx := c.Insert(key, 0, name, true)
		c.Slot(idx).Handle = name
		c.PromoteToHead(idx)
		return idx
	}

	a := open("A")
	_ = open("B")

	if c.Count() != 2 {
		t.Fatalf("expected count 2, got %d", c.Count())
	}

	// Cap reached: opening C must evict the tail (A).
	if c.Count() >= c.Max() {
		evicted, ok := c.EvictTail()
		if !ok {
			t.Fatal("expected an eviction candidate")
		}
		if evicted != a {
			t.Fatalf("expected A (%d) to be evicted, got %d", a, evicted)
		}
		c.Slot(evicted).Handle = nil
	}
	cIdx := open("C")
	_ = cIdx

	if c.Count() != 2 {
		t.Fatalf("expected count 2 after eviction+reopen, got %d", c.Count())
	}
	if c.Slot(a).Handle != nil {
		t.Fatal("expected A's backend handle to be nil after eviction")
	}
	if _, ok := c.Lookup(MakeKey(0, "A")); !ok {
		t.Fatal("expected A's slot to still exist in the handle cache after eviction")
	}
}

func TestPromoteToHeadReordersChain(t *testing.T) {
	c := New(10)
	a := c.Insert(MakeKey(0, "A"), 0, "A", true)
	b := c.Insert(MakeKey(0, "B"), 0, "B", true)
	c.PromoteToHead(a)
	c.PromoteToHead(b)
	if c.head != b {
		t.Fatalf("expected B at head, got slot %d", c.head)
	}
	// find on A promotes it back to head
	c.PromoteToHead(a)
	if c.head != a {
		t.Fatalf("expected A promoted to head, got slot %d", c.head)
	}
	if c.tail != b {
		t.Fatalf("expected B at tail, got slot %d", c.tail)
	}
}

func TestTidyResetsState(t *testing.T) {
	c := New(2)
	idx := c.Insert(MakeKey(0, "A"), 0, "A", true)
	c.PromoteToHead(idx)
	c.Tidy()
	if c.Count() != 0 {
		t.Fatalf("expected count 0 after tidy, got %d", c.Count())
	}
	if _, ok := c.Lookup(MakeKey(0, "A")); ok {
		t.Fatal("expected empty handle cache after tidy")
	}
}

func TestNonFileBackedNeverEnterChain(t *testing.T) {
	c := New(1)
	idx := c.Insert(MakeKey(1, ""), 1, "", false)
	c.PromoteToHead(idx)
	if c.Count() != 0 {
		t.Fatalf("expected query-style handle to never join the LRU chain, got count %d", c.Count())
	}
}
