package resolver

// cowMap is a copy-on-write layered map: forking it shares the parent's
// layers until the child first mutates a key, at which point the child
// writes into its own overlay. Lookups walk the child's layer first, then
// each ancestor in turn, so a fork is O(depth) to query until compacted.
//
// This is the concrete representation behind each Solution's entry map and
// broken-successor set (spec: "a solution holds copy-on-write references to
// its entry map ... forking a solution shares the parent's maps until the
// child first mutates a key").
type cowMap[K comparable, V any] struct {
	layer  map[K]V
	tomb   map[K]bool
	parent *cowMap[K, V]
	depth  int
}

func newCowMap[K comparable, V any]() *cowMap[K, V] {
	return &cowMap[K, V]{}
}

// fork returns a new child layer on top of m. m itself is never mutated by
// the child's subsequent writes.
func (m *cowMap[K, V]) fork() *cowMap[K, V] {
	return &cowMap[K, V]{parent: m, depth: m.depth + 1}
}

// get walks this layer, then each ancestor, returning the first hit. A
// tombstone at any level shadows all ancestor values for that key.
func (m *cowMap[K, V]) get(k K) (V, bool) {
	for cur := m; cur != nil; cur = cur.parent {
		if cur.tomb != nil && cur.tomb[k] {
			var zero V
			return zero, false
		}
		if cur.layer != nil {
			if v, ok := cur.layer[k]; ok {
				return v, true
			}
		}
	}
	var zero V
	return zero, false
}

// set writes into this layer's own overlay, allocating it on first use.
func (m *cowMap[K, V]) set(k K, v V) {
	if m.layer == nil {
		m.layer = make(map[K]V)
	}
	m.layer[k] = v
	if m.tomb != nil {
		delete(m.tomb, k)
	}
}

// remove tombstones k in this layer, shadowing any ancestor value.
func (m *cowMap[K, V]) remove(k K) {
	if m.tomb == nil {
		m.tomb = make(map[K]bool)
	}
	m.tomb[k] = true
	if m.layer != nil {
		delete(m.layer, k)
	}
}

// forEach visits every live (key, value) pair exactly once: this layer
// first, then each ancestor, deduplicated by key.
func (m *cowMap[K, V]) forEach(fn func(K, V)) {
	seen := make(map[K]bool)
	for cur := m; cur != nil; cur = cur.parent {
		if cur.layer != nil {
			for k, v := range cur.layer {
				if seen[k] {
					continue
				}
				seen[k] = true
				fn(k, v)
			}
		}
		if cur.tomb != nil {
			for k := range cur.tomb {
				seen[k] = true
			}
		}
	}
}

// compactThreshold is the overlay/base size ratio beyond which a layer
// chain is flattened into a single new base map.
const compactThreshold = 0.7

// shouldCompact reports whether this layer's overlay has grown large enough,
// relative to its deepest ancestor's base size, to be worth flattening.
func (m *cowMap[K, V]) shouldCompact(baseSize int) bool {
	if baseSize == 0 {
		return false
	}
	return float64(len(m.layer))/float64(baseSize) >= compactThreshold
}

// compact flattens the full ancestor chain into a single new root layer,
// preserving exactly the same (key, value) visibility as before.
func (m *cowMap[K, V]) compact() *cowMap[K, V] {
	flat := &cowMap[K, V]{layer: make(map[K]V)}
	m.forEach(func(k K, v V) { flat.layer[k] = v })
	return flat
}
