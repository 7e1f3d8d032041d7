package resolver

import "testing"

func TestCowMapForkIsolation(t *testing.T) {
	parent := newCowMap[string, int]()
	parent.set("a", 1)

	child := parent.fork()
	child.set("a", 2)
	child.set("b", 3)

	if v, _ := parent.get("a"); v != 1 {
		t.Fatalf("parent.get(a) = %d, want 1 (fork must not mutate parent)", v)
	}
	if _, ok := parent.get("b"); ok {
		t.Fatalf("parent.get(b) found a value written only in child")
	}
	if v, _ := child.get("a"); v != 2 {
		t.Fatalf("child.get(a) = %d, want 2", v)
	}
	if v, _ := child.get("b"); v != 3 {
		t.Fatalf("child.get(b) = %d, want 3", v)
	}
}

func TestCowMapRemoveTombstonesAncestor(t *testing.T) {
	parent := newCowMap[string, int]()
	parent.set("a", 1)

	child := parent.fork()
	child.remove("a")

	if _, ok := child.get("a"); ok {
		t.Fatalf("child.get(a) found a value after remove")
	}
	if v, _ := parent.get("a"); v != 1 {
		t.Fatalf("parent.get(a) = %d, want 1 (removal in child must not affect parent)", v)
	}
}

func TestCowMapForEachDedupesAcrossLayers(t *testing.T) {
	parent := newCowMap[string, int]()
	parent.set("a", 1)
	parent.set("b", 2)

	child := parent.fork()
	child.set("b", 20)
	child.remove("a")
	child.set("c", 3)

	got := make(map[string]int)
	child.forEach(func(k string, v int) { got[k] = v })

	want := map[string]int{"b": 20, "c": 3}
	if len(got) != len(want) {
		t.Fatalf("forEach visited %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("forEach[%s] = %d, want %d", k, got[k], v)
		}
	}
}

func TestCowMapCompactPreservesVisibility(t *testing.T) {
	root := newCowMap[string, int]()
	root.set("a", 1)
	root.set("b", 2)

	mid := root.fork()
	mid.set("b", 20)
	mid.remove("a")

	leaf := mid.fork()
	leaf.set("c", 3)

	flat := leaf.compact()
	if flat.parent != nil {
		t.Fatalf("compact() result still has a parent chain")
	}

	before := make(map[string]int)
	leaf.forEach(func(k string, v int) { before[k] = v })
	after := make(map[string]int)
	flat.forEach(func(k string, v int) { after[k] = v })

	if len(before) != len(after) {
		t.Fatalf("compact changed visible key count: before=%v after=%v", before, after)
	}
	for k, v := range before {
		if after[k] != v {
			t.Fatalf("compact changed value for %s: before=%d after=%d", k, v, after[k])
		}
	}
}
