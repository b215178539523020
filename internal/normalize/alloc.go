package normalize

import "fmt"

// allocator hands out deterministic chapter IDs for one normalization
// pass. It is created per call and never shared, so processing many
// books concurrently cannot leak IDs across documents.
type allocator struct {
	seq  int
	used map[string]bool
}

func newAllocator() *allocator {
	return &allocator{used: make(map[string]bool)}
}

// Reserve marks a raw-supplied ID as taken. Raw IDs always win over
// generated ones; the generator skips any reserved value.
func (a *allocator) Reserve(id string) {
	if id != "" {
		a.used[id] = true
	}
}

// ChapterID returns the next free generated chapter ID. The counter
// only advances, so output is stable across re-runs of the same input.
func (a *allocator) ChapterID() string {
	for {
		a.seq++
		id := fmt.Sprintf("chapter-%04d", a.seq)
		if !a.used[id] {
			a.used[id] = true
			return id
		}
	}
}

// blockAllocator scopes content block IDs to one chapter.
type blockAllocator struct {
	seq  int
	used map[string]bool
}

func newBlockAllocator() *blockAllocator {
	return &blockAllocator{used: make(map[string]bool)}
}

func (a *blockAllocator) Reserve(id string) {
	if id != "" {
		a.used[id] = true
	}
}

func (a *blockAllocator) BlockID() string {
	for {
		a.seq++
		id := fmt.Sprintf("block-%04d", a.seq)
		if !a.used[id] {
			a.used[id] = true
			return id
		}
	}
}
