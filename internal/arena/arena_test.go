package arena_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/semgraph/semgraph/internal/arena"
)

type widget struct {
	Name string
	N    int
}

func TestAllocGet(t *testing.T) {
	a := arena.New[widget]()
	id := a.Alloc(widget{Name: "x", N: 1})
	got, ok := a.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "x", got.Name)
}

func TestGetUnknown(t *testing.T) {
	a := arena.New[widget]()
	_, ok := a.Get(arena.ID[widget](42))
	assert.False(t, ok)
}

func TestMutateWriteOnce(t *testing.T) {
	a := arena.New[widget]()
	id := a.Alloc(widget{Name: "x"})
	ok := a.Mutate(id, func(w *widget) { w.N = 7 })
	assert.True(t, ok)
	got, _ := a.Get(id)
	assert.Equal(t, 7, got.N)
}

func TestConcurrentAllocStableIDs(t *testing.T) {
	a := arena.New[widget]()
	var wg sync.WaitGroup
	ids := make([]arena.ID[widget], 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = a.Alloc(widget{N: i})
		}(i)
	}
	wg.Wait()

	seen := make(map[arena.ID[widget]]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "id handed out twice")
		seen[id] = true
	}
	assert.Equal(t, 200, a.Len())
}

func TestVecAppendSnapshot(t *testing.T) {
	v := arena.NewVec[int]()
	v.Append(1, 2, 3)
	v.Append(4)
	assert.Equal(t, []int{1, 2, 3, 4}, v.Snapshot())
}
