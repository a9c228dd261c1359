package event

import (
	"sync"
	"testing"

	"github.com/Faultbox/meshview/internal/engine/mesh"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()

	ids := []mesh.CoreID{{Core: 1}, {Core: 2}, {Core: 3}}
	for _, id := range ids {
		q.Push(AddMesh{ID: id})
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}

	for i, want := range ids {
		c, ok := q.TryPop()
		if !ok {
			t.Fatalf("TryPop %d: queue empty", i)
		}
		got, ok := c.(AddMesh)
		if !ok {
			t.Fatalf("TryPop %d: wrong command type %T", i, c)
		}
		if got.ID != want {
			t.Errorf("TryPop %d: id %v, want %v", i, got.ID, want)
		}
	}

	if _, ok := q.TryPop(); ok {
		t.Error("TryPop on drained queue should report empty")
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", q.Len())
	}
}

func TestQueueEmptyPopIsNonBlocking(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, ok := q.TryPop(); ok {
			t.Error("TryPop on empty queue returned a command")
		}
	}()
	<-done
}

func TestQueueInterleavedPushPop(t *testing.T) {
	q := NewQueue()
	q.Push(ClearAll{})
	if _, ok := q.TryPop(); !ok {
		t.Fatal("expected command")
	}
	// Head compaction must not lose later pushes
	q.Push(RemoveMesh{ID: mesh.CoreID{Core: 9}})
	c, ok := q.TryPop()
	if !ok {
		t.Fatal("expected command after compaction")
	}
	if rm, ok := c.(RemoveMesh); !ok || rm.ID.Core != 9 {
		t.Errorf("got %v, want RemoveMesh{9}", c)
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(AddMesh{ID: mesh.CoreID{Core: uint64(p*perProducer + i)}})
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	count := 0
	for {
		c, ok := q.TryPop()
		if !ok {
			break
		}
		id := c.(AddMesh).ID.Core
		if seen[id] {
			t.Fatalf("command %d popped twice", id)
		}
		seen[id] = true
		count++
	}
	if count != producers*perProducer {
		t.Errorf("popped %d commands, want %d", count, producers*perProducer)
	}
}

func TestQueuePerProducerOrderPreserved(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup

	// Two producers with disjoint id ranges; each producer's commands must
	// come out in its own push order.
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Push(AddMesh{ID: mesh.CoreID{Core: uint64(p*1000 + i)}})
			}
		}(p)
	}
	wg.Wait()

	last := map[int]int{0: -1, 1: -1}
	for {
		c, ok := q.TryPop()
		if !ok {
			break
		}
		id := int(c.(AddMesh).ID.Core)
		producer := id / 1000
		seq := id % 1000
		if seq <= last[producer] {
			t.Fatalf("producer %d order violated: %d after %d", producer, seq, last[producer])
		}
		last[producer] = seq
	}
}
