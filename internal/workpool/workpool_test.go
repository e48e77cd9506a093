package workpool

import (
	"sync/atomic"
	"testing"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	const n = 1000
	hits := make([]int32, n)
	pool.ForEach(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestForEachOnStoppedPoolRunsInline(t *testing.T) {
	pool := NewWorkerPool(2)

	var sum int64
	pool.ForEach(10, func(i int) {
		atomic.AddInt64(&sum, int64(i))
	})

	if sum != 45 {
		t.Errorf("sum = %d, want 45", sum)
	}
	if stats := pool.Stats(); stats.TasksTotal != 0 || stats.Running {
		t.Errorf("unexpected stats for stopped pool: %+v", stats)
	}
}

func TestBatchProcessorFlushesFullAndPartialBatches(t *testing.T) {
	var batches [][]int
	bp := NewBatchProcessor(3, func(items []int) error {
		batches = append(batches, items)
		return nil
	})

	for i := 0; i < 7; i++ {
		if err := bp.Add(i); err != nil {
			t.Fatal(err)
		}
	}
	if err := bp.Flush(); err != nil {
		t.Fatal(err)
	}

	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if len(batches[0]) != 3 || batches[0][0] != 0 || batches[1][0] != 3 {
		t.Errorf("unexpected batch contents: %v", batches)
	}
	if len(batches[2]) != 1 || batches[2][0] != 6 {
		t.Errorf("unexpected final batch: %v", batches[2])
	}
}

func TestStopDrainsQueueAndRejectsNewTasks(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()

	var ran int32
	for i := 0; i < 50; i++ {
		if !pool.Submit(func() { atomic.AddInt32(&ran, 1) }) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	pool.Stop()
	pool.Stop()

	if ran != 50 {
		t.Errorf("ran %d tasks, want 50", ran)
	}
	if pool.Submit(func() {}) {
		t.Error("stopped pool accepted a task")
	}
	pool.Start()
	if pool.Stats().Running {
		t.Error("stopped pool restarted")
	}
}
