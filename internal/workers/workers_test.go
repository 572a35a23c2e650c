// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run and Stop were called.
type mockWorker struct {
	runCount  int
	stopCount int
	ctx       context.Context
}

func (m *mockWorker) Run(ctx context.Context) {
	m.runCount++
	m.ctx = ctx
}

func (m *mockWorker) Stop() {
	m.stopCount++
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_PassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")

	w := &mockWorker{}
	NewWorkers(w).Run(ctx)

	if w.ctx.Value(ctxKey{}) != "value" {
		t.Errorf("expected worker to receive the run context")
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run(context.Background())
	ws.Stop()
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run(context.Background())
	ws.Stop()
}

func TestWorkers_Run_Order(t *testing.T) {
	order := []string{}

	ws := NewWorkers(
		&orderWorker{id: "1", order: &order},
		&orderWorker{id: "2", order: &order},
		&orderWorker{id: "3", order: &order},
	)
	ws.Run(context.Background())
	ws.Stop()

	expected := []string{"run 1", "run 2", "run 3", "stop 3", "stop 2", "stop 1"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d]=%q, got %q", i, v, order[i])
		}
	}
}

func TestWorkers_Stop_CalledOnce(t *testing.T) {
	w := &mockWorker{}
	ws := NewWorkers(w)

	ws.Run(context.Background())
	ws.Stop()

	if w.stopCount != 1 {
		t.Errorf("expected Stop to be called exactly once, got %d", w.stopCount)
	}
}

// orderWorker records its calls into a shared slice.
type orderWorker struct {
	id    string
	order *[]string
}

func (o *orderWorker) Run(context.Context) {
	*o.order = append(*o.order, "run "+o.id)
}

func (o *orderWorker) Stop() {
	*o.order = append(*o.order, "stop "+o.id)
}
