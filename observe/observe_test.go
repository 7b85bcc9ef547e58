package observe

import "testing"

func TestSubscribeDeliversInInsertionOrder(t *testing.T) {
	tests := []struct {
		name        string
		subscribers int
	}{
		{name: "three subscribers fire in subscription order", subscribers: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := New[int](nil)
			var order []int
			for i := 1; i <= tt.subscribers; i++ {
				i := i
				sub.Subscribe(func(v int) { order = append(order, i) })
			}

			if err := sub.Emit(42); err != nil {
				t.Fatal(err)
			}
			if len(order) != tt.subscribers {
				t.Fatalf("got %v, want %d deliveries", order, tt.subscribers)
			}
			for i := range order {
				if order[i] != i+1 {
					t.Fatalf("got %v, want insertion order", order)
				}
			}
		})
	}
}

func TestUnsubscribeRemovesCallback(t *testing.T) {
	sub := New[string](nil)
	var calls int
	unsub := sub.Subscribe(func(v string) { calls++ })
	sub.Subscribe(func(v string) { calls++ })

	t.Run("unsubscribe drops the subscriber", func(t *testing.T) {
		unsub()
		if sub.Len() != 1 {
			t.Fatalf("expected 1 remaining subscriber, got %d", sub.Len())
		}
	})

	t.Run("emit after unsubscribe only reaches the remaining subscriber", func(t *testing.T) {
		if err := sub.Emit("x"); err != nil {
			t.Fatal(err)
		}
		if calls != 1 {
			t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
		}
	})

	t.Run("unsubscribe is idempotent", func(t *testing.T) {
		unsub()
		if sub.Len() != 1 {
			t.Fatalf("expected unsubscribe to stay idempotent")
		}
	})
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	sub := New[int](nil)
	var secondCalled bool
	sub.Subscribe(func(v int) { panic("boom") })
	sub.Subscribe(func(v int) { secondCalled = true })

	if err := sub.Emit(1); err != nil {
		t.Fatalf("Emit should isolate the panic, got error: %v", err)
	}
	if !secondCalled {
		t.Fatalf("expected second subscriber to still be called after the first panicked")
	}
}

func TestReentrantEmitIsRejected(t *testing.T) {
	sub := New[int](nil)
	var innerErr error
	sub.Subscribe(func(v int) {
		innerErr = sub.Emit(v + 1)
	})

	if err := sub.Emit(1); err != nil {
		t.Fatalf("outer Emit should succeed, got %v", err)
	}
	if innerErr == nil {
		t.Fatalf("expected re-entrant Emit to return an error")
	}
}
