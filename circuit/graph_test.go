package circuit

import (
	"errors"
	"testing"

	"github.com/vela-stream/dbsp/observe"
	"github.com/vela-stream/dbsp/zset"
)

func TestGraphRunsStagesInOrderAndFansOutDeltas(t *testing.T) {
	var current zset.ZSet[string]
	var filtered zset.ZSet[string]

	sub := observe.New[zset.ZSet[string]](nil)
	var delivered zset.ZSet[string]
	sub.Subscribe(func(z zset.ZSet[string]) { delivered = z })

	g, err := NewGraph(
		Stage{
			Name: "orders",
			Node: TableNode{Name: "orders"},
			Run: func() error {
				current = zs(t, "ab", 1, "wxyz", 2)
				return nil
			},
		},
		Stage{
			Name: "shortwords",
			Node: FilterNode{Name: "shortwords"},
			Run: func() error {
				filtered = zset.Filter(current, func(s string) bool { return len(s) <= 3 })
				return sub.Emit(filtered)
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RunMutation(); err != nil {
		t.Fatal(err)
	}

	t.Run("the filter stage's output reaches the subscriber", func(t *testing.T) {
		if !delivered.Equal(zs(t, "ab", 1)) {
			t.Fatalf("got %v", delivered.Data())
		}
	})

	t.Run("stage names are reported in declaration order", func(t *testing.T) {
		names := g.Names()
		if len(names) != 2 || names[0] != "orders" || names[1] != "shortwords" {
			t.Fatalf("unexpected stage names: %v", names)
		}
	})
}

func TestNewGraphRejectsDuplicateStageNames(t *testing.T) {
	tests := []struct {
		name       string
		stageNames []string
		wantErr    bool
	}{
		{name: "duplicate stage names", stageNames: []string{"a", "a"}, wantErr: true},
		{name: "distinct stage names", stageNames: []string{"a", "b"}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages := make([]Stage, len(tt.stageNames))
			for i, n := range tt.stageNames {
				stages[i] = Stage{Name: n, Node: TableNode{Name: n}, Run: func() error { return nil }}
			}
			_, err := NewGraph(stages...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewGraph() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphStopsOnStageError(t *testing.T) {
	var ranSecond bool
	boom := errors.New("boom")
	g, err := NewGraph(
		Stage{Name: "a", Node: TableNode{Name: "a"}, Run: func() error { return boom }},
		Stage{Name: "b", Node: TableNode{Name: "b"}, Run: func() error { ranSecond = true; return nil }},
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.RunMutation(); err == nil {
		t.Fatalf("expected RunMutation to propagate the stage error")
	}
	t.Run("the stage after the error never runs", func(t *testing.T) {
		if ranSecond {
			t.Fatalf("expected the second stage not to run after the first errored")
		}
	})
}
