// Example: incremental view maintenance over a small orders/users
// dataset, wiring the config, telemetry, join, topk, circuit, and
// observe packages together end to end.
package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vela-stream/dbsp/circuit"
	"github.com/vela-stream/dbsp/config"
	"github.com/vela-stream/dbsp/internal/telemetry"
	"github.com/vela-stream/dbsp/observe"
	"github.com/vela-stream/dbsp/topk"
	"github.com/vela-stream/dbsp/zset"
)

type order struct {
	ID     string
	UserID string
	Total  int
}

type user struct {
	ID   string
	Name string
}

type orderUser = zset.Pair[order, user]

const demoConfig = `
tables:
  - name: orders
  - name: users
joins:
  - name: orders_join_users
    left_table: orders
    right_table: users
    left_key_field: UserID
    right_key_field: ID
topks:
  - name: top_spenders
    upstream: orders_join_users
    limit: 2
    offset: 0
    compare_field: Total
    descending: true
`

func main() {
	fmt.Println("=== DBSP Incremental View Maintenance Demo ===")
	fmt.Println()

	cfg, err := config.Load(strings.NewReader(demoConfig))
	if err != nil {
		panic(err)
	}
	fmt.Printf("Loaded circuit config: %d tables, %d joins, %d topks\n", len(cfg.Tables), len(cfg.Joins), len(cfg.TopKs))

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	log := telemetry.New(zapLogger, "dbspdemo")

	joinCircuit := circuit.NewJoinCircuit[order, user, string](
		cfg.Joins[0].Name,
		func(o order) string { return o.UserID },
		func(u user) string { return u.ID },
		log,
	)

	topkCircuit := circuit.NewTopKCircuit[orderUser](
		cfg.TopKs[0].Name,
		func(a, b orderUser) int { return b.First.Total - a.First.Total },
		cfg.TopKs[0].Limit, cfg.TopKs[0].Offset,
		func(p orderUser) string { return p.First.ID },
		log,
	)

	joinSub := observe.New[zset.ZSet[orderUser]](log)
	joinSub.Subscribe(func(delta zset.ZSet[orderUser]) {
		fmt.Println("\n[join delta]")
		printJoinDelta(delta)
	})

	topkSub := observe.New[[]topk.Delta[orderUser]](log)
	topkSub.Subscribe(func(out []topk.Delta[orderUser]) {
		fmt.Println("\n[top_spenders delta]")
		for _, d := range out {
			fmt.Printf("  %+d %s (total=%d)\n", d.Weight, d.Record.First.ID, d.Record.First.Total)
		}
	})

	g, err := circuit.NewGraph(
		circuit.Stage{Name: "orders", Node: circuit.TableNode{Name: "orders"}, Run: func() error { return nil }},
		circuit.Stage{Name: "users", Node: circuit.TableNode{Name: "users"}, Run: func() error { return nil }},
	)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Graph stages: %v\n", g.Names())

	alice := user{"alice", "Alice"}
	bob := user{"bob", "Bob"}
	users := mustMerge(zset.Record[user]{Key: alice, Weight: 1}, zset.Record[user]{Key: bob, Weight: 1})

	fmt.Println("\n--- Initial batch: two users, two orders ---")
	step1Orders := mustMerge(
		zset.Record[order]{Key: order{"o1", "alice", 1200}, Weight: 1},
		zset.Record[order]{Key: order{"o2", "bob", 300}, Weight: 1},
	)
	runStep(joinCircuit, topkCircuit, joinSub, topkSub, step1Orders, users)

	fmt.Println("\n--- Incremental step: bob places a big order ---")
	step2Orders := mustMerge(zset.Record[order]{Key: order{"o3", "bob", 5000}, Weight: 1})
	runStep(joinCircuit, topkCircuit, joinSub, topkSub, step2Orders, zset.Zero[user]())

	fmt.Println("\n=== Final materialized view ===")
	printJoinDelta(joinCircuit.MaterializedView())
}

func runStep(
	j *circuit.JoinCircuit[order, user, string],
	k *circuit.TopKCircuit[orderUser],
	joinSub *observe.Subscription[zset.ZSet[orderUser]],
	topkSub *observe.Subscription[[]topk.Delta[orderUser]],
	deltaOrders zset.ZSet[order],
	deltaUsers zset.ZSet[user],
) {
	joinDelta, err := j.ProcessStep(deltaOrders, deltaUsers)
	if err != nil {
		panic(err)
	}
	if err := joinSub.Emit(joinDelta); err != nil {
		panic(err)
	}

	deltas := make([]topk.Delta[orderUser], 0, joinDelta.Len())
	for pair, w := range joinDelta.Data() {
		deltas = append(deltas, topk.Delta[orderUser]{Record: pair, Weight: w})
	}

	out, err := k.ProcessStep(deltas)
	if err != nil {
		panic(err)
	}
	if err := topkSub.Emit(out); err != nil {
		panic(err)
	}
}

func printJoinDelta(z zset.ZSet[orderUser]) {
	for pair, w := range z.Data() {
		fmt.Printf("  %+d order %s (total=%d) -> user %s\n", w, pair.First.ID, pair.First.Total, pair.Second.Name)
	}
}

func mustMerge[A comparable](records ...zset.Record[A]) zset.ZSet[A] {
	z, err := zset.MergeRecords(records)
	if err != nil {
		panic(err)
	}
	return z
}
