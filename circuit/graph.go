package circuit

import "github.com/juju/errors"

// Stage is one named step of a Graph: a circuit's descriptive Node
// plus a thunk that drives that circuit through one mutation. Run
// closures typically read from an upstream stage's last output and
// call Subscription.Emit on the way out — Graph itself doesn't know
// about Z-sets or subscriptions, only about running stages in the
// order the caller declares.
type Stage struct {
	Name string
	Node Node
	Run  func() error
}

// Graph assembles circuit Nodes into an explicit dependency-ordered
// pipeline (spec §4.8's composition, §5's scheduling rule), replacing
// the mutual-subscription callback tangle spec §9's Design Notes flag.
// Stages run in the order they were given to NewGraph — callers are
// responsible for listing them from inputs toward outputs, same as
// Walk does for a single composed Circuit's Node tree.
type Graph struct {
	stages []Stage
}

// NewGraph builds a graph from an ordered list of stages. Stage names
// must be unique.
func NewGraph(stages ...Stage) (*Graph, error) {
	seen := make(map[string]struct{}, len(stages))
	for _, s := range stages {
		if _, dup := seen[s.Name]; dup {
			return nil, errors.AlreadyExistsf("graph stage %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return &Graph{stages: stages}, nil
}

// RunMutation drives one mutation through every stage to completion,
// in order, before returning — spec §5's "a change that originates at
// L0 reaches L3 subscribers before any subsequent L0 change begins
// processing." A stage that errors stops the run; stages already run
// are not rolled back, matching §7's propagation rule that operator
// state is never speculatively undone.
func (g *Graph) RunMutation() error {
	for _, s := range g.stages {
		if err := s.Run(); err != nil {
			return errors.Annotatef(err, "graph stage %q", s.Name)
		}
	}
	return nil
}

// Names returns every stage's name in run order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.stages))
	for i, s := range g.stages {
		out[i] = s.Name
	}
	return out
}

// Nodes returns every stage's descriptive Node in run order, for
// introspection via Walk/Names on the individual nodes.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.stages))
	for i, s := range g.stages {
		out[i] = s.Node
	}
	return out
}
