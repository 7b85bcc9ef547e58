package circuit

// Visitor traverses a circuit's Node tree. Visit returns the Visitor
// to use for the node's children, or nil to stop descending.
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk visits node in dependency order — from inputs toward outputs,
// matching the scheduling order of spec §5 — descending into a
// ComposeNode's First before its Second. Every other variant is a
// leaf.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	if c, ok := n.(ComposeNode); ok {
		Walk(v, c.First)
		Walk(v, c.Second)
	}
}

// WalkFunc calls fn for each node in dependency order; fn returning
// false stops descent into that node's children.
func WalkFunc(n Node, fn func(Node) bool) {
	Walk(&funcVisitor{fn: fn}, n)
}

type funcVisitor struct {
	fn func(Node) bool
}

func (v *funcVisitor) Visit(n Node) Visitor {
	if v.fn(n) {
		return v
	}
	return nil
}

// Names collects every node's descriptive name in dependency order,
// the way a scheduler would enumerate a graph before running it.
func Names(n Node) []string {
	var out []string
	WalkFunc(n, func(node Node) bool {
		switch v := node.(type) {
		case TableNode:
			out = append(out, v.Name)
		case FilterNode:
			out = append(out, v.Name)
		case ProjectNode:
			out = append(out, v.Name)
		case JoinNode:
			out = append(out, v.Name)
		case DistinctNode:
			out = append(out, v.Name)
		case UnionNode:
			out = append(out, v.Name)
		case DifferenceNode:
			out = append(out, v.Name)
		case TopKNode:
			out = append(out, v.Name)
		case GroupByNode:
			out = append(out, v.Name)
		case AggregateNode:
			out = append(out, v.Name)
		case BilinearNode:
			out = append(out, v.Name)
		case ComposeNode:
			// no name of its own; First/Second are visited separately
		}
		return true
	})
	return out
}
