// Package planutil implements the generic tree-rewrite helpers
// spec.md section 9 calls for: "a small set of generic visitor helpers
// (map-children, fold, rewrite-bottom-up) rather than open-coding the
// traversal for every rule." It is modeled on the teacher's
// sql/transform package (TransformUp, NodeFunc, TreeIdentity), but
// expressed with Go generics over a single Tree constraint so the
// expression tree, the logical plan tree, and the physical plan tree
// all share one implementation instead of three hand-rolled walkers.
package planutil

// TreeIdentity reports whether a rewrite actually produced a new tree,
// letting callers (in particular the analyzer's fixpoint loop) tell
// "nothing changed" apart from "changed back to something equal" at
// negligible cost.
type TreeIdentity bool

const (
	// SameTree means the rewrite did not change anything.
	SameTree TreeIdentity = false
	// NewTree means the rewrite produced a different tree.
	NewTree TreeIdentity = true
)

// Tree is the structural constraint every rewritable tree node
// satisfies: LogicalPlan, PhysicalPlan, and expr.Expr all implement it
// without needing to import this package.
type Tree[T any] interface {
	Children() []T
	WithChildren(children ...T) (T, error)
}

// Func is the node rewrite callback, modeled on the teacher's
// NodeFunc: given a node, return its replacement and whether the
// replacement differs.
type Func[T Tree[T]] func(node T) (T, TreeIdentity, error)

// MapChildren rewrites node's direct children using f and rebuilds
// node with WithChildren only if at least one child actually changed;
// an unchanged node is returned as-is (SameTree), preserving identity
// for callers that short-circuit on it.
func MapChildren[T Tree[T]](node T, f Func[T]) (T, TreeIdentity, error) {
	children := node.Children()
	if len(children) == 0 {
		return node, SameTree, nil
	}
	newChildren := make([]T, len(children))
	overall := SameTree
	for i, c := range children {
		nc, same, err := f(c)
		if err != nil {
			var zero T
			return zero, SameTree, err
		}
		newChildren[i] = nc
		if same == NewTree {
			overall = NewTree
		}
	}
	if overall == SameTree {
		return node, SameTree, nil
	}
	newNode, err := node.WithChildren(newChildren...)
	if err != nil {
		var zero T
		return zero, SameTree, err
	}
	return newNode, NewTree, nil
}

// RewriteBottomUp applies f to every node of the tree rooted at node,
// children before parents (the order every spec.md section 4.4 rule
// is specified against: rules inspect already-rewritten subtrees).
func RewriteBottomUp[T Tree[T]](node T, f Func[T]) (T, TreeIdentity, error) {
	rewrittenNode, childrenChanged, err := MapChildren(node, func(c T) (T, TreeIdentity, error) {
		return RewriteBottomUp(c, f)
	})
	if err != nil {
		var zero T
		return zero, SameTree, err
	}
	result, selfChanged, err := f(rewrittenNode)
	if err != nil {
		var zero T
		return zero, SameTree, err
	}
	if selfChanged == NewTree {
		return result, NewTree, nil
	}
	return result, childrenChanged, nil
}

// RewriteTopDown applies f to node first, then to the (possibly
// rewritten) children, for rewrites that need to see the parent's
// rewrite before children are visited. None of the analyzer's rules
// uses it; they all run through RewriteBottomUp.
func RewriteTopDown[T Tree[T]](node T, f Func[T]) (T, TreeIdentity, error) {
	rewritten, selfChanged, err := f(node)
	if err != nil {
		var zero T
		return zero, SameTree, err
	}
	result, childrenChanged, err := MapChildren(rewritten, func(c T) (T, TreeIdentity, error) {
		return RewriteTopDown(c, f)
	})
	if err != nil {
		var zero T
		return zero, SameTree, err
	}
	if selfChanged == NewTree || childrenChanged == NewTree {
		return result, NewTree, nil
	}
	return result, SameTree, nil
}

// Fold accumulates a value over every node of the tree, pre-order.
func Fold[T Tree[T], A any](node T, acc A, f func(A, T) A) A {
	acc = f(acc, node)
	for _, c := range node.Children() {
		acc = Fold(c, acc, f)
	}
	return acc
}

// Inspect walks the tree pre-order, calling f on every node including
// node itself; it stops descending into a subtree when f returns
// false for that subtree's root.
func Inspect[T Tree[T]](node T, f func(T) bool) {
	if !f(node) {
		return
	}
	for _, c := range node.Children() {
		Inspect(c, f)
	}
}

// Any reports whether any node in the tree rooted at node satisfies f.
func Any[T Tree[T]](node T, f func(T) bool) bool {
	found := false
	Inspect(node, func(n T) bool {
		if found {
			return false
		}
		if f(n) {
			found = true
			return false
		}
		return true
	})
	return found
}
