// Package ast defines the slot-resolved syntax tree for quill expressions.
//
// The tree is the contract between a parser/resolver and an evaluator: the
// construction pass builds nodes bottom-up, resolving every identifier
// occurrence to the integer slot of the binding that introduces it in the
// nearest lexically enclosing scope. Function parameters, local bindings and
// comprehension loop variables all introduce slots; shadowing yields distinct
// slots for the inner and outer binding. Slots are local to the evaluation
// frame that introduces them, giving the evaluator O(1) indexed access in
// place of name lookup. This package never re-derives slot assignment.
//
// Every node carries a byte offset into the original source, used only for
// diagnostics. Nodes are immutable once built: any number of goroutines may
// traverse one tree concurrently without locks, and leaf nodes may be shared
// between trees as a space optimization.
package ast

import "github.com/cloudcmds/quill/internal/token"

// Node represents a portion of the syntax tree. All nodes carry the offset
// of the first character belonging to them in the source text.
type Node interface {
	// Pos returns the byte offset of the node within the source unit.
	Pos() token.Pos

	// String returns a human friendly representation of the Node. This
	// should be similar to the original source code, but not necessarily
	// identical; binding names are replaced by their slots.
	String() string
}

// Expr represents an expression node. The set of implementations is closed:
// consumers switch over every variant, and adding a variant is a deliberate
// breaking change to all of them.
type Expr interface {
	Node
	exprNode()
}

// CompSpec is one link in a comprehension generator chain. ForSpec binds a
// slot to each element of an iterable; IfSpec filters the current binding
// tuple. Both are also expressions so chains nest uniformly.
type CompSpec interface {
	Expr
	compSpecNode()
}
