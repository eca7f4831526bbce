package ast

import "iter"

// Visitor defines the interface for tree traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a tree in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
// Children include parameter default expressions, bind right-hand sides,
// argument values and object members, in source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range children(node) {
		Walk(v, child)
	}
}

// Inspect traverses a tree in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the tree rooted at
// node in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, c := range children(n) {
				if !visit(c) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// children returns the non-nil child nodes of n in source order. The switch
// is exhaustive over the closed node set; a new variant must be added here
// for traversal to see it.
func children(n Node) []Node {
	switch n := n.(type) {
	case *Null, *True, *False, *Self, *Super, *Dollar,
		*Str, *Num, *Id, *Import, *ImportStr:
		return nil
	case *Arr:
		out := make([]Node, 0, len(n.Elements))
		for _, el := range n.Elements {
			out = append(out, el)
		}
		return out
	case *Obj:
		return bodyChildren(n.Body)
	case *Parened:
		return []Node{n.Inner}
	case *UnaryOp:
		return []Node{n.X}
	case *BinaryOp:
		return []Node{n.X, n.Y}
	case *AssertExpr:
		out := []Node{n.Cond}
		if n.Message != nil {
			out = append(out, n.Message)
		}
		return append(out, n.Value)
	case *LocalExpr:
		var out []Node
		for _, b := range n.Binds {
			out = bindChildren(out, b)
		}
		return append(out, n.Value)
	case *Error:
		return []Node{n.Value}
	case *Apply:
		out := []Node{n.Target}
		for _, arg := range n.Args {
			out = append(out, arg.Value)
		}
		return out
	case *Select:
		return []Node{n.Target}
	case *Lookup:
		return []Node{n.Target, n.Index}
	case *Slice:
		out := []Node{n.Target}
		for _, e := range []Expr{n.Start, n.End, n.Stride} {
			if e != nil {
				out = append(out, e)
			}
		}
		return out
	case *Function:
		return append(paramsChildren(nil, n.Params), n.Body)
	case *IfElse:
		out := []Node{n.Cond, n.Then}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	case *IfSpec:
		return []Node{n.Cond}
	case *ForSpec:
		return []Node{n.Iter}
	case *Comp:
		out := []Node{n.Value, n.First}
		for _, spec := range n.Rest {
			out = append(out, spec)
		}
		return out
	case *ObjExtend:
		return append([]Node{n.Base}, bodyChildren(n.Ext)...)
	case *Field:
		var out []Node
		if dyn, ok := n.Name.(*DynName); ok {
			out = append(out, dyn.Expr)
		}
		out = paramsChildren(out, n.Method)
		return append(out, n.Value)
	case *BindStmt:
		return bindChildren(nil, n.Bind)
	case *AssertStmt:
		out := []Node{n.Cond}
		if n.Message != nil {
			out = append(out, n.Message)
		}
		return out
	}
	return nil
}

// bodyChildren enumerates an object body: the members of a static list, or
// the locals, key, value and generator chain of a comprehension.
func bodyChildren(body ObjBody) []Node {
	switch b := body.(type) {
	case *MemberList:
		out := make([]Node, 0, len(b.Members))
		for _, m := range b.Members {
			out = append(out, m)
		}
		return out
	case *ObjComp:
		var out []Node
		for _, l := range b.PreLocals {
			out = append(out, l)
		}
		out = append(out, b.Key, b.Value)
		for _, l := range b.PostLocals {
			out = append(out, l)
		}
		out = append(out, b.First)
		for _, spec := range b.Rest {
			out = append(out, spec)
		}
		return out
	}
	return nil
}

// bindChildren appends a bind's parameter defaults and right-hand side.
func bindChildren(out []Node, b Bind) []Node {
	out = paramsChildren(out, b.Params)
	return append(out, b.Value)
}

// paramsChildren appends the default expressions of a parameter list in
// declaration order.
func paramsChildren(out []Node, p *Params) []Node {
	for _, d := range p.Defaulted() {
		out = append(out, d.Default)
	}
	return out
}
