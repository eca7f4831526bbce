// Package dump renders quill syntax trees to a canonical textual form and
// reads that form back. The format exists for test fixtures and debug
// tooling: two equal trees always dump to identical bytes, and reading a
// dump reproduces the tree field-by-field, offsets included. It is not a
// production wire format.
//
// Every node is written as a parenthesized list: a tag, an "@" byte offset,
// then the node's fields in declaration order. Absent optional fields are
// written as "_". For example:
//
//	(local @0 (bind @6 0 _ (num @10 1)) (binary @13 + (id @13 0) (num @17 2)))
package dump

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudcmds/quill/ast"
	"github.com/cloudcmds/quill/internal/token"
)

// Dump returns the canonical textual form of the tree rooted at node.
func Dump(node ast.Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// Write writes the canonical textual form of the tree to w.
func Write(w io.Writer, node ast.Node) error {
	_, err := io.WriteString(w, Dump(node))
	return err
}

func writeNode(b *strings.Builder, node ast.Node) {
	switch n := node.(type) {
	case *ast.Null:
		writeLeaf(b, "null", n.NullPos)
	case *ast.True:
		writeLeaf(b, "true", n.TruePos)
	case *ast.False:
		writeLeaf(b, "false", n.FalsePos)
	case *ast.Self:
		writeLeaf(b, "self", n.SelfPos)
	case *ast.Super:
		writeLeaf(b, "super", n.SuperPos)
	case *ast.Dollar:
		writeLeaf(b, "dollar", n.DollarPos)
	case *ast.Str:
		open(b, "str", n.ValuePos)
		b.WriteString(" ")
		b.WriteString(strconv.Quote(n.Value))
		b.WriteString(")")
	case *ast.Num:
		open(b, "num", n.ValuePos)
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
		b.WriteString(")")
	case *ast.Id:
		open(b, "id", n.IdPos)
		fmt.Fprintf(b, " %d)", n.Slot)
	case *ast.Arr:
		open(b, "arr", n.Lbrack)
		for _, el := range n.Elements {
			b.WriteString(" ")
			writeNode(b, el)
		}
		b.WriteString(")")
	case *ast.Obj:
		open(b, "obj", n.Lbrace)
		b.WriteString(" ")
		writeBody(b, n.Body)
		b.WriteString(")")
	case *ast.Parened:
		open(b, "parens", n.Lparen)
		b.WriteString(" ")
		writeNode(b, n.Inner)
		b.WriteString(")")
	case *ast.UnaryOp:
		open(b, "unary", n.OpPos)
		b.WriteString(" " + n.Op.String() + " ")
		writeNode(b, n.X)
		b.WriteString(")")
	case *ast.BinaryOp:
		open(b, "binary", n.OpPos)
		b.WriteString(" " + n.Op.String() + " ")
		writeNode(b, n.X)
		b.WriteString(" ")
		writeNode(b, n.Y)
		b.WriteString(")")
	case *ast.AssertExpr:
		open(b, "assert", n.AssertPos)
		b.WriteString(" ")
		writeNode(b, n.Cond)
		b.WriteString(" ")
		writeOpt(b, n.Message)
		b.WriteString(" ")
		writeNode(b, n.Value)
		b.WriteString(")")
	case *ast.LocalExpr:
		open(b, "local", n.LocalPos)
		for _, bind := range n.Binds {
			b.WriteString(" ")
			writeBind(b, bind)
		}
		b.WriteString(" ")
		writeNode(b, n.Value)
		b.WriteString(")")
	case *ast.Import:
		open(b, "import", n.ImportPos)
		b.WriteString(" ")
		b.WriteString(strconv.Quote(n.Path))
		b.WriteString(")")
	case *ast.ImportStr:
		open(b, "importstr", n.ImportPos)
		b.WriteString(" ")
		b.WriteString(strconv.Quote(n.Path))
		b.WriteString(")")
	case *ast.Error:
		open(b, "error", n.ErrorPos)
		b.WriteString(" ")
		writeNode(b, n.Value)
		b.WriteString(")")
	case *ast.Apply:
		open(b, "apply", n.Lparen)
		b.WriteString(" ")
		writeNode(b, n.Target)
		for _, arg := range n.Args {
			b.WriteString(" (arg ")
			if arg.Name == "" {
				b.WriteString("_")
			} else {
				b.WriteString(strconv.Quote(arg.Name))
			}
			b.WriteString(" ")
			writeNode(b, arg.Value)
			b.WriteString(")")
		}
		b.WriteString(")")
	case *ast.Select:
		open(b, "select", n.SelPos)
		b.WriteString(" ")
		writeNode(b, n.Target)
		b.WriteString(" ")
		b.WriteString(strconv.Quote(n.Field))
		b.WriteString(")")
	case *ast.Lookup:
		open(b, "lookup", n.Lbrack)
		b.WriteString(" ")
		writeNode(b, n.Target)
		b.WriteString(" ")
		writeNode(b, n.Index)
		b.WriteString(")")
	case *ast.Slice:
		open(b, "slice", n.Lbrack)
		b.WriteString(" ")
		writeNode(b, n.Target)
		b.WriteString(" ")
		writeOpt(b, n.Start)
		b.WriteString(" ")
		writeOpt(b, n.End)
		b.WriteString(" ")
		writeOpt(b, n.Stride)
		b.WriteString(")")
	case *ast.Function:
		open(b, "fn", n.FuncPos)
		b.WriteString(" ")
		writeParams(b, n.Params)
		b.WriteString(" ")
		writeNode(b, n.Body)
		b.WriteString(")")
	case *ast.IfElse:
		open(b, "if", n.IfPos)
		b.WriteString(" ")
		writeNode(b, n.Cond)
		b.WriteString(" ")
		writeNode(b, n.Then)
		b.WriteString(" ")
		writeOpt(b, n.Else)
		b.WriteString(")")
	case *ast.IfSpec:
		open(b, "ifspec", n.IfPos)
		b.WriteString(" ")
		writeNode(b, n.Cond)
		b.WriteString(")")
	case *ast.ForSpec:
		open(b, "forspec", n.ForPos)
		fmt.Fprintf(b, " %d ", n.Slot)
		writeNode(b, n.Iter)
		b.WriteString(")")
	case *ast.Comp:
		open(b, "comp", n.Lbrack)
		b.WriteString(" ")
		writeNode(b, n.Value)
		b.WriteString(" ")
		writeNode(b, n.First)
		for _, spec := range n.Rest {
			b.WriteString(" ")
			writeNode(b, spec)
		}
		b.WriteString(")")
	case *ast.ObjExtend:
		open(b, "extend", n.Lbrace)
		b.WriteString(" ")
		writeNode(b, n.Base)
		b.WriteString(" ")
		writeBody(b, n.Ext)
		b.WriteString(")")
	case *ast.Field:
		open(b, "field", n.FieldPos)
		b.WriteString(" ")
		writeFieldName(b, n.Name)
		if n.Plus {
			b.WriteString(" +")
		} else {
			b.WriteString(" _")
		}
		b.WriteString(" " + n.Visibility.String() + " ")
		if n.Method == nil {
			b.WriteString("_")
		} else {
			writeParams(b, n.Method)
		}
		b.WriteString(" ")
		writeNode(b, n.Value)
		b.WriteString(")")
	case *ast.BindStmt:
		writeBind(b, n.Bind)
	case *ast.AssertStmt:
		open(b, "assertstmt", n.AssertPos)
		b.WriteString(" ")
		writeNode(b, n.Cond)
		b.WriteString(" ")
		writeOpt(b, n.Message)
		b.WriteString(")")
	default:
		// The node set is closed; reaching this is a programming error.
		panic(fmt.Sprintf("dump: unknown node type %T", node))
	}
}

func open(b *strings.Builder, tag string, pos token.Pos) {
	b.WriteString("(" + tag + " ")
	writePos(b, pos)
}

func writeLeaf(b *strings.Builder, tag string, pos token.Pos) {
	open(b, tag, pos)
	b.WriteString(")")
}

func writePos(b *strings.Builder, pos token.Pos) {
	if pos.IsValid() {
		fmt.Fprintf(b, "@%d", pos)
	} else {
		b.WriteString("@_")
	}
}

func writeOpt(b *strings.Builder, e ast.Expr) {
	if e == nil {
		b.WriteString("_")
		return
	}
	writeNode(b, e)
}

func writeBind(b *strings.Builder, bind ast.Bind) {
	open(b, "bind", bind.NamePos)
	fmt.Fprintf(b, " %d ", bind.Slot)
	if bind.Params == nil {
		b.WriteString("_")
	} else {
		writeParams(b, bind.Params)
	}
	b.WriteString(" ")
	writeNode(b, bind.Value)
	b.WriteString(")")
}

func writeParams(b *strings.Builder, p *ast.Params) {
	b.WriteString("(params")
	for i := 0; i < p.Len(); i++ {
		prm := p.At(i)
		fmt.Fprintf(b, " (param %s %d ", strconv.Quote(prm.Name), prm.Slot)
		writeOpt(b, prm.Default)
		b.WriteString(")")
	}
	b.WriteString(")")
}

func writeFieldName(b *strings.Builder, name ast.FieldName) {
	switch n := name.(type) {
	case *ast.FixedName:
		b.WriteString("(fixed " + strconv.Quote(n.Value) + ")")
	case *ast.DynName:
		b.WriteString("(dyn ")
		writeNode(b, n.Expr)
		b.WriteString(")")
	default:
		panic(fmt.Sprintf("dump: unknown field name type %T", name))
	}
}

func writeBody(b *strings.Builder, body ast.ObjBody) {
	switch body := body.(type) {
	case *ast.MemberList:
		b.WriteString("(members")
		for _, m := range body.Members {
			b.WriteString(" ")
			writeNode(b, m)
		}
		b.WriteString(")")
	case *ast.ObjComp:
		b.WriteString("(objcomp (pre")
		for _, l := range body.PreLocals {
			b.WriteString(" ")
			writeBind(b, l.Bind)
		}
		b.WriteString(") ")
		writeNode(b, body.Key)
		b.WriteString(" ")
		writeNode(b, body.Value)
		b.WriteString(" (post")
		for _, l := range body.PostLocals {
			b.WriteString(" ")
			writeBind(b, l.Bind)
		}
		b.WriteString(") ")
		writeNode(b, body.First)
		for _, spec := range body.Rest {
			b.WriteString(" ")
			writeNode(b, spec)
		}
		b.WriteString(")")
	default:
		panic(fmt.Sprintf("dump: unknown object body type %T", body))
	}
}
