package ast

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudcmds/quill/internal/token"
)

// Null is an expression node that holds the null literal.
type Null struct {
	NullPos token.Pos // position of "null"
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Pos { return x.NullPos }
func (x *Null) String() string { return "null" }

// True is an expression node that holds the true literal.
type True struct {
	TruePos token.Pos // position of "true"
}

func (x *True) exprNode() {}

func (x *True) Pos() token.Pos { return x.TruePos }
func (x *True) String() string { return "true" }

// False is an expression node that holds the false literal.
type False struct {
	FalsePos token.Pos // position of "false"
}

func (x *False) exprNode() {}

func (x *False) Pos() token.Pos { return x.FalsePos }
func (x *False) String() string { return "false" }

// Self is an expression node referring to the enclosing object.
type Self struct {
	SelfPos token.Pos // position of "self"
}

func (x *Self) exprNode() {}

func (x *Self) Pos() token.Pos { return x.SelfPos }
func (x *Self) String() string { return "self" }

// Super is an expression node referring to the base of the enclosing
// object during extension.
type Super struct {
	SuperPos token.Pos // position of "super"
}

func (x *Super) exprNode() {}

func (x *Super) Pos() token.Pos { return x.SuperPos }
func (x *Super) String() string { return "super" }

// Dollar is an expression node referring to the top-level object of the
// current document.
type Dollar struct {
	DollarPos token.Pos // position of "$"
}

func (x *Dollar) exprNode() {}

func (x *Dollar) Pos() token.Pos { return x.DollarPos }
func (x *Dollar) String() string { return "$" }

// Str is an expression node that holds a string literal. Value is the
// unquoted string after escape processing.
type Str struct {
	ValuePos token.Pos // position of the opening quote
	Value    string
}

func (x *Str) exprNode() {}

func (x *Str) Pos() token.Pos { return x.ValuePos }
func (x *Str) String() string { return fmt.Sprintf("%q", x.Value) }

// Num is an expression node that holds a numeric literal. All quill numbers
// are IEEE-754 doubles.
type Num struct {
	ValuePos token.Pos // position of the literal
	Value    float64
}

func (x *Num) exprNode() {}

func (x *Num) Pos() token.Pos { return x.ValuePos }
func (x *Num) String() string { return strconv.FormatFloat(x.Value, 'g', -1, 64) }

// Id is an expression node that refers to a variable by the slot of the
// binding that introduces it. The resolver guarantees slot assignment has
// happened before a tree is handed out; an Id below a closure boundary that
// names an outer slot is a free-variable capture resolved by frame-chain
// lookup at evaluation time.
type Id struct {
	IdPos token.Pos // position of the identifier
	Slot  int       // slot of the binding, frame-local
}

func (x *Id) exprNode() {}

func (x *Id) Pos() token.Pos { return x.IdPos }
func (x *Id) String() string { return "x" + strconv.Itoa(x.Slot) }

// Arr is an expression node that builds an array from element expressions.
type Arr struct {
	Lbrack   token.Pos // position of "["
	Elements []Expr
}

func (x *Arr) exprNode() {}

func (x *Arr) Pos() token.Pos { return x.Lbrack }

func (x *Arr) String() string {
	var out bytes.Buffer
	elements := make([]string, 0, len(x.Elements))
	for _, el := range x.Elements {
		elements = append(elements, el.String())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// Function is an expression node that holds a function literal with formal
// parameters and a body. Calling semantics, including binding arguments to
// parameter slots and evaluating defaults, belong to the evaluator.
type Function struct {
	FuncPos token.Pos // position of "function"
	Params  *Params   // formal parameters; never nil, may be empty
	Body    Expr
}

func (x *Function) exprNode() {}

func (x *Function) Pos() token.Pos { return x.FuncPos }

func (x *Function) String() string {
	var out bytes.Buffer
	out.WriteString("function")
	out.WriteString(x.Params.String())
	out.WriteString(" ")
	out.WriteString(x.Body.String())
	return out.String()
}
