// Package op defines the closed unary and binary operator tag sets carried
// by quill syntax tree nodes. Tags are data-free: precedence and
// associativity are resolved into tree shape by the parser and are never
// encoded here.
package op

// UnaryOpType describes a unary operation, as in an operation with a single
// operand. For example, negation.
type UnaryOpType uint8

const (
	UnaryPlus UnaryOpType = iota + 1
	UnaryMinus
	UnaryBitwiseNot
	UnaryLogicalNot
)

// String returns the source-level symbol for the unary operation.
// For example "-" for negation.
func (uop UnaryOpType) String() string {
	switch uop {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryBitwiseNot:
		return "~"
	case UnaryLogicalNot:
		return "!"
	default:
		return ""
	}
}

// BinaryOpType describes a binary operation, as in an operation that takes
// two operands. For example, addition, comparison, shifting, etc.
type BinaryOpType uint8

const (
	Mult BinaryOpType = iota + 1
	Div
	Mod
	Plus
	Minus
	ShiftLeft
	ShiftRight
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	In
	Equal
	NotEqual
	BitwiseAnd
	BitwiseXor
	BitwiseOr
	And
	Or
)

// String returns the source-level symbol for the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Mult:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case ShiftLeft:
		return "<<"
	case ShiftRight:
		return ">>"
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanOrEqual:
		return "<="
	case GreaterThanOrEqual:
		return ">="
	case In:
		return "in"
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case BitwiseAnd:
		return "&"
	case BitwiseXor:
		return "^"
	case BitwiseOr:
		return "|"
	case And:
		return "&&"
	case Or:
		return "||"
	default:
		return ""
	}
}

// UnaryOps maps source-level symbols to unary operator tags. Used by readers
// of the debug dump format and by tooling; treat as read-only.
var UnaryOps = map[string]UnaryOpType{}

// BinaryOps maps source-level symbols to binary operator tags. Used by
// readers of the debug dump format and by tooling; treat as read-only.
var BinaryOps = map[string]BinaryOpType{}

func init() {
	for uop := UnaryPlus; uop <= UnaryLogicalNot; uop++ {
		UnaryOps[uop.String()] = uop
	}
	for bop := Mult; bop <= Or; bop++ {
		BinaryOps[bop.String()] = bop
	}
}
