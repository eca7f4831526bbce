package dump

import (
	"strconv"
	"strings"

	"github.com/cloudcmds/quill/ast"
	"github.com/cloudcmds/quill/errz"
	"github.com/cloudcmds/quill/internal/token"
	"github.com/cloudcmds/quill/op"
)

// Read parses a canonical dump back into a tree. The returned tree is equal
// to the dumped one field-by-field, offsets included. Errors carry the
// errz.BadDump kind with an offset into the dump text, except that a dump
// declaring duplicate parameter or fixed field names fails with the same
// construction error the original tree build would have.
func Read(s string) (ast.Expr, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	r := &reader{toks: toks}
	expr, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	if t := r.peek(); t.kind != tokEOF {
		return nil, r.badf(t, "trailing input after expression")
	}
	return expr, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokLparen
	tokRparen
	tokAtom
	tokString
)

func (k tokKind) String() string {
	switch k {
	case tokLparen:
		return "'('"
	case tokRparen:
		return "')'"
	case tokAtom:
		return "atom"
	case tokString:
		return "string"
	default:
		return "end of input"
	}
}

type tok struct {
	kind tokKind
	text string // atom text, or the unquoted value for strings
	off  int    // byte offset into the dump text
}

func lex(s string) ([]tok, error) {
	var toks []tok
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, tok{tokLparen, "(", i})
			i++
		case c == ')':
			toks = append(toks, tok{tokRparen, ")", i})
			i++
		case c == '"':
			quoted, err := strconv.QuotedPrefix(s[i:])
			if err != nil {
				return nil, errz.NewBadDump(token.Pos(i), "unterminated string")
			}
			value, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, errz.NewBadDump(token.Pos(i), "bad string literal")
			}
			toks = append(toks, tok{tokString, value, i})
			i += len(quoted)
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t\n\r()\"", rune(s[j])) {
				j++
			}
			toks = append(toks, tok{tokAtom, s[i:j], i})
			i = j
		}
	}
	toks = append(toks, tok{tokEOF, "", len(s)})
	return toks, nil
}

// A reader parses a single lexed dump and should be used only once.
type reader struct {
	toks []tok
	i    int
}

func (r *reader) peek() tok { return r.toks[r.i] }

func (r *reader) next() tok {
	t := r.toks[r.i]
	if t.kind != tokEOF {
		r.i++
	}
	return t
}

// peekTag returns the tag atom of the upcoming list, or "" when the next
// token does not open a list.
func (r *reader) peekTag() string {
	if r.toks[r.i].kind == tokLparen && r.toks[r.i+1].kind == tokAtom {
		return r.toks[r.i+1].text
	}
	return ""
}

func (r *reader) badf(t tok, format string, args ...any) error {
	return errz.NewBadDump(token.Pos(t.off), format, args...)
}

func (r *reader) expect(kind tokKind) (tok, error) {
	t := r.next()
	if t.kind != kind {
		return t, r.badf(t, "expected %s, found %q", kind, t.text)
	}
	return t, nil
}

func (r *reader) expectTag(tag string) (tok, error) {
	t, err := r.expect(tokLparen)
	if err != nil {
		return t, err
	}
	at, err := r.expect(tokAtom)
	if err != nil {
		return at, err
	}
	if at.text != tag {
		return at, r.badf(at, "expected %q, found %q", tag, at.text)
	}
	return at, nil
}

func (r *reader) readPos() (token.Pos, error) {
	t, err := r.expect(tokAtom)
	if err != nil {
		return token.NoPos, err
	}
	if !strings.HasPrefix(t.text, "@") {
		return token.NoPos, r.badf(t, "expected offset, found %q", t.text)
	}
	body := t.text[1:]
	if body == "_" {
		return token.NoPos, nil
	}
	n, err := strconv.Atoi(body)
	if err != nil || n < 0 {
		return token.NoPos, r.badf(t, "bad offset %q", t.text)
	}
	return token.Pos(n), nil
}

func (r *reader) readInt() (int, error) {
	t, err := r.expect(tokAtom)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, r.badf(t, "expected integer, found %q", t.text)
	}
	return n, nil
}

func (r *reader) readString() (string, error) {
	t, err := r.expect(tokString)
	if err != nil {
		return "", err
	}
	return t.text, nil
}

// readOptExpr reads either the absence marker "_" or an expression.
func (r *reader) readOptExpr() (ast.Expr, error) {
	if t := r.peek(); t.kind == tokAtom && t.text == "_" {
		r.next()
		return nil, nil
	}
	return r.readExpr()
}

func (r *reader) readExpr() (ast.Expr, error) {
	if _, err := r.expect(tokLparen); err != nil {
		return nil, err
	}
	tag, err := r.expect(tokAtom)
	if err != nil {
		return nil, err
	}
	pos, err := r.readPos()
	if err != nil {
		return nil, err
	}

	var expr ast.Expr
	switch tag.text {
	case "null":
		expr = &ast.Null{NullPos: pos}
	case "true":
		expr = &ast.True{TruePos: pos}
	case "false":
		expr = &ast.False{FalsePos: pos}
	case "self":
		expr = &ast.Self{SelfPos: pos}
	case "super":
		expr = &ast.Super{SuperPos: pos}
	case "dollar":
		expr = &ast.Dollar{DollarPos: pos}
	case "str":
		value, err := r.readString()
		if err != nil {
			return nil, err
		}
		expr = &ast.Str{ValuePos: pos, Value: value}
	case "num":
		t, err := r.expect(tokAtom)
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, r.badf(t, "bad number %q", t.text)
		}
		expr = &ast.Num{ValuePos: pos, Value: value}
	case "id":
		slot, err := r.readInt()
		if err != nil {
			return nil, err
		}
		expr = &ast.Id{IdPos: pos, Slot: slot}
	case "arr":
		var elements []ast.Expr
		for r.peek().kind != tokRparen {
			el, err := r.readExpr()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
		}
		expr = &ast.Arr{Lbrack: pos, Elements: elements}
	case "obj":
		body, err := r.readBody()
		if err != nil {
			return nil, err
		}
		expr = &ast.Obj{Lbrace: pos, Body: body}
	case "parens":
		inner, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.Parened{Lparen: pos, Inner: inner}
	case "unary":
		t, err := r.expect(tokAtom)
		if err != nil {
			return nil, err
		}
		uop, ok := op.UnaryOps[t.text]
		if !ok {
			return nil, r.badf(t, "unknown unary operator %q", t.text)
		}
		x, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.UnaryOp{OpPos: pos, Op: uop, X: x}
	case "binary":
		t, err := r.expect(tokAtom)
		if err != nil {
			return nil, err
		}
		bop, ok := op.BinaryOps[t.text]
		if !ok {
			return nil, r.badf(t, "unknown binary operator %q", t.text)
		}
		x, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		y, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryOp{OpPos: pos, X: x, Op: bop, Y: y}
	case "assert":
		cond, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		message, err := r.readOptExpr()
		if err != nil {
			return nil, err
		}
		value, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.AssertExpr{AssertPos: pos, Cond: cond, Message: message, Value: value}
	case "local":
		var binds []ast.Bind
		for r.peekTag() == "bind" {
			b, err := r.readBind()
			if err != nil {
				return nil, err
			}
			binds = append(binds, b)
		}
		value, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.LocalExpr{LocalPos: pos, Binds: binds, Value: value}
	case "import":
		path, err := r.readString()
		if err != nil {
			return nil, err
		}
		expr = &ast.Import{ImportPos: pos, Path: path}
	case "importstr":
		path, err := r.readString()
		if err != nil {
			return nil, err
		}
		expr = &ast.ImportStr{ImportPos: pos, Path: path}
	case "error":
		value, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.Error{ErrorPos: pos, Value: value}
	case "apply":
		target, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		var args ast.Args
		for r.peekTag() == "arg" {
			arg, err := r.readArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		expr = &ast.Apply{Lparen: pos, Target: target, Args: args}
	case "select":
		target, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		field, err := r.readString()
		if err != nil {
			return nil, err
		}
		expr = &ast.Select{SelPos: pos, Target: target, Field: field}
	case "lookup":
		target, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		index, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.Lookup{Lbrack: pos, Target: target, Index: index}
	case "slice":
		target, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		start, err := r.readOptExpr()
		if err != nil {
			return nil, err
		}
		end, err := r.readOptExpr()
		if err != nil {
			return nil, err
		}
		stride, err := r.readOptExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.Slice{Lbrack: pos, Target: target, Start: start, End: end, Stride: stride}
	case "fn":
		params, err := r.readParams()
		if err != nil {
			return nil, err
		}
		body, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.Function{FuncPos: pos, Params: params, Body: body}
	case "if":
		cond, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		then, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		els, err := r.readOptExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.IfElse{IfPos: pos, Cond: cond, Then: then, Else: els}
	case "ifspec":
		cond, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.IfSpec{IfPos: pos, Cond: cond}
	case "forspec":
		slot, err := r.readInt()
		if err != nil {
			return nil, err
		}
		iterable, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.ForSpec{ForPos: pos, Slot: slot, Iter: iterable}
	case "comp":
		value, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		first, err := r.readForSpec()
		if err != nil {
			return nil, err
		}
		var rest []ast.CompSpec
		for r.peek().kind != tokRparen {
			spec, err := r.readCompSpec()
			if err != nil {
				return nil, err
			}
			rest = append(rest, spec)
		}
		expr = &ast.Comp{Lbrack: pos, Value: value, First: first, Rest: rest}
	case "extend":
		base, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		ext, err := r.readBody()
		if err != nil {
			return nil, err
		}
		expr = &ast.ObjExtend{Lbrace: pos, Base: base, Ext: ext}
	default:
		return nil, r.badf(tag, "unknown node tag %q", tag.text)
	}

	if _, err := r.expect(tokRparen); err != nil {
		return nil, err
	}
	return expr, nil
}

func (r *reader) readForSpec() (*ast.ForSpec, error) {
	t := r.peek()
	spec, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	fs, ok := spec.(*ast.ForSpec)
	if !ok {
		return nil, r.badf(t, "comprehension must start with a for spec")
	}
	return fs, nil
}

func (r *reader) readCompSpec() (ast.CompSpec, error) {
	t := r.peek()
	expr, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	spec, ok := expr.(ast.CompSpec)
	if !ok {
		return nil, r.badf(t, "expected a for or if spec")
	}
	return spec, nil
}

func (r *reader) readArg() (ast.Arg, error) {
	if _, err := r.expectTag("arg"); err != nil {
		return ast.Arg{}, err
	}
	var name string
	if t := r.peek(); t.kind == tokAtom && t.text == "_" {
		r.next()
	} else {
		var err error
		name, err = r.readString()
		if err != nil {
			return ast.Arg{}, err
		}
	}
	value, err := r.readExpr()
	if err != nil {
		return ast.Arg{}, err
	}
	if _, err := r.expect(tokRparen); err != nil {
		return ast.Arg{}, err
	}
	return ast.Arg{Name: name, Value: value}, nil
}

// readOptParams reads "_" or a parameter list.
func (r *reader) readOptParams() (*ast.Params, error) {
	if t := r.peek(); t.kind == tokAtom && t.text == "_" {
		r.next()
		return nil, nil
	}
	return r.readParams()
}

func (r *reader) readParams() (*ast.Params, error) {
	if _, err := r.expectTag("params"); err != nil {
		return nil, err
	}
	var decls []ast.Decl
	for r.peek().kind == tokLparen {
		t, err := r.expectTag("param")
		if err != nil {
			return nil, err
		}
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		slot, err := r.readInt()
		if err != nil {
			return nil, err
		}
		if slot != len(decls) {
			return nil, r.badf(t, "parameter %q has slot %d, expected %d", name, slot, len(decls))
		}
		def, err := r.readOptExpr()
		if err != nil {
			return nil, err
		}
		if _, err := r.expect(tokRparen); err != nil {
			return nil, err
		}
		decls = append(decls, ast.Decl{Name: name, Default: def})
	}
	if _, err := r.expect(tokRparen); err != nil {
		return nil, err
	}
	return ast.NewParams(decls)
}

func (r *reader) readBind() (ast.Bind, error) {
	if _, err := r.expectTag("bind"); err != nil {
		return ast.Bind{}, err
	}
	pos, err := r.readPos()
	if err != nil {
		return ast.Bind{}, err
	}
	slot, err := r.readInt()
	if err != nil {
		return ast.Bind{}, err
	}
	params, err := r.readOptParams()
	if err != nil {
		return ast.Bind{}, err
	}
	value, err := r.readExpr()
	if err != nil {
		return ast.Bind{}, err
	}
	if _, err := r.expect(tokRparen); err != nil {
		return ast.Bind{}, err
	}
	return ast.Bind{NamePos: pos, Slot: slot, Params: params, Value: value}, nil
}

func (r *reader) readBody() (ast.ObjBody, error) {
	if _, err := r.expect(tokLparen); err != nil {
		return nil, err
	}
	tag, err := r.expect(tokAtom)
	if err != nil {
		return nil, err
	}
	switch tag.text {
	case "members":
		var members []ast.Member
		for r.peek().kind != tokRparen {
			m, err := r.readMember()
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		if _, err := r.expect(tokRparen); err != nil {
			return nil, err
		}
		return ast.NewMemberList(members...)
	case "objcomp":
		pre, err := r.readLocals("pre")
		if err != nil {
			return nil, err
		}
		key, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		value, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		post, err := r.readLocals("post")
		if err != nil {
			return nil, err
		}
		first, err := r.readForSpec()
		if err != nil {
			return nil, err
		}
		var rest []ast.CompSpec
		for r.peek().kind != tokRparen {
			spec, err := r.readCompSpec()
			if err != nil {
				return nil, err
			}
			rest = append(rest, spec)
		}
		if _, err := r.expect(tokRparen); err != nil {
			return nil, err
		}
		return &ast.ObjComp{
			PreLocals:  pre,
			Key:        key,
			Value:      value,
			PostLocals: post,
			First:      first,
			Rest:       rest,
		}, nil
	default:
		return nil, r.badf(tag, "unknown object body tag %q", tag.text)
	}
}

func (r *reader) readLocals(tag string) ([]*ast.BindStmt, error) {
	if _, err := r.expectTag(tag); err != nil {
		return nil, err
	}
	var out []*ast.BindStmt
	for r.peek().kind != tokRparen {
		b, err := r.readBind()
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.BindStmt{Bind: b})
	}
	if _, err := r.expect(tokRparen); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reader) readMember() (ast.Member, error) {
	switch tag := r.peekTag(); tag {
	case "field":
		return r.readField()
	case "bind":
		b, err := r.readBind()
		if err != nil {
			return nil, err
		}
		return &ast.BindStmt{Bind: b}, nil
	case "assertstmt":
		return r.readAssertStmt()
	default:
		return nil, r.badf(r.peek(), "unknown member tag %q", tag)
	}
}

var visibilities = map[string]ast.Visibility{
	":":   ast.Normal,
	"::":  ast.Hidden,
	":::": ast.Unhide,
}

func (r *reader) readField() (*ast.Field, error) {
	if _, err := r.expectTag("field"); err != nil {
		return nil, err
	}
	pos, err := r.readPos()
	if err != nil {
		return nil, err
	}
	name, err := r.readFieldName()
	if err != nil {
		return nil, err
	}
	plusTok, err := r.expect(tokAtom)
	if err != nil {
		return nil, err
	}
	var plus bool
	switch plusTok.text {
	case "+":
		plus = true
	case "_":
	default:
		return nil, r.badf(plusTok, "expected \"+\" or \"_\", found %q", plusTok.text)
	}
	visTok, err := r.expect(tokAtom)
	if err != nil {
		return nil, err
	}
	vis, ok := visibilities[visTok.text]
	if !ok {
		return nil, r.badf(visTok, "unknown visibility %q", visTok.text)
	}
	method, err := r.readOptParams()
	if err != nil {
		return nil, err
	}
	value, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	if _, err := r.expect(tokRparen); err != nil {
		return nil, err
	}
	return &ast.Field{
		FieldPos:   pos,
		Name:       name,
		Plus:       plus,
		Method:     method,
		Visibility: vis,
		Value:      value,
	}, nil
}

func (r *reader) readFieldName() (ast.FieldName, error) {
	if _, err := r.expect(tokLparen); err != nil {
		return nil, err
	}
	tag, err := r.expect(tokAtom)
	if err != nil {
		return nil, err
	}
	var name ast.FieldName
	switch tag.text {
	case "fixed":
		value, err := r.readString()
		if err != nil {
			return nil, err
		}
		name = &ast.FixedName{Value: value}
	case "dyn":
		expr, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		name = &ast.DynName{Expr: expr}
	default:
		return nil, r.badf(tag, "unknown field name tag %q", tag.text)
	}
	if _, err := r.expect(tokRparen); err != nil {
		return nil, err
	}
	return name, nil
}

func (r *reader) readAssertStmt() (*ast.AssertStmt, error) {
	if _, err := r.expectTag("assertstmt"); err != nil {
		return nil, err
	}
	pos, err := r.readPos()
	if err != nil {
		return nil, err
	}
	cond, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	message, err := r.readOptExpr()
	if err != nil {
		return nil, err
	}
	if _, err := r.expect(tokRparen); err != nil {
		return nil, err
	}
	return &ast.AssertStmt{AssertPos: pos, Cond: cond, Message: message}, nil
}
