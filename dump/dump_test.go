package dump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/quill/ast"
	"github.com/cloudcmds/quill/errz"
	"github.com/cloudcmds/quill/op"
)

// local x = 1; x + 2
func scenarioA() ast.Expr {
	return &ast.LocalExpr{
		LocalPos: 0,
		Binds: []ast.Bind{
			{NamePos: 6, Slot: 0, Value: &ast.Num{ValuePos: 10, Value: 1}},
		},
		Value: &ast.BinaryOp{
			OpPos: 15,
			X:     &ast.Id{IdPos: 13, Slot: 0},
			Op:    op.Plus,
			Y:     &ast.Num{ValuePos: 17, Value: 2},
		},
	}
}

// {a: 1, b:: 2}
func scenarioB() ast.Expr {
	return &ast.Obj{
		Lbrace: 0,
		Body: &ast.MemberList{
			Members: []ast.Member{
				&ast.Field{
					FieldPos:   1,
					Name:       &ast.FixedName{Value: "a"},
					Visibility: ast.Normal,
					Value:      &ast.Num{ValuePos: 4, Value: 1},
				},
				&ast.Field{
					FieldPos:   7,
					Name:       &ast.FixedName{Value: "b"},
					Visibility: ast.Hidden,
					Value:      &ast.Num{ValuePos: 11, Value: 2},
				},
			},
		},
	}
}

// function(a, b=2) a+b
func scenarioC() ast.Expr {
	return &ast.Function{
		FuncPos: 0,
		Params: ast.MustParams([]ast.Decl{
			{Name: "a"},
			{Name: "b", Default: &ast.Num{ValuePos: 14, Value: 2}},
		}),
		Body: &ast.BinaryOp{
			OpPos: 18,
			X:     &ast.Id{IdPos: 17, Slot: 0},
			Op:    op.Plus,
			Y:     &ast.Id{IdPos: 19, Slot: 1},
		},
	}
}

func TestDumpScenarioA(t *testing.T) {
	want := "(local @0 (bind @6 0 _ (num @10 1)) (binary @15 + (id @13 0) (num @17 2)))"
	require.Equal(t, want, Dump(scenarioA()))
}

func TestDumpScenarioB(t *testing.T) {
	want := `(obj @0 (members` +
		` (field @1 (fixed "a") _ : _ (num @4 1))` +
		` (field @7 (fixed "b") _ :: _ (num @11 2))))`
	require.Equal(t, want, Dump(scenarioB()))
}

func TestDumpScenarioC(t *testing.T) {
	want := `(fn @0 (params (param "a" 0 _) (param "b" 1 (num @14 2)))` +
		` (binary @18 + (id @17 0) (id @19 1)))`
	require.Equal(t, want, Dump(scenarioC()))
}

func TestRoundTrip(t *testing.T) {
	trees := map[string]ast.Expr{
		"scenario A": scenarioA(),
		"scenario B": scenarioB(),
		"scenario C": scenarioC(),
		"leaves": &ast.Arr{Lbrack: 0, Elements: []ast.Expr{
			&ast.Null{NullPos: 1},
			&ast.True{TruePos: 7},
			&ast.False{FalsePos: 13},
			&ast.Self{SelfPos: 20},
			&ast.Super{SuperPos: 26},
			&ast.Dollar{DollarPos: 33},
			&ast.Str{ValuePos: 36, Value: "s\nq\"uo\ted"},
			&ast.Num{ValuePos: 48, Value: -0.25},
		}},
		"operators": &ast.UnaryOp{
			OpPos: 0,
			Op:    op.UnaryLogicalNot,
			X: &ast.Parened{Lparen: 1, Inner: &ast.BinaryOp{
				OpPos: 5,
				X:     &ast.Id{IdPos: 2, Slot: 3},
				Op:    op.In,
				Y:     &ast.Id{IdPos: 8, Slot: 4},
			}},
		},
		"control": &ast.IfElse{
			IfPos: 0,
			Cond:  &ast.BinaryOp{OpPos: 5, X: &ast.Id{IdPos: 3, Slot: 0}, Op: op.Equal, Y: &ast.Null{NullPos: 8}},
			Then:  &ast.Error{ErrorPos: 18, Value: &ast.Str{ValuePos: 24, Value: "nil input"}},
		},
		"imports": &ast.LocalExpr{
			LocalPos: 0,
			Binds: []ast.Bind{
				{NamePos: 6, Slot: 0, Value: &ast.Import{ImportPos: 10, Path: "lib.qll"}},
				{NamePos: 28, Slot: 1, Value: &ast.ImportStr{ImportPos: 32, Path: "body.txt"}},
			},
			Value: &ast.Select{SelPos: 55, Target: &ast.Id{IdPos: 53, Slot: 0}, Field: "render"},
		},
		"call and index": &ast.Apply{
			Lparen: 10,
			Target: &ast.Lookup{
				Lbrack: 5,
				Target: &ast.Id{IdPos: 3, Slot: 2},
				Index:  &ast.Str{ValuePos: 6, Value: "fn"},
			},
			Args: ast.Args{
				{Value: &ast.Num{ValuePos: 11, Value: 1}},
				{Name: "depth", Value: &ast.Num{ValuePos: 20, Value: 3}},
			},
		},
		"slice forms": &ast.Arr{Lbrack: 0, Elements: []ast.Expr{
			&ast.Slice{Lbrack: 3, Target: &ast.Id{IdPos: 1, Slot: 0}},
			&ast.Slice{Lbrack: 9, Target: &ast.Id{IdPos: 7, Slot: 0}, Start: &ast.Num{ValuePos: 10, Value: 1}},
			&ast.Slice{
				Lbrack: 17,
				Target: &ast.Id{IdPos: 15, Slot: 0},
				Start:  &ast.Num{ValuePos: 18, Value: 1},
				End:    &ast.Num{ValuePos: 20, Value: 7},
				Stride: &ast.Num{ValuePos: 22, Value: 2},
			},
		}},
		"assert and binds": &ast.AssertExpr{
			AssertPos: 0,
			Cond:      &ast.BinaryOp{OpPos: 9, X: &ast.Id{IdPos: 7, Slot: 0}, Op: op.GreaterThan, Y: &ast.Num{ValuePos: 11, Value: 0}},
			Message:   &ast.Str{ValuePos: 15, Value: "positive"},
			Value: &ast.LocalExpr{
				LocalPos: 27,
				Binds: []ast.Bind{
					{
						NamePos: 33,
						Slot:    1,
						Params: ast.MustParams([]ast.Decl{
							{Name: "n"},
							{Name: "acc", Default: &ast.Num{ValuePos: 43, Value: 1}},
						}),
						Value: &ast.Id{IdPos: 48, Slot: 2},
					},
				},
				Value: &ast.Apply{
					Lparen: 55,
					Target: &ast.Id{IdPos: 53, Slot: 1},
					Args:   ast.Args{{Value: &ast.Id{IdPos: 56, Slot: 0}}},
				},
			},
		},
		"array comprehension": &ast.Comp{
			Lbrack: 0,
			Value:  &ast.BinaryOp{OpPos: 4, X: &ast.Id{IdPos: 2, Slot: 0}, Op: op.Mult, Y: &ast.Id{IdPos: 6, Slot: 0}},
			First:  &ast.ForSpec{ForPos: 8, Slot: 0, Iter: &ast.Id{IdPos: 17, Slot: 1}},
			Rest: []ast.CompSpec{
				&ast.IfSpec{IfPos: 19, Cond: &ast.BinaryOp{OpPos: 25, X: &ast.Id{IdPos: 22, Slot: 0}, Op: op.Mod, Y: &ast.Num{ValuePos: 27, Value: 2}}},
				&ast.ForSpec{ForPos: 30, Slot: 2, Iter: &ast.Arr{Lbrack: 39, Elements: []ast.Expr{&ast.Num{ValuePos: 40, Value: 1}}}},
			},
		},
		"object comprehension": &ast.Obj{
			Lbrace: 0,
			Body: &ast.ObjComp{
				PreLocals: []*ast.BindStmt{
					{Bind: ast.Bind{NamePos: 7, Slot: 1, Value: &ast.Num{ValuePos: 11, Value: 1}}},
				},
				Key:   &ast.Id{IdPos: 15, Slot: 0},
				Value: &ast.Id{IdPos: 20, Slot: 1},
				PostLocals: []*ast.BindStmt{
					{Bind: ast.Bind{NamePos: 29, Slot: 2, Value: &ast.Id{IdPos: 33, Slot: 0}}},
				},
				First: &ast.ForSpec{ForPos: 36, Slot: 0, Iter: &ast.Id{IdPos: 45, Slot: 3}},
				Rest:  []ast.CompSpec{&ast.IfSpec{IfPos: 47, Cond: &ast.True{TruePos: 50}}},
			},
		},
		"object extension": &ast.ObjExtend{
			Lbrace: 5,
			Base:   &ast.Id{IdPos: 0, Slot: 0},
			Ext: &ast.MemberList{Members: []ast.Member{
				&ast.Field{
					FieldPos:   6,
					Name:       &ast.FixedName{Value: "a"},
					Plus:       true,
					Visibility: ast.Unhide,
					Value:      &ast.Num{ValuePos: 12, Value: 1},
				},
				&ast.BindStmt{Bind: ast.Bind{NamePos: 21, Slot: 1, Value: &ast.Num{ValuePos: 25, Value: 9}}},
				&ast.AssertStmt{AssertPos: 28, Cond: &ast.True{TruePos: 35}, Message: &ast.Str{ValuePos: 42, Value: "m"}},
			}},
		},
		"method field": &ast.Obj{
			Lbrace: 0,
			Body: &ast.MemberList{Members: []ast.Member{
				&ast.Field{
					FieldPos: 1,
					Name:     &ast.FixedName{Value: "render"},
					Method: ast.MustParams([]ast.Decl{
						{Name: "indent", Default: &ast.Num{ValuePos: 16, Value: 0}},
					}),
					Visibility: ast.Hidden,
					Value:      &ast.Id{IdPos: 21, Slot: 0},
				},
				&ast.Field{
					FieldPos:   25,
					Name:       &ast.DynName{Expr: &ast.Str{ValuePos: 26, Value: "k"}},
					Visibility: ast.Normal,
					Value:      &ast.Self{SelfPos: 33},
				},
			}},
		},
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			text := Dump(tree)
			back, err := Read(text)
			require.Nil(t, err, "reading %s", text)
			require.Equal(t, tree, back)
			// Canonical form: dumping the reread tree is byte-identical.
			require.Equal(t, text, Dump(back))
		})
	}
}

func TestDumpDeterministic(t *testing.T) {
	a := Dump(scenarioC())
	b := Dump(scenarioC())
	require.Equal(t, a, b)
}

func TestReadToleratesWhitespace(t *testing.T) {
	text := "(local @0\n  (bind @6 0 _ (num @10 1))\n  (binary @15 + (id @13 0) (num @17 2)))\n"
	tree, err := Read(text)
	require.Nil(t, err)
	require.Equal(t, scenarioA(), tree)
}

func TestReadInvalidOffsets(t *testing.T) {
	tree, err := Read("(null @_)")
	require.Nil(t, err)
	require.False(t, tree.Pos().IsValid())
}

func TestWriteTo(t *testing.T) {
	var b strings.Builder
	require.Nil(t, Write(&b, scenarioA()))
	require.Equal(t, Dump(scenarioA()), b.String())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"bare atom", "null"},
		{"unknown tag", "(wat @0)"},
		{"missing offset", "(null)"},
		{"bad offset", "(null @x)"},
		{"unterminated list", "(arr @0 (num @1 1)"},
		{"trailing input", "(null @0) (null @1)"},
		{"bad number", "(num @0 abc)"},
		{"bad unary op", "(unary @0 ? (null @1))"},
		{"bad binary op", "(binary @0 ?? (null @1) (null @2))"},
		{"bad visibility", `(obj @0 (members (field @1 (fixed "a") _ :::: _ (null @2))))`},
		{"unterminated string", `(str @0 "abc)`},
		{"comp without forspec", "(comp @0 (null @1) (ifspec @2 (true @3)))"},
		{"slot out of order", `(fn @0 (params (param "a" 1 _)) (null @9))`},
		{"arg outside apply", "(arg _ (null @0))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.text)
			require.NotNil(t, err)
			require.True(t, errz.IsKind(err, errz.BadDump), "got %v", err)
		})
	}
}

// A dump naming the same fixed field twice fails the same way the original
// construction would have.
func TestReadDuplicateField(t *testing.T) {
	text := `(obj @0 (members` +
		` (field @1 (fixed "a") _ : _ (num @4 1))` +
		` (field @7 (fixed "a") _ : _ (num @11 2))))`
	_, err := Read(text)
	require.NotNil(t, err)
	require.True(t, errz.IsKind(err, errz.DuplicateField))
}

func TestReadDuplicateParam(t *testing.T) {
	text := `(fn @0 (params (param "a" 0 _) (param "a" 1 _)) (null @9))`
	_, err := Read(text)
	require.NotNil(t, err)
	require.True(t, errz.IsKind(err, errz.DuplicateParam))
}
