package parser

import (
	"encoding/json"
	"testing"

	"github.com/cibere/safulate-go/pkg/ast"
)

// =============================================================================
// Basic Parsing Tests
// =============================================================================

func TestParseSimpleProgram(t *testing.T) {
	input := `
		var x = 10;
		pub y = x + 5;
	`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if result == nil {
		t.Fatal("Result is nil")
	}

	if result.Type != ast.NodeProgram {
		t.Errorf("Expected Program type, got %s", result.Type)
	}

	if len(result.Statements) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(result.Statements))
	}

	decl, ok := result.Statements[0].(*ast.Declaration)
	if !ok {
		t.Fatal("First statement should be Declaration")
	}
	if decl.Keyword != ast.DeclVar {
		t.Errorf("Expected var keyword, got %s", decl.Keyword)
	}
	name, ok := decl.Name.(*ast.Identifier)
	if !ok || name.Name != "x" {
		t.Errorf("Expected name 'x', got %v", decl.Name)
	}
}

func TestParseWithLocation(t *testing.T) {
	input := `var x = 1;`

	result, err := Parse(input, &Options{Loc: true})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	decl := result.Statements[0].(*ast.Declaration)
	if decl.Loc == nil {
		t.Error("Location should be set")
	} else if decl.Loc.Start.Line != 1 {
		t.Errorf("Expected start line 1, got %d", decl.Loc.Start.Line)
	}
}

func TestParseWithRange(t *testing.T) {
	input := `var x = 1;`

	result, err := Parse(input, &Options{Range: true})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	decl := result.Statements[0].(*ast.Declaration)
	if decl.Range == nil {
		t.Error("Range should be set")
	}
}

func TestTolerantMode(t *testing.T) {
	input := `var = ;`

	_, err := Parse(input, nil)
	if err == nil {
		t.Error("Expected error without tolerant mode")
	}

	_, err = Parse(input, &Options{Tolerant: true})
	if err != nil {
		t.Errorf("Tolerant mode should not return error: %v", err)
	}
}

func TestJSONOutput(t *testing.T) {
	input := `var x = 1;`

	jsonOutput, err := ParseToJSON(input, nil)
	if err != nil {
		t.Fatalf("ParseToJSON failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonOutput, &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if result["type"] != "Program" {
		t.Errorf("Expected type 'Program', got '%v'", result["type"])
	}
}

// =============================================================================
// Declaration / Assignment / Deletion Tests
// =============================================================================

func TestParseDeclarationKinds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ast.DeclKind
	}{
		{"var", `var a = 1;`, ast.DeclVar},
		{"pub", `pub a = 1;`, ast.DeclPub},
		{"priv", `priv a = 1;`, ast.DeclPriv},
		{"let", `let a = 1;`, ast.DeclLet},
		{"no initializer", `var a;`, ast.DeclVar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.input, nil)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			decl, ok := result.Statements[0].(*ast.Declaration)
			if !ok {
				t.Fatal("Expected Declaration")
			}
			if decl.Keyword != tt.expected {
				t.Errorf("Expected keyword '%s', got '%s'", tt.expected, decl.Keyword)
			}
		})
	}
}

func TestParseDynamicNameDeclaration(t *testing.T) {
	input := `var {:"x"} = 1;`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	decl := result.Statements[0].(*ast.Declaration)
	if _, ok := decl.Name.(*ast.DynamicName); !ok {
		t.Errorf("Expected DynamicName target, got %T", decl.Name)
	}
}

func TestParseAssignment(t *testing.T) {
	input := `x = 5;`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	assign, ok := result.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatal("Expected Assignment")
	}
	if _, ok := assign.Target.(*ast.Identifier); !ok {
		t.Errorf("Expected Identifier target, got %T", assign.Target)
	}
}

func TestParseDeletion(t *testing.T) {
	input := `del x;`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	del, ok := result.Statements[0].(*ast.Deletion)
	if !ok {
		t.Fatal("Expected Deletion")
	}
	if del.Name != "x" {
		t.Errorf("Expected name 'x', got '%s'", del.Name)
	}
}

func TestParseObjectEdit(t *testing.T) {
	input := `obj ~ { var x = 1; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	edit, ok := result.Statements[0].(*ast.ObjectEdit)
	if !ok {
		t.Fatal("Expected ObjectEdit")
	}
	if _, ok := edit.Target.(*ast.Identifier); !ok {
		t.Errorf("Expected Identifier target, got %T", edit.Target)
	}
}

// =============================================================================
// Expression / Precedence Tests
// =============================================================================

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"additive vs multiplicative", `1 + 2 * 3;`},
		{"power right assoc", `2 ** 3 ** 2;`},
		{"unary", `-x + !y;`},
		{"relational", `a < b & b < c;`},
		{"equality", `a == b != c;`},
		{"logical single char dispatch", `a | b & c;`},
		{"logical double char shortcircuit", `a || b && c;`},
		{"in/contains", `a in list;`},
		{"grouping", `(1 + 2) * 3;`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.expr, nil)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(result.Statements) == 0 {
				t.Fatal("No statements produced")
			}
		})
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	input := `2 ** 3 ** 2;`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	stmt := result.Statements[0].(*ast.ExpressionStatement)
	outer, ok := stmt.Expression.(*ast.BinaryOp)
	if !ok {
		t.Fatal("Expected BinaryOp")
	}
	if outer.Operator != "**" {
		t.Errorf("Expected '**', got '%s'", outer.Operator)
	}
	if _, ok := outer.Right.(*ast.BinaryOp); !ok {
		t.Errorf("Expected right-associative nesting on the right, got %T", outer.Right)
	}
	if _, ok := outer.Left.(*ast.NumberLiteral); !ok {
		t.Errorf("Expected left operand to be a literal, got %T", outer.Left)
	}
}

func TestParseCallArgumentForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ast.ArgKind
	}{
		{"positional", `f(1);`, ast.ArgPositional},
		{"keyword", `f(x=1);`, ast.ArgKeyword},
		{"spread", `f(..xs);`, ast.ArgSpread},
		{"keyword spread", `f(...kwargs);`, ast.ArgKeywordSpread},
		{"dynamic keyword", `f({:"x"}=1);`, ast.ArgDynamicKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.input, nil)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			stmt := result.Statements[0].(*ast.ExpressionStatement)
			call, ok := stmt.Expression.(*ast.Call)
			if !ok {
				t.Fatal("Expected Call")
			}
			if len(call.Args) != 1 {
				t.Fatalf("Expected 1 arg, got %d", len(call.Args))
			}
			if call.Args[0].Kind != tt.expected {
				t.Errorf("Expected arg kind '%s', got '%s'", tt.expected, call.Args[0].Kind)
			}
		})
	}
}

func TestParseSubscript(t *testing.T) {
	input := `xs[0, 1];`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	stmt := result.Statements[0].(*ast.ExpressionStatement)
	sub, ok := stmt.Expression.(*ast.Subscript)
	if !ok {
		t.Fatal("Expected Subscript")
	}
	if len(sub.Args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(sub.Args))
	}
}

func TestParseAttributeChain(t *testing.T) {
	input := `a.b.c;`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	stmt := result.Statements[0].(*ast.ExpressionStatement)
	outer, ok := stmt.Expression.(*ast.Attribute)
	if !ok {
		t.Fatal("Expected Attribute")
	}
	if outer.Name != "c" {
		t.Errorf("Expected name 'c', got '%s'", outer.Name)
	}
	inner, ok := outer.Base.(*ast.Attribute)
	if !ok || inner.Name != "b" {
		t.Errorf("Expected inner Attribute 'b', got %v", outer.Base)
	}
}

func TestParseFString(t *testing.T) {
	input := "f\"hello {name}\";"

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	stmt, ok := result.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatal("Expected ExpressionStatement")
	}
	if _, ok := stmt.Expression.(*ast.FStringLiteral); !ok {
		t.Errorf("Expected FStringLiteral, got %T", stmt.Expression)
	}
}

func TestParseListLiteral(t *testing.T) {
	input := `[1, 2, 3];`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	stmt := result.Statements[0].(*ast.ExpressionStatement)
	list, ok := stmt.Expression.(*ast.ListLiteral)
	if !ok {
		t.Fatal("Expected ListLiteral")
	}
	if len(list.Elements) != 3 {
		t.Errorf("Expected 3 elements, got %d", len(list.Elements))
	}
}

// =============================================================================
// Control-flow Statement Tests
// =============================================================================

func TestParseIfElse(t *testing.T) {
	input := `if x { y = 1; } else { y = 2; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ifNode, ok := result.Statements[0].(*ast.If)
	if !ok {
		t.Fatal("Expected If")
	}
	if ifNode.Else == nil {
		t.Error("Expected Else branch")
	}
}

func TestParseWhile(t *testing.T) {
	input := `while x { break; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, ok := result.Statements[0].(*ast.While); !ok {
		t.Fatal("Expected While")
	}
}

func TestParseFor(t *testing.T) {
	input := `for item in items { continue; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	forNode, ok := result.Statements[0].(*ast.For)
	if !ok {
		t.Fatal("Expected For")
	}
	if forNode.Target != "item" {
		t.Errorf("Expected target 'item', got '%s'", forNode.Target)
	}
}

func TestParseBreakContinueDepth(t *testing.T) {
	input := `while x { break 2; continue 1; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	whileNode := result.Statements[0].(*ast.While)
	block := whileNode.Body.(*ast.Block)

	brk := block.Statements[0].(*ast.Break)
	if brk.Depth == nil {
		t.Error("Expected break depth to be set")
	}

	cont := block.Statements[1].(*ast.Continue)
	if cont.Depth == nil {
		t.Error("Expected continue depth to be set")
	}
}

func TestParseTryCatchElse(t *testing.T) {
	input := `try { raise e; } catch err { x = 1; } else { y = 2; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tryNode, ok := result.Statements[0].(*ast.Try)
	if !ok {
		t.Fatal("Expected Try")
	}
	if !tryNode.HasCatch {
		t.Error("Expected HasCatch true")
	}
	if tryNode.CatchName != "err" {
		t.Errorf("Expected catch name 'err', got '%s'", tryNode.CatchName)
	}
	if tryNode.ElseBody == nil {
		t.Error("Expected ElseBody to be set")
	}
}

func TestParseSwitch(t *testing.T) {
	input := `switch x { case 1 { y = 1; } case 2 { y = 2; } }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sw, ok := result.Statements[0].(*ast.Switch)
	if !ok {
		t.Fatal("Expected Switch")
	}
	if len(sw.Cases) != 2 {
		t.Errorf("Expected 2 cases, got %d", len(sw.Cases))
	}
}

func TestParseReturnRaise(t *testing.T) {
	input := `func f() { return 1; raise "boom"; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	fn := result.Statements[0].(*ast.FuncDef)
	body := fn.Body.(*ast.Block)
	ret, ok := body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatal("Expected Return")
	}
	if ret.Expr == nil {
		t.Error("Expected return expr to be set")
	}
	rs, ok := body.Statements[1].(*ast.Raise)
	if !ok {
		t.Fatal("Expected Raise")
	}
	if rs.Expr == nil {
		t.Error("Expected raise expr to be set")
	}
}

// =============================================================================
// Definition Tests
// =============================================================================

func TestParseFuncDefWithDecorators(t *testing.T) {
	input := `func greet(name, greeting="hi") [logged, cached] { return greeting; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	fn, ok := result.Statements[0].(*ast.FuncDef)
	if !ok {
		t.Fatal("Expected FuncDef")
	}
	if fn.Name != "greet" {
		t.Errorf("Expected name 'greet', got '%s'", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("Expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[1].Default == nil {
		t.Error("Expected default value on second param")
	}
	if len(fn.Decorators) != 2 {
		t.Errorf("Expected 2 decorators, got %d", len(fn.Decorators))
	}
}

func TestParseStructDef(t *testing.T) {
	input := `struct Point(x, y) { var sum = x + y; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	st, ok := result.Statements[0].(*ast.StructDef)
	if !ok {
		t.Fatal("Expected StructDef")
	}
	if st.Name != "Point" {
		t.Errorf("Expected name 'Point', got '%s'", st.Name)
	}
	if len(st.Params) != 2 {
		t.Errorf("Expected 2 params, got %d", len(st.Params))
	}
}

func TestParseSpecDef(t *testing.T) {
	input := `spec add(self, other) { return self; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sp, ok := result.Statements[0].(*ast.SpecDef)
	if !ok {
		t.Fatal("Expected SpecDef")
	}
	if sp.Name != "add" {
		t.Errorf("Expected name 'add', got '%s'", sp.Name)
	}
}

func TestParseTypeDef(t *testing.T) {
	input := `type Point { var origin = 0; } (x, y) { var sum = x + y; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	td, ok := result.Statements[0].(*ast.TypeDef)
	if !ok {
		t.Fatal("Expected TypeDef")
	}
	if td.Name != "Point" {
		t.Errorf("Expected name 'Point', got '%s'", td.Name)
	}
	if td.StaticBody == nil {
		t.Error("Expected StaticBody to be set")
	}
	if len(td.Fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(td.Fields))
	}
	if td.InstanceBody == nil {
		t.Error("Expected InstanceBody to be set")
	}
}

func TestParseTypeDefWithoutStaticBody(t *testing.T) {
	input := `type Pair(a, b) { var total = a; }`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	td := result.Statements[0].(*ast.TypeDef)
	if td.StaticBody != nil {
		t.Error("Expected no StaticBody")
	}
	if len(td.Fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(td.Fields))
	}
}

// =============================================================================
// req Directive Tests
// =============================================================================

func TestParseReq(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectVersion bool
		expectedName  string
		expectedAlias string
		expectedURL   string
	}{
		{"plain module", `req http;`, false, "http", "", ""},
		{"aliased module", `req h @ http;`, false, "http", "h", ""},
		{"aliased url", `req h @ "https://example.com/mod.saf";`, false, "", "h", "https://example.com/mod.saf"},
		{"version check", `req v1.2;`, true, "", "", ""},
		{"version floor", `req +v1.0;`, true, "", "", ""},
		{"version range", `req v1.0 - v2.0;`, true, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.input, nil)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			req, ok := result.Statements[0].(*ast.Req)
			if !ok {
				t.Fatal("Expected Req")
			}
			if req.IsVersionCheck != tt.expectVersion {
				t.Errorf("Expected IsVersionCheck=%v, got %v", tt.expectVersion, req.IsVersionCheck)
			}
			if !tt.expectVersion {
				if req.Name != tt.expectedName {
					t.Errorf("Expected name '%s', got '%s'", tt.expectedName, req.Name)
				}
				if req.Alias != tt.expectedAlias {
					t.Errorf("Expected alias '%s', got '%s'", tt.expectedAlias, req.Alias)
				}
				if req.URL != tt.expectedURL {
					t.Errorf("Expected url '%s', got '%s'", tt.expectedURL, req.URL)
				}
			}
		})
	}
}

// =============================================================================
// Visitor Tests
// =============================================================================

func TestVisitor(t *testing.T) {
	input := `
		func foo() { return 1; }
		func bar() { return 2; }
	`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var funcNames []string
	visitor := &countingVisitor{onFuncDef: func(node *ast.FuncDef) {
		funcNames = append(funcNames, node.Name)
	}}

	Visit(result, visitor)

	if len(funcNames) != 2 {
		t.Errorf("Expected 2 functions, found %d", len(funcNames))
	}
	if len(funcNames) > 0 && funcNames[0] != "foo" {
		t.Errorf("Expected first function 'foo', got '%s'", funcNames[0])
	}
}

// countingVisitor is a minimal ast.Visitor for TestVisitor, implemented by
// embedding BaseVisitor so only FuncDef needs overriding.
type countingVisitor struct {
	ast.BaseVisitor
	onFuncDef func(*ast.FuncDef)
}

func (v *countingVisitor) VisitFuncDef(node *ast.FuncDef) bool {
	v.onFuncDef(node)
	return true
}

// =============================================================================
// Full Program Test
// =============================================================================

func TestParseFullProgram(t *testing.T) {
	input := `
		req json;

		struct Point(x, y) {
			var magnitude = x * x + y * y;
		}

		func distance(a, b) {
			var dx = a.x - b.x;
			var dy = a.y - b.y;
			return (dx ** 2 + dy ** 2) ** 0.5;
		}

		pub origin = Point(0, 0);

		for name in names {
			if name in seen {
				continue;
			}
			print(f"visiting {name}");
		}
	`

	result, err := Parse(input, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(result.Statements) != 5 {
		t.Fatalf("Expected 5 top-level statements, got %d", len(result.Statements))
	}
}
