package eval_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"

	"github.com/cibere/safulate-go/pkg/builtins"
	"github.com/cibere/safulate-go/pkg/eval"
	"github.com/cibere/safulate-go/pkg/parser"
	"github.com/cibere/safulate-go/pkg/value"
)

// run parses and evaluates src, returning everything print wrote plus the
// top-level result.
func run(t *testing.T, src string) (string, value.Value) {
	t.Helper()

	prog, err := parser.Parse(src, nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var out bytes.Buffer
	interp := eval.NewInterpreter(nil, nil)
	builtins.Register(interp, &out)

	result, err := interp.Run(prog)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String(), result
}

func TestScopeShadow(t *testing.T) {
	out, _ := run(t, `var x = 5; { var x = 10; print(x); } print(x);`)
	want := "10\n5\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestLabeledBreak(t *testing.T) {
	src := `
var depth = 0;
while 1 {
	depth = depth + 1;
	print(f"started {depth}");
	while 1 {
		depth = depth + 1;
		print(f"started {depth}");
		while 1 {
			depth = depth + 1;
			print(f"started {depth}");
			break 3;
			print(f"ended {depth}");
		}
		print(f"ended {depth}");
	}
	print(f"ended {depth}");
}
`
	out, _ := run(t, src)
	want := "started 1\nstarted 2\nstarted 3\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSwitchFallThrough(t *testing.T) {
	src := `switch "best" {
	case "best" { print("a"); continue 2; }
	case "test" { print("b"); }
	case "foo" { print("c"); }
}`
	out, _ := run(t, src)
	want := "a\nc\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecDispatch(t *testing.T) {
	src := `
var x = object();
x ~ {
	spec add(o) {
		return 5;
	}
}
print(x + "test");
`
	out, _ := run(t, src)
	want := "5\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPartialAndSpread(t *testing.T) {
	src := `
func test(arg1, arg2, arg3, arg4, arg5) {
	assert(arg1 == 1);
	assert(arg2 == 2);
	assert(arg3 == 3);
	assert(arg4 == 4);
	assert(arg5 == 5);
	return 1;
}
print(test(1, ..[2, 3, 4], 5));

func three(a, b, c) {
	return a + b + c;
}
print(three[1, 2](3));
`
	out, _ := run(t, src)
	want := "1\n6\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestDictBuiltinKeywordArgs checks dict(**kwargs)'s resulting Object shape
// rather than its printed form, so a mismatch needs a structural diff —
// pretty.Diff walks the two *value.Object values field by field and reports
// exactly which ones differ, which is far more useful here than a %#v dump
// of two maps of interface values.
func TestDictBuiltinKeywordArgs(t *testing.T) {
	_, result := run(t, `dict(a=1, b="two");`)

	got, ok := result.(*value.Object)
	if !ok {
		t.Fatalf("expected dict() to return an Object, got %T", result)
	}

	want := value.NewObject()
	want.TypeTag = "dict"
	want.Pub["a"] = value.NumberFromInt(1)
	want.Pub["b"] = value.NewString("two")

	if len(got.Pub) != len(want.Pub) || got.TypeTag != want.TypeTag {
		t.Errorf("dict() shape mismatch:\n%s", strings.Join(pretty.Diff(want, got), "\n"))
		return
	}
	for k, wv := range want.Pub {
		gv, ok := got.Pub[k]
		if !ok || gv.Repr() != wv.Repr() {
			t.Errorf("dict() contents mismatch:\n%s", strings.Join(pretty.Diff(want, got), "\n"))
			return
		}
	}
}

func TestPubDeclaredInsideNestedBlockReachesObject(t *testing.T) {
	src := `
struct Counter() {
	if 1 {
		pub backing = 0;
	}
}
var c = Counter();
print(c.backing);
`
	out, _ := run(t, src)
	want := "0\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertyViaDecorator(t *testing.T) {
	src := `
struct Counter() {
	pub backing = 0;

	func val() [property] {
		return backing;
	}

	func inc() {
		backing = backing + 1;
	}
}

var obj = Counter();
print(obj.val);
obj.inc();
print(obj.val);
`
	out, _ := run(t, src)
	want := "0\n1\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertySetterWritesThroughAttribute(t *testing.T) {
	src := `
struct Counter() {
	priv backing = 0;

	func val() [property] {
		return backing;
	}

	func val(v) [setter(val)] {
		backing = v * 2;
	}
}

var obj = Counter();
obj ~ {
	obj.val = 5;
}
print(obj.val);
`
	out, _ := run(t, src)
	want := "10\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertyWithoutSetterFailsOnWrite(t *testing.T) {
	src := `
struct Counter() {
	func val() [property] {
		return 1;
	}
}

var obj = Counter();
obj ~ {
	obj.val = 5;
}
`
	prog, err := parser.Parse(src, nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	interp := eval.NewInterpreter(nil, nil)
	builtins.Register(interp, &bytes.Buffer{})

	_, err = interp.Run(prog)
	if err == nil {
		t.Fatal("expected writing a setter-less property to fail")
	}
	verr, ok := err.(*value.Error)
	if !ok || verr.Kind != value.ErrAttribute {
		t.Errorf("expected AttributeError, got %#v", err)
	}
}
