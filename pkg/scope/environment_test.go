package scope

import (
	"testing"

	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/value"
)

func TestDeclareAndLookupLexical(t *testing.T) {
	root := NewRoot()
	if err := root.Declare(ast.DeclVar, "x", value.NumberFromInt(1)); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	got, ok := root.Lookup("x")
	if !ok {
		t.Fatal("expected to find x")
	}
	if got.(*value.Number).D.IntPart() != 1 {
		t.Errorf("x = %v, want 1", got)
	}
}

func TestScopeShadowDoesNotMutateOuter(t *testing.T) {
	root := NewRoot()
	root.Declare(ast.DeclVar, "x", value.NumberFromInt(5))

	child := root.Child()
	child.Declare(ast.DeclVar, "x", value.NumberFromInt(10))

	innerVal, _ := child.Lookup("x")
	outerVal, _ := root.Lookup("x")

	if innerVal.(*value.Number).D.IntPart() != 10 {
		t.Errorf("inner x = %v, want 10", innerVal)
	}
	if outerVal.(*value.Number).D.IntPart() != 5 {
		t.Errorf("outer x = %v, want 5 (shadow must not mutate outer)", outerVal)
	}
}

func TestAssignWalksOutwardAndMutatesOuter(t *testing.T) {
	root := NewRoot()
	root.Declare(ast.DeclVar, "x", value.NumberFromInt(5))

	childEnv := root.Child().(*Environment)
	if err := childEnv.Assign("x", value.NumberFromInt(99)); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	outerVal, _ := root.Lookup("x")
	if outerVal.(*value.Number).D.IntPart() != 99 {
		t.Errorf("expected plain assignment to mutate the outer binding, got %v", outerVal)
	}
}

func TestAssignUndeclaredNameFails(t *testing.T) {
	root := NewRoot()
	if err := root.Assign("missing", value.NumberFromInt(1)); err == nil {
		t.Error("expected NameError on assignment to an undeclared name")
	}
}

func TestScopeIsolationAfterBlockExit(t *testing.T) {
	root := NewRoot()
	child := root.Child()
	child.Declare(ast.DeclVar, "x", value.NumberFromInt(10))

	// the child frame is simply discarded here, modeling block exit
	if _, ok := root.Lookup("x"); ok {
		t.Error("x declared in a child block should not leak to the parent")
	}
}

func TestDelete(t *testing.T) {
	root := NewRoot()
	root.Declare(ast.DeclVar, "x", value.NumberFromInt(1))

	if err := root.Delete("x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := root.Lookup("x"); ok {
		t.Error("expected x to be gone after Delete")
	}

	if err := root.Delete("x"); err == nil {
		t.Error("expected error deleting an already-deleted name")
	}
}

func TestObjectBoundFrameRoutesPubPriv(t *testing.T) {
	root := NewRoot()
	obj := value.NewObject()
	bound := root.NewObjectBound(obj)

	bound.Declare(ast.DeclPub, "x", value.NumberFromInt(1))
	bound.Declare(ast.DeclPriv, "y", value.NumberFromInt(2))

	if _, ok := obj.Pub["x"]; !ok {
		t.Error("expected pub declaration to land on obj.Pub")
	}
	if _, ok := obj.Priv["y"]; !ok {
		t.Error("expected priv declaration to land on obj.Priv")
	}
}

func TestObjectBoundFrameLocalVarDoesNotTouchObject(t *testing.T) {
	root := NewRoot()
	obj := value.NewObject()
	bound := root.NewObjectBound(obj)

	bound.Declare(ast.DeclVar, "tmp", value.NumberFromInt(1))

	if _, ok := obj.Pub["tmp"]; ok {
		t.Error("var inside an edit block must not be written to the object")
	}
	if _, ok := obj.Priv["tmp"]; ok {
		t.Error("var inside an edit block must not be written to the object")
	}
	if _, ok := bound.Lookup("tmp"); !ok {
		t.Error("expected tmp to be a local frame variable")
	}
}

func TestObjectBoundPrivVisibleOnlyThroughBoundFrame(t *testing.T) {
	root := NewRoot()
	obj := value.NewObject()
	obj.Priv["secret"] = value.NumberFromInt(1)

	if _, ok := root.Lookup("secret"); ok {
		t.Error("priv attributes must not be visible outside an object-bound frame")
	}

	bound := root.NewObjectBound(obj)
	if _, ok := bound.Lookup("secret"); !ok {
		t.Error("priv attributes must be visible from within their object's bound frame")
	}
}

func TestDeclareSpecRequiresEditBlock(t *testing.T) {
	root := NewRoot()
	if err := root.DeclareSpec("add", &value.Function{Name: "add"}); err == nil {
		t.Error("expected error declaring a spec outside an edit block")
	}

	obj := value.NewObject()
	bound := root.NewObjectBound(obj)
	if err := bound.DeclareSpec("add", &value.Function{Name: "add"}); err != nil {
		t.Fatalf("DeclareSpec failed: %v", err)
	}
	if _, ok := obj.Specs["add"]; !ok {
		t.Error("expected add spec to be registered on the object")
	}
}

func TestCallFrameParentIsCapturedEnvNotCaller(t *testing.T) {
	defRoot := NewRoot()
	defRoot.Declare(ast.DeclVar, "captured", value.NumberFromInt(42))

	callerRoot := NewRoot()
	callerRoot.Declare(ast.DeclVar, "captured", value.NumberFromInt(-1))

	fn := &value.Function{Name: "f"}
	callFrame := defRoot.NewCall(fn, nil)

	got, ok := callFrame.Lookup("captured")
	if !ok || got.(*value.Number).D.IntPart() != 42 {
		t.Errorf("expected call frame to resolve through its captured env, got %v", got)
	}
}

func TestCallParentIsLateBoundReceiver(t *testing.T) {
	root := NewRoot()
	obj := value.NewObject()
	fn := &value.Function{Name: "f"}
	callFrame := root.NewCall(fn, obj)

	if callFrame.CallParent() != obj {
		t.Error("expected CallParent to return the late-bound receiver")
	}
}

func TestObjectBoundFrameRoutesPubPrivThroughLexicalChild(t *testing.T) {
	root := NewRoot()
	obj := value.NewObject()
	bound := root.NewObjectBound(obj)

	// A `{ }` block body (as execBlock always constructs) is a lexical
	// child of the object-bound frame, not the object-bound frame itself.
	child := bound.ChildEnv()
	if err := child.Declare(ast.DeclPub, "x", value.NumberFromInt(1)); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	if err := child.Declare(ast.DeclPriv, "y", value.NumberFromInt(2)); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	if _, ok := obj.Pub["x"]; !ok {
		t.Error("expected pub declaration inside a nested lexical frame to land on obj.Pub")
	}
	if _, ok := obj.Priv["y"]; !ok {
		t.Error("expected priv declaration inside a nested lexical frame to land on obj.Priv")
	}
	if _, ok := child.vars["x"]; ok {
		t.Error("pub declaration must not also shadow as a block-local variable")
	}
}

func TestDeclarePubOutsideEditBlockFails(t *testing.T) {
	root := NewRoot()
	if err := root.Declare(ast.DeclPub, "x", value.NumberFromInt(1)); err == nil {
		t.Error("expected error declaring pub outside an edit block")
	}
}

func TestBoundObjectFindsNearestEditFrame(t *testing.T) {
	root := NewRoot()
	if root.BoundObject() != nil {
		t.Error("expected no bound object at the root")
	}

	obj := value.NewObject()
	bound := root.NewObjectBound(obj)
	lexicalChild := bound.Child().(*Environment)

	if lexicalChild.BoundObject() != obj {
		t.Error("expected BoundObject to see through a nested lexical frame")
	}
}
