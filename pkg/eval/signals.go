package eval

import "github.com/cibere/safulate-go/pkg/value"

// breakSignal and continueSignal are propagated as typed panics, caught at
// loop/switch boundaries and decremented or re-raised per spec.md §4.6.
type breakSignal struct{ Depth int }

type continueSignal struct{ Depth int }

// returnSignal unwinds to the nearest call frame boundary, per spec.md §4.5.
type returnSignal struct{ Value value.Value }

// raise turns a runtime *value.Error into a panic, the only mechanism used
// to propagate raised errors through the tree-walk (mirrors the teacher's
// addError/panic-mode-recovery idiom from internal/builder, but at the
// value layer instead of the parse layer).
func raise(err *value.Error) {
	panic(err)
}
