// Package expr implements the embedded expression language of §4.2: a
// parser that recognizes the grammar in the documented left-to-right
// order, an AST cache keyed by the raw expression string (§9 design
// note), and an evaluator carrying the closed builtin set of §4.3.
//
// Grounded on darwindeck's typed-dispatch style (genome/schema.go's
// Condition.OpCode switch) generalized from a closed bytecode enum to a
// closed string-keyed function table, and on GoTinyMUSH's context-carrying
// evaluator struct (pkg/eval/context.go). The recognition order and the
// exact per-builtin null-handling rules are ported from
// original_source/game.py's ExpressionEvaluator, not from either Go
// teacher (neither has a string-expression language at all).
package expr

import "github.com/signalnine/ruleforge/value"

// Node is a parsed expression tree node.
type Node interface {
	isNode()
}

// Literal is a constant value baked into the expression text.
type Literal struct {
	Value value.Value
}

// Ident is a bare identifier resolved against the evaluation context.
type Ident struct {
	Name string
}

// Index is `obj[key]` (§4.2 rule 1).
type Index struct {
	Obj Node
	Key Node
}

// Call is `name(args...)` (§4.2 rule 2).
type Call struct {
	Func string
	Args []Node
}

// Property is `base.seg1.seg2...` (§4.2 rule 3). Each segment is a plain
// attribute/key name, not a sub-expression — the original source resolves
// them via getattr/dict-get, never by re-evaluating the segment text.
type Property struct {
	Base Node
	Path []string
}

func (*Literal) isNode()  {}
func (*Ident) isNode()    {}
func (*Index) isNode()    {}
func (*Call) isNode()     {}
func (*Property) isNode() {}
