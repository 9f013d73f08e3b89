package unused

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/types"
)

// DeadBranches runs a small worklist constant-folding pass over tree's
// `if`/`guard` conditions, looking for literal `true`/`false` conditions
// (SPEC_FULL.md's supplemented "sparse conditional constant propagation"
// feature, explicitly carved out by spec.md §1's Non-goals as the one
// flow analysis in scope). Declarations whose location falls inside a
// branch body that can never execute are reported with ReasonDeadBranch,
// independent of the reachability pipeline: a branch can be statically
// dead even when the declarations inside it are otherwise referenced
// from elsewhere in the file. Grounded on
// internal/analysis/performance_analyzer.go's constant-folding helpers.
func DeadBranches(tree *swiftsyntax.Tree, decls []types.Declaration) []types.UnusedFinding {
	var findings []types.UnusedFinding
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case "if_statement":
			findings = append(findings, deadIfBranches(tree, node, decls)...)
		case "guard_statement":
			findings = append(findings, deadGuardBody(tree, node, decls)...)
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}
	walk(tree.Root())
	return findings
}

func deadIfBranches(tree *swiftsyntax.Tree, node *sitter.Node, decls []types.Declaration) []types.UnusedFinding {
	cond := swiftsyntax.FieldOrNil(node, "condition")
	lit, ok := literalBool(tree, cond)
	if !ok {
		return nil
	}

	var dead *sitter.Node
	if lit {
		dead = elseBranch(node)
	} else {
		dead = swiftsyntax.FieldOrNil(node, "body")
	}
	if dead == nil {
		return nil
	}
	return declsWithin(tree, dead, decls, types.ReasonDeadBranch)
}

// deadGuardBody reports the guard's else body as dead only when the
// guarded condition is a literal `true` (the else can never run).
func deadGuardBody(tree *swiftsyntax.Tree, node *sitter.Node, decls []types.Declaration) []types.UnusedFinding {
	cond := swiftsyntax.FieldOrNil(node, "condition")
	lit, ok := literalBool(tree, cond)
	if !ok || !lit {
		return nil
	}
	body := swiftsyntax.FieldOrNil(node, "body")
	if body == nil {
		return nil
	}
	return declsWithin(tree, body, decls, types.ReasonDeadBranch)
}

func elseBranch(node *sitter.Node) *sitter.Node {
	if alt := swiftsyntax.FieldOrNil(node, "alternative"); alt != nil {
		return alt
	}
	return swiftsyntax.FirstChildOfKind(node, "else")
}

// literalBool folds a condition node down to a literal true/false, or
// reports ok=false when it isn't a constant expression.
func literalBool(tree *swiftsyntax.Tree, cond *sitter.Node) (value bool, ok bool) {
	if cond == nil {
		return false, false
	}
	switch cond.Kind() {
	case "boolean_literal":
		text := tree.Text(cond)
		return text == "true", true
	case "condition", "condition_list":
		if cond.ChildCount() == 1 {
			return literalBool(tree, cond.Child(0))
		}
	}
	return false, false
}

func declsWithin(tree *swiftsyntax.Tree, node *sitter.Node, decls []types.Declaration, reason types.UnusedReason) []types.UnusedFinding {
	start := tree.Location(node)
	end := tree.EndLocation(node)
	var findings []types.UnusedFinding
	for _, d := range decls {
		if d.Location.File != start.File {
			continue
		}
		if d.Location.ByteOffset < start.ByteOffset || d.Location.ByteOffset > end.ByteOffset {
			continue
		}
		findings = append(findings, types.UnusedFinding{
			Declaration: d,
			Reason:      reason,
			Confidence:  types.ConfidenceForAccess(d.Access),
			Suggestion:  suggestion(d, reason),
		})
	}
	return findings
}
