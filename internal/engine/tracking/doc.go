// Package tracking computes line-level diffs between buffer states.
//
// Diffs are produced in line mode by go-diff and grouped into hunks with a
// configurable amount of surrounding context. They are used to preview a
// generated edit batch before it is written back:
//
//	before := buf.Snapshot()
//	_ = buf.ApplyEdits(plan.Batch)
//	result := tracking.ComputeSnapshotDiff(before, buf.Snapshot(), tracking.DefaultDiffOptions())
//	fmt.Print(tracking.UnifiedDiff(result, "a/spec.rb", "b/spec.rb"))
//
// Each hunk line carries its unified diff marker (" ", "-" or "+"), so
// UnifiedDiff only adds headers.
package tracking
