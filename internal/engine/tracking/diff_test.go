package tracking

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

func TestDiffTypeString(t *testing.T) {
	tests := []struct {
		dt   DiffType
		want string
	}{
		{DiffEqual, "equal"},
		{DiffInsert, "insert"},
		{DiffDelete, "delete"},
		{DiffType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.dt.String(); got != tt.want {
			t.Errorf("DiffType(%d).String() = %q, want %q", tt.dt, got, tt.want)
		}
	}
}

func TestComputeLineDiffNoChanges(t *testing.T) {
	result := ComputeLineDiffStrings("a\nb\nc", "a\nb\nc", DefaultDiffOptions())
	if result.HasChanges() {
		t.Errorf("expected no changes, got %d hunks", len(result.Hunks))
	}
	if UnifiedDiff(result, "a", "b") != "" {
		t.Error("expected empty unified diff")
	}
	if result.OldLineCount != 3 || result.NewLineCount != 3 {
		t.Errorf("expected 3/3 lines, got %d/%d", result.OldLineCount, result.NewLineCount)
	}
}

func TestComputeLineDiffReplace(t *testing.T) {
	result := ComputeLineDiffStrings("a\nb\nc", "a\nB\nc", DefaultDiffOptions())

	if len(result.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(result.Hunks))
	}
	want := LineDiff{
		OldStart: 0,
		OldCount: 3,
		NewStart: 0,
		NewCount: 3,
		Lines:    []string{" a", "-b", "+B", " c"},
	}
	if diff := cmp.Diff(want, result.Hunks[0]); diff != "" {
		t.Errorf("hunk mismatch (-want +got):\n%s", diff)
	}
	if result.InsertedLines() != 1 || result.DeletedLines() != 1 {
		t.Errorf("expected 1 insert and 1 delete, got %d and %d", result.InsertedLines(), result.DeletedLines())
	}
}

func TestComputeLineDiffInsertOnly(t *testing.T) {
	result := ComputeLineDiffStrings("a\nc", "a\nb\nc", DiffOptions{ContextLines: 0})

	if len(result.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(result.Hunks))
	}
	h := result.Hunks[0]
	if h.OldStart != 1 || h.OldCount != 0 || h.NewStart != 1 || h.NewCount != 1 {
		t.Errorf("unexpected hunk bounds: %+v", h)
	}
	if diff := cmp.Diff([]string{"+b"}, h.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeLineDiffSeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 0; i < 20; i++ {
		line := string(rune('a' + i))
		oldLines = append(oldLines, line)
		switch i {
		case 2, 17:
			newLines = append(newLines, strings.ToUpper(line))
		default:
			newLines = append(newLines, line)
		}
	}

	result := ComputeLineDiffStrings(strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"), DiffOptions{ContextLines: 2})
	if len(result.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(result.Hunks))
	}
	if result.Hunks[0].OldStart != 0 {
		t.Errorf("expected first hunk at 0, got %d", result.Hunks[0].OldStart)
	}
	if result.Hunks[1].OldStart != 15 {
		t.Errorf("expected second hunk at 15, got %d", result.Hunks[1].OldStart)
	}

	// Close changes merge into one hunk.
	merged := ComputeLineDiffStrings(strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"), DiffOptions{ContextLines: 8})
	if len(merged.Hunks) != 1 {
		t.Errorf("expected 1 merged hunk, got %d", len(merged.Hunks))
	}
}

func TestComputeSnapshotDiff(t *testing.T) {
	buf := buffer.NewBufferFromString("C: Foo\n  T: bar\n")
	before := buf.Snapshot()

	batch := buffer.NewBatch(buf.RevisionID(),
		buffer.Replace(buf.Line(0).Range, `context "Foo" do`),
		buffer.Replace(buf.Line(1).Range, "  test \"bar\" do\n  end"),
		buffer.InsertAt(buffer.Point{Line: 2}, "end\n"),
	)
	if err := buf.ApplyEdits(batch); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	result := ComputeSnapshotDiff(before, buf.Snapshot(), DefaultDiffOptions())
	got := UnifiedDiff(result, "a/foo_test.rb", "b/foo_test.rb")

	want := "--- a/foo_test.rb\n" +
		"+++ b/foo_test.rb\n" +
		"@@ -1,3 +1,5 @@\n" +
		"-C: Foo\n" +
		"-  T: bar\n" +
		"+context \"Foo\" do\n" +
		"+  test \"bar\" do\n" +
		"+  end\n" +
		"+end\n" +
		" \n"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestUnifiedDiffEmptyOld(t *testing.T) {
	result := DiffResult{
		Hunks: []LineDiff{{OldStart: 0, OldCount: 0, NewStart: 0, NewCount: 1, Lines: []string{"+x"}}},
	}
	got := UnifiedDiff(result, "old", "new")
	if !strings.Contains(got, "@@ -0,0 +1,1 @@") {
		t.Errorf("unexpected header in %q", got)
	}
}
