package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"graft/internal/diag"
	"graft/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("vec.h", []byte("struct vec3;\nint length(vec3 &v);\n"))
	bag := diag.NewBag(10)
	// "vec3 &v" on line 2, bytes 24..31.
	bag.Add(diag.NewWarning(diag.RedReferenceDegraded, source.Span{File: id, Start: 24, End: 31},
		"vec3 & degrades to pointer semantics"))
	bag.Add(diag.NewIgnored(diag.TrUnsupportedDecl, source.None(), "skipped"))
	return bag, fs, id
}

func TestPrettyFormat(t *testing.T) {
	bag, fs, _ := testBag(t)
	var b strings.Builder
	Pretty(&b, bag, fs, PrettyOpts{ShowSource: true})
	out := b.String()

	if !strings.Contains(out, "vec.h:2:12: WARNING G2001: vec3 & degrades to pointer semantics") {
		t.Errorf("header line missing or malformed:\n%s", out)
	}
	if !strings.Contains(out, "int length(vec3 &v);") {
		t.Errorf("source context missing:\n%s", out)
	}
	if !strings.Contains(out, "^~~~~~") {
		t.Errorf("underline missing:\n%s", out)
	}
	if strings.Contains(out, "IGNORED") {
		t.Errorf("ignored diagnostics are suppressed by default:\n%s", out)
	}
}

func TestPrettyShowsIgnoredOnRequest(t *testing.T) {
	bag, fs, _ := testBag(t)
	var b strings.Builder
	Pretty(&b, bag, fs, PrettyOpts{ShowIgnored: true})
	if !strings.Contains(b.String(), "IGNORED G1001") {
		t.Errorf("missing ignored diagnostic:\n%s", b.String())
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs, _ := testBag(t)
	var b strings.Builder
	if err := JSON(&b, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(b.String()), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Code != "G2001" || first.Severity != "WARNING" {
		t.Errorf("first = %+v", first)
	}
	if first.Location.File != "vec.h" || first.Location.StartLine != 2 || first.Location.StartCol != 12 {
		t.Errorf("location = %+v", first.Location)
	}
}

func TestJSONMaxTruncatesOutputOnly(t *testing.T) {
	bag, fs, _ := testBag(t)
	out := BuildOutput(bag, fs, JSONOpts{Max: 1})
	if len(out.Diagnostics) != 1 {
		t.Errorf("diagnostics = %d, want 1", len(out.Diagnostics))
	}
	if out.Count != 2 {
		t.Errorf("count = %d, want the untruncated total", out.Count)
	}
}
