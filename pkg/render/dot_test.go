package render

import (
	"strings"
	"testing"

	symio "github.com/matzehuels/symtower/pkg/io"
)

func sampleReport() *symio.Report {
	return &symio.Report{
		Model: "pairs",
		Generators: [][][]string{
			{{"a", "b"}, {"c", "d"}},
			{{"e", "f", "g"}},
		},
		Components: []symio.ComponentRecord{
			{Index: 0, Vars: []string{"a", "b", "c", "d"}, Generators: []int{0}, Blocked: true},
			{Index: 1, Vars: []string{"e", "f", "g"}, Generators: []int{1}},
		},
		Constraints: []symio.ConstraintRecord{
			{Kind: "orbitope", Name: "orbitope_component0", Component: 0},
		},
	}
}

func TestToDOT_Cycles(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{})

	for _, want := range []string{
		`graph "pairs"`,
		"subgraph cluster_0",
		"subgraph cluster_1",
		`"a" -- "b"`,
		`"c" -- "d"`,
		`"e" -- "f"`,
		`"f" -- "g"`,
		`"g" -- "e"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, `"b" -- "a"`) {
		t.Error("ToDOT() drew a 2-cycle twice")
	}
}

func TestToDOT_Blocked(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{})

	if strings.Count(dot, "style=dashed") != 1 {
		t.Errorf("ToDOT() should dash exactly the blocked component:\n%s", dot)
	}
}

func TestToDOT_Generators(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{Generators: true})

	if !strings.Contains(dot, `"g0" [shape=box`) {
		t.Error("ToDOT() missing generator node")
	}
	if !strings.Contains(dot, `"g1" -- "g"`) {
		t.Error("ToDOT() missing generator edge")
	}
	if strings.Contains(dot, `"a" -- "b"`) {
		t.Error("ToDOT() drew cycle edges in generator mode")
	}
}

func TestToDOT_Constraints(t *testing.T) {
	plain := ToDOT(sampleReport(), Options{})
	annotated := ToDOT(sampleReport(), Options{Constraints: true})

	if strings.Contains(plain, "orbitope_component0") {
		t.Error("ToDOT() listed constraints without the option")
	}
	if !strings.Contains(annotated, "orbitope orbitope_component0") {
		t.Error("ToDOT() missing constraint annotation")
	}
}

func TestColorCycles(t *testing.T) {
	if color(0) != color(len(palette)) {
		t.Errorf("color() should cycle through the palette")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("normalizeViewBox() changed input without viewBox: %s", got)
	}
}
