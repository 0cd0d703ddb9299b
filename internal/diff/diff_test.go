package diff

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		old  []string
		new  []string
		want []Entry
	}{
		{
			name: "both empty",
			old:  nil,
			new:  nil,
			want: nil,
		},
		{
			name: "insertion preferred at tie",
			old:  []string{"a", "b"},
			new:  []string{"a", "c", "b"},
			want: []Entry{
				{Kind: Context, Text: "a"},
				{Kind: Add, Text: "c"},
				{Kind: Context, Text: "b"},
			},
		},
		{
			name: "pure insert",
			old:  nil,
			new:  []string{"x", "y"},
			want: []Entry{
				{Kind: Add, Text: "x"},
				{Kind: Add, Text: "y"},
			},
		},
		{
			name: "pure delete",
			old:  []string{"x", "y"},
			new:  nil,
			want: []Entry{
				{Kind: Remove, Text: "x"},
				{Kind: Remove, Text: "y"},
			},
		},
		{
			name: "replacement lists removal before addition",
			old:  []string{"func a() {", "\treturn 1", "}"},
			new:  []string{"func a() {", "\treturn 2", "}"},
			want: []Entry{
				{Kind: Context, Text: "func a() {"},
				{Kind: Remove, Text: "\treturn 1"},
				{Kind: Add, Text: "\treturn 2"},
				{Kind: Context, Text: "}"},
			},
		},
		{
			name: "identical",
			old:  []string{"same"},
			new:  []string{"same"},
			want: []Entry{{Kind: Context, Text: "same"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLinesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []string{"a", "b", "c", "d", ""}
	gen := func() []string {
		n := rng.Intn(9)
		out := make([]string, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return out
	}

	for iter := 0; iter < 500; iter++ {
		old, new := gen(), gen()
		entries := Lines(old, new)

		if len(entries) > len(old)+len(new) {
			t.Fatalf("len(entries) = %d exceeds %d for %q -> %q", len(entries), len(old)+len(new), old, new)
		}
		if got := Old(entries); !equalLines(got, old) {
			t.Fatalf("Old() = %q, want %q", got, old)
		}
		if got := New(entries); !equalLines(got, new) {
			t.Fatalf("New() = %q, want %q", got, new)
		}
	}
}

func TestLinesDeterministic(t *testing.T) {
	old := []string{"x", "a", "b", "x"}
	new := []string{"a", "x", "b", "a"}
	first := Lines(old, new)
	for i := 0; i < 10; i++ {
		if got := Lines(old, new); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %#v vs %#v", i, got, first)
		}
	}
}

func TestStats(t *testing.T) {
	entries := Lines([]string{"a", "b", "c"}, []string{"a", "x", "y"})
	added, removed := Stats(entries)
	if added != 2 || removed != 2 {
		t.Errorf("Stats() = (%d, %d), want (2, 2)", added, removed)
	}
}

func TestRefine(t *testing.T) {
	entries := Lines([]string{"x := 1", "keep"}, []string{"x := 2", "keep"})
	refined := Refine(entries)

	if len(refined) != len(entries) {
		t.Fatalf("Refine changed length: %d vs %d", len(refined), len(entries))
	}
	for i := range refined {
		if refined[i].Kind != entries[i].Kind || refined[i].Text != entries[i].Text {
			t.Fatalf("Refine changed entry %d: %#v vs %#v", i, refined[i], entries[i])
		}
	}

	rem, add := refined[0], refined[1]
	if rem.Kind != Remove || add.Kind != Add {
		t.Fatalf("unexpected kinds: %v %v", rem.Kind, add.Kind)
	}
	wantRem := []Segment{{Kind: Same, Text: "x := "}, {Kind: SegmentRemove, Text: "1"}}
	wantAdd := []Segment{{Kind: Same, Text: "x := "}, {Kind: SegmentAdd, Text: "2"}}
	if !reflect.DeepEqual(rem.Segments, wantRem) {
		t.Errorf("remove segments = %#v, want %#v", rem.Segments, wantRem)
	}
	if !reflect.DeepEqual(add.Segments, wantAdd) {
		t.Errorf("add segments = %#v, want %#v", add.Segments, wantAdd)
	}
	if refined[2].Segments != nil {
		t.Errorf("context entry got segments: %#v", refined[2].Segments)
	}
	if entries[0].Segments != nil {
		t.Error("Refine mutated its input")
	}
}

func TestRefineSegmentsReconstructLines(t *testing.T) {
	old := []string{"return fmt.Errorf(\"bad: %v\", err)", "b"}
	new := []string{"return fmt.Errorf(\"bad input: %w\", err)", "c"}
	for _, e := range Refine(Lines(old, new)) {
		if e.Segments == nil {
			continue
		}
		if got := SegmentText(e.Segments); got != e.Text {
			t.Errorf("segments reconstruct %q, want %q", got, e.Text)
		}
		for _, s := range e.Segments {
			if e.Kind == Remove && s.Kind == SegmentAdd {
				t.Errorf("remove entry carries add segment %q", s.Text)
			}
			if e.Kind == Add && s.Kind == SegmentRemove {
				t.Errorf("add entry carries remove segment %q", s.Text)
			}
		}
	}
}

func TestRefineSkipsUnequalRuns(t *testing.T) {
	entries := Lines([]string{"one", "two"}, []string{"three"})
	for _, e := range Refine(entries) {
		if e.Segments != nil {
			t.Errorf("entry %q should not be refined", e.Text)
		}
	}
}

func TestRefineSkipsUnrelatedPair(t *testing.T) {
	refined := Refine(Lines([]string{"abc"}, []string{"xyz"}))
	for _, e := range refined {
		if e.Segments != nil {
			t.Errorf("entry %q has segments without common text: %#v", e.Text, e.Segments)
		}
	}
}

func TestUnified(t *testing.T) {
	if got := Unified("f.go", []string{"a"}, []string{"a"}); got != "" {
		t.Errorf("Unified() for identical sides = %q, want empty", got)
	}

	got := Unified("f.go", []string{"a", "b"}, []string{"a", "c"})
	for _, want := range []string{"-b\n", "+c\n", "@@"} {
		if !strings.Contains(got, want) {
			t.Errorf("Unified() = %q, missing %q", got, want)
		}
	}
}

func equalLines(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
