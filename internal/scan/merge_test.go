package scan

import (
	"reflect"
	"testing"
)

func TestMergeOverlapAdverseDominates(t *testing.T) {
	tests := []struct {
		name string
		in   []Span
		want []Span
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "single",
			in:   []Span{{0, 5, KindAdverse}},
			want: []Span{{0, 5, KindAdverse}},
		},
		{
			name: "disjoint stay separate",
			in:   []Span{{10, 15, KindFavorable}, {0, 5, KindAdverse}},
			want: []Span{{0, 5, KindAdverse}, {10, 15, KindFavorable}},
		},
		{
			name: "overlap merges",
			in:   []Span{{0, 8, KindFavorable}, {4, 12, KindFavorable}},
			want: []Span{{0, 12, KindFavorable}},
		},
		{
			name: "adverse wins on overlap",
			in:   []Span{{0, 8, KindFavorable}, {4, 12, KindAdverse}},
			want: []Span{{0, 12, KindAdverse}},
		},
		{
			name: "adverse wins when earlier",
			in:   []Span{{0, 8, KindAdverse}, {4, 12, KindFavorable}},
			want: []Span{{0, 12, KindAdverse}},
		},
		{
			name: "containment keeps outer bounds",
			in:   []Span{{0, 20, KindFavorable}, {5, 10, KindAdverse}},
			want: []Span{{0, 20, KindAdverse}},
		},
		{
			name: "chain of overlaps collapses",
			in:   []Span{{0, 4, KindFavorable}, {3, 8, KindFavorable}, {7, 11, KindAdverse}},
			want: []Span{{0, 11, KindAdverse}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMergeIdempotent(t *testing.T) {
	in := []Span{
		{0, 4, KindFavorable}, {2, 9, KindAdverse}, {20, 25, KindFavorable},
		{8, 15, KindFavorable}, {30, 31, KindAdverse},
	}
	once := Merge(in)
	twice := Merge(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestMergeOutputOrderedAndDisjoint(t *testing.T) {
	in := []Span{{5, 9, KindAdverse}, {0, 6, KindFavorable}, {12, 14, KindFavorable}, {13, 20, KindAdverse}}
	got := Merge(in)
	for i := 1; i < len(got); i++ {
		if got[i].Start <= got[i-1].End {
			t.Fatalf("output spans %v and %v are not disjoint", got[i-1], got[i])
		}
	}
}

func FuzzMergeIdempotent(f *testing.F) {
	f.Add(0, 4, 2, 9, 20, 25)
	f.Add(1, 1, 1, 1, 1, 1)
	f.Fuzz(func(t *testing.T, a, b, c, d, e, g int) {
		mk := func(s, e int) Span {
			if e < s {
				s, e = e, s
			}
			return Span{Start: s, End: e, Kind: Kind((s + e) % 2)}
		}
		in := []Span{mk(a, b), mk(c, d), mk(e, g)}
		once := Merge(in)
		twice := Merge(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("merge not idempotent for %v: %v vs %v", in, once, twice)
		}
		for i := 1; i < len(once); i++ {
			if once[i].Start < once[i-1].Start {
				t.Fatalf("output not ordered: %v", once)
			}
		}
	})
}
