package reference

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestClampScore(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-0.2, 0},
		{0, 0},
		{0.55, 0.55},
		{1.02, 1},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := ClampScore(tc.in); got != tc.want {
			t.Fatalf("ClampScore(%v)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClampQuality(t *testing.T) {
	for in, want := range map[int]int{-1: 0, 0: 0, 3: 3, 5: 5, 9: 5} {
		if got := ClampQuality(in); got != want {
			t.Fatalf("ClampQuality(%d)=%d, want %d", in, got, want)
		}
	}
}

func TestBeforeCreateNormalizes(t *testing.T) {
	r := &ReferenceExample{IsManual: true, PerformanceScore: 1.4, QualityRating: 7}
	if err := r.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if r.ID == uuid.Nil || r.Status != StatusActive || !r.IsPinned {
		t.Fatalf("unexpected defaults: %+v", r)
	}
	if r.PerformanceScore != 1 || r.QualityRating != 5 {
		t.Fatalf("bounds not enforced: score=%v quality=%d", r.PerformanceScore, r.QualityRating)
	}
	if !r.AlwaysIncluded() {
		t.Fatalf("manual entry must always be included")
	}
}

func TestSortedTriggers(t *testing.T) {
	r := &ReferenceExample{Triggers: []string{"scarcity", " ", "authority", "scarcity"}}
	want := []string{"authority", "scarcity"}
	if got := r.SortedTriggers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("SortedTriggers=%v, want %v", got, want)
	}
}

func TestIntentMatchTerms(t *testing.T) {
	in := Intent{Category: " Beauty ", Keywords: []string{"serum", "BEAUTY", "", "Vitamin C"}}
	want := []string{"beauty", "serum", "vitamin c"}
	if got := in.MatchTerms(); !reflect.DeepEqual(got, want) {
		t.Fatalf("MatchTerms=%v, want %v", got, want)
	}
}
