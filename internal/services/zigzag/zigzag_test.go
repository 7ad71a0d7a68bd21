package zigzag

import "testing"

func fp(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out
}

func TestComputeThresholdReversal(t *testing.T) {
	in := fp(100, 100, 100, 112, 112)
	got := Compute(in, 10)

	if len(got) != len(in) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(in))
	}
	if got[0] == nil || *got[0] != 100 {
		t.Fatalf("expected pivot 100 at index 0, got %v", got[0])
	}
	if got[3] == nil || *got[3] != 112 {
		t.Fatalf("expected pivot 112 at index 3, got %v", got[3])
	}
	for _, i := range []int{1, 2, 4} {
		if got[i] != nil {
			t.Fatalf("expected nil at index %d, got %v", i, *got[i])
		}
	}
}

func TestComputeAllNull(t *testing.T) {
	in := make([]*float64, 5)
	got := Compute(in, 10)
	if len(got) != 5 {
		t.Fatalf("length mismatch: got %d", len(got))
	}
	for i, v := range got {
		if v != nil {
			t.Fatalf("expected all-null output, index %d = %v", i, *v)
		}
	}
}

func TestComputeLeadingNulls(t *testing.T) {
	in := []*float64{nil, nil}
	in = append(in, fp(100, 115, 100)...)
	got := Compute(in, 10)

	if got[0] != nil || got[1] != nil {
		t.Fatalf("leading nulls must stay null")
	}
	// 100 -> 115 (+15%) reverses to up, 115 -> 100 (-13%) reverses to down
	for i, want := range map[int]float64{2: 100, 3: 115, 4: 100} {
		if got[i] == nil || *got[i] != want {
			t.Fatalf("expected pivot %v at index %d, got %v", want, i, got[i])
		}
	}
}

func TestComputeExtremumSlidesForward(t *testing.T) {
	// one rising leg: each new high replaces the previous pivot
	got := Compute(fp(100, 111, 120, 125), 10)
	if got[0] == nil || *got[0] != 100 {
		t.Fatalf("expected starting pivot at index 0")
	}
	if got[1] != nil || got[2] != nil {
		t.Fatalf("intermediate highs must be replaced, got %v %v", got[1], got[2])
	}
	if got[3] == nil || *got[3] != 125 {
		t.Fatalf("expected leg extremum 125 at index 3, got %v", got[3])
	}
}

func TestComputeEqualValueNeverReplaces(t *testing.T) {
	// equal high does not slide the pivot forward
	got := Compute(fp(100, 115, 115, 103), 10)
	if got[1] == nil || *got[1] != 115 {
		t.Fatalf("expected pivot to stay at first extremum, got %v", got[1])
	}
	if got[2] != nil {
		t.Fatalf("equal value must not become a pivot")
	}
}

func TestComputeAdjacentPivotsNeverEqual(t *testing.T) {
	vals := fp(100, 104, 99, 112, 108, 95, 101, 120, 118, 90, 130, 130, 125)
	got := Compute(vals, 8)

	pivots := Pivots(got)
	if len(pivots) < 2 {
		t.Fatalf("expected at least two pivots, got %d", len(pivots))
	}
	for i := 1; i < len(pivots); i++ {
		if pivots[i].Value == pivots[i-1].Value {
			t.Fatalf("adjacent pivots equal at %d: %v", i, pivots[i].Value)
		}
		if pivots[i].Index <= pivots[i-1].Index {
			t.Fatalf("pivot indices must be strictly increasing")
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	in := fp(100, 104, 99, 112, 108, 95, 101, 120)
	a := Compute(in, 10)
	b := Compute(in, 10)
	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		switch {
		case a[i] == nil && b[i] == nil:
		case a[i] != nil && b[i] != nil && *a[i] == *b[i]:
		default:
			t.Fatalf("output differs at %d", i)
		}
	}
}
