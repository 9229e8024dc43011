package rng

import "testing"

func TestFloat64RangeAndDeterminism(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of range [0, 1): %f", v)
		}
	}

	a := New(42)
	b := New(42)
	for i := 0; i < 50; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("same seed produced diverging sequences at draw %d", i)
		}
	}
}

func TestUniformRespectsBounds(t *testing.T) {
	s := New(2)
	for i := 0; i < 1000; i++ {
		v := s.Uniform(-5, 5)
		if v < -5 || v >= 5 {
			t.Fatalf("Uniform(-5, 5) out of range: %f", v)
		}
	}
}

func TestUniformDegenerateRangeReturnsLow(t *testing.T) {
	s := New(3)
	if v := s.Uniform(2, 2); v != 2 {
		t.Errorf("expected degenerate range to return lo, got %f", v)
	}
	if v := s.Uniform(5, 2); v != 5 {
		t.Errorf("expected hi <= lo to return lo, got %f", v)
	}
}

func TestIntnRespectsUpperBound(t *testing.T) {
	s := New(4)
	for i := 0; i < 1000; i++ {
		v := s.Intn(7)
		if v < 0 || v >= 7 {
			t.Fatalf("Intn(7) out of range: %d", v)
		}
	}
	if v := s.Intn(0); v != 0 {
		t.Errorf("expected Intn(0) to return 0, got %d", v)
	}
}

func TestChanceConvergesToProbability(t *testing.T) {
	s := New(5)
	trueCount := 0
	const trials = 20000
	for i := 0; i < trials; i++ {
		if s.Chance(0.3) {
			trueCount++
		}
	}
	ratio := float64(trueCount) / float64(trials)
	if ratio < 0.27 || ratio > 0.33 {
		t.Errorf("expected Chance(0.3) to converge near 0.3 over %d trials, got %f", trials, ratio)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	s := New(6)
	n := 10
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	s.Shuffle(n, func(i, j int) { items[i], items[j] = items[j], items[i] })

	seen := make(map[int]bool, n)
	for _, v := range items {
		seen[v] = true
	}
	if len(seen) != n {
		t.Errorf("shuffle did not produce a permutation: %v", items)
	}
}

func TestNormalCentersOnMean(t *testing.T) {
	s := New(7)
	var sum float64
	const trials = 20000
	for i := 0; i < trials; i++ {
		sum += s.Normal(10, 1)
	}
	mean := sum / trials
	if mean < 9.8 || mean > 10.2 {
		t.Errorf("expected Normal(10, 1) to average near 10 over %d trials, got %f", trials, mean)
	}
}
