package datagen

import (
	"testing"
	"time"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int %d not in range [5, 10]", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(1.5, 3.5)
		if v < 1.5 || v > 3.5 {
			t.Errorf("Float64 %f not in range [1.5, 3.5]", v)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	d := f.DateRange(start, end)
	if d.Before(start) || d.After(end) {
		t.Errorf("DateRange %v not in range [%v, %v]", d, start, end)
	}
}

func TestFakerDigits(t *testing.T) {
	f := NewFaker()
	s := f.Digits(12)
	if len(s) != 12 {
		t.Errorf("Digits(12) should return 12 chars, got %d", len(s))
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Errorf("Digits should only contain digits, got: %c", c)
		}
	}
}

func TestFakerState(t *testing.T) {
	f := NewFaker()
	state := f.State()
	if len(state) != 2 {
		t.Errorf("State abbreviation should be 2 chars, got %d", len(state))
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 100; i++ {
		chosen := Choose(f, items)
		found := false
		for _, item := range items {
			if item == chosen {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned item not in slice: %s", chosen)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	var items []string

	chosen := Choose(f, items)
	if chosen != "" {
		t.Errorf("Choose on empty slice should return zero value, got: %s", chosen)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}
	weights := []int{1, 2, 7} // c should be chosen ~70% of the time

	counts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		counts[ChooseWeighted(f, items, weights)]++
	}

	if counts["c"] < counts["a"] || counts["c"] < counts["b"] {
		t.Errorf("Weighted choice distribution unexpected: %v", counts)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello" {
		t.Errorf("Truncate should truncate to 5, got: %s", got)
	}
	if got := Truncate("hi", 10); got != "hi" {
		t.Errorf("Truncate should not modify shorter string, got: %s", got)
	}
}
