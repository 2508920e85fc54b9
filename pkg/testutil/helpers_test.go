package testutil

import (
	"testing"
)

type sample struct {
	Name  string
	Value float64
}

func TestFindBy(t *testing.T) {
	items := []sample{
		{Name: "Scenario A", Value: 1000},
		{Name: "Scenario B", Value: 2000},
		{Name: "Duplicate", Value: 3000},
		{Name: "Duplicate", Value: 4000},
	}

	tests := []struct {
		name          string
		searchName    string
		expectFound   bool
		expectedValue float64
	}{
		{"Find existing A", "Scenario A", true, 1000},
		{"Find existing B", "Scenario B", true, 2000},
		{"Duplicate returns first", "Duplicate", true, 3000},
		{"Missing", "Non-existent", false, 0},
		{"Empty search name", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindBy(items, func(s sample) bool { return s.Name == tt.searchName })
			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindBy() expected nil for %q but got %+v", tt.searchName, *result)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindBy() expected to find %q but got nil", tt.searchName)
			}
			if result.Value != tt.expectedValue {
				t.Errorf("FindBy() value = %v, expected %v", result.Value, tt.expectedValue)
			}
		})
	}
}

func TestFindByReturnsPointer(t *testing.T) {
	items := []sample{{Name: "Test", Value: 1}}

	found := FindBy(items, func(s sample) bool { return s.Name == "Test" })
	if found == nil {
		t.Fatalf("FindBy() returned nil")
	}
	if &items[0] != found {
		t.Errorf("FindBy() should return pointer to original element")
	}

	found.Value = 2
	if items[0].Value != 2 {
		t.Errorf("Modifying through returned pointer should modify original")
	}
}

func TestFindByNilSlice(t *testing.T) {
	var items []sample
	if result := FindBy(items, func(sample) bool { return true }); result != nil {
		t.Errorf("FindBy() with nil slice should return nil, got %v", result)
	}
}

func TestInDelta(t *testing.T) {
	tests := []struct {
		name      string
		got       float64
		expected  float64
		tolerance float64
		want      bool
	}{
		{"Exact", 1.5, 1.5, 0, true},
		{"Within", 100.004, 100, 0.01, true},
		{"Boundary", 100.5, 100, 0.5, true},
		{"Outside", 100.02, 100, 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InDelta(tt.got, tt.expected, tt.tolerance); got != tt.want {
				t.Errorf("InDelta(%v, %v, %v) = %t, expected %t", tt.got, tt.expected, tt.tolerance, got, tt.want)
			}
		})
	}
}

func TestNewRandIsDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("NewRand(42) draw %d differs: %v != %v", i, x, y)
		}
	}
}
