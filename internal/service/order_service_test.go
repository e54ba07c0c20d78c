package service

import (
	"strings"
	"testing"
)

func TestNewOrderID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := newOrderID()
		if !strings.HasPrefix(id, "order_") {
			t.Fatalf("id %q missing order_ prefix", id)
		}
		if len(id) != len("order_")+10 {
			t.Fatalf("id %q has wrong length", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestAllocateUserID(t *testing.T) {
	tests := []struct {
		name string
		used []int
		want int
	}{
		{"empty pool", nil, 10},
		{"first gap", []int{10, 11, 13}, 12},
		{"pool exhausted", rangeInts(10, 99), 100},
		{"sequential past pool", append(rangeInts(10, 99), 100, 101), 102},
		{"ignores ids below pool", []int{1, 2, 3}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allocateUserID(tt.used); got != tt.want {
				t.Errorf("allocateUserID(%v) = %d, want %d", tt.used, got, tt.want)
			}
		})
	}
}

func rangeInts(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
