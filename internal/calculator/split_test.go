package calculator

import (
	"errors"
	"testing"

	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/models"
)

func TestSharedTotal(t *testing.T) {
	tests := []struct {
		name        string
		items       []models.Item
		statedTotal int64
		want        int64
	}{
		{
			name:        "no items falls back to stated total",
			items:       nil,
			statedTotal: 9000,
			want:        9000,
		},
		{
			name: "personal items excluded",
			items: []models.Item{
				{Name: "Pizza", Price: 2000},
				{Name: "Beer", Price: 1000, Personal: true},
				{Name: "Salad", Price: 1500},
			},
			statedTotal: 4500,
			want:        3500,
		},
		{
			name: "all items personal",
			items: []models.Item{
				{Name: "Cigarettes", Price: 800, Personal: true},
			},
			statedTotal: 800,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SharedTotal(tt.items, tt.statedTotal); got != tt.want {
				t.Errorf("SharedTotal = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckItemTotal(t *testing.T) {
	tests := []struct {
		name        string
		items       []models.Item
		statedTotal int64
		wantErr     bool
	}{
		{
			name:        "no items always passes",
			statedTotal: 5000,
		},
		{
			name:        "exact match",
			items:       []models.Item{{Price: 3000}, {Price: 2000}},
			statedTotal: 5000,
		},
		{
			name:        "within tolerance",
			items:       []models.Item{{Price: 2700}, {Price: 2000}},
			statedTotal: 5000,
		},
		{
			name:        "at the tolerance boundary",
			items:       []models.Item{{Price: 4500}},
			statedTotal: 5000,
		},
		{
			name:        "beyond tolerance low",
			items:       []models.Item{{Price: 4499}},
			statedTotal: 5000,
			wantErr:     true,
		},
		{
			name:        "beyond tolerance high",
			items:       []models.Item{{Price: 6000}},
			statedTotal: 5000,
			wantErr:     true,
		},
		{
			name:        "personal items count toward the check",
			items:       []models.Item{{Price: 2500}, {Price: 2500, Personal: true}},
			statedTotal: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckItemTotal(tt.items, tt.statedTotal)
			if tt.wantErr {
				if !errors.Is(err, ledger.ErrInconsistentSplit) {
					t.Errorf("got %v, want ErrInconsistentSplit", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEvenShares(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		n     int
		want  []int64
	}{
		{"divides exactly", 9000, 3, []int64{3000, 3000, 3000}},
		{"remainder spread one cent at a time", 10000, 3, []int64{3334, 3333, 3333}},
		{"single participant", 700, 1, []int64{700}},
		{"zero participants", 700, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvenShares(tt.total, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			var sum int64
			for i, share := range got {
				if share != tt.want[i] {
					t.Errorf("share[%d] = %d, want %d", i, share, tt.want[i])
				}
				sum += share
			}
			if tt.n > 0 && sum != tt.total {
				t.Errorf("shares sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestShares(t *testing.T) {
	t.Run("maps participants in order", func(t *testing.T) {
		shares := Shares(10000, []string{"alice", "bob", "carol"})
		if shares["alice"] != 3334 || shares["bob"] != 3333 || shares["carol"] != 3333 {
			t.Errorf("unexpected shares: %v", shares)
		}
	})

	t.Run("degenerate inputs produce nothing", func(t *testing.T) {
		if s := Shares(10000, nil); s != nil {
			t.Errorf("expected nil for no participants, got %v", s)
		}
		if s := Shares(0, []string{"alice"}); s != nil {
			t.Errorf("expected nil for zero total, got %v", s)
		}
		if s := Shares(-100, []string{"alice"}); s != nil {
			t.Errorf("expected nil for negative total, got %v", s)
		}
	})
}
