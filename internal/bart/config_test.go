package bart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewConfigClamps(t *testing.T) {
	cent := decimal.RequireFromString("0.01")
	cases := []struct {
		name                   string
		trials, minP, maxP     int
		payout                 decimal.Decimal
		wantT, wantMin, wantMx int
		wantPayout             string
	}{
		{"valid", 5, 1, 20, cent, 5, 1, 20, "0.01"},
		{"zero trials", 0, 1, 20, cent, 1, 1, 20, "0.01"},
		{"negative everything", -3, -1, -7, decimal.NewFromInt(-2), 1, 1, 1, "0.01"},
		{"max below min", 2, 8, 4, cent, 2, 8, 8, "0.01"},
		{"zero payout", 1, 1, 2, decimal.Zero, 1, 1, 2, "0.01"},
		{"custom payout", 3, 2, 9, decimal.RequireFromString("0.25"), 3, 2, 9, "0.25"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig(tc.trials, tc.minP, tc.maxP, tc.payout)
			if c.NumTrials != tc.wantT || c.MinPumps != tc.wantMin || c.MaxPumps != tc.wantMx {
				t.Fatalf("got trials=%d min=%d max=%d; want %d %d %d",
					c.NumTrials, c.MinPumps, c.MaxPumps, tc.wantT, tc.wantMin, tc.wantMx)
			}
			if !c.PayoutPerPump.Equal(decimal.RequireFromString(tc.wantPayout)) {
				t.Fatalf("payout=%s want %s", c.PayoutPerPump, tc.wantPayout)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.NumTrials != 5 || c.MinPumps != 1 || c.MaxPumps != 20 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if got := c.Earnings(5); !got.Equal(decimal.RequireFromString("0.05")) {
		t.Fatalf("5 pumps at default payout = %s, want 0.05", got)
	}
}
