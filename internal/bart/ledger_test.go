package bart

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerAggregateExcludesPopped(t *testing.T) {
	l := NewLedger()
	must := func(r Round) {
		t.Helper()
		if err := l.Append(r); err != nil {
			t.Fatal(err)
		}
	}
	must(Round{Trial: 1, ExplosionPoint: 10, PumpCount: 5, Status: StatusCashedOut})
	if got := l.AggregateCashedOutPumps(); got != 5 {
		t.Fatalf("aggregate=%d want 5", got)
	}

	must(Round{Trial: 2, ExplosionPoint: 3, PumpCount: 3, Status: StatusPopped})
	if got := l.AggregateCashedOutPumps(); got != 5 {
		t.Fatalf("popped round changed aggregate: %d", got)
	}

	must(Round{Trial: 3, ExplosionPoint: 15, PumpCount: 7, Status: StatusCashedOut})
	if got := l.AggregateCashedOutPumps(); got != 12 {
		t.Fatalf("aggregate=%d want 12", got)
	}

	payout := decimal.RequireFromString("0.01")
	if got := l.TotalEarnings(payout); !got.Equal(decimal.RequireFromString("0.12")) {
		t.Fatalf("total=%s want 0.12", got)
	}
	// idempotent without intervening appends
	for i := 0; i < 3; i++ {
		if l.AggregateCashedOutPumps() != 12 || !l.TotalEarnings(payout).Equal(decimal.RequireFromString("0.12")) {
			t.Fatal("repeated query changed result")
		}
	}
	if l.Len() != 3 {
		t.Fatalf("len=%d", l.Len())
	}
}

func TestLedgerRejectsInProgress(t *testing.T) {
	l := NewLedger()
	err := l.Append(Round{Trial: 1, ExplosionPoint: 4, PumpCount: 2})
	if !errors.Is(err, ErrRoundInProgress) {
		t.Fatalf("err=%v want ErrRoundInProgress", err)
	}
	if l.Len() != 0 {
		t.Fatal("rejected round must not be stored")
	}
}

func TestLedgerRejectsOutOfOrder(t *testing.T) {
	l := NewLedger()
	if err := l.Append(Round{Trial: 2, PumpCount: 1, Status: StatusCashedOut}); !errors.Is(err, ErrTrialOrder) {
		t.Fatalf("err=%v want ErrTrialOrder", err)
	}
	if err := l.Append(Round{Trial: 1, PumpCount: 1, Status: StatusCashedOut}); err != nil {
		t.Fatal(err)
	}
	if err := l.Append(Round{Trial: 1, PumpCount: 1, Status: StatusCashedOut}); !errors.Is(err, ErrTrialOrder) {
		t.Fatalf("duplicate trial: err=%v", err)
	}
}

func TestLedgerEntriesIsSnapshot(t *testing.T) {
	l := NewLedger()
	if err := l.Append(Round{Trial: 1, PumpCount: 4, Status: StatusCashedOut}); err != nil {
		t.Fatal(err)
	}
	snap := l.Entries()
	snap[0].PumpCount = 99
	if l.AggregateCashedOutPumps() != 4 {
		t.Fatal("mutating a snapshot leaked into the ledger")
	}
}

func TestLedgerConcurrentReadsSeePrefix(t *testing.T) {
	l := NewLedger()
	const n = 200
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= n; i++ {
			_ = l.Append(Round{Trial: i, PumpCount: 1, Status: StatusCashedOut})
		}
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0
			for j := 0; j < n; j++ {
				got := l.AggregateCashedOutPumps()
				if got < last || got > n {
					t.Errorf("aggregate went from %d to %d", last, got)
					return
				}
				last = got
			}
		}()
	}
	wg.Wait()
	if l.AggregateCashedOutPumps() != n {
		t.Fatalf("final aggregate=%d", l.AggregateCashedOutPumps())
	}
}
