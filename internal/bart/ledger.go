package bart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is the append-only record of finished rounds, in trial order.
// Append and the aggregate queries exclude each other, so a reader always
// sees a whole prefix of finished rounds.
type Ledger struct {
	mu      sync.RWMutex
	entries []Round
}

func NewLedger() *Ledger { return &Ledger{} }

// Append records a copy of r. r must be terminal and, when it carries a
// trial number, must be the next one after the last entry.
func (l *Ledger) Append(r Round) error {
	if !r.Status.Terminal() {
		return fmt.Errorf("append trial %d: %w", r.Trial, ErrRoundInProgress)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Trial != 0 && r.Trial != len(l.entries)+1 {
		return fmt.Errorf("append trial %d after %d entries: %w", r.Trial, len(l.entries), ErrTrialOrder)
	}
	l.entries = append(l.entries, r)
	return nil
}

// Entries returns a snapshot copy.
func (l *Ledger) Entries() []Round {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Round(nil), l.entries...)
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// AggregateCashedOutPumps sums PumpCount over cashed-out entries only.
// Popped rounds contribute nothing however far they got.
func (l *Ledger) AggregateCashedOutPumps() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sumBanked(l.entries)
}

// TotalEarnings is AggregateCashedOutPumps * payoutPerPump.
func (l *Ledger) TotalEarnings(payoutPerPump decimal.Decimal) decimal.Decimal {
	return payoutPerPump.Mul(decimal.NewFromInt(int64(l.AggregateCashedOutPumps())))
}

func sumBanked(rs []Round) int {
	total := 0
	for i := range rs {
		total += rs[i].BankedPumps()
	}
	return total
}
