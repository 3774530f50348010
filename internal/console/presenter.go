// Package console renders a task as plain text for the terminal runner.
package console

import (
	"fmt"
	"io"

	"github.com/xtding233/bart-backend/internal/bart"
	"github.com/xtding233/bart-backend/internal/money"
)

// Presenter is a bart.Observer that writes each screen to W.
type Presenter struct {
	W      io.Writer
	Format money.FormatFunc
	Config bart.Config
}

func NewPresenter(w io.Writer, format money.FormatFunc, cfg bart.Config) *Presenter {
	return &Presenter{W: w, Format: format, Config: cfg}
}

// Instructions prints the opening screen.
func (p *Presenter) Instructions() {
	fmt.Fprintln(p.W, "Balloon Analog Risk Task (BART)")
	fmt.Fprintln(p.W, "In this task, you will inflate a balloon to earn money.")
	fmt.Fprintf(p.W, "Type pump to inflate the balloon and earn %s per pump.\n", p.Format(p.Config.PayoutPerPump))
	fmt.Fprintln(p.W, "Type collect to save your money and end the round.")
	fmt.Fprintln(p.W, "If the balloon pops, you lose the money for that round!")
}

func (p *Presenter) RoundStarted(pr bart.Progress) {
	fmt.Fprintf(p.W, "\nRound %d of %d\n", pr.Trial, pr.NumTrials)
	p.earnings(pr)
}

func (p *Presenter) ActionApplied(_ bart.Action, pr bart.Progress) {
	if pr.Status == bart.StatusInProgress {
		p.earnings(pr)
	}
}

func (p *Presenter) RoundFinished(o bart.Outcome) {
	if o.Round.Status == bart.StatusPopped {
		fmt.Fprintf(p.W, "POP! The balloon exploded. You earned %s this round.\n", p.Format(o.RoundEarnings))
	} else {
		fmt.Fprintf(p.W, "You collected %s this round.\n", p.Format(o.RoundEarnings))
	}
	fmt.Fprintf(p.W, "Total earnings across all rounds: %s\n", p.Format(o.TotalEarnings))
}

func (p *Presenter) TaskFinished(s bart.Summary) {
	fmt.Fprintln(p.W, "\nThank you for participating.")
	fmt.Fprintf(p.W, "Total earnings across all rounds: %s\n", p.Format(s.TotalEarnings))
}

func (p *Presenter) earnings(pr bart.Progress) {
	fmt.Fprintf(p.W, "Possible earnings this round: %s\n", p.Format(pr.EarningsSoFar))
}
