package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xtding233/bart-backend/internal/bart"
	"github.com/xtding233/bart-backend/internal/money"
)

func TestPresenterTranscript(t *testing.T) {
	var buf bytes.Buffer
	// explosion point is always 3
	cfg := bart.NewConfig(2, 3, 3, bart.DefaultPayoutPerPump)
	p := NewPresenter(&buf, money.USD().Func(), cfg)
	p.Instructions()

	o := bart.NewOrchestrator(cfg, nil, p)
	src := bart.NewReaderSource(strings.NewReader("pump\npump\ncollect\npump\npump\npump\n"))
	if _, err := o.RunAll(context.Background(), src); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"earn $0.01 per pump",
		"Round 1 of 2",
		"Possible earnings this round: $0.02",
		"You collected $0.02 this round.",
		"POP! The balloon exploded. You earned $0.00 this round.",
		"Thank you for participating.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "Total earnings across all rounds: $0.02"); got != 3 {
		t.Fatalf("total line printed %d times:\n%s", got, out)
	}
}
