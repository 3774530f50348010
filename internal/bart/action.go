package bart

import (
	"fmt"
	"strings"
)

// Action is a player's choice while a round is in progress.
type Action int

const (
	ActionPump Action = iota
	ActionCollect
)

func (a Action) String() string {
	switch a {
	case ActionPump:
		return "pump"
	case ActionCollect:
		return "collect"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction accepts "pump"/"p"/"0" and "collect"/"c"/"1" (button order), case-insensitive.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pump", "p", "0":
		return ActionPump, nil
	case "collect", "c", "1", "cash", "cashout":
		return ActionCollect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (a Action) MarshalText() ([]byte, error) {
	switch a {
	case ActionPump, ActionCollect:
		return []byte(a.String()), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
}

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
