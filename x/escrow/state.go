package escrow

import (
	"encoding/json"

	"github.com/iov-one/htlc/errors"
)

// State is the lifecycle stage of an escrow. Released and Refunded are
// terminal.
type State int32

const (
	StateNew State = iota + 1
	StateLocked
	StateReleased
	StateRefunded
)

var stateNames = map[State]string{
	StateNew:      "new",
	StateLocked:   "locked",
	StateReleased: "released",
	StateRefunded: "refunded",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// IsTerminal returns true if no transition is possible from this state.
func (s State) IsTerminal() bool {
	return s == StateReleased || s == StateRefunded
}

func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errors.Wrapf(errors.ErrState, "unknown state %d", s)
	}
	return nil
}

// ParseState returns the state of given name.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown state %q", name)
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	parsed, err := ParseState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
