package lookup

import (
	"errors"
	"sync"

	"github.com/rulerankit14/buy-instagram-followers/internal/instagram"
	"github.com/rulerankit14/buy-instagram-followers/internal/username"
)

// ErrNotConfirmable is returned when Confirm is called in a state whose
// result cannot be claimed by the user.
var ErrNotConfirmable = errors.New("lookup: state is not confirmable")

// Binder tracks which lookup result the user has explicitly accepted as
// "this is my account". A confirmation is a claim about one specific string:
// it is cleared, never silently reused, as soon as the input diverges from
// it.
type Binder struct {
	mu        sync.Mutex
	confirmed string
	set       bool
}

// NewBinder returns an empty binder.
func NewBinder() *Binder {
	return &Binder{}
}

// Confirm records the state's username as user-confirmed. Only a found or
// blocked result can be confirmed: found because the account matched, and
// blocked because Instagram could not disprove it and the user may vouch for
// it manually.
func (b *Binder) Confirm(st State) error {
	if st.Phase != PhaseResult {
		return ErrNotConfirmable
	}
	switch st.Result.Status {
	case instagram.StatusFound, instagram.StatusBlocked:
	default:
		return ErrNotConfirmable
	}
	if st.Result.Username == "" {
		return ErrNotConfirmable
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmed = st.Result.Username
	b.set = true
	return nil
}

// IsConfirmedFor reports whether a confirmation exists for the given
// normalized input. Comparison is case-insensitive.
func (b *Binder) IsConfirmedFor(current string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.set && current != "" && username.Equal(b.confirmed, current)
}

// ObserveInput clears the confirmation when the current normalized input no
// longer refers to the confirmed username.
func (b *Binder) ObserveInput(current string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.set && !username.Equal(b.confirmed, current) {
		b.confirmed = ""
		b.set = false
	}
}

// Clear drops any confirmation, for example when the form session is
// discarded.
func (b *Binder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmed = ""
	b.set = false
}

// SubmitEligible reports whether the form may be submitted: the lookup state
// is a found or blocked result, the user has confirmed that username, the
// confirmation still refers to the current input, and every other form field
// is independently valid. The check has no hidden one-shot state; evaluating
// it twice with the same inputs yields the same answer.
func (b *Binder) SubmitEligible(st State, current string, otherFieldsValid bool) bool {
	if !otherFieldsValid {
		return false
	}
	if st.Phase != PhaseResult {
		return false
	}
	switch st.Result.Status {
	case instagram.StatusFound, instagram.StatusBlocked:
	default:
		return false
	}
	return b.IsConfirmedFor(current)
}
