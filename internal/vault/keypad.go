package vault

import (
	"context"
	"sync"

	"github.com/keepsakehq/keepsake/internal/errors"
)

// PinLength is the fixed PIN size. The fourth digit evaluates
// automatically; there is no submit action.
const PinLength = 4

// State is the keypad's outer authentication state.
type State string

const (
	StateSetup    State = "setup"    // no PIN configured yet
	StateLocked   State = "locked"   // PIN configured, vault sealed
	StateUnlocked State = "unlocked" // vault open
)

// Step is the entry phase shown on the keypad while not unlocked.
type Step string

const (
	StepEnter   Step = "enter"   // verifying against the stored PIN
	StepCreate  Step = "create"  // choosing a new PIN
	StepConfirm Step = "confirm" // re-entering the candidate
)

// Snapshot is the keypad's observable state at one instant. Digits counts
// buffered entries; the digits themselves are never exposed.
type Snapshot struct {
	State    State            `json:"state"`
	Step     Step             `json:"step"`
	Digits   int              `json:"digits"`
	Scanning bool             `json:"scanning"`
	Error    errors.ErrorCode `json:"error,omitempty"`
}

// Keypad is the vault's PIN entry state machine. All mutations are
// serialized behind one mutex; surfaces share a single instance.
//
// Digit presses accumulate in a buffer and the fourth digit evaluates
// immediately. Failed attempts raise a sticky error flag that the next
// press, backspace, or transition clears. There is no attempt limit.
type Keypad struct {
	mu sync.Mutex

	store Store
	bio   BiometricService

	state     State
	step      Step
	buffer    []byte
	candidate string
	flag      errors.ErrorCode
	encoded   string // cached PIN record, "" when none stored

	// gen invalidates in-flight biometric scans: a verdict captured under
	// an older generation is stale and dropped.
	gen      uint64
	scanning bool
	scanDone chan struct{}
}

// NewKeypad builds a keypad seeded from the PIN store: Setup when no PIN
// has ever been configured, Locked otherwise.
func NewKeypad(ctx context.Context, store Store, bio BiometricService) (*Keypad, error) {
	encoded, ok, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}

	k := &Keypad{
		store: store,
		bio:   bio,
	}
	if ok {
		k.encoded = encoded
		k.state = StateLocked
		k.step = StepEnter
	} else {
		k.state = StateSetup
		k.step = StepCreate
	}
	return k, nil
}

// Snapshot returns the current observable state.
func (k *Keypad) Snapshot() Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.snapshotLocked()
}

func (k *Keypad) snapshotLocked() Snapshot {
	return Snapshot{
		State:    k.state,
		Step:     k.step,
		Digits:   len(k.buffer),
		Scanning: k.scanning,
		Error:    k.flag,
	}
}

// Unlocked reports whether the vault is currently open.
func (k *Keypad) Unlocked() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state == StateUnlocked
}

// Press feeds one digit (0-9) into the buffer. Presses are ignored while
// a scan is running, while already unlocked, or past the fourth digit.
// The fourth digit triggers evaluation for the current step.
func (k *Keypad) Press(ctx context.Context, digit int) (Snapshot, error) {
	if digit < 0 || digit > 9 {
		return Snapshot{}, errors.NewInvalidRequest("digit must be 0-9")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.state == StateUnlocked || k.scanning || len(k.buffer) >= PinLength {
		return k.snapshotLocked(), nil
	}

	k.flag = ""
	k.buffer = append(k.buffer, byte('0'+digit))

	if len(k.buffer) == PinLength {
		if err := k.evaluateLocked(ctx); err != nil {
			return Snapshot{}, err
		}
	}
	return k.snapshotLocked(), nil
}

// Backspace drops the most recent digit and clears any error flag.
func (k *Keypad) Backspace() Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.flag = ""
	if n := len(k.buffer); n > 0 {
		k.buffer = k.buffer[:n-1]
	}
	return k.snapshotLocked()
}

// evaluateLocked consumes the full buffer according to the current step.
// Caller holds the mutex.
func (k *Keypad) evaluateLocked(ctx context.Context) error {
	entered := string(k.buffer)
	k.buffer = k.buffer[:0]

	switch k.step {
	case StepEnter:
		match, err := Verify(k.encoded, entered)
		if err != nil {
			return err
		}
		if match {
			k.unlockLocked()
		} else {
			k.flag = errors.ErrWrongPin
		}

	case StepCreate:
		k.candidate = entered
		k.step = StepConfirm

	case StepConfirm:
		if entered != k.candidate {
			k.candidate = ""
			k.flag = errors.ErrPinMismatch
			k.step = StepCreate
			return nil
		}

		encoded, err := Hash(entered)
		if err != nil {
			return err
		}
		if err := k.store.Set(ctx, encoded); err != nil {
			return err
		}
		k.encoded = encoded
		k.candidate = ""
		k.unlockLocked()
	}
	return nil
}

func (k *Keypad) unlockLocked() {
	k.state = StateUnlocked
	k.flag = ""
	k.gen++
	k.scanning = false
}

// Lock seals the vault and resets all entry state. Safe from any state:
// with a PIN configured it lands on Locked, otherwise back on Setup.
func (k *Keypad) Lock() Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.buffer = k.buffer[:0]
	k.candidate = ""
	k.flag = ""
	k.gen++
	k.scanning = false

	if k.encoded != "" {
		k.state = StateLocked
		k.step = StepEnter
	} else {
		k.state = StateSetup
		k.step = StepCreate
	}
	return k.snapshotLocked()
}

// AttemptBiometric starts an asynchronous scan. Only valid from the
// locked enter step; a scan already in progress is left alone. The
// verdict lands later as an ordinary transition, and is dropped as stale
// if the keypad moved on in the meantime.
func (k *Keypad) AttemptBiometric(ctx context.Context) (Snapshot, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.state != StateLocked || k.step != StepEnter {
		return Snapshot{}, errors.NewInvalidRequest("biometric unlock requires a locked vault")
	}
	if k.scanning {
		return k.snapshotLocked(), nil
	}

	k.flag = ""
	k.scanning = true
	k.scanDone = make(chan struct{})
	gen := k.gen
	done := k.scanDone

	// The scan outlives the request that started it; there is no
	// cancellation, only staleness via gen. A web caller's context ends
	// when its handler returns, long before the sensor resolves.
	scanCtx := context.WithoutCancel(ctx)

	go func() {
		ok, err := k.bio.Scan(scanCtx)
		k.resolveBiometric(gen, ok && err == nil)
		close(done)
	}()

	return k.snapshotLocked(), nil
}

func (k *Keypad) resolveBiometric(gen uint64, ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if gen != k.gen || !k.scanning {
		return // stale verdict
	}
	k.scanning = false

	if ok {
		k.unlockLocked()
	} else {
		k.flag = errors.ErrBiometricFailure
	}
}
