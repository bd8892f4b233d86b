package litecmp

import (
	"errors"
	"fmt"

	"github.com/pthm/litecmp/lib/dom"
	"github.com/pthm/litecmp/lib/encoding"
)

// Sentinel errors for component operations.
var (
	ErrInvalidTarget         = errors.New("litecmp: invalid mount target")
	ErrDuplicateRegistration = errors.New("litecmp: component already registered")
	ErrNotFound              = errors.New("litecmp: component not found")
	ErrRender                = errors.New("litecmp: render failed")
	ErrInvalidSelector       = dom.ErrInvalidSelector
	ErrInvalidSnapshot       = errors.New("litecmp: invalid snapshot")
)

// InvalidTargetError reports a mount target that did not resolve to exactly
// one host element.
type InvalidTargetError struct {
	Target  string
	Matches int
	Err     error
}

func (e *InvalidTargetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("litecmp: mount target %q: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("litecmp: mount target %q matched %d elements, want 1", e.Target, e.Matches)
}

func (e *InvalidTargetError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidTarget) succeed.
func (e *InvalidTargetError) Is(target error) bool {
	return target == ErrInvalidTarget
}

// DuplicateRegistrationError reports a second registration of the same ID.
type DuplicateRegistrationError struct {
	ID string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("litecmp: component %s already registered", e.ID)
}

// Is makes errors.Is(err, ErrDuplicateRegistration) succeed.
func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// IsInvalidTarget checks if err is a mount target error.
func IsInvalidTarget(err error) bool {
	return errors.Is(err, ErrInvalidTarget)
}

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate checks if err is a duplicate registration error.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateRegistration)
}

// wrapSnapshotError maps encoding package errors onto ErrInvalidSnapshot.
func wrapSnapshotError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed) {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return err
}
