package booking

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrAlreadyTerminal      = errors.New("booking is not pending")
	ErrNotConfirmed         = errors.New("booking is not confirmed")
	ErrAlreadyConverted     = errors.New("booking has already been converted to a shoot")
	ErrNoAvailability       = errors.New("no available slot for the requested window")
	ErrNotBookingOwner      = errors.New("you can only manage your own bookings")
	ErrPhotographerRequired = errors.New("no photographer requested and none supplied")
	ErrDuplicateReference   = errors.New("booking reference already exists")
	ErrPackageNotFound      = errors.New("service package not found")
)

// ValidationErrors maps field names to human-readable validation failures
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return "validation failed"
}
