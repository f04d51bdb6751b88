package modem

import (
	"errors"
	"time"
)

var errLineControlUnsupported = errors.New("line control not supported on this platform")

// lineControl reaches the tty settings go.bug.st/serial does not expose:
// the CLOCAL flag, a zero-speed DTR drop and the settings found at open.
type lineControl interface {
	// SetLocal sets or clears CLOCAL. Cleared, the line requires carrier.
	SetLocal(local bool) error
	// DropDTR sets the speed to zero for pause, then restores it.
	DropDTR(pause time.Duration) error
	// Restore reapplies the settings saved at open.
	Restore() error
	Close() error
}
