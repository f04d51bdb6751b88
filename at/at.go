// Package at holds the Hayes AT vocabulary used to drive a dial-up modem:
// result tokens, the response classifier, CONNECT speed parsing and the
// line splitter shared by the serial line reader.
package at

const (
	// Terminal Control
	CR   = "\r"
	CRLF = "\r\n"

	// Response Codes
	OK         = "OK"
	ERROR      = "ERROR"
	Connect    = "CONNECT"
	NoCarrier  = "NO CARRIER"
	NoDialtone = "NO DIALTONE"
	Busy       = "BUSY"
	NoAnswer   = "NO ANSWER"

	// Unsolicited
	Ring       = "RING"
	Disconnect = "DISCONNECT"

	// Commands
	CmdAt     = "AT"
	CmdReset  = "ATZ"
	CmdAnswer = "ATA"
	CmdHangup = "ATH"

	// CommandSeparator joins several commands in one configured command string.
	CommandSeparator = ";"
)

// Result is the terminal outcome of an AT exchange.
type Result int

const (
	ResultNone       Result = iota // line carries no terminal token
	ResultOK                       // OK
	ResultConnect                  // CONNECT [speed][/protocol]
	ResultError                    // ERROR
	ResultNoCarrier                // NO CARRIER
	ResultBusy                     // BUSY
	ResultNoDialtone               // NO DIALTONE
	ResultNoAnswer                 // NO ANSWER
	ResultTimeout                  // no terminal line before the deadline
)

// String returns the wire token of the result.
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "NONE"
	case ResultOK:
		return OK
	case ResultConnect:
		return Connect
	case ResultError:
		return ERROR
	case ResultNoCarrier:
		return NoCarrier
	case ResultBusy:
		return Busy
	case ResultNoDialtone:
		return NoDialtone
	case ResultNoAnswer:
		return NoAnswer
	case ResultTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Success reports whether r ends an exchange successfully.
func (r Result) Success() bool {
	return r == ResultOK || r == ResultConnect
}

// Terminal reports whether r ends an exchange.
func (r Result) Terminal() bool {
	return r != ResultNone
}
