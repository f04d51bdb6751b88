package at

import "strings"

// classifyOrder lists tokens in match priority. CONNECT comes first so that a
// connect line is never taken for OK or ERROR, and the call failure tokens
// precede OK and ERROR for the same reason.
var classifyOrder = []struct {
	token  string
	result Result
}{
	{Connect, ResultConnect},
	{NoCarrier, ResultNoCarrier},
	{Busy, ResultBusy},
	{NoDialtone, ResultNoDialtone},
	{NoAnswer, ResultNoAnswer},
	{OK, ResultOK},
	{ERROR, ResultError},
}

// Classify returns the terminal result carried by a response line, matching
// tokens as substrings in priority order. Lines without a terminal token
// (echoes, information text, RING) yield ResultNone.
func Classify(line string) Result {
	for _, c := range classifyOrder {
		if strings.Contains(line, c.token) {
			return c.result
		}
	}
	return ResultNone
}

// IsRing reports whether line is a ring notification.
func IsRing(line string) bool {
	return strings.Contains(line, Ring)
}

// errorTokens are looked for in data received while a call is up.
var errorTokens = []string{NoCarrier, ERROR, Disconnect}

// ErrorToken returns the first line-failure token found in s, or "".
func ErrorToken(s string) string {
	for _, tok := range errorTokens {
		if strings.Contains(s, tok) {
			return tok
		}
	}
	return ""
}

// SplitCommands splits a configured command string on ';' and trims leading
// blanks from each command. Empty commands are dropped.
func SplitCommands(s string) []string {
	var cmds []string
	for _, cmd := range strings.Split(s, CommandSeparator) {
		cmd = strings.TrimLeft(cmd, " \t")
		if cmd == "" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}
