package at

import (
	"bufio"
	"bytes"
)

// isTerminator reports whether b ends a response line. Modems send CR LF, but
// a bare CR or LF is accepted as well.
func isTerminator(b byte) bool {
	return b == '\r' || b == '\n'
}

// Splitter is used for tokenizing modem responses. It uses the signature of
// bufio.SplitFunc so it can be used with bufio.Scanner as well as by the
// serial line reader.
//
// A line is the longest run of bytes before the first CR or LF. Runs of
// consecutive terminators are consumed together, so empty lines are never
// produced. When atEOF is true any remaining un-terminated bytes are returned
// as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isTerminator(data[start]) {
		start++
	}
	if start == len(data) {
		// Only terminators (or nothing): swallow them.
		return start, nil, nil
	}

	if i := bytes.IndexAny(data[start:], CRLF); i >= 0 {
		end := start + i
		next := end
		for next < len(data) && isTerminator(data[next]) {
			next++
		}
		return next, data[start:end], nil
	}

	if atEOF {
		return len(data), data[start:], nil
	}
	// Request more data, but let the caller drop the leading terminators.
	return start, nil, nil
}

var _ bufio.SplitFunc = Splitter
