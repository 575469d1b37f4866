package nhc

import (
	"bufio"
	"bytes"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// sniffBytes is how much of a stream is inspected when guessing its
// delimiter.
const sniffBytes = 64 * 1024

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// PeekDelimiter guesses the delimiter from the buffered head of br without
// consuming anything.
func PeekDelimiter(br *bufio.Reader) rune {
	head, _ := br.Peek(sniffBytes)
	if len(head) == 0 {
		return '\t'
	}

	// Only whole lines are useful to the detector.
	if i := bytes.LastIndexByte(head, '\n'); i > 0 {
		head = head[:i+1]
	}

	return DetermineDelimiter(bytes.NewReader(head))
}
