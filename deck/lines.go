package deck

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const maxLineLength = 1024 * 1024

// lineReader yields trimmed, non-blank, non-comment lines and can push back
// one line so a section reader can stop at the next keyword
type lineReader struct {
	scanner *bufio.Scanner
	file    string
	lineNo  int
	text    string
	held    bool
}

func newLineReader(r io.Reader, file string) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	return &lineReader{scanner: scanner, file: file}
}

func (lr *lineReader) next() (string, bool) {
	if lr.held {
		lr.held = false
		return lr.text, true
	}
	for lr.scanner.Scan() {
		lr.lineNo++
		line := strings.TrimSpace(lr.scanner.Text())
		if len(line) == 0 || isComment(line) {
			continue
		}
		lr.text = line
		return line, true
	}
	return "", false
}

func (lr *lineReader) unread() { lr.held = true }

func (lr *lineReader) err() error {
	if err := lr.scanner.Err(); err != nil {
		return &LineError{File: lr.file, Line: lr.lineNo, Err: err}
	}
	return nil
}

// nextData returns the next data line, pushing back a keyword line
func (lr *lineReader) nextData() (string, bool) {
	line, ok := lr.next()
	if !ok {
		return "", false
	}
	if isKeyword(line) {
		lr.unread()
		return "", false
	}
	return line, true
}

func (lr *lineReader) errorf(err error) error {
	return &LineError{File: lr.file, Line: lr.lineNo, Text: lr.text, Err: err}
}

// fields splits a data line on commas, dropping empty fields
func fields(line string) (out []string) {
	for _, f := range strings.Split(line, ",") {
		if f = strings.TrimSpace(f); len(f) != 0 {
			out = append(out, f)
		}
	}
	return
}

// parseInts converts every field, failing on the first non integer
func parseInts(fs []string) (ids []int, err error) {
	ids = make([]int, len(fs))
	for i, f := range fs {
		if ids[i], err = strconv.Atoi(f); err != nil {
			return nil, err
		}
	}
	return
}
