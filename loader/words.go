package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseWords reads a text program: one instruction word per line, written
// in any Go integer literal form (0x..., 0b..., decimal, with optional _
// separators). Text after '#' or "//" is a comment; blank lines are
// skipped.
func ParseWords(r io.Reader) ([]uint32, error) {
	var words []uint32

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if i := strings.Index(text, "#"); i >= 0 {
			text = text[:i]
		}
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		v, err := strconv.ParseUint(text, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid word %q: %w", line, text, err)
		}
		words = append(words, uint32(v))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program text: %w", err)
	}

	return words, nil
}
