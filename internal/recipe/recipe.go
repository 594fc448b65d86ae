package recipe

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const opComment = "COMMENT"

// One logical line of a recipe: an uppercased operator, the remainder of
// the line after the operator, and the original text the line was parsed
// from (with any line continuations joined back in).
//
// Immutable once parsed.
type Instruction struct {
	Op      string
	Value   string
	RawLine string
}

// Parses r into an ordered sequence of Instruction. Blank lines are
// dropped. A non-comment line ending in a backslash continues onto the next
// physical line; RawLine preserves all of the joined physical lines
// separated by newlines, so a comment-only edit still changes RawLine (and
// therefore any hash computed over it).
func Parse(r io.Reader) ([]Instruction, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var instructions []Instruction
	var pending []string

	for scanner.Scan() {
		pending = append(pending, scanner.Text())

		if continues(pending[len(pending)-1]) {
			continue
		}

		if instr := parseLogicalLine(pending); instr != nil {
			instructions = append(instructions, *instr)
		}
		pending = nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	// A trailing backslash with no following line: parse what we have.
	if len(pending) > 0 {
		if instr := parseLogicalLine(pending); instr != nil {
			instructions = append(instructions, *instr)
		}
	}

	return instructions, nil
}

func continues(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return false
	}
	return strings.HasSuffix(strings.TrimRight(line, " \t"), "\\")
}

func parseLogicalLine(lines []string) *Instruction {
	rawLine := strings.Join(lines, "\n")

	logical := joinLogical(lines)
	logical = strings.TrimSpace(logical)
	if logical == "" {
		return nil
	}

	if strings.HasPrefix(logical, "#") {
		return &Instruction{
			Op:      opComment,
			Value:   strings.TrimSpace(strings.TrimPrefix(logical, "#")),
			RawLine: rawLine,
		}
	}

	op, value := splitToken(logical)
	return &Instruction{
		Op:      strings.ToUpper(op),
		Value:   value,
		RawLine: rawLine,
	}
}

// Joins continuation lines into one logical line, stripping the trailing
// backslash of every line but the last.
func joinLogical(lines []string) string {
	parts := make([]string, 0, len(lines))
	for i, line := range lines {
		l := line
		if i < len(lines)-1 {
			l = strings.TrimRight(l, " \t")
			l = strings.TrimSuffix(l, "\\")
		}
		parts = append(parts, strings.TrimSpace(l))
	}
	return strings.Join(parts, " ")
}

// Splits s on its first run of whitespace into a leading token and the
// (trimmed) remainder.
func splitToken(s string) (token, rest string) {
	i := strings.IndexAny(s, " \t")
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
