// Package ranges parses cut-style position lists: comma-separated 1-based
// indexes and ranges ("2", "4-7", "3-", "-5") describing which characters,
// bytes, or fields of each record to keep.
package ranges

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Span is a zero-based half-open interval. An open-ended span ("3-") has
// End == math.MaxInt and is clamped to the record length on extraction.
type Span struct {
	Start int
	End   int
}

// List is an ordered set of spans. Order matters: selected positions are
// emitted in list order, and overlapping spans repeat their positions.
type List []Span

var (
	boundedRE = regexp.MustCompile(`^(\d+)-(\d+)$`)
	fromRE    = regexp.MustCompile(`^(\d+)-$`)
	toRE      = regexp.MustCompile(`^-(\d+)$`)
)

func illegalValue(value string) error {
	return fmt.Errorf("illegal list value: %q", value)
}

// parseIndex parses a 1-based position. A leading "+" or a zero is rejected
// the same way cut rejects them.
func parseIndex(value string) (int, error) {
	if strings.HasPrefix(value, "+") {
		return 0, illegalValue(value)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, illegalValue(value)
	}
	return n, nil
}

// Parse converts a position list into spans.
func Parse(value string) (List, error) {
	var out List
	for _, item := range strings.Split(value, ",") {
		span, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, span)
	}
	return out, nil
}

func parseItem(item string) (Span, error) {
	if n, err := parseIndex(item); err == nil {
		return Span{Start: n - 1, End: n}, nil
	}

	if m := boundedRE.FindStringSubmatch(item); m != nil {
		start, err := parseIndex(m[1])
		if err != nil {
			return Span{}, err
		}
		end, err := parseIndex(m[2])
		if err != nil {
			return Span{}, err
		}
		if start >= end {
			return Span{}, fmt.Errorf(
				"First number in range (%d) must be lower than second number (%d)",
				start, end)
		}
		return Span{Start: start - 1, End: end}, nil
	}

	if m := fromRE.FindStringSubmatch(item); m != nil {
		start, err := parseIndex(m[1])
		if err != nil {
			return Span{}, err
		}
		return Span{Start: start - 1, End: math.MaxInt}, nil
	}

	if m := toRE.FindStringSubmatch(item); m != nil {
		end, err := parseIndex(m[1])
		if err != nil {
			return Span{}, err
		}
		return Span{Start: 0, End: end}, nil
	}

	return Span{}, illegalValue(item)
}

func (s Span) clamp(length int) (int, int) {
	end := s.End
	if end > length {
		end = length
	}
	return s.Start, end
}

// ExtractChars selects characters of line by list order. Out-of-range
// positions are ignored.
func ExtractChars(line string, list List) string {
	runes := []rune(line)
	var out []rune
	for _, span := range list {
		start, end := span.clamp(len(runes))
		for i := start; i < end; i++ {
			out = append(out, runes[i])
		}
	}
	return string(out)
}

// ExtractBytes selects bytes of line by list order. Partial multi-byte
// characters at span boundaries are replaced rather than rejected.
func ExtractBytes(line string, list List) string {
	raw := []byte(line)
	var out []byte
	for _, span := range list {
		start, end := span.clamp(len(raw))
		if start < end {
			out = append(out, raw[start:end]...)
		}
	}
	return strings.ToValidUTF8(string(out), string(utf8.RuneError))
}

// ExtractFields splits line on delim, selects fields by list order, and
// re-joins them with delim.
func ExtractFields(line string, delim byte, list List) string {
	fields := strings.Split(line, string(delim))
	var out []string
	for _, span := range list {
		start, end := span.clamp(len(fields))
		for i := start; i < end; i++ {
			out = append(out, fields[i])
		}
	}
	return strings.Join(out, string(delim))
}
