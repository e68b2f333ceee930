// Package offset resolves tail-style signed count specifications against a
// file's extent and extracts the addressed suffix.
//
// A specification addresses lines or bytes the same way: "+N" starts at the
// 1-based position N, "-N" and bare "N" keep the last N, "+0" keeps
// everything, and a bare or explicit zero keeps nothing.
package offset

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var specRE = regexp.MustCompile(`^([+-]?)(\d+)$`)

// ParseError reports a malformed count specification. Its message is the
// offending token, verbatim.
type ParseError string

func (p ParseError) Error() string {
	return string(p)
}

// Spec is a parsed count specification.
//
// The zero value is Signed(0), which resolves to "keep nothing".
type Spec struct {
	plusZero bool
	n        int64
}

// FromStartZero is the literal "+0": keep everything.
var FromStartZero = Spec{plusZero: true}

// Signed creates a specification for an explicit signed count. Positive
// means "start at 1-based position n", negative means "keep the last |n|".
func Signed(n int64) Spec {
	return Spec{n: n}
}

// Parse converts a textual token into a Spec.
//
// A bare magnitude counts from the end, mirroring tail's convention that
// unsigned "N" means "last N". Magnitudes beyond the int64 range saturate in
// the direction of the sign instead of failing.
func Parse(token string) (Spec, error) {
	m := specRE.FindStringSubmatch(token)
	if m == nil {
		return Spec{}, ParseError(token)
	}

	sign, digits := m[1], m[2]

	mag, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Only ErrRange is possible after the regexp match.
		mag = math.MaxInt64
	}

	switch sign {
	case "+":
		if mag == 0 {
			return FromStartZero, nil
		}
		return Signed(mag), nil
	case "-":
		if err != nil {
			return Signed(math.MinInt64), nil
		}
		return Signed(-mag), nil
	default:
		if err != nil {
			return Signed(math.MinInt64), nil
		}
		return Signed(-mag), nil
	}
}

// Resolve determines the zero-based index output starts from given the total
// number of addressable units. The second return is false when nothing
// should be emitted.
//
// A positive position past the end yields nothing, but a negative count
// larger than the extent clamps to the start and emits everything. The
// asymmetry matches coreutils tail and is deliberate.
func (s Spec) Resolve(total int64) (int64, bool) {
	switch {
	case total <= 0:
		return 0, false
	case s.plusZero:
		return 0, true
	case s.n == 0:
		return 0, false
	case s.n > 0:
		if s.n > total {
			return 0, false
		}
		return s.n - 1, true
	default:
		start := total + s.n
		if start < 0 {
			start = 0
		}
		return start, true
	}
}

// CountExtents runs one pass over r counting line records and bytes. A final
// line without a terminator still counts as a record.
func CountExtents(r io.Reader) (lines, bytes int64, err error) {
	buf := make([]byte, 64*1024)
	var last byte
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			bytes += int64(n)
			for _, c := range buf[:n] {
				if c == '\n' {
					lines++
				}
			}
			last = buf[n-1]
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return 0, 0, rerr
		}
	}

	if bytes > 0 && last != '\n' {
		lines++
	}
	return lines, bytes, nil
}

// EmitLines re-reads r from the beginning and writes every line whose
// zero-based index is at least start. Line content is passed through
// verbatim, including the terminator (or lack of one on the final line).
func EmitLines(w io.Writer, r io.Reader, start int64) error {
	br := bufio.NewReader(r)
	var index int64
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if index >= start {
				if _, werr := w.Write(line); werr != nil {
					return werr
				}
			}
			index++
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// EmitBytes seeks r to the starting byte offset and writes the remainder to
// w, decoded permissively: invalid sequences, such as a multi-byte character
// split at the boundary, are replaced rather than rejected.
func EmitBytes(w io.Writer, r io.ReadSeeker, start int64) error {
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, strings.ToValidUTF8(string(data), string(utf8.RuneError)))
	return err
}
