package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulene/goreutils/core/runenv/runenvtest"
)

func TestCalParseMonth(t *testing.T) {
	cases := map[string]struct {
		in      string
		want    time.Month
		wantErr string
	}{
		"number low":       {in: "1", want: time.January},
		"number high":      {in: "12", want: time.December},
		"name prefix":      {in: "jan", want: time.January},
		"name full":        {in: "December", want: time.December},
		"zero":             {in: "0", wantErr: `month "0" not in the range 1 through 12`},
		"thirteen":         {in: "13", wantErr: `month "13" not in the range 1 through 12`},
		"unknown name":     {in: "foo", wantErr: `Invalid month "foo"`},
		"ambiguous prefix": {in: "ju", wantErr: `Invalid month "ju"`},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := calParseMonth(tc.in)
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCalParseYear(t *testing.T) {
	year, err := calParseYear("2020")
	require.NoError(t, err)
	assert.Equal(t, 2020, year)

	_, err = calParseYear("foo")
	assert.EqualError(t, err, `Invalid integer "foo"`)

	_, err = calParseYear("0")
	assert.EqualError(t, err, `year "0" not in the range 1 through 9999`)

	_, err = calParseYear("10000")
	assert.EqualError(t, err, `year "10000" not in the range 1 through 9999`)
}

func TestCalFormatMonth(t *testing.T) {
	leapFebruary := []string{
		"   February 2020      ",
		"Su Mo Tu We Th Fr Sa  ",
		"                   1  ",
		" 2  3  4  5  6  7  8  ",
		" 9 10 11 12 13 14 15  ",
		"16 17 18 19 20 21 22  ",
		"23 24 25 26 27 28 29  ",
		"                      ",
	}
	assert.Equal(t, leapFebruary, calFormatMonth(2020, time.February, true, time.Time{}, nil))

	may := []string{
		"        May           ",
		"Su Mo Tu We Th Fr Sa  ",
		"                1  2  ",
		" 3  4  5  6  7  8  9  ",
		"10 11 12 13 14 15 16  ",
		"17 18 19 20 21 22 23  ",
		"24 25 26 27 28 29 30  ",
		"31                    ",
	}
	assert.Equal(t, may, calFormatMonth(2020, time.May, false, time.Time{}, nil))

	aprilHighlighted := []string{
		"     April 2021       ",
		"Su Mo Tu We Th Fr Sa  ",
		"             1  2  3  ",
		" 4  5  6 \x1b[7m 7\x1b[0m  8  9 10  ",
		"11 12 13 14 15 16 17  ",
		"18 19 20 21 22 23 24  ",
		"25 26 27 28 29 30     ",
		"                      ",
	}
	today := time.Date(2021, time.April, 7, 0, 0, 0, 0, time.UTC)
	emphasize := func(s string) string { return "\x1b[7m" + s + "\x1b[0m" }
	assert.Equal(t, aprilHighlighted, calFormatMonth(2021, time.April, true, today, emphasize))
}

func TestCal_currentMonth(t *testing.T) {
	cmd := runenvtest.Command(Cal, "cal")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, strings.Join([]string{
		"    January 2006      ",
		"Su Mo Tu We Th Fr Sa  ",
		" 1  2  3  4  5  6  7  ",
		" 8  9 10 11 12 13 14  ",
		"15 16 17 18 19 20 21  ",
		"22 23 24 25 26 27 28  ",
		"29 30 31              ",
		"                      ",
	}, "\n")+"\n", string(out))
}

func TestCal_monthAndYear(t *testing.T) {
	cmd := runenvtest.Command(Cal, "cal", "-m", "feb", "2020")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, strings.Join([]string{
		"   February 2020      ",
		"Su Mo Tu We Th Fr Sa  ",
		"                   1  ",
		" 2  3  4  5  6  7  8  ",
		" 9 10 11 12 13 14 15  ",
		"16 17 18 19 20 21 22  ",
		"23 24 25 26 27 28 29  ",
		"                      ",
	}, "\n")+"\n", string(out))
}

func TestCal_wholeYear(t *testing.T) {
	cmd := runenvtest.Command(Cal, "cal", "-y")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)

	g := goldie.New(t)
	g.Assert(t, "cal_year_2006", out)
}

func TestCal_bareYearShowsWholeYear(t *testing.T) {
	cmd := runenvtest.Command(Cal, "cal", "2006")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)

	g := goldie.New(t)
	g.Assert(t, "cal_year_2006", out)
}

func TestCal_todayHighlight(t *testing.T) {
	cmd := runenvtest.Command(Cal, "cal", "--color", "always")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, string(out), "\x1b[7m 2\x1b[0m")
}

func TestCal_errors(t *testing.T) {
	cases := map[string]struct {
		args       []string
		wantStderr string
	}{
		"year flag with year":  {args: []string{"-y", "2020"}, wantStderr: "-y cannot be combined"},
		"year flag with month": {args: []string{"-y", "-m", "3"}, wantStderr: "-y cannot be combined"},
		"bad month name":       {args: []string{"-m", "foo"}, wantStderr: `Invalid month "foo"`},
		"month out of range":   {args: []string{"-m", "13"}, wantStderr: `month "13" not in the range 1 through 12`},
		"bad year":             {args: []string{"20o6"}, wantStderr: `Invalid integer "20o6"`},
		"extra argument":       {args: []string{"2006", "2007"}, wantStderr: `unexpected argument "2007"`},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			stderr := &bytes.Buffer{}
			cmd := runenvtest.Command(Cal, "cal", tc.args...)
			cmd.Stderr = stderr

			require.NoError(t, cmd.Run())
			assert.Equal(t, 1, cmd.ExitStatus)
			assert.Contains(t, stderr.String(), tc.wantStderr)
		})
	}
}
