package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	fcolor "github.com/fatih/color"

	"github.com/circulene/goreutils/core/runenv"
)

var calMonthNames = []string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

// calTodayColor renders today's cell in reverse video.
var calTodayColor = fcolor.New(fcolor.ReverseVideo)

// Cal implements the cal command: display a calendar.
func Cal(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "cal [-m MONTH] [-y] [YEAR]",
		Short: "display a calendar",
	}
	monthArg := cmd.Flags().StringLong("month", 'm', "", "month name or number (1-12)")
	wholeYear := cmd.Flags().BoolLong("year", 'y', "show whole current year")

	var color ColorPrinter
	color.Init(cmd.Flags(), env)

	return cmd.RunE(env, func() error {
		args := cmd.Flags().Args()
		today := env.Now()
		emphasize := func(s string) string {
			return color.Sprintf(calTodayColor, "%s", s)
		}

		if *wholeYear {
			if len(args) > 0 || *monthArg != "" {
				return errors.New("-y cannot be combined with a month or year")
			}
			calShowYear(env.Stdout(), today.Year(), today, emphasize)
			return nil
		}

		if len(args) > 1 {
			return fmt.Errorf("unexpected argument %q", args[1])
		}

		var year int
		if len(args) == 1 {
			parsed, err := calParseYear(args[0])
			if err != nil {
				return err
			}
			year = parsed
		}

		var month time.Month
		if *monthArg != "" {
			parsed, err := calParseMonth(*monthArg)
			if err != nil {
				return err
			}
			month = parsed
		}

		// A bare year shows the whole year, anything else shows one month.
		if len(args) == 1 && month == 0 {
			calShowYear(env.Stdout(), year, today, emphasize)
			return nil
		}

		if len(args) == 0 {
			year = today.Year()
		}
		if month == 0 {
			month = today.Month()
		}
		for _, line := range calFormatMonth(year, month, true, today, emphasize) {
			fmt.Fprintln(env.Stdout(), line)
		}
		return nil
	})
}

// calParseYear accepts years 1 through 9999.
func calParseYear(val string) (int, error) {
	year, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("Invalid integer %q", val)
	}
	if year < 1 || year > 9999 {
		return 0, fmt.Errorf("year %q not in the range 1 through 9999", val)
	}
	return year, nil
}

// calParseMonth accepts a month number or an unambiguous English month name
// prefix, case-insensitively.
func calParseMonth(val string) (time.Month, error) {
	if num, err := strconv.Atoi(val); err == nil {
		if num < 1 || num > 12 {
			return 0, fmt.Errorf("month %q not in the range 1 through 12", val)
		}
		return time.Month(num), nil
	}

	var candidate time.Month
	lower := strings.ToLower(val)
	for i, name := range calMonthNames {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			if candidate != 0 {
				return 0, fmt.Errorf("Invalid month %q", val)
			}
			candidate = time.Month(i + 1)
		}
	}
	if candidate == 0 {
		return 0, fmt.Errorf("Invalid month %q", val)
	}
	return candidate, nil
}

// calFormatMonth renders one month as eight lines, each exactly 20 characters
// of content plus two trailing spaces. The grid always has six week rows so
// months align in the year view.
func calFormatMonth(year int, month time.Month, printYear bool, today time.Time, emphasize func(string) string) []string {
	const width = 20

	title := calMonthNames[month-1]
	if printYear {
		title = fmt.Sprintf("%s %d", title, year)
	}
	lines := []string{
		calCenter(title, width) + "  ",
		"Su Mo Tu We Th Fr Sa  ",
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	day := first.AddDate(0, 0, -int(first.Weekday()))
	todayYear, todayMonth, todayDay := today.Date()

	for week := 0; week < 6; week++ {
		cells := make([]string, 0, 7)
		for i := 0; i < 7; i++ {
			if day.Year() == year && day.Month() == month {
				cell := fmt.Sprintf("%2d", day.Day())
				if emphasize != nil && day.Year() == todayYear && day.Month() == todayMonth && day.Day() == todayDay {
					cell = emphasize(cell)
				}
				cells = append(cells, cell)
			} else {
				cells = append(cells, "  ")
			}
			day = day.AddDate(0, 0, 1)
		}
		lines = append(lines, strings.Join(cells, " ")+"  ")
	}

	return lines
}

// calShowYear renders a full year, three months across, with a centered year
// header and a blank line between quarters.
func calShowYear(w io.Writer, year int, today time.Time, emphasize func(string) string) {
	fmt.Fprintf(w, "%32d\n", year)
	for quarter := 0; quarter < 4; quarter++ {
		month := time.Month(quarter*3 + 1)
		first := calFormatMonth(year, month, false, today, emphasize)
		second := calFormatMonth(year, month+1, false, today, emphasize)
		third := calFormatMonth(year, month+2, false, today, emphasize)
		for i := range first {
			fmt.Fprintf(w, "%s%s%s\n", first[i], second[i], third[i])
		}
		if quarter < 3 {
			fmt.Fprintln(w)
		}
	}
}

// calCenter pads s to width, placing any odd space on the right.
func calCenter(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func init() {
	mustRegister("cal", "display a calendar", Cal)
}
