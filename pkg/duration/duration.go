// Package duration formats track durations as human-readable text and
// parses free-form duration text back into milliseconds.
package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Millisecond weight of each supported unit.
const (
	Year   int64 = 31557600000
	Month  int64 = 2628000000
	Week   int64 = 604800000
	Day    int64 = 86400000
	Hour   int64 = 3600000
	Minute int64 = 60000
	Second int64 = 1000
)

// ErrNegative is returned by Format for durations below zero.
var ErrNegative = errors.New("duration must not be negative")

var (
	// One numeric run (decimals allowed) immediately followed by one
	// non-numeric run. Unrecognized tokens are ignored.
	tokenRegex  = regexp.MustCompile(`(\d+(?:\.\d+)?)(\D+)`)
	colonRegex  = regexp.MustCompile(`^\d+(:\d+)+$`)
	digitsRegex = regexp.MustCompile(`^\d+$`)
)

var unitWeights = map[string]int64{
	"y": Year, "year": Year, "years": Year,
	"month": Month, "months": Month,
	"w": Week, "week": Week, "weeks": Week,
	"d": Day, "day": Day, "days": Day,
	"h": Hour, "hour": Hour, "hours": Hour,
	"m": Minute, "minute": Minute, "minutes": Minute,
	"s": Second, "second": Second, "seconds": Second,
}

// unitNames is ordered longest first so prefix lookup picks the most
// specific unit ("minutes" before "m"). There is deliberately no single
// letter form for month; "m" always means minute.
var unitNames = []string{
	"seconds", "minutes", "months",
	"second", "minute",
	"month", "weeks", "years", "hours",
	"week", "year", "hour", "days",
	"day",
	"y", "w", "d", "h", "m", "s",
}

// ladder orders units lowest first, matching colon groups read right to
// left ("1:02:03" is one hour, two minutes, three seconds).
var ladder = []int64{Second, Minute, Hour, Day, Week, Month, Year}

// Format renders a millisecond duration as text. The non-minimal form
// spells units out ("1 hour and 30 minutes"); the minimal form is a
// zero-padded clock ("01:30:00"). A zero duration renders as "N/A", or
// "00:00" in minimal form.
func Format(ms int64, minimal bool) (string, error) {
	if ms < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegative, ms)
	}
	if ms == 0 {
		if minimal {
			return "00:00", nil
		}
		return "N/A", nil
	}

	years := ms / Year
	rem := ms % Year
	months := rem / Month
	rem %= Month
	weeks := rem / Week
	rem %= Week
	days := rem / Day
	rem %= Day
	hours := rem / Hour
	rem %= Hour
	minutes := rem / Minute
	rem %= Minute
	seconds := int64(math.Round(float64(rem) / float64(Second)))

	// Weeks are never emitted directly; they fold into the day count.
	days += weeks * 7

	if minimal {
		return formatMinimal([]int64{years, months, days, hours, minutes, seconds}), nil
	}
	return formatWords(years, months, days, hours, minutes, seconds), nil
}

func formatMinimal(columns []int64) string {
	// Skip leading all-zero columns but always keep at least two.
	first := 0
	for first < len(columns)-1 && columns[first] == 0 {
		first++
	}
	parts := make([]string, 0, len(columns))
	for _, n := range columns[first:] {
		parts = append(parts, fmt.Sprintf("%02d", n))
	}
	if len(parts) == 1 {
		parts = append([]string{"00"}, parts...)
	}
	return strings.Join(parts, ":")
}

func formatWords(years, months, days, hours, minutes, seconds int64) string {
	var parts []string
	for _, u := range []struct {
		n    int64
		name string
	}{
		{years, "years"},
		{months, "months"},
		{days, "days"},
		{hours, "hours"},
		{minutes, "minutes"},
		{seconds, "seconds"},
	} {
		if u.n == 0 {
			continue
		}
		name := u.name
		if u.n == 1 {
			name = strings.TrimSuffix(name, "s")
		}
		parts = append(parts, fmt.Sprintf("%d %s", u.n, name))
	}

	out := strings.Join(parts, ", ")
	if i := strings.LastIndex(out, ", "); i >= 0 {
		out = out[:i] + " and " + out[i+2:]
	}
	return out
}

// Parse turns duration text into milliseconds. Accepted forms are
// colon-separated clock groups ("1:30:00"), free-form number+unit tokens
// ("1h30m", "2 minutes"), or a bare integer of seconds. The second return
// value is false when nothing was recognized; a total of exactly zero is
// indistinguishable from that and also reports false.
func Parse(text string) (int64, bool) {
	text = norm.NFKC.String(text)
	text = strings.ToLower(strings.Join(strings.Fields(text), ""))
	if text == "" {
		return 0, false
	}

	var total int64
	switch {
	case colonRegex.MatchString(text):
		groups := strings.Split(text, ":")
		for i := 0; i < len(groups) && i < len(ladder); i++ {
			n, err := strconv.ParseInt(groups[len(groups)-1-i], 10, 64)
			if err != nil {
				continue
			}
			total += n * ladder[i]
		}
	case digitsRegex.MatchString(text):
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			total = n * Second
		}
	default:
		for _, m := range tokenRegex.FindAllStringSubmatch(text, -1) {
			weight, ok := unitFor(m[2])
			if !ok {
				continue
			}
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			total += int64(value * float64(weight))
		}
	}

	if total == 0 {
		return 0, false
	}
	return total, true
}

// unitFor matches the longest known unit name at the start of a token's
// non-numeric run, so joined text like "1minuteand30seconds" still parses.
func unitFor(run string) (int64, bool) {
	for _, name := range unitNames {
		if strings.HasPrefix(run, name) {
			return unitWeights[name], true
		}
	}
	return 0, false
}
