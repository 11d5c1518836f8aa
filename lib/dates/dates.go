package dates

import (
	"fmt"
	"time"
)

// Layout is how dates are written everywhere: flags, configs, file names.
const Layout = "2006-01-02"

// crawls and scrapes are keyed by the UTC date so that runs on machines in
// different timezones agree on what "today" is.
func Now() time.Time {
	return time.Now().UTC()
}

func Today() string {
	return Format(Now())
}

func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", s)
	}
	return t, nil
}

// Range lists every date from start to end, both inclusive. An empty end
// means today.
func Range(start, end string) ([]string, error) {
	from, err := Parse(start)
	if err != nil {
		return nil, err
	}
	to := Now()
	if end != "" {
		to, err = Parse(end)
		if err != nil {
			return nil, err
		}
	}

	var out []string
	for current := from; !current.After(to); current = current.AddDate(0, 0, 1) {
		out = append(out, Format(current))
	}
	return out, nil
}
