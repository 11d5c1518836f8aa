package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmpty      = errors.New("empty cell")
	ErrNotANumber = errors.New("not a number")
)

// anything that can't be part of a number, thousands separators included
var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

var dashOnly = regexp.MustCompile(`^[\-\x{2010}-\x{2015}]+$`)

func clean(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || dashOnly.MatchString(s) {
		return "", ErrEmpty
	}
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return cleaned, nil
}

// Number turns a cell like "1,234" or "12*" into an int.
func Number(s string) (int, error) {
	cleaned, err := clean(s)
	if err != nil {
		return 0, err
	}
	if whole, _, found := strings.Cut(cleaned, "."); found {
		cleaned = whole
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return n, nil
}

func Float(s string) (float64, error) {
	cleaned, err := clean(s)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return f, nil
}

// OptionalNumber is Number for cells that may legitimately be blank, it
// returns nil for those.
func OptionalNumber(s string) (*int, error) {
	n, err := Number(s)
	if errors.Is(err, ErrEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
