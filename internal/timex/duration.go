// Package timex contains time helpers used by configuration decoding.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var longUnit = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(d|days?|w|weeks?|y|yrs?|years?)$`)

var longUnits = map[byte]time.Duration{
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
	'y': 365*24*time.Hour + 6*time.Hour,
}

// ParseDuration accepts anything time.ParseDuration does plus a single
// day, week or year term such as "7d", "2 weeks" or "1y".
func ParseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	m := longUnit.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return time.Duration(n * float64(longUnits[m[2][0]])), nil
}

// Duration is a time.Duration that decodes from JSON or YAML either as a
// duration string accepted by ParseDuration or as an integer number of
// nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var ns int64
	if err := n.Decode(&ns); err == nil {
		d.Duration = time.Duration(ns)
		return nil
	}

	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
