// Package quality defines the discrete quality tiers shared by the device
// profiler, the performance monitor and the particle field.
package quality

import (
	"fmt"
	"strings"
)

// Tier is a discrete rendering quality level.
type Tier uint8

const (
	Low Tier = iota
	Medium
	High
)

// Tiers lists every tier from lowest to highest.
var Tiers = [...]Tier{Low, Medium, High}

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t <= High
}

// Parse converts a tier name (case-insensitive) into a Tier.
func Parse(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium", "med":
		return Medium, nil
	case "high":
		return High, nil
	}
	return Low, fmt.Errorf("unknown quality tier %q", s)
}

// MarshalText implements encoding.TextMarshaler (used by YAML and CSV output).
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid quality tier %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t Tier) MarshalCSV() (string, error) {
	b, err := t.MarshalText()
	return string(b), err
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *Tier) UnmarshalCSV(s string) error {
	return t.UnmarshalText([]byte(s))
}

// Lower returns the next tier down, saturating at Low.
func (t Tier) Lower() Tier {
	if t == Low {
		return Low
	}
	return t - 1
}

// Higher returns the next tier up, saturating at High.
func (t Tier) Higher() Tier {
	if t >= High {
		return High
	}
	return t + 1
}
