package model

import (
	"bytes"
	"fmt"
)

// Tristate is a three-valued answer: Yes, No, or Unknown when the
// underlying data is inconclusive. It marshals to JSON true/false/null
// so that "unknown" can never be conflated with "false" downstream.
type Tristate int

const (
	Unknown Tristate = iota
	Yes
	No
)

// TristateOf converts a definite boolean answer to a Tristate.
func TristateOf(b bool) Tristate {
	if b {
		return Yes
	}
	return No
}

// Known reports whether the value is Yes or No.
func (t Tristate) Known() bool {
	return t == Yes || t == No
}

func (t Tristate) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Yes as true, No as false, Unknown as null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false, and null.
func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("true")):
		*t = Yes
	case bytes.Equal(data, []byte("false")):
		*t = No
	case bytes.Equal(data, []byte("null")):
		*t = Unknown
	default:
		return fmt.Errorf("model: invalid tristate value %q", string(data))
	}
	return nil
}
