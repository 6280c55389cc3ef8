package model

import (
	"fmt"
	"strings"
)

// Class is the astrophysical family of a transient model. It decides the
// default span of the dense time grid.
type Class int

const (
	ClassCustom Class = iota
	ClassKilonova
	ClassSupernova
	ClassTDE
	ClassAfterglow
)

func (c Class) String() string {
	switch c {
	case ClassKilonova:
		return "kilonova"
	case ClassSupernova:
		return "supernova"
	case ClassTDE:
		return "tde"
	case ClassAfterglow:
		return "afterglow"
	default:
		return "custom"
	}
}

// DefaultMaxTime returns the default duration of the model time grid in days.
func (c Class) DefaultMaxTime() float64 {
	switch c {
	case ClassKilonova:
		return 10
	case ClassSupernova:
		return 100
	case ClassTDE:
		return 50
	case ClassAfterglow:
		return 1000
	default:
		return 100
	}
}

// ParseClass maps a name ("kilonova", "supernova", "tde", "afterglow",
// "custom" or empty) to a Class.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "custom":
		return ClassCustom, nil
	case "kilonova", "kne":
		return ClassKilonova, nil
	case "supernova", "sne":
		return ClassSupernova, nil
	case "tde":
		return ClassTDE, nil
	case "afterglow":
		return ClassAfterglow, nil
	default:
		return ClassCustom, fmt.Errorf("unknown transient class %q", s)
	}
}
