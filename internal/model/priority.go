package model

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
)

// Priority ranks groups. The zero value is Medium.
type Priority int

const (
	PriorityMedium Priority = iota
	PriorityAsap
	PriorityHigh
	PriorityLow
	PriorityFar
)

// Priorities lists every level from most to least urgent.
var Priorities = []Priority{PriorityAsap, PriorityHigh, PriorityMedium, PriorityLow, PriorityFar}

// PValue is the Fibonacci weight used for ordering.
func (p Priority) PValue() int {
	switch p {
	case PriorityAsap:
		return 13
	case PriorityHigh:
		return 8
	case PriorityLow:
		return 3
	case PriorityFar:
		return 2
	default:
		return 5
	}
}

// Compare orders by PValue: Far < Low < Medium < High < Asap.
func (p Priority) Compare(o Priority) int { return cmp.Compare(p.PValue(), o.PValue()) }

func (p Priority) String() string {
	switch p {
	case PriorityAsap:
		return "asap"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	case PriorityFar:
		return "far"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asap":
		return PriorityAsap, nil
	case "high":
		return PriorityHigh, nil
	case "", "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "far":
		return PriorityFar, nil
	default:
		return PriorityMedium, fmt.Errorf("invalid priority %q (expected asap|high|medium|low|far)", s)
	}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
