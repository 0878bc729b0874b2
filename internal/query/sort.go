package query

import (
	"fmt"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Field     Field
	Direction Direction
}

func (s Sort) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// ParseSort parses "field" or "field:direction". The field must be one of allowed.
func ParseSort(raw string, allowed []Field) (Sort, error) {
	name, dir, hasDir := strings.Cut(strings.TrimSpace(raw), ":")

	field := Field(strings.TrimSpace(name))
	if !containsField(allowed, field) {
		return Sort{}, fmt.Errorf("cannot sort by %q, expected one of %v", name, allowed)
	}

	direction := Asc
	if hasDir {
		switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
		case Asc:
			direction = Asc
		case Desc:
			direction = Desc
		default:
			return Sort{}, fmt.Errorf("invalid sort direction %q, expected asc or desc", dir)
		}
	}

	return Sort{Field: field, Direction: direction}, nil
}

func containsField(fields []Field, f Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}
