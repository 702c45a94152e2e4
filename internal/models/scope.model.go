package models

import (
	"errors"
	"fmt"
	"slices"

	"gorm.io/datatypes"
)

var ErrInvalidScope = errors.New("invalid scope")

type ScopeMode string

const (
	ScopeModeAll  ScopeMode = "all"
	ScopeModeOnly ScopeMode = "only"
)

// Scope restricts a catalog entry to a set of values. The empty set is not a wildcard:
// "all" is an explicit state and "only" requires at least one value.
type Scope struct {
	Mode   ScopeMode                   `gorm:"type:varchar(10);not null;default:all" json:"mode"`
	Values datatypes.JSONSlice[string] `                                             json:"values"`
}

func AllScope() Scope {
	return Scope{Mode: ScopeModeAll, Values: datatypes.JSONSlice[string]{}}
}

func OnlyScope(values ...string) Scope {
	return Scope{Mode: ScopeModeOnly, Values: NormalizeValues(values)}
}

func (s Scope) Validate() error {
	switch s.Mode {
	case ScopeModeAll:
		return nil
	case ScopeModeOnly:
		if len(NormalizeValues(s.Values)) == 0 {
			return fmt.Errorf("%w: only scope requires at least one value", ErrInvalidScope)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidScope, s.Mode)
	}
}

// Matches reports whether value falls inside the scope. An empty value never matches an "only" scope.
func (s Scope) Matches(value string) bool {
	if s.Mode == ScopeModeAll {
		return true
	}

	value = NormalizeValue(value)
	if value == "" {
		return false
	}
	return slices.Contains(NormalizeValues(s.Values), value)
}

func (s *Scope) normalize() {
	if s.Mode == "" {
		s.Mode = ScopeModeAll
	}
	if s.Mode == ScopeModeAll {
		s.Values = datatypes.JSONSlice[string]{}
		return
	}
	s.Values = NormalizeValues(s.Values)
}
