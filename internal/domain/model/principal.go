package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// PrincipalKind selects the credential collection a principal lives in.
type PrincipalKind string

const (
	KindAdmin   PrincipalKind = "admin"
	KindStudent PrincipalKind = "student"
)

// Label is the capitalised kind used in client-facing messages.
func (k PrincipalKind) Label() string {
	switch k {
	case KindAdmin:
		return "Admin"
	case KindStudent:
		return "Student"
	default:
		return "User"
	}
}

func (k PrincipalKind) Valid() bool {
	return k == KindAdmin || k == KindStudent
}

// Principal is an Admin or Student credential record. Both kinds share one shape.
type Principal struct {
	ID             string        `json:"id"`
	Kind           PrincipalKind `json:"-"`
	Name           string        `json:"name"`
	Mobile         string        `json:"mobile"`
	Email          string        `json:"email"`
	HashedPassword string        `json:"-"` // Not exposed
	CreatedAt      time.Time     `json:"created_at"`
}

var ErrInvalidMobile = errors.New("mobile must be a string or a number")

// Mobile accepts either a JSON string or a JSON number and keeps its text form.
type Mobile string

func (m *Mobile) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Mobile(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidMobile
	}
	*m = Mobile(n.String())
	return nil
}

func (m Mobile) String() string {
	return string(m)
}

// Canonical drops leading zeros from a numeric mobile so "0711" and "711"
// name the same number. Non-numeric values are returned unchanged.
func (m Mobile) Canonical() Mobile {
	if !m.IsNumeric() {
		return m
	}
	trimmed := strings.TrimLeft(string(m), "0")
	if trimmed == "" {
		return "0"
	}
	return Mobile(trimmed)
}

// IsNumeric reports whether the mobile is made of decimal digits only.
func (m Mobile) IsNumeric() bool {
	if m == "" {
		return false
	}
	for _, r := range string(m) {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
