package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPattern matches the decimal number syntax a form input may carry.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ContainerIDKind is the syntactic shape of an ID sync container ID as typed.
type ContainerIDKind int

const (
	ContainerIDEmpty ContainerIDKind = iota
	ContainerIDNumeric
	ContainerIDToken
	ContainerIDMalformed
)

// String returns a readable name for the kind.
func (k ContainerIDKind) String() string {
	switch k {
	case ContainerIDEmpty:
		return "empty"
	case ContainerIDNumeric:
		return "numeric"
	case ContainerIDToken:
		return "token"
	default:
		return "malformed"
	}
}

// ContainerIDValue is the result of classifying a container ID input.
type ContainerIDValue struct {
	Kind   ContainerIDKind
	Number float64 // set for ContainerIDNumeric
	Token  string  // set for ContainerIDToken
}

// IsNonNegativeInteger reports whether a numeric value is a whole number >= 0.
func (v ContainerIDValue) IsNonNegativeInteger() bool {
	return v.Kind == ContainerIDNumeric && v.Number >= 0 && v.Number == math.Trunc(v.Number)
}

// ParseContainerID classifies a container ID form value. Validation and
// trimming both dispatch on the returned kind.
func ParseContainerID(s string) ContainerIDValue {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return ContainerIDValue{Kind: ContainerIDEmpty}
	case numericPattern.MatchString(trimmed):
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsInf(n, 0) {
			return ContainerIDValue{Kind: ContainerIDMalformed}
		}
		return ContainerIDValue{Kind: ContainerIDNumeric, Number: n}
	case IsToken(trimmed):
		return ContainerIDValue{Kind: ContainerIDToken, Token: trimmed}
	}
	return ContainerIDValue{Kind: ContainerIDMalformed}
}

// ContainerID is a stored ID sync container ID: either a number or a string
// (normally a data element token).
type ContainerID struct {
	number  float64
	text    string
	numeric bool
}

// NumericContainerID returns a numeric container ID.
func NumericContainerID(n float64) ContainerID {
	return ContainerID{number: n, numeric: true}
}

// TextContainerID returns a string container ID.
func TextContainerID(s string) ContainerID {
	return ContainerID{text: s}
}

// IsNumeric reports whether the ID is stored as a number.
func (c ContainerID) IsNumeric() bool {
	return c.numeric
}

// Number returns the numeric value. ok is false for string IDs.
func (c ContainerID) Number() (n float64, ok bool) {
	return c.number, c.numeric
}

// String returns the form representation of the ID.
func (c ContainerID) String() string {
	if c.numeric {
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	}
	return c.text
}

// Equal reports whether both IDs have the same type and value.
func (c ContainerID) Equal(o ContainerID) bool {
	return c == o
}

// MarshalJSON emits a JSON number for numeric IDs and a string otherwise.
func (c ContainerID) MarshalJSON() ([]byte, error) {
	if c.numeric {
		return []byte(c.String()), nil
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON accepts a JSON number or string.
func (c *ContainerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextContainerID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("container ID must be a number or string: %w", err)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("container ID %s: %w", n, err)
	}
	*c = NumericContainerID(f)
	return nil
}
