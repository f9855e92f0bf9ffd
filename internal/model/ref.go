package model

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// tokenPattern matches a data element reference such as "%pageName%".
var tokenPattern = regexp.MustCompile(`^%[^%]+%$`)

// IsToken reports whether s is a data element reference.
func IsToken(s string) bool {
	return tokenPattern.MatchString(s)
}

// TokenName returns the data element name wrapped by a token, e.g. "pageName"
// for "%pageName%".
func TokenName(s string) (string, bool) {
	if !IsToken(s) {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// Resolver looks up data element values by name. The host resolves tokens at
// action execution time.
type Resolver interface {
	Resolve(name string) (any, bool)
}

// MapResolver is a Resolver backed by a fixed set of data element values.
type MapResolver map[string]any

// Resolve returns the value registered for name.
func (m MapResolver) Resolve(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Ref holds either a literal value of type T or a token referring to a data
// element that resolves to a T.
type Ref[T any] struct {
	literal T
	token   string
}

// Literal wraps v as a literal Ref.
func Literal[T any](v T) Ref[T] {
	return Ref[T]{literal: v}
}

// TokenRef wraps a "%name%" token. It returns an error if s is not a token.
func TokenRef[T any](s string) (Ref[T], error) {
	if !IsToken(s) {
		return Ref[T]{}, fmt.Errorf("%q is not a data element reference", s)
	}
	return Ref[T]{token: s}, nil
}

// IsToken reports whether the ref holds a token rather than a literal.
func (r Ref[T]) IsToken() bool {
	return r.token != ""
}

// Token returns the raw token, or "" for literals.
func (r Ref[T]) Token() string {
	return r.token
}

// Value returns the literal value. ok is false for tokens.
func (r Ref[T]) Value() (v T, ok bool) {
	if r.IsToken() {
		return v, false
	}
	return r.literal, true
}

// Resolve returns the literal, or asks res for the token's value and converts
// it to T.
func (r Ref[T]) Resolve(res Resolver) (T, error) {
	var zero T
	if !r.IsToken() {
		return r.literal, nil
	}
	name, _ := TokenName(r.token)
	if res == nil {
		return zero, fmt.Errorf("data element %q: no resolver available", name)
	}
	raw, ok := res.Resolve(name)
	if !ok {
		return zero, fmt.Errorf("data element %q is not defined", name)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	// Values from JSON or TOML sources rarely have T's exact Go type
	// (e.g. []any vs []string), so convert through JSON.
	data, err := json.Marshal(raw)
	if err != nil {
		return zero, fmt.Errorf("data element %q: %w", name, err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("data element %q has type %T: %w", name, raw, err)
	}
	return v, nil
}

// MarshalJSON encodes the token as a string, or the literal as itself.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.IsToken() {
		return json.Marshal(r.token)
	}
	return json.Marshal(r.literal)
}

// UnmarshalJSON decodes a token string or a literal T.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && IsToken(s) {
		*r = Ref[T]{token: s}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ref[T]{literal: v}
	return nil
}
