// Package schema checks raw settings objects against the JSON Schemas the
// host publishes for the extension and its actions.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// Kind identifies which settings object a schema describes.
type Kind string

const (
	KindSettings            Kind = "settings"
	KindSendEvent           Kind = "send-event"
	KindSetOptInPreferences Kind = "set-opt-in-preferences"
	KindSetCustomerIDs      Kind = "set-customer-ids"
)

// Kinds returns every known schema kind.
func Kinds() []Kind {
	return []Kind{KindSettings, KindSendEvent, KindSetOptInPreferences, KindSetCustomerIDs}
}

//go:embed schemas/*.json
var files embed.FS

var (
	compileOnce sync.Once
	compiled    map[Kind]*jsonschema.Schema
	compileErr  error
)

func load() (map[Kind]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		m := make(map[Kind]*jsonschema.Schema, len(Kinds()))
		for _, k := range Kinds() {
			data, err := files.ReadFile("schemas/" + string(k) + ".json")
			if err != nil {
				compileErr = fmt.Errorf("reading %s schema: %w", k, err)
				return
			}
			s, err := compiler.Compile(data)
			if err != nil {
				compileErr = fmt.Errorf("compiling %s schema: %w", k, err)
				return
			}
			m[k] = s
		}
		compiled = m
	})
	return compiled, compileErr
}

// Raw returns the schema document for kind.
func Raw(kind Kind) ([]byte, error) {
	data, err := files.ReadFile("schemas/" + string(kind) + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q", kind)
	}
	return data, nil
}

// Validate checks raw JSON against the schema for kind.
func Validate(kind Kind, raw []byte) error {
	schemas, err := load()
	if err != nil {
		return err
	}
	s, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("unknown schema %q", kind)
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%s: invalid JSON: %w", kind, err)
	}

	result := s.Validate(value)
	if result.Valid {
		return nil
	}
	return &Error{Kind: kind, Details: details(result.Errors)}
}

// Error reports a schema mismatch.
type Error struct {
	Kind    Kind
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s settings do not match schema", e.Kind)
	}
	return fmt.Sprintf("%s settings do not match schema: %s", e.Kind, strings.Join(e.Details, "; "))
}

func details(errs map[string]*jsonschema.EvaluationError) []string {
	out := make([]string, 0, len(errs))
	for keyword, e := range errs {
		out = append(out, fmt.Sprintf("%s: %v", keyword, e))
	}
	sort.Strings(out)
	return out
}
