package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on an instance field.
// Field is the index-qualified path, e.g. "instances[1].name".
type FieldError struct {
	Index   int
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ByPath returns one message per field path. When a path failed more than
// one rule, the first failure wins.
func (e *ValidationError) ByPath() map[string]string {
	m := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		if _, ok := m[fe.Field]; !ok {
			m[fe.Field] = fe.Message
		}
	}
	return m
}

// FirstIndex returns the lowest instance index with an error, or -1.
func (e *ValidationError) FirstIndex() int {
	first := -1
	for _, fe := range e.Errors {
		if first == -1 || fe.Index < first {
			first = fe.Index
		}
	}
	return first
}

func (e *ValidationError) add(index int, field, message string) {
	e.Errors = append(e.Errors, FieldError{
		Index:   index,
		Field:   FieldPath(index, field),
		Message: message,
	})
}

// FieldPath returns the path of a field on the instance at index.
func FieldPath(index int, field string) string {
	return fmt.Sprintf("instances[%d].%s", index, field)
}

// Validation messages shown next to the offending field.
const (
	MsgNameRequired        = "Please specify a name."
	MsgNameNumeric         = "Please provide a non-numeric name."
	MsgNameGlobal          = "Please provide a name that does not conflict with a property already found on the window object."
	MsgNameDuplicate       = "Please provide a name unique from those used for other instances."
	MsgPropertyIDRequired  = "Please specify a property ID."
	MsgPropertyIDDuplicate = "Please provide a property ID unique from those used for other instances."
	MsgOrgIDRequired       = "Please specify an IMS organization ID."
	MsgOrgIDDuplicate      = "Please provide an IMS organization ID unique from those used for other instances."
	MsgEdgeDomainRequired  = "Please specify an edge domain."
	MsgContainerIDInvalid  = "Please specify a non-negative integer or data element for the container ID."
	MsgGranularityInvalid  = "Please choose whether to collect all or specific context data."
	MsgContextTagInvalid   = "Please choose only known context data categories."
)

// nonDigitPattern requires at least one non-digit character. Names become
// global accessors, which cannot be all digits.
var nonDigitPattern = regexp.MustCompile(`\D`)

// GlobalNameChecker reports whether a name is already taken in the global
// namespace the SDK installs its accessors into.
type GlobalNameChecker interface {
	IsGlobalNameTaken(name string) bool
}

// GlobalNameFunc adapts a function to GlobalNameChecker.
type GlobalNameFunc func(name string) bool

// IsGlobalNameTaken calls f(name).
func (f GlobalNameFunc) IsGlobalNameTaken(name string) bool {
	return f(name)
}

// ValidateInstances checks every instance against the field rules, then
// checks names, property IDs and organization IDs for duplicates.
// It returns a *ValidationError if any rules fail, or nil if all instances
// are valid. taken may be nil, in which case no global name is reserved.
func ValidateInstances(instances []Instance, taken GlobalNameChecker) error {
	var ve ValidationError

	for i := range instances {
		validateInstance(&ve, i, &instances[i], taken)
	}

	checkUnique(&ve, instances, "name", MsgNameDuplicate, func(in *Instance) string { return in.Name })
	checkUnique(&ve, instances, "propertyId", MsgPropertyIDDuplicate, func(in *Instance) string { return in.PropertyID })
	checkUnique(&ve, instances, "organizationId", MsgOrgIDDuplicate, func(in *Instance) string { return in.OrganizationID })

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func validateInstance(ve *ValidationError, i int, in *Instance, taken GlobalNameChecker) {
	// Name: required, not all digits, not already a global.
	switch name := in.Name; {
	case strings.TrimSpace(name) == "":
		ve.add(i, "name", MsgNameRequired)
	case !nonDigitPattern.MatchString(name):
		ve.add(i, "name", MsgNameNumeric)
	case taken != nil && taken.IsGlobalNameTaken(name):
		ve.add(i, "name", MsgNameGlobal)
	}

	if strings.TrimSpace(in.PropertyID) == "" {
		ve.add(i, "propertyId", MsgPropertyIDRequired)
	}
	if strings.TrimSpace(in.OrganizationID) == "" {
		ve.add(i, "organizationId", MsgOrgIDRequired)
	}
	if strings.TrimSpace(in.EdgeDomain) == "" {
		ve.add(i, "edgeDomain", MsgEdgeDomainRequired)
	}

	if !containerIDValid(in.IDSyncEnabled, ParseContainerID(in.IDSyncContainerID)) {
		ve.add(i, "idSyncContainerId", MsgContainerIDInvalid)
	}

	if !in.ContextGranularity.IsValid() {
		ve.add(i, "contextGranularity", MsgGranularityInvalid)
	} else if in.ContextGranularity == GranularitySpecific {
		// Context is a set: every tag known, none repeated.
		seen := make(map[ContextTag]struct{}, len(in.Context))
		for _, tag := range in.Context {
			if _, dup := seen[tag]; dup || !tag.IsValid() {
				ve.add(i, "context", MsgContextTagInvalid)
				break
			}
			seen[tag] = struct{}{}
		}
	}
}

// containerIDValid applies the rules for the parsed shape of the container ID.
// Nothing is enforced while ID sync is disabled.
func containerIDValid(enabled bool, v ContainerIDValue) bool {
	if !enabled {
		return true
	}
	switch v.Kind {
	case ContainerIDEmpty, ContainerIDToken:
		return true
	case ContainerIDNumeric:
		return v.IsNonNegativeInteger()
	}
	return false
}

// checkUnique reports the first value that repeats an earlier one, at the
// later instance's path. Only one conflict per field is reported per call;
// the next surfaces once the first is fixed. Blank values are left to the
// required rules.
func checkUnique(ve *ValidationError, instances []Instance, field, message string, value func(*Instance) string) {
	seen := make(map[string]struct{}, len(instances))
	for i := range instances {
		v := value(&instances[i])
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			ve.add(i, field, message)
			return
		}
		seen[v] = struct{}{}
	}
}
