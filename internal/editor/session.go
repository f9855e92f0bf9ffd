// Package editor holds one settings editing session: the working instances
// hydrated from saved settings, the edits applied to them, and the
// validate-then-trim submit that produces settings ready to persist.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/edgeext/internal/model"
)

// ErrNoInstances is returned by Submit when every instance was removed.
var ErrNoInstances = errors.New("at least one instance is required")

// Presentation receives UI state changes driven by the session.
type Presentation interface {
	// Expand reveals the instance at index, e.g. after it is added or when
	// it holds the first validation error.
	Expand(index int)
}

// NoopPresentation ignores every presentation change.
type NoopPresentation struct{}

func (NoopPresentation) Expand(int) {}

// Session is a single editing session. It is not safe for concurrent use.
type Session struct {
	instances    []model.Instance
	defaults     model.Defaults
	checker      model.GlobalNameChecker
	presentation Presentation
	logger       *slog.Logger
}

// NewSession hydrates saved settings into a working session. checker
// reports names already taken in the global namespace; it applies to saved
// and new instances alike.
func NewSession(saved model.Settings, defaults model.Defaults, checker model.GlobalNameChecker, p Presentation, logger *slog.Logger) *Session {
	if p == nil {
		p = NoopPresentation{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		instances:    model.Hydrate(saved.Instances, defaults),
		defaults:     defaults,
		checker:      checker,
		presentation: p,
		logger:       logger,
	}
}

// Instances returns a copy of the working instances.
func (s *Session) Instances() []model.Instance {
	out := make([]model.Instance, len(s.instances))
	for i, in := range s.instances {
		out[i] = in.Clone()
	}
	return out
}

// Len returns the number of working instances.
func (s *Session) Len() int {
	return len(s.instances)
}

// Add appends a new instance populated with the defaults, expands it, and
// returns its index.
func (s *Session) Add() int {
	s.instances = append(s.instances, s.defaults.Clone())
	i := len(s.instances) - 1
	s.presentation.Expand(i)
	s.logger.Debug("editor: instance added", "index", i)
	return i
}

// Remove deletes the instance at index. When more than one instance exists,
// confirm is asked first and a false answer leaves the session unchanged.
// It reports whether the instance was removed.
func (s *Session) Remove(index int, confirm func() bool) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}
	if len(s.instances) > 1 && confirm != nil && !confirm() {
		return false, nil
	}
	name := s.instances[index].Name
	s.instances = append(s.instances[:index], s.instances[index+1:]...)
	s.logger.Debug("editor: instance removed", "index", index, "name", name)
	return true, nil
}

// Edit applies edit to the instance at index without validating.
func (s *Session) Edit(index int, edit func(*model.Instance)) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	edit(&s.instances[index])
	return nil
}

// Update applies edit to the instance at index and revalidates every
// instance. A *model.ValidationError is returned while any rule fails; the
// edit is kept either way.
func (s *Session) Update(index int, edit func(*model.Instance)) error {
	if err := s.Edit(index, edit); err != nil {
		return err
	}
	return s.Validate()
}

// Validate checks the working instances.
func (s *Session) Validate() error {
	return model.ValidateInstances(s.instances, s.checker)
}

// Submit validates the working instances and returns the trimmed settings.
// On failure the first offending instance is expanded and the session stays
// open for correction.
func (s *Session) Submit() (model.Settings, error) {
	if len(s.instances) == 0 {
		return model.Settings{}, ErrNoInstances
	}
	if err := s.Validate(); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			if i := ve.FirstIndex(); i >= 0 {
				s.presentation.Expand(i)
			}
			s.logger.Debug("editor: submit rejected", "errors", len(ve.Errors))
		}
		return model.Settings{}, err
	}
	return model.Settings{Instances: model.Trim(s.instances, s.defaults)}, nil
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.instances) {
		return fmt.Errorf("instance index %d out of range [0, %d)", index, len(s.instances))
	}
	return nil
}
