// Package export writes trimmed settings to the places they are persisted:
// local files for the CLI and S3-compatible buckets for shared properties.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alfredjeanlab/edgeext/internal/model"
)

// Destination is the interface for a settings target (file, S3, etc.).
type Destination interface {
	// Name identifies the destination in logs.
	Name() string
	// Write stores the encoded settings.
	Write(ctx context.Context, data []byte) error
}

// Versioned is implemented by destinations that report the version of the
// object they last wrote.
type Versioned interface {
	Version() string
}

// WriteSettings encodes settings as indented JSON followed by a newline.
// Field order follows the struct definitions, so output is stable.
func WriteSettings(w io.Writer, s model.Settings) error {
	if s.Instances == nil {
		s.Instances = []model.StoredInstance{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}

// ReadSettings decodes stored settings. Unknown fields are rejected.
func ReadSettings(r io.Reader) (model.Settings, error) {
	var s model.Settings
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Publish encodes settings once and writes them to every destination. A
// failing destination does not stop the others; all failures are returned
// joined.
func Publish(ctx context.Context, s model.Settings, logger *slog.Logger, destinations ...Destination) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var buf bytes.Buffer
	if err := WriteSettings(&buf, s); err != nil {
		return err
	}
	data := buf.Bytes()

	var errs []error
	for _, dest := range destinations {
		if err := dest.Write(ctx, data); err != nil {
			logger.Error("export destination write failed", "destination", dest.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", dest.Name(), err))
			continue
		}
		attrs := []any{"destination", dest.Name(), "bytes", len(data)}
		if v, ok := dest.(Versioned); ok && v.Version() != "" {
			attrs = append(attrs, "version", v.Version())
		}
		logger.Debug("export destination written", attrs...)
	}

	logger.Info("export completed", "destinations", len(destinations), "failed", len(errs), "instances", len(s.Instances))
	return errors.Join(errs...)
}
