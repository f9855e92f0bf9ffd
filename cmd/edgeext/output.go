package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/edgeext/internal/export"
	"github.com/alfredjeanlab/edgeext/internal/model"
	"github.com/alfredjeanlab/edgeext/internal/schema"
	"github.com/alfredjeanlab/edgeext/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printValidationErrors reports field errors and exits. Errors that are not
// validation errors are returned unchanged for the caller to handle.
func printValidationErrors(err error) error {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	if jsonOutput {
		printJSON(map[string]any{"errors": ve.ByPath()})
	} else {
		for _, fe := range ve.Errors {
			fmt.Fprintln(os.Stderr, ui.RenderFieldError(fe.Field, fe.Message))
		}
	}
	os.Exit(1)
	return nil
}

func printInstanceTable(w io.Writer, instances []model.Instance) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tPROPERTY\tORG\tEDGE DOMAIN\tCONTEXT")
	for i, in := range instances {
		ctx := string(in.ContextGranularity)
		if in.ContextGranularity == model.GranularitySpecific {
			ctx = fmt.Sprintf("%v", in.Context)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i, in.Name, in.PropertyID, in.OrganizationID, in.EdgeDomain, ctx)
	}
	tw.Flush()
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadSettings reads stored settings and checks them against the settings
// schema. A missing file is treated as empty settings.
func loadSettings(path string) (model.Settings, error) {
	raw, err := readInput(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Settings{}, nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	if err := schema.Validate(schema.KindSettings, raw); err != nil {
		return model.Settings{}, err
	}
	return export.ReadSettings(bytes.NewReader(raw))
}

// loadWorking reads fully populated working settings.
func loadWorking(path string) (model.WorkingSettings, error) {
	raw, err := readInput(path)
	if err != nil {
		return model.WorkingSettings{}, err
	}
	var w model.WorkingSettings
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.WorkingSettings{}, fmt.Errorf("decoding working settings: %w", err)
	}
	return w, nil
}
