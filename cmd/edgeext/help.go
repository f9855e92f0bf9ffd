package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/edgeext/internal/ui"
)

// Patterns used to colorize Cobra's usage text.
var (
	// Group headers such as "Settings:" or "Flags:". "Usage:" is left plain.
	reHeader = regexp.MustCompile(`(?m)^[A-Z][A-Za-z ]*:[ \t]*$`)

	// Subcommand rows: two-space indent, the name, then padding.
	reSubcommand = regexp.MustCompile(`(?m)^(  )([a-z][\w-]*)(  +)`)

	// Flag value types and defaults.
	reFlagDetail = regexp.MustCompile(`\b(string|int|duration|stringArray)\b|\(default [^)]*\)`)
)

// colorizedHelpFunc renders usage text with ANSI colors when stdout is a
// color-capable terminal.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, colorizeHelp(buf.String()))
	}
}

func colorizeHelp(s string) string {
	s = reHeader.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasPrefix(m, "Usage:") {
			return m
		}
		return ui.RenderAccent(m)
	})
	s = reSubcommand.ReplaceAllString(s, "$1"+ui.RenderCommand("$2")+"$3")
	return reFlagDetail.ReplaceAllStringFunc(s, ui.RenderMuted)
}
