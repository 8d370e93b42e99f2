package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// HelpData is what a command exposes to render its usage text.
type HelpData interface {
	Program() string
	Synopsis() string
	FlagSet() *flag.FlagSet
}

// UsageError carries the usage text of the command that was misused.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	return renderHelp(e.of)
}

func renderHelp(h HelpData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Usage: %s\n", h.Synopsis())
	if fs := h.FlagSet(); fs != nil {
		var flags []string
		fs.VisitAll(func(f *flag.Flag) {
			def := ""
			if f.DefValue != "" && f.DefValue != "false" {
				def = fmt.Sprintf(" (default %s)", f.DefValue)
			}
			flags = append(flags, fmt.Sprintf("  -%-20s %s%s", f.Name, f.Usage, def))
		})
		if len(flags) > 0 {
			sb.WriteString("\nFlags:\n")
			sb.WriteString(strings.Join(flags, "\n"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, renderHelp(h))
	}
}

func (r *root) Synopsis() string {
	return r.program + " [flags] <capture|annotate|gif|gallery|export|config|version> ..."
}

func (c *captureCmd) Synopsis() string {
	return c.program + " [flags] <screen|window|region|area>"
}

func (a *annotateCmd) Synopsis() string {
	return a.program + " [flags] <capture|open> [target|file]"
}

func (g *gifCmd) Synopsis() string {
	return g.program + " [flags] <x> <y> <w> <h>"
}

func (g *galleryCmd) Synopsis() string {
	return g.program + " [browse|list]"
}

func (e *exportCmd) Synopsis() string {
	return e.program + " -format pdf -file <image.png>"
}

func (c *configCmd) Synopsis() string {
	return c.program + " <show|init|path>"
}

func (v *versionCmd) Synopsis() string {
	return "lovshot version"
}
