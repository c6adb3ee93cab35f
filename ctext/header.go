package ctext

import (
	"fmt"
	"strings"
	"time"

	"github.com/membank/cdata"
)

// HeaderOptions controls header file generation.
type HeaderOptions struct {
	// Doc is an explanatory comment placed at the top of the file.
	Doc string
	// Guard names the include guard. Empty derives a guard from the
	// first type's name; NoGuard suppresses it entirely.
	Guard   string
	NoGuard bool
	// Includes are literal include lines emitted inside the guard,
	// e.g. "#include <stdint.h>".
	Includes []string
	// IncludeNative also emits native types. Normally a definition of
	// "int" in generated C would be nonsense, so natives are omitted.
	IncludeNative bool
	// Stamp is the generation time recorded in the top comment. The
	// zero value means now.
	Stamp time.Time
}

// Header generates a C header defining the given types. Types are
// included recursively in dependency order, each exactly once, with
// all prototypes before all definitions so mutually referential
// structs compile.
func Header(opts HeaderOptions, types ...cdata.Type) string {
	all := collectTypes(types, opts.IncludeNative)

	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	top := ""
	if opts.Doc != "" {
		top = opts.Doc + "\n\n"
	}
	top += fmt.Sprintf("Automatically generated at %s by cdata.", stamp.Format(time.RFC3339))

	var b strings.Builder
	b.WriteString(comment(top))
	b.WriteString("\n\n")

	guard := ""
	if !opts.NoGuard {
		guard = opts.Guard
		if guard == "" {
			guard = deriveGuard(all)
		}
		fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	}

	for _, inc := range opts.Includes {
		b.WriteString(inc)
		b.WriteByte('\n')
	}
	if len(opts.Includes) > 0 {
		b.WriteByte('\n')
	}

	for _, t := range all {
		if p := Prototype(t); p != "" {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
	}
	for _, t := range all {
		if d := Definition(t); d != "" {
			b.WriteString(d)
			b.WriteString("\n\n")
		}
	}

	if guard != "" {
		fmt.Fprintf(&b, "#endif /* %s */\n", guard)
	}
	return b.String()
}

// collectTypes expands the requested types to their full dependency
// closure, dependencies first, each name exactly once.
func collectTypes(types []cdata.Type, includeNative bool) []cdata.Type {
	var all []cdata.Type
	seen := make(map[string]bool)
	for _, t := range types {
		for dep := range cdata.IterTypes(t) {
			if seen[dep.Name()] {
				continue
			}
			seen[dep.Name()] = true
			if dep.Native() && !includeNative {
				continue
			}
			all = append(all, dep)
		}
	}
	return all
}

// deriveGuard builds an include guard from the first definable type
// name: "CDATA_FOO_H".
func deriveGuard(types []cdata.Type) string {
	name := "TYPES"
	for _, t := range types {
		if Definition(t) != "" {
			name = t.Name()
			break
		}
	}
	var b strings.Builder
	b.WriteString("CDATA_")
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString("_H")
	return b.String()
}
