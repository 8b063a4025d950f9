package mosaic

import (
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"
)

// Manifest declares the front-end assets a component needs: stylesheet
// references grouped by an arbitrary tag (usually a media type like "all" or
// "print"), and an ordered list of script references.
//
// The zero Manifest is the empty manifest, and it's the identity for Merge:
// merging it on either side of another manifest returns that manifest's
// contents unchanged.
type Manifest struct {
	// CSS maps a style group name to the ordered stylesheet references in
	// that group.
	CSS map[string][]string

	// JS is the ordered list of script references.
	JS []string
}

// Merge combines two manifests into a new one, leaving both operands
// untouched. Within each style group, and within the script list, m's
// references come first, then other's, and every reference appears at most
// once: the first occurrence wins and order of first appearance is
// preserved. That makes Merge associative with the zero Manifest as
// identity, so folding it over a sequence of manifests yields the
// first-appearance order across the whole sequence.
func (m Manifest) Merge(other Manifest) Manifest {
	result := Manifest{}
	if len(m.CSS) > 0 || len(other.CSS) > 0 {
		result.CSS = map[string][]string{}
		for group := range m.CSS {
			result.CSS[group] = dedupe(m.CSS[group], other.CSS[group])
		}
		for group := range other.CSS {
			if _, ok := result.CSS[group]; ok {
				continue
			}
			result.CSS[group] = dedupe(nil, other.CSS[group])
		}
	}
	if len(m.JS) > 0 || len(other.JS) > 0 {
		result.JS = dedupe(m.JS, other.JS)
	}
	return result
}

// Empty reports whether the manifest declares no assets at all.
func (m Manifest) Empty() bool {
	return len(m.CSS) < 1 && len(m.JS) < 1
}

// RenderTags returns the manifest as HTML: one <link> element per stylesheet
// reference, followed by one <script> element per script reference. Style
// groups are rendered in lexical order so the output is deterministic;
// references within a group, and scripts, keep their manifest order.
// Reference strings are attribute-escaped.
func (m Manifest) RenderTags() template.HTML {
	var out strings.Builder
	for _, group := range slices.Sorted(maps.Keys(m.CSS)) {
		for _, href := range m.CSS[group] {
			fmt.Fprintf(&out, "<link rel=\"stylesheet\" href=\"%s\" media=\"%s\">\n",
				template.HTMLEscapeString(href), template.HTMLEscapeString(group))
		}
	}
	for _, src := range m.JS {
		fmt.Fprintf(&out, "<script src=\"%s\"></script>\n", template.HTMLEscapeString(src))
	}
	return template.HTML(out.String()) // #nosec G203
}

// dedupe concatenates the passed reference lists into a fresh slice, keeping
// only the first occurrence of each reference.
func dedupe(lists ...[]string) []string {
	var results []string
	seen := map[string]struct{}{}
	for _, list := range lists {
		for _, ref := range list {
			if _, ok := seen[ref]; ok {
				continue
			}
			results = append(results, ref)
			seen[ref] = struct{}{}
		}
	}
	return results
}
