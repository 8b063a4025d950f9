// Package mosaic provides self-rendering view fragments ("components") that
// can be composed into larger pages, built on top of the html/template
// package.
//
// mosaic is organized around Components. A Component is a piece of the HTML
// document that knows how to render itself: it resolves a template through an
// Engine, produces the context data that template needs, and returns the
// rendered HTML. Components tend to be structs that embed *mosaic.Component,
// with properties for whatever data they want to pass to their templates.
//
// Components can declare front-end assets through a Manifest: stylesheet
// references grouped by a media tag, and an ordered list of script
// references. When components are nested, their manifests are combined with
// Merge, which keeps the first occurrence of each reference and preserves
// order. A MediaContainer holds an ordered collection of components and
// exposes the merged manifest of all its members, so the calling code can
// render one asset bundle for a whole page with no duplicates.
//
// To embed one component inside another template, parse an embedding
// instruction with ParseDirective. The resulting Directive controls exactly
// what data the nested component sees: by default the parent's bindings plus
// any explicit overrides, or only the explicit bindings when the instruction
// says "only". Directives can also capture the rendered output into a parent
// variable instead of emitting it, and they apply the parent's autoescape
// policy to any output that isn't already marked safe.
//
// For dynamic serving, component constructors can be registered in a Registry
// under a string key, and Handler will look them up by URL path, construct
// them from query parameters, and serve the rendered HTML.
package mosaic
