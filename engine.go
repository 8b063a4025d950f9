package mosaic

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sync"
)

// Template is a handle to a parsed template that can be executed with a data
// mapping. Implementations are expected to apply their own escaping rules
// while rendering; the HTML they return is treated as safe by the rest of
// the package and is never escaped again.
type Template interface {
	Render(ctx context.Context, data map[string]any) (template.HTML, error)
}

// Engine resolves template identifiers to Templates. Components consult it
// at render time; mosaic ships FSEngine, but anything that can hand back a
// Template works.
type Engine interface {
	// GetTemplate returns the template registered under the passed name.
	// It returns an error wrapping ErrTemplateNotFound if no template by
	// that name exists.
	GetTemplate(ctx context.Context, name string) (Template, error)

	// CompileInline compiles a template from its source text.
	CompileInline(ctx context.Context, source string) (Template, error)
}

var _ Engine = &FSEngine{}

// FSEngine is an Engine that loads html/template files from an fs.FS,
// caching parsed templates in memory so each file is only parsed once.
// Inline compiles are cached too, keyed by a checksum of the source. An
// FSEngine must be created with NewFSEngine; its empty value is not usable.
type FSEngine struct {
	// cache our templates to avoid re-parsing them for every request
	templateCache   map[string]*template.Template
	templateCacheMu sync.RWMutex

	inlineCache   map[string]*template.Template
	inlineCacheMu sync.RWMutex

	// templateDir is where GetTemplate looks for template files.
	templateDir fs.FS

	funcs template.FuncMap
}

// NewFSEngine returns an FSEngine reading templates from the passed fs.FS.
func NewFSEngine(templates fs.FS) *FSEngine {
	return &FSEngine{
		templateCache: map[string]*template.Template{},
		inlineCache:   map[string]*template.Template{},
		templateDir:   templates,
	}
}

// Funcs sets the function map made available to every template the engine
// parses, returning the engine for chaining. It must be called before the
// engine is used to render; it is not safe to call concurrently with
// rendering.
func (e *FSEngine) Funcs(funcs template.FuncMap) *FSEngine {
	e.funcs = funcs
	return e
}

// GetTemplate returns the template stored in the file with the passed name,
// parsing and caching it on first use.
//
// It can safely be used by multiple goroutines.
func (e *FSEngine) GetTemplate(_ context.Context, name string) (Template, error) {
	e.templateCacheMu.RLock()
	cached, ok := e.templateCache[name]
	e.templateCacheMu.RUnlock()
	if ok {
		return fsTemplate{tmpl: cached, name: name}, nil
	}
	contents, err := fs.ReadFile(e.templateDir, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("error reading template %q: %w", name, err)
	}
	parsed, err := template.New(name).Funcs(e.funcs).Parse(string(contents))
	if err != nil {
		return nil, fmt.Errorf("error parsing template %q: %w", name, err)
	}
	e.templateCacheMu.Lock()
	e.templateCache[name] = parsed
	e.templateCacheMu.Unlock()
	return fsTemplate{tmpl: parsed, name: name}, nil
}

// CompileInline compiles a template from its source text, caching the result
// keyed by a checksum of the source.
//
// It can safely be used by multiple goroutines.
func (e *FSEngine) CompileInline(_ context.Context, source string) (Template, error) {
	sum := sha256.Sum256([]byte(source))
	key := hex.EncodeToString(sum[:])
	e.inlineCacheMu.RLock()
	cached, ok := e.inlineCache[key]
	e.inlineCacheMu.RUnlock()
	if ok {
		return fsTemplate{tmpl: cached, name: "inline"}, nil
	}
	parsed, err := template.New("inline").Funcs(e.funcs).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("error parsing inline template: %w", err)
	}
	e.inlineCacheMu.Lock()
	e.inlineCache[key] = parsed
	e.inlineCacheMu.Unlock()
	return fsTemplate{tmpl: parsed, name: "inline"}, nil
}

// fsTemplate adapts a parsed *template.Template to the Template interface.
type fsTemplate struct {
	tmpl *template.Template
	name string
}

func (t fsTemplate) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	var out bytes.Buffer
	err := t.tmpl.Execute(&out, data)
	if err != nil {
		return "", fmt.Errorf("error executing template %q: %w", t.name, err)
	}
	// html/template escaped everything while executing, so the output is
	// safe to embed as-is.
	return template.HTML(out.String()), nil // #nosec G203
}
