package mosaic

import (
	"context"
	"fmt"
	"html/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ContextRenderable is the interface for anything that can render itself to
// HTML given a parent context. The parent context may be nil when the caller
// has no data to pass down. The returned HTML is pre-escaped and safe to
// embed directly; implementations are trusted to have rendered through an
// escaping template engine.
type ContextRenderable interface {
	RenderHTML(ctx context.Context, parent *Context) (template.HTML, error)
}

// SimpleRenderable is the interface for things that can render themselves
// without any caller-supplied context. The returned text is NOT marked safe:
// a Directive emitting it will escape it according to the surrounding
// autoescape setting. It exists as a migration path for values that haven't
// adopted the component pattern yet; Directives only fall back to it when
// the embedding instruction explicitly permits it.
type SimpleRenderable interface {
	Render(ctx context.Context) (string, error)
}

// MediaDefiner is an interface that renderables can fulfill to declare the
// front-end assets they need.
type MediaDefiner interface {
	// Media returns the asset manifest for this value. It should be
	// stable across calls; declare it once at construction.
	Media() Manifest
}

var _ ContextRenderable = &Component{}
var _ MediaDefiner = &Component{}

// Component is the base self-rendering view fragment. User components
// usually embed a *Component, set its fields at construction, and get
// RenderHTML, template resolution, and asset declaration for free.
//
// Exactly one template source must be usable at render time: a TemplateName
// that resolves through the Engine, or a TemplateBody compiled inline. If
// neither is available, RenderHTML fails with ErrNotConfigured.
//
// Components are meant to be immutable after construction; a single instance
// can then safely be rendered from multiple goroutines, provided its
// ContextFunc doesn't touch shared mutable state.
type Component struct {
	// Engine resolves the component's template.
	Engine Engine

	// TemplateName identifies the template through the Engine. Takes
	// precedence over TemplateBody when set.
	TemplateName string

	// TemplateBody is an inline template source, compiled through the
	// Engine when no TemplateName is set.
	TemplateBody string

	// MediaDef is the asset manifest this component declares.
	MediaDef Manifest

	// ContextFunc derives the data mapping the template is rendered
	// with. When nil, the template gets an empty mapping. A nil map
	// returned from ContextFunc is treated as empty rather than as an
	// error.
	ContextFunc func(ctx context.Context, parent *Context) (map[string]any, error)
}

// Media returns the component's declared asset manifest.
func (c *Component) Media() Manifest {
	return c.MediaDef
}

// ContextData produces the data mapping the component's template is rendered
// with. The parent context comes from whatever is embedding the component
// and may be nil.
func (c *Component) ContextData(ctx context.Context, parent *Context) (map[string]any, error) {
	if c.ContextFunc == nil {
		return map[string]any{}, nil
	}
	data, err := c.ContextFunc(ctx, parent)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// ResolveTemplate returns the template the component renders with: the
// TemplateName resolved through the Engine if one is set, the TemplateBody
// compiled inline otherwise. If neither is configured, it returns
// ErrNotConfigured.
func (c *Component) ResolveTemplate(ctx context.Context) (Template, error) {
	if c.Engine == nil {
		return nil, fmt.Errorf("%w: no engine", ErrNotConfigured)
	}
	if c.TemplateName != "" {
		tmpl, err := c.Engine.GetTemplate(ctx, c.TemplateName)
		if err != nil {
			return nil, fmt.Errorf("error resolving template %q: %w", c.TemplateName, err)
		}
		return tmpl, nil
	}
	if c.TemplateBody != "" {
		tmpl, err := c.Engine.CompileInline(ctx, c.TemplateBody)
		if err != nil {
			return nil, fmt.Errorf("error compiling template body: %w", err)
		}
		return tmpl, nil
	}
	return nil, ErrNotConfigured
}

// RenderHTML renders the component: it produces the context data, resolves
// the template, and executes it. The output is safe to embed directly; the
// Engine is trusted to have applied its own escaping while rendering, and
// the component layer never escapes it again.
func (c *Component) RenderHTML(ctx context.Context, parent *Context) (template.HTML, error) {
	ctx, span := tracer().Start(ctx, "Component.RenderHTML")
	defer span.End()
	span.SetAttributes(attribute.String("mosaic.template_name", c.TemplateName))

	data, err := c.ContextData(ctx, parent)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "producing context data")
		return "", fmt.Errorf("error producing context data: %w", err)
	}
	tmpl, err := c.ResolveTemplate(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolving template")
		return "", err
	}
	html, err := tmpl.Render(ctx, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rendering template")
		return "", err
	}
	return html, nil
}
