package mosaic

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"path"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handler serves registered components over HTTP. The final segment of the
// request path is the registry key; the query parameters become the keyword
// arguments the component is constructed with. The constructed component is
// rendered with no parent context and the HTML is written as the response
// body.
//
// A Handler must be created with NewHandler; its empty value is not usable.
type Handler struct {
	registry *Registry

	// OnError is called when looking up, constructing, or rendering the
	// component fails. The default maps registry misses to 404, argument
	// mismatches to 400, and everything else to 500. Replace it to
	// customize error responses.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// NewHandler returns a Handler serving components from the passed registry.
// Passing nil serves from the DefaultRegistry.
func NewHandler(registry *Registry) *Handler {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Handler{
		registry: registry,
		OnError: func(w http.ResponseWriter, _ *http.Request, err error) {
			if IsNotFound(err) {
				http.Error(w, "Not found.", http.StatusNotFound)
				return
			}
			if IsConstruction(err) {
				http.Error(w, "Bad request.", http.StatusBadRequest)
				return
			}
			http.Error(w, "Server error.", http.StatusInternalServerError)
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer().Start(r.Context(), "Handler.ServeHTTP")
	defer span.End()

	key := path.Base(path.Clean("/" + r.URL.Path))
	if key == "/" || key == "." {
		h.fail(ctx, w, r, ErrNotFound)
		return
	}
	span.SetAttributes(attribute.String("mosaic.component_key", key))

	factory, err := h.registry.Lookup(key)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}

	args := map[string]string{}
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			args[name] = values[0]
		}
	}

	// errors the factory raises itself pass through to OnError unchanged;
	// only argument mismatches carry ErrConstruction
	component, err := factory(args)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}

	var html template.HTML
	switch renderable := component.(type) {
	case ContextRenderable:
		html, err = renderable.RenderHTML(ctx, nil)
	case SimpleRenderable:
		var plain string
		plain, err = renderable.Render(ctx)
		html = template.HTML(template.HTMLEscapeString(plain)) // #nosec G203
	default:
		err = fmt.Errorf("%w: %v (%T)", ErrCannotRender, component, component)
	}
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write([]byte(html))
	if err != nil {
		logger(ctx).Error("error writing component response", "error", err)
	}
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, "serving component")
	logger(ctx).Error("error serving component", "error", err, "path", r.URL.Path)
	h.OnError(w, r, err)
}
