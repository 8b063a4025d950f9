package mosaic_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"impractical.co/mosaic"
)

func templateFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, contents := range files {
		fsys[name] = &fstest.MapFile{
			Data:    []byte(contents),
			Mode:    0777,
			ModTime: time.Now(),
		}
	}
	return fsys
}

func TestComponentRenderHTML(t *testing.T) {
	t.Parallel()

	engine := mosaic.NewFSEngine(templateFS(map[string]string{
		"greeting.html.tmpl": `{{ .greeting }}, {{ .name }}!`,
	}))
	component := &mosaic.Component{
		Engine:       engine,
		TemplateName: "greeting.html.tmpl",
		ContextFunc: func(_ context.Context, parent *mosaic.Context) (map[string]any, error) {
			name, _ := parent.Get("name")
			return map[string]any{"greeting": "Hello", "name": name}, nil
		},
	}
	html, err := component.RenderHTML(context.Background(), mosaic.NewContext(map[string]any{"name": "Dan"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(html) != "Hello, Dan!" {
		t.Errorf("expected %q, got %q", "Hello, Dan!", html)
	}
}

func TestComponentTemplateBodyFallback(t *testing.T) {
	t.Parallel()

	engine := mosaic.NewFSEngine(templateFS(nil))
	component := &mosaic.Component{
		Engine:       engine,
		TemplateBody: `inline says {{ .word }}`,
		ContextFunc: func(_ context.Context, _ *mosaic.Context) (map[string]any, error) {
			return map[string]any{"word": "hi"}, nil
		},
	}
	html, err := component.RenderHTML(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(html) != "inline says hi" {
		t.Errorf("expected %q, got %q", "inline says hi", html)
	}
}

func TestComponentNamePrecedesBody(t *testing.T) {
	t.Parallel()

	engine := mosaic.NewFSEngine(templateFS(map[string]string{
		"named.html.tmpl": `from the file`,
	}))
	component := &mosaic.Component{
		Engine:       engine,
		TemplateName: "named.html.tmpl",
		TemplateBody: `from the body`,
	}
	html, err := component.RenderHTML(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(html) != "from the file" {
		t.Errorf("expected the template name to win over the body, got %q", html)
	}
}

func TestComponentNotConfigured(t *testing.T) {
	t.Parallel()

	component := &mosaic.Component{
		Engine: mosaic.NewFSEngine(templateFS(nil)),
	}
	_, err := component.RenderHTML(context.Background(), nil)
	if !errors.Is(err, mosaic.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	component = &mosaic.Component{TemplateBody: "no engine"}
	_, err = component.RenderHTML(context.Background(), nil)
	if !errors.Is(err, mosaic.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured without an engine, got %v", err)
	}
}

func TestComponentTemplateNotFound(t *testing.T) {
	t.Parallel()

	component := &mosaic.Component{
		Engine:       mosaic.NewFSEngine(templateFS(nil)),
		TemplateName: "missing.html.tmpl",
	}
	_, err := component.RenderHTML(context.Background(), nil)
	if !errors.Is(err, mosaic.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestComponentNilContextData(t *testing.T) {
	t.Parallel()

	// a ContextFunc returning a nil map is treated as returning an empty
	// one, not as an error
	component := &mosaic.Component{
		Engine:       mosaic.NewFSEngine(templateFS(nil)),
		TemplateBody: `static output`,
		ContextFunc: func(_ context.Context, _ *mosaic.Context) (map[string]any, error) {
			return nil, nil
		},
	}
	html, err := component.RenderHTML(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(html) != "static output" {
		t.Errorf("expected %q, got %q", "static output", html)
	}
}

func TestComponentContextFuncError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("no data today")
	component := &mosaic.Component{
		Engine:       mosaic.NewFSEngine(templateFS(nil)),
		TemplateBody: `unreachable`,
		ContextFunc: func(_ context.Context, _ *mosaic.Context) (map[string]any, error) {
			return nil, wantErr
		},
	}
	_, err := component.RenderHTML(context.Background(), nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected the context error to propagate, got %v", err)
	}
}

func TestComponentRenderIdempotent(t *testing.T) {
	t.Parallel()

	engine := mosaic.NewFSEngine(templateFS(map[string]string{
		"fixed.html.tmpl": `always the same`,
	}))
	component := &mosaic.Component{
		Engine:       engine,
		TemplateName: "fixed.html.tmpl",
	}
	first, err := component.RenderHTML(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 3 {
		again, err := component.RenderHTML(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Errorf("expected identical output across renders, got %q then %q", first, again)
		}
	}
}

func TestComponentMedia(t *testing.T) {
	t.Parallel()

	component := &mosaic.Component{
		MediaDef: mosaic.Manifest{
			CSS: map[string][]string{"all": {"widget.css"}},
			JS:  []string{"widget.js"},
		},
	}
	media := component.Media()
	if len(media.CSS["all"]) != 1 || media.CSS["all"][0] != "widget.css" {
		t.Errorf("expected declared CSS, got %v", media.CSS)
	}
	if len(media.JS) != 1 || media.JS[0] != "widget.js" {
		t.Errorf("expected declared JS, got %v", media.JS)
	}
}
