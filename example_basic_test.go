package mosaic_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing/fstest"

	"impractical.co/mosaic"
)

func ExampleComponent_RenderHTML() {
	// normally the templates come from embed.FS or os.DirFS; for example
	// purposes, we're hardcoding values
	templates := fstest.MapFS{
		"profile.html.tmpl": &fstest.MapFile{
			Data: []byte(`<h1>Hello, {{ .name }}!</h1>`),
		},
	}
	engine := mosaic.NewFSEngine(templates)

	profile := &mosaic.Component{
		Engine:       engine,
		TemplateName: "profile.html.tmpl",
		ContextFunc: func(_ context.Context, parent *mosaic.Context) (map[string]any, error) {
			name, _ := parent.Get("name")
			return map[string]any{"name": name}, nil
		},
	}

	// usually the context comes from the request; here we're building it
	// from scratch and adding a logger
	ctx := mosaic.LoggingContext(context.Background(), slog.Default())

	html, err := profile.RenderHTML(ctx, mosaic.NewContext(map[string]any{"name": "Dan"}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(html)

	// Output:
	// <h1>Hello, Dan!</h1>
}

func ExampleComponent_RenderHTML_inlineTemplate() {
	// a component with no template name falls back to compiling its
	// inline template body
	engine := mosaic.NewFSEngine(fstest.MapFS{})
	badge := &mosaic.Component{
		Engine:       engine,
		TemplateBody: `<span class="badge">{{ .label }}</span>`,
		ContextFunc: func(_ context.Context, _ *mosaic.Context) (map[string]any, error) {
			return map[string]any{"label": "new"}, nil
		},
	}

	html, err := badge.RenderHTML(context.Background(), nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(html)

	// Output:
	// <span class="badge">new</span>
}
