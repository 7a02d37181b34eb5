package vanilla_test

import (
	"context"
	"io/fs"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-widgetgen/pkg/responses"
	"github.com/goliatone/go-widgetgen/pkg/testsupport"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

func renderFeedback(t *testing.T, store *responses.Store, opts render.RenderOptions, interpretOpts ...interpreter.Option) string {
	t.Helper()

	spec := testsupport.FeedbackSpec(t)
	tree, err := interpreter.Interpret(spec, store, interpretOpts...)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), tree, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_ElementOrderAndControls(t *testing.T) {
	html := renderFeedback(t, responses.NewStore(), render.RenderOptions{})

	ordered := []string{
		`data-element-id="intro"`,
		`id="wg-name"`,
		`id="wg-comments"`,
		`id="wg-channel"`,
		`name="recommend"`,
		`data-unknown-type="timer"`,
		`id="wg-submit"`,
	}
	last := -1
	for _, fragment := range ordered {
		idx := strings.Index(html, fragment)
		if idx < 0 {
			t.Fatalf("expected %s in output:\n%s", fragment, html)
		}
		if idx < last {
			t.Fatalf("fragment %s rendered out of order", fragment)
		}
		last = idx
	}

	for _, fragment := range []string{
		"Feedback Form",
		"Tell us how we did",
		"Unknown element type: timer",
		`placeholder="Jane Doe"`,
		`<option value="">Select an option</option>`,
		"background-color: #f8fafc",
		"font-family: Inter, system-ui, sans-serif",
		"font-size: 18px",
		`type="button"`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}

	if got := strings.Count(html, `aria-required="true"`); got != 1 {
		t.Fatalf("expected only the name field marked required, got %d", got)
	}

	if strings.Contains(html, "<form") {
		t.Fatalf("form wrapper rendered without submission config")
	}
	if strings.Contains(html, "wg-result") {
		t.Fatalf("result block rendered without a result")
	}
}

func TestRenderer_ReflectsStoredResponses(t *testing.T) {
	store := responses.NewStore()
	store.Set("name", "Ada")
	store.Set("channel", "Search")
	store.Set("recommend", "Yes")

	html := renderFeedback(t, store, render.RenderOptions{})

	for _, fragment := range []string{
		`value="Ada"`,
		`<option value="Search" selected>Search</option>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
	if !radioChecked(html, "recommend", "Yes") {
		t.Fatalf("expected the stored radio option to be checked:\n%s", html)
	}
	if radioChecked(html, "recommend", "No") {
		t.Fatalf("unanswered option rendered as checked")
	}
}

// radioChecked reports whether the radio input for name/value carries the
// checked attribute, whatever order the attributes come in.
func radioChecked(html, name, value string) bool {
	tag := regexp.MustCompile(`<input type="radio"[^>]*>`)
	for _, input := range tag.FindAllString(html, -1) {
		if !strings.Contains(input, `name="`+name+`"`) || !strings.Contains(input, `value="`+value+`"`) {
			continue
		}
		return regexp.MustCompile(`\schecked(\s|=|>)`).MatchString(input)
	}
	return false
}

func TestRenderer_ResultAndNotices(t *testing.T) {
	store := responses.NewStore()
	store.Set("name", "Ada")
	snapshot := store.Snapshot()

	html := renderFeedback(t, store, render.RenderOptions{
		Notices: []string{"Failed to apply changes. Please try again.", ""},
	}, interpreter.WithResult(&snapshot))

	for _, fragment := range []string{
		`class="wg-result"`,
		"Results:",
		"&quot;name&quot;: &quot;Ada&quot;",
		`role="alert"`,
		"Failed to apply changes. Please try again.",
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
	if strings.Index(html, "Failed to apply") > strings.Index(html, "Feedback Form") {
		t.Fatalf("notices should render above the title")
	}
}

func TestRenderer_SubmissionWrapsForm(t *testing.T) {
	sub := render.Submission{
		ChangeURL: "/api/sessions/abc/responses",
		SubmitURL: "/api/sessions/abc/submit/",
	}.WithHidden(render.Hidden("session", "abc"))

	html := renderFeedback(t, responses.NewStore(), render.RenderOptions{Submission: sub})

	for _, fragment := range []string{
		`<form class="wg-form" method="post" action="/api/sessions/abc/responses">`,
		`<input type="hidden" name="session" value="abc">`,
		`formaction="/api/sessions/abc/submit/submit"`,
		`type="submit"`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
}

func TestRenderer_ThemeConfig(t *testing.T) {
	partials := fstest.MapFS{
		"custom/input.tmpl": {Data: []byte(`<input class="themed" name="{{ node.id }}">` + "\n")},
	}
	files := mergeFS(t, partials)

	renderer, err := vanilla.New(vanilla.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	tree, err := interpreter.Interpret(testsupport.FeedbackSpec(t), responses.NewStore())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}

	out, err := renderer.Render(context.Background(), tree, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:    "ocean",
			Variant:  "dark",
			Partials: map[string]string{"widget.input": "custom/input.tmpl"},
			CSSVars:  map[string]string{"--primary": "#0ea5e9", "ignored": "x"},
			AssetURL: func(key string) string {
				return "/assets/ocean/" + key + ".css"
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, fragment := range []string{
		`data-theme="ocean"`,
		`data-theme-variant="dark"`,
		`--primary: #0ea5e9`,
		`<link rel="stylesheet" href="/assets/ocean/widget.stylesheet.css">`,
		`<input class="themed" name="name">`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
	if strings.Contains(html, "ignored") {
		t.Fatalf("non custom-property css var leaked into output")
	}
	if !strings.Contains(html, `id="wg-comments"`) {
		t.Fatalf("textarea should keep the default component")
	}
}

func TestRenderer_EscapesAndStripsMarkup(t *testing.T) {
	spec := widget.Spec{
		Title: `<script>alert(1)</script>Quiz & Co`,
		Elements: []widget.Element{
			{ID: "q", Type: widget.ElementInput, Label: `<b>Name</b>`, Placeholder: `"quoted"`},
		},
	}
	tree, err := interpreter.Interpret(spec, responses.NewStore())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>") {
		t.Fatalf("markup leaked into output:\n%s", html)
	}
	for _, fragment := range []string{"Quiz &amp; Co", ">Name</label>", `placeholder="&quot;quoted&quot;"`} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
}

func TestRenderer_MissingIDPlaceholder(t *testing.T) {
	spec := widget.Spec{
		Title:    "Broken",
		Elements: []widget.Element{{Type: widget.ElementInput, Label: "Orphan"}},
	}
	tree, err := interpreter.Interpret(spec, responses.NewStore())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "Element without id: input") {
		t.Fatalf("expected missing id placeholder, got:\n%s", out)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, interpreter.Tree{Title: "x"}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected canceled context error")
	}
}

func mergeFS(t *testing.T, extra fstest.MapFS) fstest.MapFS {
	t.Helper()
	out := fstest.MapFS{}
	for _, name := range []string{
		"templates/widget.tmpl",
		"templates/components/text.tmpl",
		"templates/components/input.tmpl",
		"templates/components/textarea.tmpl",
		"templates/components/select.tmpl",
		"templates/components/radio.tmpl",
		"templates/components/button.tmpl",
		"templates/components/placeholder.tmpl",
	} {
		data, err := fs.ReadFile(vanilla.TemplatesFS(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		out[name] = &fstest.MapFile{Data: data}
	}
	for name, file := range extra {
		out[name] = file
	}
	return out
}
