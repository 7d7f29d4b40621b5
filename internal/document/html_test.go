package document

import "testing"

const sampleDoc = `<html>
<head><title>Field Notes on Soil Carbon</title></head>
<body>
<h1>Field Notes on Soil Carbon</h1>
<p>Opening remarks about the study area.</p>
<h2>Methods</h2>
<p>Samples were collected at ten sites along the ridge.</p>
<h2>Results</h2>
<p>Carbon density increased with elevation in every transect.</p>
<ul><li>Site A doubled its baseline.</li></ul>
</body>
</html>`

func TestHTMLStoreContextFor(t *testing.T) {
	store, err := NewHTMLStore(sampleDoc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	ctx, rng := store.ContextFor("increased with elevation")

	if ctx.DocumentTitle != "Field Notes on Soil Carbon" {
		t.Errorf("unexpected title: %q", ctx.DocumentTitle)
	}
	if ctx.SectionHeading != "Results" {
		t.Errorf("expected nearest preceding heading, got %q", ctx.SectionHeading)
	}
	if ctx.SurroundingParagraph != "Carbon density increased with elevation in every transect." {
		t.Errorf("unexpected paragraph: %q", ctx.SurroundingParagraph)
	}
	if rng.Start < 0 {
		t.Error("expected the selection to be located in the body text")
	}
	if rng.Length != len("increased with elevation") {
		t.Errorf("unexpected range length %d", rng.Length)
	}
}

func TestHTMLStoreListItems(t *testing.T) {
	store, err := NewHTMLStore(sampleDoc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	ctx, _ := store.ContextFor("doubled its baseline")
	if ctx.SurroundingParagraph != "Site A doubled its baseline." {
		t.Errorf("unexpected paragraph: %q", ctx.SurroundingParagraph)
	}
	if ctx.SectionHeading != "Results" {
		t.Errorf("unexpected heading: %q", ctx.SectionHeading)
	}
}

func TestHTMLStoreUnknownSelection(t *testing.T) {
	store, err := NewHTMLStore(sampleDoc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	ctx, rng := store.ContextFor("text that is nowhere")
	if ctx.SelectedText != "text that is nowhere" {
		t.Errorf("selected text must always be present, got %q", ctx.SelectedText)
	}
	if ctx.SurroundingParagraph != "" || ctx.SectionHeading != "" {
		t.Errorf("expected empty context fields, got %+v", ctx)
	}
	if rng.Start != -1 {
		t.Errorf("expected unlocated range, got start %d", rng.Start)
	}
}

func TestHTMLStoreTitleFallsBackToH1(t *testing.T) {
	store, err := NewHTMLStore("<html><body><h1>Untitled Draft</h1><p>x</p></body></html>")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if store.Title() != "Untitled Draft" {
		t.Errorf("expected h1 fallback, got %q", store.Title())
	}
}

func TestStaticStore(t *testing.T) {
	s := StaticStore{Ctx: Context{DocumentTitle: "T"}, Rng: Range{Start: 3, Length: 0}}
	ctx, rng := s.ContextFor("sel")
	if ctx.SelectedText != "sel" || ctx.DocumentTitle != "T" {
		t.Errorf("unexpected context: %+v", ctx)
	}
	if rng.Start != 3 {
		t.Errorf("unexpected range: %+v", rng)
	}
}
