package metadata

import (
	"encoding/xml"
	"testing"

	"oairepo/internal/content"
	"oairepo/internal/testutil"
	"oairepo/internal/vocab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderDC(t *testing.T, f *OaiDc, item *content.Item) *DC {
	t.Helper()
	body, err := f.Render(item)
	require.NoError(t, err)
	dc, ok := body.(*DC)
	require.True(t, ok)
	return dc
}

func elementTexts(dc *DC, name string) []string {
	var texts []string
	for _, e := range dc.Elements {
		if e.XMLName.Local == "dc:"+name {
			texts = append(texts, e.Text)
		}
	}
	return texts
}

func TestRender_PlainValues(t *testing.T) {
	cfg := testutil.Config()
	f := NewOaiDc(cfg, nil)
	item := &content.Item{
		ID: 7,
		Elements: map[string][]string{
			"title":   {"Lettres de Sorbonne"},
			"creator": {"Inconnu"},
			"type":    {"Manuscrit"},
		},
	}

	dc := renderDC(t, f, item)

	assert.Equal(t, []string{"Lettres de Sorbonne"}, elementTexts(dc, "title"))
	assert.Equal(t, []string{"Manuscrit"}, elementTexts(dc, "type"))
	assert.Equal(t, []string{"http://example.org/items/7"}, elementTexts(dc, "identifier"))

	// Elements come out in schema order: title before creator before type.
	assert.Equal(t, "dc:title", dc.Elements[0].XMLName.Local)
}

func TestRender_ItemTypeDecoration(t *testing.T) {
	cfg := testutil.Config()
	cfg.ExposeItemType = true
	f := NewOaiDc(cfg, nil)
	item := &content.Item{
		ID:           1,
		ItemTypeName: "Text",
		Elements:     map[string][]string{"type": {"Manuscrit"}},
	}

	dc := renderDC(t, f, item)

	assert.Equal(t, []string{"Text", "Manuscrit"}, elementTexts(dc, "type"))
}

func TestRender_FileDecorations(t *testing.T) {
	cfg := testutil.Config()
	cfg.ExposeFiles = true
	cfg.ExposeThumbnail = true
	f := NewOaiDc(cfg, nil)
	item := &content.Item{
		ID:           3,
		FileURLs:     []string{"http://example.org/files/3-1.jpg"},
		ThumbnailURL: "http://example.org/files/square/3-1.jpg",
	}

	dc := renderDC(t, f, item)

	assert.Equal(t, []string{
		"http://example.org/items/3",
		"http://example.org/files/3-1.jpg",
	}, elementTexts(dc, "identifier"))
	assert.Equal(t, []string{
		"vignette : http://example.org/files/square/3-1.jpg",
	}, elementTexts(dc, "relation"))
}

func TestRender_VocabularyMapping(t *testing.T) {
	cfg := testutil.Config()
	cfg.CustomOaiDc = true
	cfg.DefaultLanguage = "fre"
	f := NewOaiDc(cfg, testutil.Pipeline("fre"))
	item := &content.Item{
		ID:       2,
		Elements: map[string][]string{"type": {"Photographie"}},
	}

	dc := renderDC(t, f, item)

	var types []DCElement
	for _, e := range dc.Elements {
		if e.XMLName.Local == "dc:type" {
			types = append(types, e)
		}
	}
	// The mapped group lands in vocabulary order: standard labels first,
	// then the source value and its translation.
	require.Len(t, types, 4)
	assert.Equal(t, "Image", types[0].Text)
	assert.Equal(t, "", types[0].Lang)
	assert.Equal(t, "Image", types[1].Text)
	assert.Equal(t, "fre", types[1].Lang)
	assert.Equal(t, "Photographie", types[2].Text)
	assert.Equal(t, "fre", types[2].Lang)
	assert.Equal(t, "Photograph", types[3].Text)
	assert.Equal(t, "eng", types[3].Lang)
}

func TestRender_XMLShape(t *testing.T) {
	cfg := testutil.Config()
	f := NewOaiDc(cfg, nil)
	item := &content.Item{
		ID:       9,
		Elements: map[string][]string{"title": {"Vue du quartier latin"}},
	}

	dc := renderDC(t, f, item)
	out, err := xml.Marshal(dc)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<oai_dc:dc ")
	assert.Contains(t, s, `xmlns:dc="http://purl.org/dc/elements/1.1/"`)
	assert.Contains(t, s, "<dc:title>Vue du quartier latin</dc:title>")
}

func TestReorderDcTypes(t *testing.T) {
	in := []vocab.Value{
		{Lang: "fre", Text: "Photographie"},
		{Lang: "eng", Text: "image"},
		{Lang: "eng", Text: "Photograph"},
		{Lang: "fre", Text: "Image"},
	}

	out := reorderDcTypes(in)

	require.Len(t, out, 4)
	// The standard label moves first with canonical casing, untagged when
	// English leads.
	assert.Equal(t, vocab.Value{Lang: "", Text: "Image"}, out[0])
	assert.Equal(t, vocab.Value{Lang: "fre", Text: "Image"}, out[1])
	assert.Equal(t, vocab.Value{Lang: "fre", Text: "Photographie"}, out[2])
	assert.Equal(t, vocab.Value{Lang: "eng", Text: "Photograph"}, out[3])
}
