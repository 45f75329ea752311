package metadata

import (
	"encoding/xml"
	"fmt"
	"strings"

	"oairepo/internal/config"
	"oairepo/internal/content"
	"oairepo/internal/vocab"
)

// oai_dc format constants.
const (
	OaiDcPrefix       = "oai_dc"
	OaiDcNamespaceURI = "http://www.openarchives.org/OAI/2.0/oai_dc/"
	OaiDcSchemaURI    = "http://www.openarchives.org/OAI/2.0/oai_dc.xsd"
	DcNamespaceURI    = "http://purl.org/dc/elements/1.1/"
	xsiNamespaceURI   = "http://www.w3.org/2001/XMLSchema-instance"
)

// dcElementNames are the 15 unqualified Dublin Core elements in the order
// required by the oai_dc schema.
var dcElementNames = []string{
	"title", "creator", "subject", "description", "publisher",
	"contributor", "date", "type", "format", "identifier", "source",
	"language", "relation", "coverage", "rights",
}

// dcTypes are the 12 DCMI type vocabulary labels, in enumeration order.
var dcTypes = []string{
	"Collection",
	"Dataset",
	"Event",
	"Image",
	"Interactive Resource",
	"Service",
	"Software",
	"Sound",
	"Text",
	"Physical Object",
	"Still Image",
	"Moving Image",
}

// DCTerms returns the unqualified Dublin Core element names in schema
// order.
func DCTerms() []string {
	return dcElementNames
}

// DC is the oai_dc:dc container marshaled inside <metadata> or
// <setDescription>.
type DC struct {
	XMLName        xml.Name    `xml:"oai_dc:dc"`
	XmlnsOaiDc     string      `xml:"xmlns:oai_dc,attr"`
	XmlnsDc        string      `xml:"xmlns:dc,attr"`
	XmlnsXsi       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	Elements       []DCElement
}

// DCElement is one dc:* element, optionally language-tagged.
type DCElement struct {
	XMLName xml.Name
	Lang    string `xml:"xml:lang,attr,omitempty"`
	Text    string `xml:",chardata"`
}

// NewDC returns an empty container with its namespace declarations set.
func NewDC() *DC {
	return &DC{
		XmlnsOaiDc:     OaiDcNamespaceURI,
		XmlnsDc:        DcNamespaceURI,
		XmlnsXsi:       xsiNamespaceURI,
		SchemaLocation: OaiDcNamespaceURI + " " + OaiDcSchemaURI,
	}
}

// Add appends one dc element. The name is the unqualified term ("title").
func (d *DC) Add(name, lang, text string) {
	d.Elements = append(d.Elements, DCElement{
		XMLName: xml.Name{Local: "dc:" + name},
		Lang:    lang,
		Text:    text,
	})
}

// OaiDc renders records as unqualified Dublin Core, optionally running
// dc:type through the vocabulary mapping pipeline.
type OaiDc struct {
	cfg config.Config
	// pipeline is nil when custom mapping is disabled.
	pipeline *vocab.Pipeline
}

func NewOaiDc(cfg config.Config, pipeline *vocab.Pipeline) *OaiDc {
	return &OaiDc{cfg: cfg, pipeline: pipeline}
}

func (f *OaiDc) Prefix() string    { return OaiDcPrefix }
func (f *OaiDc) Namespace() string { return OaiDcNamespaceURI }
func (f *OaiDc) Schema() string    { return OaiDcSchemaURI }

func (f *OaiDc) Render(item *content.Item) (any, error) {
	dc := NewDC()
	for _, name := range dcElementNames {
		values := append([]string(nil), item.ElementTexts(name)...)

		switch name {
		case "type":
			if f.cfg.ExposeItemType && item.ItemTypeName != "" {
				values = append([]string{item.ItemTypeName}, values...)
			}
		case "identifier":
			values = append(values, fmt.Sprintf("%s/items/%d", f.cfg.SiteURL, item.ID))
			if f.cfg.ExposeFiles {
				values = append(values, item.FileURLs...)
			}
		case "relation":
			// The BnF expects "vignette :", not "thumbnail:".
			if f.cfg.ExposeThumbnail && item.ThumbnailURL != "" {
				values = append(values, "vignette : "+item.ThumbnailURL)
			}
		}

		term := "dc:" + name
		if f.pipeline == nil || !f.pipeline.HasTerm(term) {
			if f.pipeline != nil {
				values = uniqueStrings(values)
			}
			for _, v := range values {
				dc.Add(name, "", v)
			}
			continue
		}

		pairs := f.pipeline.Apply(term, values)
		if term == "dc:type" {
			pairs = reorderDcTypes(pairs)
		}
		for _, p := range pairs {
			lang := p.Lang
			// A numeric tag means a malformed table row; drop it
			// rather than emit an invalid xml:lang.
			if isNumeric(lang) {
				lang = ""
			}
			dc.Add(name, lang, p.Text)
		}
	}
	return dc, nil
}

// reorderDcTypes places the standard DCMI type labels first, in vocabulary
// order, before mapped and custom values; per additional language the
// standard slots are interleaved. When the very first value is an English
// standard type, it is emitted untagged.
func reorderDcTypes(values []vocab.Value) []vocab.Value {
	standard := make(map[string]string, len(dcTypes))
	for _, t := range dcTypes {
		standard[strings.ToLower(t)] = t
	}

	var (
		keys   []string
		byKey  = make(map[string]*vocab.Value)
		langs  []string
		addKey = func(key string) {
			if _, ok := byKey[key]; !ok {
				keys = append(keys, key)
				byKey[key] = nil
			}
		}
	)
	for _, t := range dcTypes {
		addKey(strings.ToLower(t))
	}

	for i := range values {
		v := values[i]
		isEng := v.Lang == "" || v.Lang == "eng"
		if !isEng && !containsString(langs, v.Lang) {
			langs = append(langs, v.Lang)
			for _, t := range dcTypes {
				addKey(strings.ToLower(t) + "-" + v.Lang)
			}
		}
		key := strings.ToLower(v.Text)
		if !isEng {
			key += "-" + v.Lang
		}
		addKey(key)
		value := v
		if canonical, ok := standard[strings.ToLower(v.Text)]; ok {
			value.Text = canonical
		}
		byKey[key] = &value
	}

	var out []vocab.Value
	for _, key := range keys {
		if v := byKey[key]; v != nil {
			out = append(out, *v)
		}
	}
	if len(out) > 0 && out[0].Lang == "eng" {
		if _, ok := standard[strings.ToLower(out[0].Text)]; ok {
			out[0].Lang = ""
		}
	}
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
