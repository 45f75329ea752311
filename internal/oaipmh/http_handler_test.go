package oaipmh

import (
	"encoding/xml"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(newTestEngine(t, nil), log.New(io.Discard, "", 0))
}

func TestHandler_ServesWellFormedXML(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/oai?verb=Identify", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, xml.Header))
	assert.Contains(t, body, "<repositoryName>Test Archive</repositoryName>")

	var parsed struct {
		XMLName xml.Name `xml:"OAI-PMH"`
	}
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &parsed))
}

func TestHandler_ProtocolErrorsStillReturn200(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/oai?verb=Harvest", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<error code="badVerb">`)
}

func TestHandler_PostForm(t *testing.T) {
	h := newTestHandler(t)

	form := url.Values{}
	form.Set("verb", "GetRecord")
	form.Set("identifier", "oai:example.org:1")
	form.Set("metadataPrefix", "oai_dc")
	req := httptest.NewRequest(http.MethodPost, "/oai", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<identifier>oai:example.org:1</identifier>")
	assert.NotContains(t, rec.Body.String(), "<error")
}

func TestHandler_RejectsOtherMethods(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/oai?verb=Identify", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<error code="badArgument">`)
}
