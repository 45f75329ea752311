package oaipmh

import (
	"log"
	"net/http"
)

// Handler frames the protocol engine as an http.Handler. All protocol-level
// failures still serve a well-formed OAI-PMH error document with status 200;
// only collaborator failures map to 500.
type Handler struct {
	engine *Engine
	logger *log.Logger
}

func NewHandler(engine *Engine, logger *log.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Printf("level=warn msg=\"malformed request body\" err=%q", err)
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	doc, err := h.engine.Handle(r.Context(), Request{
		Method: r.Method,
		Query:  r.Form,
	})
	if err != nil {
		h.logger.Printf("level=error msg=\"request failed\" err=%q", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	body, err := doc.Serialize()
	if err != nil {
		h.logger.Printf("level=error msg=\"response serialization failed\" err=%q", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Printf("level=warn msg=\"response write failed\" err=%q", err)
	}
}
