package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/kitesidebar/internal/document"
)

const maxDocumentBytes = 8 << 20

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)

	var doc document.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if doc.Filename == "" {
		jsonError(w, "filename is required", http.StatusBadRequest)
		return
	}

	s.docs.Set(&doc)
	s.log.Debug("active document set", "filename", doc.Filename, "hash", doc.Hash())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": doc.Filename,
		"hash":     doc.Hash(),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	s.docs.Set(nil)
	w.WriteHeader(http.StatusNoContent)
}
