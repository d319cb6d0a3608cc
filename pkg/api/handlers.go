package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/frukit/pkg/fru"
	"github.com/ssargent/frukit/pkg/fruyml"
	"github.com/ssargent/frukit/pkg/store"
)

// Server holds the API server state.
type Server struct {
	inv     Inventory
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server.
func NewServer(inv Inventory, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		inv:     inv,
		config:  config,
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleDecode turns a binary FRU body into a YAML document. Diagnostic
// counts travel in the X-Fru-Warnings header; with the strict policy any
// forbidden condition fails the request instead.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	col := &fru.Collector{StrictErrors: s.config.Strict}
	tree, err := fru.Decode(body, col)
	s.recordCodec("decode", err == nil, col)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to decode image: %v", err), http.StatusBadRequest)
		return
	}

	text, err := fruyml.Dump(tree)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to render yaml: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("X-Fru-Warnings", strconv.Itoa(len(col.Warnings())))
	_, _ = w.Write(text)
}

// handleEncode turns a YAML body into a binary FRU image.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	tree, err := fruyml.Load(body)
	if err != nil {
		s.recordCodec("encode", false, nil)
		sendError(w, fmt.Sprintf("Failed to load yaml: %v", err), http.StatusBadRequest)
		return
	}

	col := &fru.Collector{StrictErrors: s.config.Strict}
	data, err := fru.Encode(tree, col)
	s.recordCodec("encode", err == nil, col)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to encode image: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Fru-Warnings", strconv.Itoa(len(col.Warnings())))
	_, _ = w.Write(data)
}

// handleCreateImage stores a binary image under a generated ID.
func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	id, err := s.inv.Create(body)
	s.metrics.RecordStoreOperation("create", err == nil)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to store image: %v", err), http.StatusBadRequest)
		return
	}

	sendSuccess(w, map[string]string{"id": id})
}

// handlePutImage stores a binary image under the caller's ID.
func (s *Server) handlePutImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	err = s.inv.Put(id, body)
	s.metrics.RecordStoreOperation("put", err == nil)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to store image: %v", err), http.StatusBadRequest)
		return
	}

	sendSuccess(w, map[string]string{"id": id})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, err := s.inv.Get(id)
	s.metrics.RecordStoreOperation("get", err == nil)
	if errors.Is(err, store.ErrNotFound) {
		sendError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to get image: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.inv.Delete(id)
	s.metrics.RecordStoreOperation("delete", err == nil)
	if errors.Is(err, store.ErrNotFound) {
		sendError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to delete image: %v", err), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, map[string]string{"message": "Image deleted successfully"})
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	ids, err := s.inv.List()
	s.metrics.RecordStoreOperation("list", err == nil)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list images: %v", err), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	sendSuccess(w, map[string]interface{}{"ids": ids})
}

func (s *Server) recordCodec(operation string, success bool, col *fru.Collector) {
	var infos, warnings, errs int
	if col != nil {
		for _, d := range col.Diagnostics {
			switch d.Severity {
			case fru.SeverityInfo:
				infos++
			case fru.SeverityWarning:
				warnings++
			case fru.SeverityError:
				errs++
			}
		}
	}
	s.metrics.RecordCodecOperation(operation, success, infos, warnings, errs)
}
