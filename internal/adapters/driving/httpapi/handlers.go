package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/logger"
)

// DefaultSearchLimit is used when a search request names no k.
const DefaultSearchLimit = 5

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// createRequest is the JSON form of a memo create request.
type createRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Tags     string `json:"tags"`
	Body     string `json:"body"`
}

type createResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	UUID    string `json:"uuid"`
}

type searchRequest struct {
	Query string `json:"query"`
	K     *int   `json:"k,omitempty"`
}

type searchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeRequest(w, r, &req, func(form func(string) string) error {
		req = createRequest{
			Category: form("category"),
			Title:    form("title"),
			Tags:     form("tags"),
			Body:     form("body"),
		}
		return nil
	}); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	path, memo, err := s.memos.Create(r.Context(), domain.CreateMemoRequest{
		Category: req.Category,
		Title:    req.Title,
		Tags:     req.Tags,
		Body:     req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createResponse{Message: "saved", Path: path, UUID: memo.ID})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeRequest(w, r, &req, func(form func(string) string) error {
		req.Query = form("query")
		if raw := strings.TrimSpace(form("k")); raw != "" {
			k, err := strconv.Atoi(raw)
			if err != nil {
				return errors.New("k must be an integer")
			}
			req.K = &k
		}
		return nil
	}); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := DefaultSearchLimit
	if req.K != nil {
		limit = *req.K
	}

	results, err := s.memos.Search(r.Context(), req.Query, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.memos.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(categories))
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.memos.ListTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tags))
}

func (s *Server) handleIncremental(w http.ResponseWriter, _ *http.Request) {
	s.memos.TriggerReconcileIncremental()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	report, err := s.memos.Rebuild(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.memos.Status())
}

// decodeRequest fills dst from a JSON body, or calls fromForm for
// url-encoded and multipart bodies.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any, fromForm func(form func(string) string) error) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("invalid JSON body: %w", err)
		}
		return nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return fmt.Errorf("invalid form body: %w", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("invalid form body: %w", err)
		}
	}
	return fromForm(r.PostFormValue)
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrIndexNotReady):
		writeDetail(w, http.StatusServiceUnavailable, "Index build failed.")
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		writeDetail(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("request failed: %v", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to encode response: %v", err)
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
