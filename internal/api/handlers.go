package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zyaga/clipnote/internal/index"
	"github.com/zyaga/clipnote/internal/pipeline"
)

// Handler holds API route handlers.
type Handler struct {
	pipe   *pipeline.Pipeline
	idx    index.CaptureIndex         // nil when the index is disabled
	notify func(res *pipeline.Result) // nil when no event stream is wired
}

// NewHandler creates a Handler. notify, when non-nil, is called after
// every pipeline run so events can be broadcast.
func NewHandler(pipe *pipeline.Pipeline, idx index.CaptureIndex, notify func(*pipeline.Result)) *Handler {
	return &Handler{pipe: pipe, idx: idx, notify: notify}
}

// Capture handles POST /api/capture: runs the pipeline once on the
// submitted text. Saved captures return 201; skips return 200 with the
// skip status in the body.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}

	res, err := h.pipe.Run(r.Context(), req.Text)
	if err != nil {
		slog.Error("capture failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if h.notify != nil {
		h.notify(res)
	}

	status := http.StatusOK
	if res.Status == pipeline.StatusSaved {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("capture index is disabled"))
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.idx.Search(q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Recent handles GET /api/captures: newest captures from the index.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("capture index is disabled"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.idx.Recent(limit)
	if err != nil {
		slog.Error("recent failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"captures": rows,
	})
}

// Linking handles GET /api/linking: captures whose candidate list
// contains the given term.
func (h *Handler) Linking(w http.ResponseWriter, r *http.Request) {
	if h.idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("capture index is disabled"))
		return
	}
	term := r.URL.Query().Get("term")
	if term == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'term' is required"))
		return
	}
	files, err := h.idx.Linking(term)
	if err != nil {
		slog.Error("linking failed", slog.String("term", term), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filenames": files,
	})
}

// History handles GET /api/history: the dedupe log, newest last.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	records := h.pipe.History().Records()
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	total := len(records)
	if limit > 0 && limit < total {
		records = records[total-limit:]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"records": records,
	})
}
