// Package httpapi is the REST adapter: a mechanical chi route table that
// maps a fixed route list onto internal/tools, the same way an HTTP
// router maps routes onto an application service layer, minus any
// session/bearer auth middleware since this surface has no auth module.
package httpapi

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/tools"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

type Handler struct {
	dispatcher *tools.Dispatcher
	log        *zap.Logger
}

// NewRouter builds the chi router every REST route is mounted on,
// dispatching through a shared tools.Dispatcher.
func NewRouter(dispatcher *tools.Dispatcher, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{dispatcher: dispatcher, log: log}

	r := chi.NewRouter()
	r.Get("/statistics", h.handleStatistics)
	r.Get("/entities", h.handleListEntities)
	r.Get("/entities/{id}", h.handleGetEntity)
	r.Get("/entities/{id}/neighbors", h.handleGetNeighbors)
	r.Get("/path/{src}/{tgt}", h.handleShortestPath)
	r.Get("/blast-radius/{id}", h.handleBlastRadius)
	r.Get("/centrality", h.handleCentrality)
	r.Get("/search", h.handleSearch)
	r.Post("/ask", h.handleAsk)
	r.Post("/load", h.handleLoad)
	r.Get("/openai/tools", h.handleOpenAITools)
	r.Post("/openai/call", h.handleOpenAICall)
	return r
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	h.call(w, r, "get_statistics", nil)
}

func (h *Handler) handleListEntities(w http.ResponseWriter, r *http.Request) {
	args := map[string]any{}
	if t := r.URL.Query().Get("type"); t != "" {
		args["type"] = t
	}
	if limit := parseIntQuery(r, "limit", 0); limit > 0 {
		args["limit"] = limit
	}
	h.call(w, r, "list_entities", args)
}

func (h *Handler) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validPathID(w, id) {
		return
	}
	h.call(w, r, "get_entity", map[string]any{"id": id})
}

func (h *Handler) handleGetNeighbors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validPathID(w, id) {
		return
	}
	args := map[string]any{"id": id}
	if dir := r.URL.Query().Get("direction"); dir != "" {
		args["direction"] = dir
	}
	if rt := r.URL.Query().Get("relationship_type"); rt != "" {
		args["relationship_type"] = rt
	}
	h.call(w, r, "get_neighbors", args)
}

func (h *Handler) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	src, tgt := chi.URLParam(r, "src"), chi.URLParam(r, "tgt")
	if !validPathID(w, src) || !validPathID(w, tgt) {
		return
	}
	h.call(w, r, "find_shortest_path", map[string]any{"src": src, "tgt": tgt})
}

func (h *Handler) handleBlastRadius(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validPathID(w, id) {
		return
	}
	args := map[string]any{"id": id}
	if depth := parseIntQuery(r, "max_depth", 0); depth > 0 {
		args["depth"] = depth
	}
	h.call(w, r, "get_blast_radius", args)
}

func (h *Handler) handleCentrality(w http.ResponseWriter, r *http.Request) {
	args := map[string]any{}
	if m := r.URL.Query().Get("metric"); m != "" {
		args["metric"] = m
	}
	if topN := parseIntQuery(r, "top_n", 0); topN > 0 {
		args["top_n"] = topN
	}
	h.call(w, r, "compute_centrality", args)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	args := map[string]any{"query": r.URL.Query().Get("q")}
	if t := r.URL.Query().Get("type"); t != "" {
		args["type"] = t
	}
	if limit := parseIntQuery(r, "limit", 0); limit > 0 {
		args["limit"] = limit
	}
	h.call(w, r, "search_entities", args)
}

type askRequest struct {
	Query string `json:"query"`
	Type  string `json:"type"`
	Limit int    `json:"limit"`
}

// handleAsk is a thin wrapper over search + neighbour expansion: it looks
// up the best-matching entity and returns it together with its immediate
// neighbourhood, a one-shot "tell me about X" query shape.
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 1
	}

	searchArgs, _ := json.Marshal(map[string]any{"query": req.Query, "type": req.Type, "limit": req.Limit})
	result, err := h.dispatcher.Dispatch(r.Context(), "search_entities", searchArgs)
	if err != nil {
		writeToolError(w, err)
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	var matches []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &matches); err != nil || len(matches) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"matches": []any{}})
		return
	}

	neighborArgs, _ := json.Marshal(map[string]any{"id": matches[0].ID})
	neighbors, err := h.dispatcher.Dispatch(r.Context(), "get_neighbors", neighborArgs)
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entity": result, "neighbors": neighbors})
}

type loadRequest struct {
	Path string `json:"path"`
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	args, _ := json.Marshal(map[string]any{"path": req.Path})
	h.dispatchAndWrite(w, r, "load_graph", args)
}

func (h *Handler) handleOpenAITools(w http.ResponseWriter, r *http.Request) {
	defs := make([]map[string]any, 0, len(tools.List()))
	for _, t := range tools.List() {
		defs = append(defs, map[string]any{"name": t.Name, "write": t.Write})
	}
	writeJSON(w, http.StatusOK, defs)
}

type openAICallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (h *Handler) handleOpenAICall(w http.ResponseWriter, r *http.Request) {
	var req openAICallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.dispatchAndWrite(w, r, req.Name, req.Arguments)
}

func (h *Handler) call(w http.ResponseWriter, r *http.Request, tool string, args map[string]any) {
	var raw json.RawMessage
	if args != nil {
		encoded, err := json.Marshal(args)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		raw = encoded
	}
	h.dispatchAndWrite(w, r, tool, raw)
}

func (h *Handler) dispatchAndWrite(w http.ResponseWriter, r *http.Request, tool string, args json.RawMessage) {
	result, err := h.dispatcher.Dispatch(r.Context(), tool, args)
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

func validPathID(w http.ResponseWriter, id string) bool {
	if !idPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "invalid path parameter")
		return false
	}
	return true
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// writeToolError maps a domain.GraphError to an HTTP status without ever
// echoing raw internal detail back to the client for internal failures.
func writeToolError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	message := "internal error"
	switch kind {
	case domain.ErrNotFound:
		status, message = http.StatusNotFound, err.Error()
	case domain.ErrValidation, domain.ErrSchemaViolation, domain.ErrBatchRejected:
		status, message = http.StatusBadRequest, err.Error()
	case domain.ErrNoGraphLoaded:
		status, message = http.StatusConflict, err.Error()
	case domain.ErrUnsupported:
		status, message = http.StatusNotFound, err.Error()
	case domain.ErrPersistence:
		status, message = http.StatusInternalServerError, "internal error"
	}
	writeError(w, status, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
