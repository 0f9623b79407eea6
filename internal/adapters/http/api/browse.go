package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/nextalbum/internal/app"
	"github.com/okian/nextalbum/internal/domain/types"
	"github.com/okian/nextalbum/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

// BrowseHandler drives the browser cursor.
type BrowseHandler struct {
	browser *guardedBrowser
	logger  logger.Logger
}

// NewBrowseHandler creates a new browse handler.
func NewBrowseHandler(browser *guardedBrowser, log logger.Logger) *BrowseHandler {
	return &BrowseHandler{browser: browser, logger: log}
}

// HandleStart handles POST /browse/start requests.
func (h *BrowseHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.browse_start"
	h.move(w, r, op, func(b Browser) (Result, error) { return b.Start(r.Context()) })
}

// HandleNext handles POST /browse/next requests.
func (h *BrowseHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	const op = "api.browse_next"
	h.move(w, r, op, func(b Browser) (Result, error) { return b.Advance(r.Context()) })
}

// HandlePrev handles POST /browse/prev requests.
func (h *BrowseHandler) HandlePrev(w http.ResponseWriter, r *http.Request) {
	const op = "api.browse_prev"
	h.move(w, r, op, func(b Browser) (Result, error) { return b.Retreat(r.Context()) })
}

type excludeRequest struct {
	AlbumID string `json:"album_id"`
}

// HandleExclude handles POST /browse/exclude requests. The album must be the
// one under the cursor.
func (h *BrowseHandler) HandleExclude(w http.ResponseWriter, r *http.Request) {
	const op = "api.browse_exclude"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req excludeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req.AlbumID = strings.TrimSpace(req.AlbumID)
	if req.AlbumID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing album_id")))
		return
	}

	h.move(w, r, op, func(b Browser) (Result, error) {
		current := b.Current()
		if current.OK && current.Value.ID != req.AlbumID {
			return current, fmt.Errorf("%w: %s", service.ErrStaleCursor, req.AlbumID)
		}
		return b.Exclude(r.Context(), current)
	})
}

func (h *BrowseHandler) move(w http.ResponseWriter, r *http.Request, op string, fn func(Browser) (Result, error)) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	res, total, err := h.browser.do(fn)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewBrowseResponse(res.Value, res.OK, res.Done, res.Index, total))
}
