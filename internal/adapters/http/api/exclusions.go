package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/internal/domain/types"
	"github.com/okian/nextalbum/pkg/logger"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ExclusionsHandler manages the exclusion list.
type ExclusionsHandler struct {
	store     Store
	browser   *guardedBrowser
	collation language.Tag
	logger    logger.Logger
}

// NewExclusionsHandler creates a new exclusions handler.
func NewExclusionsHandler(store Store, browser *guardedBrowser, tag language.Tag, log logger.Logger) *ExclusionsHandler {
	return &ExclusionsHandler{store: store, browser: browser, collation: tag, logger: log}
}

// HandleList handles GET /exclusions requests. Entries are ordered by title
// and then artist, ignoring case.
func (h *ExclusionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.exclusions_list"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	list, err := h.store.ListExclusions(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	h.sort(list)

	out := make([]types.ExclusionView, len(list))
	for i, e := range list {
		out[i] = types.NewExclusionView(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /exclusions/{album_id} requests. The ranked
// sequence is dropped so the album can reappear on the next start.
func (h *ExclusionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.exclusions_delete"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/exclusions/"))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if err := h.store.DeleteExclusion(r.Context(), id); err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	h.browser.invalidate()
	h.logger.Info(r.Context(), "exclusion removed", logger.String("album_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// sort orders the list in place. A Collator is not safe for concurrent use,
// so one is built per call.
func (h *ExclusionsHandler) sort(list []model.Exclusion) {
	c := collate.New(h.collation, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		if d := c.CompareString(list[i].Title, list[j].Title); d != 0 {
			return d < 0
		}
		return c.CompareString(list[i].Artist, list[j].Artist) < 0
	})
}
