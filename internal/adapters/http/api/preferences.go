package api

import (
	"encoding/json"
	"io"
	"net/http"

	repository "github.com/okian/nextalbum/internal/adapters/repository"
	"github.com/okian/nextalbum/internal/domain/types"
	"github.com/okian/nextalbum/pkg/logger"
)

// PreferencesHandler reads and replaces the stored preferences.
type PreferencesHandler struct {
	store   Store
	browser *guardedBrowser
	logger  logger.Logger
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(store Store, browser *guardedBrowser, log logger.Logger) *PreferencesHandler {
	return &PreferencesHandler{store: store, browser: browser, logger: log}
}

// HandlePreferences handles GET and PUT /preferences requests.
func (h *PreferencesHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *PreferencesHandler) get(w http.ResponseWriter, r *http.Request) {
	const op = "api.preferences_get"
	p, err := h.store.GetPreferences(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewPreferencesView(p))
}

// put replaces the preferences. They take effect on the next start.
func (h *PreferencesHandler) put(w http.ResponseWriter, r *http.Request) {
	const op = "api.preferences_put"

	var view types.PreferencesView
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&view); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	p, err := repository.Validate(view.Model())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	if err := h.store.SetPreferences(r.Context(), p); err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	h.browser.invalidate()

	stored, err := h.store.GetPreferences(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	h.logger.Info(r.Context(), "preferences updated",
		logger.String("sort_key", stored.SortKey),
		logger.String("sort_direction", stored.Direction),
		logger.Bool("use_ratings", stored.UseRatings),
		logger.Bool("skip_excluded", stored.SkipExcluded),
	)
	writeJSON(w, http.StatusOK, types.NewPreferencesView(stored))
}
