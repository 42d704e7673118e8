package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/metrics"
	"github.com/joestump/bookmarks/internal/store"
)

const msgNotFound = "Bookmark not found"

// bookmarksAPIHandler provides REST handlers for bookmark management.
type bookmarksAPIHandler struct {
	bookmarks store.BookmarkStoreIface
	log       logger.Logger
}

// registerBookmarkRoutes registers bookmark routes on r.
func registerBookmarkRoutes(r chi.Router, bookmarks store.BookmarkStoreIface, log logger.Logger) {
	h := &bookmarksAPIHandler{bookmarks: bookmarks, log: log}
	r.Get("/bookmarks", h.List)
	r.Post("/bookmarks", h.Create)
	r.Get("/bookmarks/{id}", h.Get)
	r.Patch("/bookmarks/{id}", h.Update)
	r.Delete("/bookmarks/{id}", h.Delete)
}

// List returns every bookmark, oldest first.
// GET /bookmarks
//
// @Summary      List bookmarks
// @Description  Returns all bookmarks. With ?limit=N the list is paged and the next page's cursor is returned in X-Next-Cursor.
// @Tags         Bookmarks
// @Produce      json
// @Param        limit   query     int     false  "Page size (max 200)"
// @Param        cursor  query     string  false  "Cursor from X-Next-Cursor"
// @Success      200     {array}   BookmarkResponse
// @Header       200     {string}  X-Next-Cursor  "Cursor for the next page, when more rows exist"
// @Failure      401     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)

	opts := store.ListOptions{Offset: offset}
	if limit > 0 {
		// One extra row tells us whether another page exists.
		opts.Limit = limit + 1
	}
	bookmarks, err := h.bookmarks.List(r.Context(), opts)
	if err != nil {
		h.internalError(w, r, "list bookmarks", err)
		return
	}
	if limit > 0 && len(bookmarks) > limit {
		bookmarks = bookmarks[:limit]
		w.Header().Set(nextCursorHeader, encodeCursor(strconv.Itoa(offset+limit)))
	}

	resp := make([]BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		resp = append(resp, toBookmarkResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create validates and stores a new bookmark.
// POST /bookmarks
//
// @Summary      Create a bookmark
// @Description  All four fields are required. rating may be a number or a numeric string.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      BookmarkRequest   true  "Bookmark to create"
// @Success      201   {object}  BookmarkResponse
// @Header       201   {string}  Location  "/bookmarks/{id}"
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [post]
func (h *bookmarksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBookmarkRequest(w, r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	nb, err := req.toNewBookmark()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	b, err := h.bookmarks.Create(r.Context(), nb)
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			h.badRequest(w, r, err)
			return
		}
		h.internalError(w, r, "create bookmark", err)
		return
	}
	metrics.WritesTotal.WithLabelValues("create").Inc()
	h.log.Info("bookmark created", logger.String("id", b.ID), logger.String("request_id", middleware.GetReqID(r.Context())))

	w.Header().Set("Location", "/bookmarks/"+b.ID)
	writeJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

// Get returns a single bookmark by ID.
// GET /bookmarks/{id}
//
// @Summary      Get a bookmark
// @Tags         Bookmarks
// @Produce      json
// @Param        id   path      string  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [get]
func (h *bookmarksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookmarks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, "get bookmark", err)
		return
	}
	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

// Update applies a partial update. Only fields present in the body change.
// PATCH /bookmarks/{id}
//
// @Summary      Update a bookmark
// @Description  At least one of title, url, description or rating must be present. Present fields are validated like on create.
// @Tags         Bookmarks
// @Accept       json
// @Param        id    path  string           true  "Bookmark ID"
// @Param        body  body  BookmarkRequest  true  "Fields to change"
// @Success      204
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [patch]
func (h *bookmarksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.bookmarks.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.internalError(w, r, "get bookmark", err)
		return
	}

	req, err := decodeBookmarkRequest(w, r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// A concurrent delete between the lookup and the update leaves zero rows
	// affected; MySQL also reports zero for no-op updates, so n is not checked.
	if _, err := h.bookmarks.Update(r.Context(), id, patch); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			h.badRequest(w, r, err)
			return
		}
		h.internalError(w, r, "update bookmark", err)
		return
	}
	metrics.WritesTotal.WithLabelValues("update").Inc()

	writeNoContent(w)
}

// Delete removes a bookmark.
// DELETE /bookmarks/{id}
//
// @Summary      Delete a bookmark
// @Tags         Bookmarks
// @Param        id   path  string  true  "Bookmark ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [delete]
func (h *bookmarksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.bookmarks.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, "delete bookmark", err)
		return
	}
	metrics.WritesTotal.WithLabelValues("delete").Inc()
	h.log.Info("bookmark deleted", logger.String("id", id), logger.String("request_id", middleware.GetReqID(r.Context())))

	writeNoContent(w)
}

// badRequest writes the client-facing message of err with status 400 (413
// for oversized bodies) and counts the failure against its field.
func (h *bookmarksAPIHandler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	field := "body"
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		field = verr.Field
	}
	metrics.ValidationFailuresTotal.WithLabelValues(field).Inc()
	h.log.Debug("api: rejected request",
		logger.String("field", field),
		logger.String("reason", err.Error()),
		logger.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeError(w, http.StatusBadRequest, err.Error())
}

func (h *bookmarksAPIHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error("api: "+op,
		logger.Error(err),
		logger.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeNoContent(w http.ResponseWriter) {
	w.Header().Del("Content-Type")
	w.WriteHeader(http.StatusNoContent)
}
