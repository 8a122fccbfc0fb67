package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/models/dto"
	"github.com/hongminglow/confession-be/internal/pagination"
	"github.com/hongminglow/confession-be/internal/photos"
	"github.com/hongminglow/confession-be/internal/storage"
)

// UserHandler serves profile, photo and gallery endpoints.
type UserHandler struct {
	users     storage.UserStore
	photos    photos.Store
	limits    pagination.Limits
	maxUpload int64
	log       logging.Logger
}

func NewUserHandler(users storage.UserStore, photoStore photos.Store, limits pagination.Limits, maxUpload int64, log logging.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		photos:    photoStore,
		limits:    limits,
		maxUpload: maxUpload,
		log:       log.With("handler", "users"),
	}
}

// UpdatePhoto stores the multipart "file" part and points the caller's
// profile at it.
func (h *UserHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	if !isMultipart(r) {
		respond.Error(w, http.StatusUnprocessableEntity, "multipart form with a file part is required")
		return
	}
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		h.photoError(w, err)
		return
	}
	upload, found, err := formPhoto(r, "file", user.ID, h.maxUpload)
	if err != nil {
		h.photoError(w, err)
		return
	}
	if !found {
		respond.Error(w, http.StatusUnprocessableEntity, "file is required")
		return
	}

	url, err := h.photos.Save(r.Context(), upload)
	if err != nil {
		internalError(w, r, h.log, "store photo failed", err)
		return
	}
	if _, err := h.users.UpdatePhoto(r.Context(), user.ID, url); err != nil {
		internalError(w, r, h.log, "update photo failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, "photo updated", dto.PhotoResponse{PhotoURL: url})
}

func (h *UserHandler) photoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, photos.ErrTooLarge):
		respond.Error(w, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, photos.ErrNotImage):
		respond.Error(w, http.StatusBadRequest, "File must be an image")
	default:
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
	}
}

// Gallery lists other users, optionally filtered by a nickname substring.
func (h *UserHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	page, ok := pageFromQuery(w, r, h.limits)
	if !ok {
		return
	}

	users, total, err := h.users.ListGallery(r.Context(), storage.GalleryFilter{
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		ExcludeID: user.ID,
		Page:      page,
	})
	if err != nil {
		internalError(w, r, h.log, "list gallery failed", err)
		return
	}

	resp := dto.GalleryResponse{
		Users: make([]dto.UserResponse, 0, len(users)),
		Total: total,
		Page:  page.Number,
		Pages: page.Pages(total),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(u))
	}
	respond.JSON(w, http.StatusOK, "ok", resp)
}

// Profile returns the caller's own record.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewProfileResponse(user))
}

// Get is the public lookup by id. Malformed ids are reported as not found.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}
	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		internalError(w, r, h.log, "find user failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewUserResponse(user))
}
