package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/auth"
	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/models/dto"
	"github.com/hongminglow/confession-be/internal/photos"
	"github.com/hongminglow/confession-be/internal/storage"
)

const maxCredentialsBody = 1 << 20

// AuthHandler owns the register and login endpoints.
type AuthHandler struct {
	users     storage.UserStore
	photos    photos.Store
	tokens    TokenIssuer
	maxUpload int64
	log       logging.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, photoStore photos.Store, tokens TokenIssuer, maxUpload int64, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		photos:    photoStore,
		tokens:    tokens,
		maxUpload: maxUpload,
		log:       log.With("handler", "auth"),
	}
}

type registration struct {
	dto.RegisterRequest
	photo    photos.Upload
	hasPhoto bool
}

// Register creates an account from a JSON body or a multipart form with an
// optional "photo" file part, and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, err := storage.NewID()
	if err != nil {
		internalError(w, r, h.log, "mint user id failed", err)
		return
	}
	req, err := h.readRegistration(w, r, userID)
	if err != nil {
		switch {
		case errors.Is(err, photos.ErrTooLarge):
			respond.Error(w, http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, photos.ErrNotImage):
			respond.Error(w, http.StatusBadRequest, "File must be an image")
		default:
			respond.Error(w, http.StatusBadRequest, "invalid request body")
		}
		return
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" || req.Password == "" {
		respond.Error(w, http.StatusUnprocessableEntity, "Nickname and password are required")
		return
	}

	_, err = h.users.FindByNickname(r.Context(), nickname)
	switch {
	case err == nil:
		respond.Error(w, http.StatusConflict, "Nickname already registered")
		return
	case !errors.Is(err, storage.ErrNotFound):
		internalError(w, r, h.log, "lookup nickname failed", err)
		return
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), auth.ErrWeakPassword.Error()+": "))
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(w, r, h.log, "hash password failed", err)
		return
	}

	user := models.User{
		ID:           userID,
		Nickname:     nickname,
		PasswordHash: hash,
		PhotoURL:     req.PhotoURL,
	}
	if req.hasPhoto {
		url, err := h.photos.Save(r.Context(), req.photo)
		if err != nil {
			internalError(w, r, h.log, "store photo failed", err)
			return
		}
		user.PhotoURL = &url
	}

	created, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "Nickname already registered")
			return
		}
		internalError(w, r, h.log, "create user failed", err)
		return
	}

	token, err := h.tokens.Generate(created.ID)
	if err != nil {
		internalError(w, r, h.log, "generate token failed", err)
		return
	}
	h.log.Info(r.Context(), "user registered", "user_id", created.ID)
	respond.JSON(w, http.StatusCreated, "User created successfully", dto.NewLoginResponse(created, token))
}

func (h *AuthHandler) readRegistration(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (registration, error) {
	var req registration
	switch {
	case isMultipart(r):
		if err := parseMultipart(w, r, h.maxUpload); err != nil {
			return req, err
		}
		req.Nickname = r.FormValue("nickname")
		req.Password = r.FormValue("password")
		if url := strings.TrimSpace(r.FormValue("photo_url")); url != "" {
			req.PhotoURL = &url
		}
		photo, ok, err := formPhoto(r, "photo", userID, h.maxUpload)
		if err != nil {
			return req, err
		}
		req.photo, req.hasPhoto = photo, ok
	case isURLEncoded(r):
		r.Body = http.MaxBytesReader(w, r.Body, maxCredentialsBody)
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Nickname = r.PostForm.Get("nickname")
		req.Password = r.PostForm.Get("password")
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxCredentialsBody)
		if err := decodeJSON(r, &req.RegisterRequest); err != nil {
			return req, err
		}
	}
	return req, nil
}

// Login accepts credentials as JSON, falling back to a form body when the
// payload is not JSON. Unknown nicknames and wrong passwords get the same
// answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := readCredentials(w, r)
	if err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, "Nickname and password are required")
		return
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" || req.Password == "" {
		respond.Error(w, http.StatusUnprocessableEntity, "Nickname and password are required")
		return
	}

	user, err := h.users.FindByNickname(r.Context(), nickname)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		err = auth.CheckMissingUser(req.Password)
	case err != nil:
		internalError(w, r, h.log, "lookup user failed", err)
		return
	default:
		err = auth.CheckPassword(user.PasswordHash, req.Password)
	}
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Debug(r.Context(), "login rejected")
			respond.Unauthorized(w, "Invalid nickname or password")
			return
		}
		internalError(w, r, h.log, "check password failed", err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		internalError(w, r, h.log, "generate token failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.NewLoginResponse(user, token))
}

func readCredentials(w http.ResponseWriter, r *http.Request) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCredentialsBody))
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err == nil {
		return req, nil
	}

	r.Body = io.NopCloser(bytes.NewReader(raw))
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxCredentialsBody); err != nil {
			return req, err
		}
	} else if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Nickname = r.PostFormValue("nickname")
	req.Password = r.PostFormValue("password")
	return req, nil
}
