package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/anonym"
	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/models/dto"
	"github.com/hongminglow/confession-be/internal/pagination"
	"github.com/hongminglow/confession-be/internal/storage"
)

const maxNoteBody = 64 << 10

// NoteHandler serves the note endpoints.
type NoteHandler struct {
	notes      storage.NoteStore
	users      storage.UserStore
	limits     pagination.Limits
	maxContent int
	log        logging.Logger
}

func NewNoteHandler(notes storage.NoteStore, users storage.UserStore, limits pagination.Limits, maxContent int, log logging.Logger) *NoteHandler {
	return &NoteHandler{
		notes:      notes,
		users:      users,
		limits:     limits,
		maxContent: maxContent,
		log:        log.With("handler", "notes"),
	}
}

// Create sends a note from the caller. The fields come from a JSON body, or
// from query parameters of the same names when there is no body.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	sender, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	req, err := readNoteRequest(w, r)
	if err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	content := strings.TrimSpace(req.Content)
	switch n := utf8.RuneCountInString(content); {
	case n == 0:
		respond.Error(w, http.StatusBadRequest, "Content is required")
		return
	case n > h.maxContent:
		respond.Error(w, http.StatusBadRequest, "Content must be at most "+strconv.Itoa(h.maxContent)+" characters")
		return
	}

	receiverID, err := uuid.Parse(strings.TrimSpace(req.ReceiverID))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid receiver ID")
		return
	}
	if receiverID == sender.ID {
		respond.Error(w, http.StatusBadRequest, "Cannot send note to yourself")
		return
	}
	if _, err := h.users.FindByID(r.Context(), receiverID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Receiver not found")
			return
		}
		internalError(w, r, h.log, "find receiver failed", err)
		return
	}

	note := models.Note{
		Content:     content,
		SenderID:    sender.ID,
		ReceiverID:  receiverID,
		IsAnonymous: req.IsAnonymous,
	}
	if note.IsAnonymous {
		id := anonym.Derive(sender.ID.String(), receiverID.String())
		note.AnonymID = &id
	}

	created, err := h.notes.CreateNote(r.Context(), note)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Receiver not found")
			return
		}
		internalError(w, r, h.log, "create note failed", err)
		return
	}
	if created.IsAnonymous {
		h.log.Info(r.Context(), "note sent", "note_id", created.ID, "anonymous", true, "anonym_version", anonym.Version)
	} else {
		h.log.Info(r.Context(), "note sent", "note_id", created.ID, "anonymous", false)
	}
	respond.JSON(w, http.StatusCreated, "note sent", dto.NewCreatedNoteResponse(created))
}

func readNoteRequest(w http.ResponseWriter, r *http.Request) (dto.CreateNoteRequest, error) {
	var req dto.CreateNoteRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxNoteBody)
	err := decodeJSON(r, &req)
	switch {
	case err == nil:
		return req, nil
	case !errors.Is(err, errEmptyBody):
		return req, errors.New("invalid JSON payload")
	}

	q := r.URL.Query()
	req.Content = q.Get("content")
	req.ReceiverID = q.Get("receiver_id")
	if raw := q.Get("is_anonymous"); raw != "" {
		anonymous, err := strconv.ParseBool(raw)
		if err != nil {
			return req, errors.New("is_anonymous must be a boolean")
		}
		req.IsAnonymous = anonymous
	}
	return req, nil
}

// Sent lists the caller's sent notes, newest first, with the real receiver.
func (h *NoteHandler) Sent(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	page, ok := pageFromQuery(w, r, h.limits)
	if !ok {
		return
	}
	notes, total, err := h.notes.ListSent(r.Context(), user.ID, page)
	if err != nil {
		internalError(w, r, h.log, "list sent notes failed", err)
		return
	}
	resp := newNotesResponse(len(notes), total, page)
	for _, n := range notes {
		resp.Notes = append(resp.Notes, dto.NewSentNoteResponse(n))
	}
	respond.JSON(w, http.StatusOK, "ok", resp)
}

// Received lists notes addressed to the caller, newest first. Anonymous
// senders appear only as their pseudonym.
func (h *NoteHandler) Received(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	page, ok := pageFromQuery(w, r, h.limits)
	if !ok {
		return
	}
	notes, total, err := h.notes.ListReceived(r.Context(), user.ID, page)
	if err != nil {
		internalError(w, r, h.log, "list received notes failed", err)
		return
	}
	resp := newNotesResponse(len(notes), total, page)
	for _, n := range notes {
		resp.Notes = append(resp.Notes, dto.NewReceivedNoteResponse(n))
	}
	respond.JSON(w, http.StatusOK, "ok", resp)
}

func newNotesResponse(size int, total int64, page pagination.Page) dto.NotesResponse {
	return dto.NotesResponse{
		Notes: make([]dto.NoteResponse, 0, size),
		Total: total,
		Page:  page.Number,
		Pages: page.Pages(total),
	}
}

func (h *NoteHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	count, err := h.notes.CountUnread(r.Context(), user.ID)
	if err != nil {
		internalError(w, r, h.log, "count unread failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.UnreadCountResponse{Count: count})
}

// MarkRead flips a received note to read. A note that is missing, addressed
// to someone else or already read is reported as not found.
func (h *NoteHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r, h.log)
	if !ok {
		return
	}
	noteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid note ID")
		return
	}
	if err := h.notes.MarkRead(r.Context(), noteID, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Note not found")
			return
		}
		internalError(w, r, h.log, "mark read failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.SuccessResponse{Success: true})
}
