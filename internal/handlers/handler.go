package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coachdesk/coachdesk/internal/chat"
	"github.com/coachdesk/coachdesk/internal/docgen"
	"github.com/coachdesk/coachdesk/internal/store"
)

// emailRegex validates email addresses per RFC 5322 (simplified).
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const maxPhotoSize = 5 << 20 // 5 MB

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	db        store.DataStore
	redis     *store.RedisStore
	chat      *chat.Service
	docs      *docgen.Generator
	uploadDir string
	log       zerolog.Logger
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(db store.DataStore, redis *store.RedisStore, chatSvc *chat.Service, docs *docgen.Generator, uploadDir string, log zerolog.Logger) *Handler {
	return &Handler{
		db:        db,
		redis:     redis,
		chat:      chatSvc,
		docs:      docs,
		uploadDir: uploadDir,
		log:       log,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// storeError maps store sentinels onto HTTP status codes. notFound names the
// missing resource in the 404 body.
func (h *Handler) storeError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.Error(w, http.StatusNotFound, notFound+" not found")
	case errors.Is(err, store.ErrConflict):
		h.Error(w, http.StatusConflict, "already exists")
	case errors.Is(err, store.ErrRoomGone):
		h.Error(w, http.StatusGone, "referenced record no longer exists")
	default:
		h.log.Error().Err(err).Msg("store operation failed")
		h.Error(w, http.StatusInternalServerError, "database error")
	}
}

// requestUser returns the caller's user id. Callers without one get empty.
func requestUser(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return r.Header.Get("X-User-ID")
}

// savePhoto stores an uploaded image under the upload dir with a random name
// and returns the stored filename. Returns "" with no error when the field is
// absent.
func (h *Handler) savePhoto(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		return "", errPhotoTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", errPhotoType
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	if err := writeUpload(file, filepath.Join(h.uploadDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

var (
	errPhotoTooLarge = errors.New("photo exceeds size limit")
	errPhotoType     = errors.New("unsupported photo type")
)

func writeUpload(src multipart.File, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

// photoError maps savePhoto failures onto HTTP responses. Returns true when a
// response was written.
func (h *Handler) photoError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errPhotoTooLarge):
		h.Error(w, http.StatusRequestEntityTooLarge, "photo exceeds 5MB limit")
	case errors.Is(err, errPhotoType):
		h.Error(w, http.StatusBadRequest, "photo must be jpg, png or webp")
	default:
		h.log.Error().Err(err).Msg("photo upload failed")
		h.Error(w, http.StatusInternalServerError, "photo upload failed")
	}
	return true
}

// sanitizeName trims and limits name to 100 characters, removing control characters.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)

	// Remove control characters
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	// Limit to 100 characters
	if len(name) > 100 {
		name = name[:100]
	}

	return name
}

// isValidEmail validates email addresses using RFC 5322 pattern.
func isValidEmail(email string) bool {
	if email == "" {
		return true // Empty is valid (optional field)
	}
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}
