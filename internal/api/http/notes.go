package http

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/studynote/studynote/internal/auth/middleware"
	"github.com/studynote/studynote/internal/note"
	"github.com/studynote/studynote/internal/storage"
)

type noteReq struct {
	Title       string `json:"title" validate:"required,max=200"`
	Content     string `json:"content"`
	FileKey     string `json:"file_key"`
	ContentType string `json:"content_type"`
}

func CreateNoteHandler(store note.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req noteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n := note.Note{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       req.Title,
			Content:     req.Content,
			FileKey:     req.FileKey,
			ContentType: req.ContentType,
			CreatedAt:   time.Now().Unix(),
		}
		if err := store.Put(r.Context(), n); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, n)
	}
}

func GetNoteHandler(store note.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		n, err := store.Get(r.Context(), chi.URLParam(r, "noteID"))
		if err != nil {
			httpError(w, err)
			return
		}
		if n.UserID != userID {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}

func ListNotesHandler(store note.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
		notes, err := store.ListByUser(r.Context(), userID, limit, offset)
		if err != nil {
			httpError(w, err)
			return
		}
		if notes == nil {
			notes = []note.Note{}
		}
		writeJSON(w, http.StatusOK, notes)
	}
}

func UpdateNoteHandler(store note.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		existing, err := store.Get(r.Context(), chi.URLParam(r, "noteID"))
		if err != nil {
			httpError(w, err)
			return
		}
		if existing.UserID != userID {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		var req noteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		existing.Title = req.Title
		existing.Content = req.Content
		existing.FileKey = req.FileKey
		existing.ContentType = req.ContentType
		if err := store.Put(r.Context(), existing); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, existing)
	}
}

func DeleteNoteHandler(store note.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		id := chi.URLParam(r, "noteID")
		n, err := store.Get(r.Context(), id)
		if err != nil {
			httpError(w, err)
			return
		}
		if n.UserID != userID {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		if err := store.Delete(r.Context(), id, userID); err != nil {
			httpError(w, err)
			return
		}
		if n.FileKey != "" {
			_ = bs.Delete(n.FileKey)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type fileURLReq struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type"`
	Operation   string `json:"operation" validate:"oneof=upload download"`
	Key         string `json:"key"` // required for download; ignored for upload
}

// NoteFileURLHandler issues a short-lived signed URL for attaching a file to
// a note (upload) or fetching one back (download). Upload keys are minted
// under the caller's user scope; download keys must already be scoped there.
func NoteFileURLHandler(signer *storage.URLSigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req fileURLReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		op := storage.Operation(req.Operation)
		key := req.Key
		if op == storage.OpUpload {
			name := path.Base(strings.ReplaceAll(req.FileName, "\\", "/"))
			if name == "." || name == "/" || name == "" {
				http.Error(w, "invalid file name", http.StatusBadRequest)
				return
			}
			key = "notes/" + userID + "/" + uuid.NewString() + "/" + name
		}
		if !strings.HasPrefix(key, "notes/"+userID+"/") {
			http.Error(w, "key outside user scope", http.StatusForbidden)
			return
		}

		u, err := signer.Sign(op, key, req.ContentType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": u, "key": key})
	}
}
