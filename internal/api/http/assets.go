package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studynote/studynote/internal/storage"
)

// MountAssets serves direct blob upload/download under /assets. The signed
// URL is the credential: no JWT is required, so these routes are mounted
// outside the authenticated group.
func MountAssets(r chi.Router, bs storage.BlobStore, signer *storage.URLSigner) {
	verify := func(w http.ResponseWriter, r *http.Request, op storage.Operation) (string, bool) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		q := r.URL.Query()
		if q.Get("op") != string(op) {
			http.Error(w, "operation mismatch", http.StatusForbidden)
			return "", false
		}
		if err := signer.Verify(op, key, q.Get("exp"), q.Get("sig")); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return "", false
		}
		return key, true
	}

	// PUT /assets/{key}?op=upload&exp=&sig=
	r.Put("/*", func(w http.ResponseWriter, r *http.Request) {
		key, ok := verify(w, r, storage.OpUpload)
		if !ok {
			return
		}
		if _, err := bs.Put(key, r.Body); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key})
	})

	// GET /assets/{key}?op=download&exp=&sig=&ct=
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key, ok := verify(w, r, storage.OpDownload)
		if !ok {
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		ct := r.URL.Query().Get("ct")
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
