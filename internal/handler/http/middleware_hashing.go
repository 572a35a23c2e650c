package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-dataset-sync/internal/app"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// patchHashing verifies the integrity hash of an UpdateRecords body. The
// hash covers the JSON encoding of RecordPatches. Without a configured key
// every body passes.
func (h *Handler) patchHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.hasher.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.patchHashing").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req struct {
			RecordPatches []models.Patch `json:"RecordPatches"`
			Hash          string         `json:"Hash"`
		}
		if err = json.Unmarshal(body, &req); err != nil {
			log.Err(err).Str("func", "*Handler.patchHashing").Msg("failed to decode JSON")
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}

		if !h.hasher.VerifyJSON(req.RecordPatches, req.Hash) {
			log.Err(ErrIntegrityCheckFailed).Str("func", "*Handler.patchHashing").
				Str("hash", req.Hash).
				Int("patches", len(req.RecordPatches)).
				Msg("hashes are not equal")
			http.Error(w, app.MsgIntegrityCheckFailed, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
