package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-dataset-sync/internal/app"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ListRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.listRecords").Msg("invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	identityID, err := resolveIdentity(r, req.IdentityID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listRecords").Str("identity_id", req.IdentityID).Send()
		writeError(w, err)
		return
	}
	req.IdentityID = identityID
	req.DatasetName = chi.URLParam(r, "dataset")

	resp, err := h.services.RecordService.ListRecords(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listRecords").Str("dataset", req.DatasetName).Msg("error listing records")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) updateRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.UpdateRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateRecords").Msg("invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	identityID, err := resolveIdentity(r, req.IdentityID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateRecords").Str("identity_id", req.IdentityID).Send()
		writeError(w, err)
		return
	}
	req.IdentityID = identityID
	req.DatasetName = chi.URLParam(r, "dataset")

	resp, err := h.services.RecordService.UpdateRecords(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateRecords").Str("dataset", req.DatasetName).Msg("error updating records")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// resolveIdentity returns the identity of the bearer credentials. A request
// may omit IdentityId but must not name another identity.
func resolveIdentity(r *http.Request, requested string) (string, error) {
	identityID, ok := utils.GetIdentityIDFromContext(r.Context())
	if !ok {
		return "", service.ErrValidationNoIdentityID
	}
	if requested != "" && requested != identityID {
		return "", service.ErrUnauthorizedAccessToDifferentIdentity
	}
	return identityID, nil
}
