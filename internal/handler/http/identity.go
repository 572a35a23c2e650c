package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-dataset-sync/internal/app"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
)

func (h *Handler) assumeIdentity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.AssumeIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.assumeIdentity").Msg("invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	creds, err := h.services.IdentityService.AssumeIdentity(r.Context(), req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.assumeIdentity").Str("role_arn", req.RoleArn).Msg("assuming identity failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.CredentialsResponse{Credentials: creds}, http.StatusOK)
}

func (h *Handler) unauthenticated(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.UnauthenticatedIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.unauthenticated").Msg("invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	creds, err := h.services.IdentityService.Unauthenticated(r.Context(), req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.unauthenticated").Str("identity_pool_id", req.IdentityPoolID).Msg("guest identity was not issued")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.CredentialsResponse{Credentials: creds}, http.StatusOK)
}
