package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-dataset-sync/internal/app"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
)

type errorStatus struct {
	status  int
	message string
}

var errorStatusMap = map[error]errorStatus{
	service.ErrInvalidDataProvided:                   {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrValidationNoDatasetName:               {http.StatusBadRequest, app.MsgNoDatasetName},
	service.ErrValidationNoIdentityID:                {http.StatusBadRequest, app.MsgNoIdentityIDProvided},
	service.ErrValidationNoPatchesProvided:           {http.StatusBadRequest, app.MsgNoPatchesProvided},
	service.ErrValidationDuplicateKey:                {http.StatusBadRequest, app.MsgDuplicatePatchKey},
	service.ErrValidationNegativePageSize:            {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrInvalidPageToken:                      {http.StatusBadRequest, app.MsgInvalidPageToken},
	service.ErrInvalidWebIdentityToken:               {http.StatusUnauthorized, app.MsgInvalidWebIdentityToken},
	service.ErrTokenIsExpiredOrInvalid:               {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	service.ErrUnauthorizedAccessToDifferentIdentity: {http.StatusForbidden, app.MsgAccessDenied},
	service.ErrStaleSessionToken:                     {http.StatusConflict, app.MsgStaleSessionToken},

	store.ErrVersionConflict: {http.StatusConflict, app.MsgVersionConflict},
	store.ErrInvalidPatch:    {http.StatusBadRequest, app.MsgInvalidDataProvided},
}

// statusFromError returns the status code and response message for err.
// Unknown errors are internal server errors.
func statusFromError(err error) (int, string) {
	for target, mapped := range errorStatusMap {
		if errors.Is(err, target) {
			return mapped.status, mapped.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status, message := statusFromError(err)
	http.Error(w, message, status)
}
