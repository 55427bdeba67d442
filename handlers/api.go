package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vacationrental/db"
	"vacationrental/i18n"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// sendJSONResponse encodes response before writing the status line. A payload
// that cannot be encoded is logged and answered with a 500.
func (a *App) sendJSONResponse(w http.ResponseWriter, r *http.Request, status int, response APIResponse) {
	body, err := json.Marshal(response)
	if err != nil {
		a.Log.Error("Error encoding API response", zap.Error(err), zap.String("path", r.URL.Path))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(APIResponse{Status: "error", Message: i18n.T(i18n.DetectLanguage(r), "InternalServerError")})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func (a *App) APIListListingsHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	properties, err := a.Listings.ListListings(r.Context())
	if err != nil {
		a.Log.Error("Error listing properties (API)", zap.Error(err))
		a.sendJSONResponse(w, r, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}
	a.sendJSONResponse(w, r, http.StatusOK, APIResponse{Status: "success", Data: properties})
}

func (a *App) APIGetListingHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		a.sendJSONResponse(w, r, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidPropertyID")})
		return
	}

	property, err := a.Listings.GetListing(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		a.sendJSONResponse(w, r, http.StatusNotFound, APIResponse{Status: "error", Message: i18n.T(lang, "PropertyNotFound")})
		return
	}
	if err != nil {
		a.Log.Error("Error loading property (API)", zap.Error(err))
		a.sendJSONResponse(w, r, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}
	a.sendJSONResponse(w, r, http.StatusOK, APIResponse{Status: "success", Data: property})
}
