package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"campuslands/models"
	"campuslands/registration"
	"campuslands/utils"
)

type CamperController struct{}

func (cc CamperController) GetCampers(engine *registration.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campers, err := engine.List(r.Context())
		if err != nil {
			respondWithRegistrationError(w, err)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, campers)
	}
}

func (cc CamperController) CountCampers(engine *registration.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := engine.Count(r.Context())
		if err != nil {
			respondWithRegistrationError(w, err)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, models.Count{Total: total})
	}
}

// GetCamper looks a camper up by the {id} path segment.
func (cc CamperController) GetCamper(engine *registration.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		camper, err := engine.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithRegistrationError(w, err)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, camper)
	}
}

// FindCamper looks a camper up by the id carried in the request body.
func (cc CamperController) FindCamper(engine *registration.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		camper, err := engine.Get(r.Context(), body["id"])
		if err != nil {
			respondWithRegistrationError(w, err)
			return
		}
		utils.ResponseJSON(w, http.StatusOK, camper)
	}
}

func (cc CamperController) StartRegistration(engine *registration.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		camper, err := engine.Start(r.Context(), body)
		if err != nil {
			respondWithRegistrationError(w, err)
			return
		}
		w.Header().Set("Location", camperLocation(camper.ID))
		utils.ResponseJSON(w, http.StatusCreated, camper)
	}
}

func (cc CamperController) ContinueRegistration(engine *registration.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		camper, err := engine.Continue(r.Context(), body)
		if err != nil {
			respondWithRegistrationError(w, err)
			return
		}
		w.Header().Set("Location", camperLocation(camper.ID))
		utils.ResponseJSON(w, http.StatusOK, camper)
	}
}

func camperLocation(id int) string {
	return fmt.Sprintf("/campers/%d", id)
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	body, err := utils.DecodeObject(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{
			Code:    "invalid_body",
			Message: "solicitud inválida (cuerpo JSON inválido)",
		})
		return nil, false
	}
	return body, true
}

func respondWithRegistrationError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := registration.KindOf(err)
	switch kind {
	case registration.KindInsufficientData,
		registration.KindUnknownField,
		registration.KindInvalidFieldType,
		registration.KindInvalidFieldFormat,
		registration.KindInvalidID:
		status = http.StatusBadRequest
	case registration.KindNotFound:
		status = http.StatusNotFound
	case registration.KindConflict:
		status = http.StatusConflict
	}
	utils.RespondWithError(w, status, models.Error{Code: kind.String(), Message: err.Error()})
}
