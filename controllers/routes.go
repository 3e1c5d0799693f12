package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"campuslands/registration"
	"campuslands/utils"
)

func NewRouter(engine *registration.Engine, log logrus.FieldLogger) *mux.Router {
	camperController := CamperController{}
	router := mux.NewRouter()
	router.Use(RequestLogger(log))

	router.HandleFunc("/health", Health()).Methods("GET")

	router.HandleFunc("/campers", camperController.GetCampers(engine)).Methods("GET")
	router.HandleFunc("/campers/count", camperController.CountCampers(engine)).Methods("GET")
	router.HandleFunc("/campers/continue", camperController.ContinueRegistration(engine)).Methods("PATCH")
	router.HandleFunc("/campers/{id}", camperController.GetCamper(engine)).Methods("GET")
	router.HandleFunc("/camper", camperController.FindCamper(engine)).Methods("POST")
	router.HandleFunc("/campers", camperController.StartRegistration(engine)).Methods("POST")

	return router
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
