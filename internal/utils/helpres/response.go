package helpers

import (
	"encoding/json"
	"net/http"

	"vetusrex/internal/apperr"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: data, Error: ""})
	if err != nil {
		return
	}
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: nil, Error: errMsg})
	if err != nil {
		return
	}
}

// StatusOf переводит тип ошибки сервиса в HTTP-статус.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConnection:
		return http.StatusServiceUnavailable
	}
	if apperr.IsConnection(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// AppError пишет ошибку сервиса: статус по типу, текст без внутренних подробностей.
func AppError(w http.ResponseWriter, err error) {
	Error(w, StatusOf(err), apperr.Message(err))
}
