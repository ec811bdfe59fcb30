package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"piata/internal/apperrors"
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

// FromError сопоставляет таксономию ядра с HTTP-кодом. Неожиданные ошибки
// хранилища наружу не раскрываются.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrSelfAction):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidInput):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		Error(w, http.StatusConflict, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}
