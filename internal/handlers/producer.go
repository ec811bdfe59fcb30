package handlers

import (
	"encoding/json"
	"net/http"
	"piata/internal/middleware"
	"piata/internal/models"
	"piata/internal/services"
	helpers "piata/internal/utils/helpers"
	"strconv"

	"github.com/gorilla/mux"
)

// ProducerHandler — карточки производителей старого образца (до появления
// магазинов). Живут параллельно с shops, общих данных нет.
type ProducerHandler struct {
	producerService *services.ProducerService
}

func NewProducerHandler(producerService *services.ProducerService) *ProducerHandler {
	return &ProducerHandler{producerService: producerService}
}

// ListProducers godoc
// @Summary Публичный список производителей
// @Tags producers
// @Produce json
// @Success 200 {array} models.Producer
// @Router /producers [get]
func (h *ProducerHandler) ListProducers(w http.ResponseWriter, r *http.Request) {
	producers, err := h.producerService.GetAllProducers(r.Context())
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, producers)
}

// GetProducer godoc
// @Summary Производитель по ID
// @Tags producers
// @Produce json
// @Param id path int true "ID производителя"
// @Success 200 {object} models.Producer
// @Failure 404 {string} string "Производитель не найден"
// @Router /producers/{id} [get]
func (h *ProducerHandler) GetProducer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	producer, err := h.producerService.GetProducer(r.Context(), id)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, producer)
}

// CreateProducer godoc
// @Summary Создать карточку производителя
// @Tags producers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateProducerRequest true "Данные производителя"
// @Success 201 {object} models.Producer
// @Failure 400 {string} string "Не указано название"
// @Router /api/producers [post]
func (h *ProducerHandler) CreateProducer(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	var req models.CreateProducerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	producer, err := h.producerService.CreateProducer(r.Context(), principal, &req)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, producer)
}

// UpdateProducer godoc
// @Summary Частично обновить карточку производителя (владелец или админ)
// @Tags producers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID производителя"
// @Param input body models.UpdateProducerRequest true "Изменяемые поля"
// @Success 200 {object} models.Producer
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Производитель не найден"
// @Router /api/producers/{id} [patch]
func (h *ProducerHandler) UpdateProducer(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	var req models.UpdateProducerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	producer, err := h.producerService.UpdateProducer(r.Context(), principal, id, &req)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, producer)
}

// DeleteProducer godoc
// @Summary Удалить карточку производителя (владелец или админ)
// @Tags producers
// @Security ApiKeyAuth
// @Param id path int true "ID производителя"
// @Success 200 {string} string "Производитель удалён"
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Производитель не найден"
// @Router /api/producers/{id} [delete]
func (h *ProducerHandler) DeleteProducer(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	if err := h.producerService.DeleteProducer(r.Context(), principal, id); err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Производитель удалён")
}
