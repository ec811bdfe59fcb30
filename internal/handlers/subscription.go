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

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// GetShopConfig godoc
// @Summary План подписки магазина (публично; null — план не опубликован)
// @Tags subscriptions
// @Produce json
// @Param id path int true "ID магазина"
// @Success 200 {object} models.ShopSubscriptionConfig
// @Router /shops/{id}/subscription [get]
func (h *SubscriptionHandler) GetShopConfig(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	cfg, err := h.subscriptionService.GetShopConfig(r.Context(), shopID)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, cfg)
}

// UpsertShopConfig godoc
// @Summary Создать или заменить план подписки магазина (только владелец)
// @Tags subscriptions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID магазина"
// @Param input body models.UpsertShopConfigRequest true "План подписки"
// @Success 200 {object} models.ShopSubscriptionConfig
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Магазин не найден"
// @Router /api/shops/{id}/subscription [put]
func (h *SubscriptionHandler) UpsertShopConfig(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	shopID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	var req models.UpsertShopConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	cfg, err := h.subscriptionService.UpsertShopConfig(r.Context(), principal, shopID, &req)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, cfg)
}

// DeleteShopConfig godoc
// @Summary Снять план подписки магазина (только владелец)
// @Tags subscriptions
// @Security ApiKeyAuth
// @Param id path int true "ID магазина"
// @Success 200 {string} string "План удалён"
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/shops/{id}/subscription [delete]
func (h *SubscriptionHandler) DeleteShopConfig(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	shopID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	if err := h.subscriptionService.DeleteShopConfig(r.Context(), principal, shopID); err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "План удалён")
}

// Subscribe godoc
// @Summary Подписаться на магазин (повторная подписка сбрасывает в pending)
// @Tags subscriptions
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID магазина"
// @Success 201 {object} models.UserSubscription
// @Failure 400 {string} string "План не активен или подписка на свой магазин"
// @Failure 404 {string} string "Магазин не найден"
// @Router /api/shops/{id}/subscribe [post]
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	shopID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	sub, err := h.subscriptionService.Subscribe(r.Context(), principal, shopID)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, sub)
}

// MySubscriptions godoc
// @Summary Подписки текущего пользователя с текущими планами магазинов
// @Tags subscriptions
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.UserSubscriptionView
// @Router /api/subscriptions [get]
func (h *SubscriptionHandler) MySubscriptions(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	subs, err := h.subscriptionService.GetUserSubscriptions(r.Context(), principal)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, subs)
}

// ShopSubscribers godoc
// @Summary Подписчики магазина (только владелец)
// @Tags subscriptions
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID магазина"
// @Success 200 {array} models.ShopSubscriberView
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/shops/{id}/subscribers [get]
func (h *SubscriptionHandler) ShopSubscribers(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	shopID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	subscribers, err := h.subscriptionService.GetShopSubscribers(r.Context(), principal, shopID)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, subscribers)
}

// UpdateStatus godoc
// @Summary Сменить статус подписки (подписчик или владелец магазина)
// @Tags subscriptions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID подписки"
// @Param input body updateStatusRequest true "Новый статус"
// @Success 200 {object} models.UserSubscription
// @Failure 400 {string} string "Недопустимый статус"
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Подписка не найдена"
// @Router /api/subscriptions/{id}/status [patch]
func (h *SubscriptionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	sub, err := h.subscriptionService.UpdateStatus(r.Context(), principal, id, req.Status)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, sub)
}

// Cancel godoc
// @Summary Отменить подписку (только сам подписчик)
// @Tags subscriptions
// @Security ApiKeyAuth
// @Param id path int true "ID подписки"
// @Success 200 {string} string "Подписка отменена"
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Подписка не найдена"
// @Router /api/subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	if err := h.subscriptionService.Cancel(r.Context(), principal, id); err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Подписка отменена")
}
