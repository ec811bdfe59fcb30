package handlers

import (
	"encoding/json"
	"net/http"
	"piata/internal/logger"
	"piata/internal/middleware"
	"piata/internal/models"
	"piata/internal/services"
	helpers "piata/internal/utils/helpers"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ShopHandler struct {
	shopService *services.ShopService
}

func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// ListShops godoc
// @Summary Публичный каталог магазинов
// @Tags shops
// @Produce json
// @Success 200 {array} models.ShopListItem
// @Router /shops [get]
func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shopService.GetPublicShops(r.Context())
	if err != nil {
		logger.Log.Error("Ошибка получения каталога", zap.Error(err))
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, shops)
}

// GetShop godoc
// @Summary Страница магазина с доступными товарами
// @Tags shops
// @Produce json
// @Param id path int true "ID магазина"
// @Success 200 {object} models.ShopDetails
// @Failure 404 {string} string "Магазин не найден"
// @Router /shops/{id} [get]
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	details, err := h.shopService.GetShopDetails(r.Context(), id)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, details)
}

// ShopsByUser godoc
// @Summary Магазины пользователя (публично)
// @Tags shops
// @Produce json
// @Param userId path int true "ID пользователя"
// @Success 200 {array} models.ShopListItem
// @Router /shops/user/{userId} [get]
func (h *ShopHandler) ShopsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	shops, err := h.shopService.GetShopsByUser(r.Context(), userID)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, shops)
}

// MyShops godoc
// @Summary Магазины текущего производителя (включая неактивные)
// @Tags shops
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ShopListItem
// @Router /api/my-shops [get]
func (h *ShopHandler) MyShops(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	shops, err := h.shopService.GetMyShops(r.Context(), principal)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, shops)
}

// CreateShop godoc
// @Summary Создать магазин (владелец — текущий производитель)
// @Tags shops
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateShopRequest true "Данные магазина"
// @Success 201 {object} models.Shop
// @Failure 400 {string} string "Не указано название"
// @Router /api/shops [post]
func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	var req models.CreateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	shop, err := h.shopService.CreateShop(r.Context(), principal, &req)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, shop)
}

// UpdateShop godoc
// @Summary Частично обновить магазин (владелец или админ)
// @Tags shops
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID магазина"
// @Param input body models.UpdateShopRequest true "Изменяемые поля"
// @Success 200 {object} models.ShopDetails
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Магазин не найден"
// @Router /api/shops/{id} [patch]
func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	details, err := h.shopService.UpdateShop(r.Context(), principal, id, &req)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, details)
}

// DeleteShop godoc
// @Summary Удалить магазин вместе с товарами и подписками
// @Tags shops
// @Security ApiKeyAuth
// @Param id path int true "ID магазина"
// @Success 200 {string} string "Магазин удалён"
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Магазин не найден"
// @Router /api/shops/{id} [delete]
func (h *ShopHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
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

	if err := h.shopService.DeleteShop(r.Context(), principal, id); err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Магазин удалён")
}
