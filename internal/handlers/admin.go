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

type AdminHandler struct {
	adminService    *services.AdminService
	shopService     *services.ShopService
	productService  *services.ProductService
	producerService *services.ProducerService
}

func NewAdminHandler(
	adminService *services.AdminService,
	shopService *services.ShopService,
	productService *services.ProductService,
	producerService *services.ProducerService,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		shopService:     shopService,
		productService:  productService,
		producerService: producerService,
	}
}

// GetUsers godoc
// @Summary Все пользователи (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/admin/users [get]
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.GetAllUsers(r.Context())
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, users)
}

// GetUser godoc
// @Summary Пользователь по ID (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.User
// @Failure 404 {string} string "Пользователь не найден"
// @Router /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	user, err := h.adminService.GetUser(r.Context(), id)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Частично обновить пользователя, включая роль (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body models.UpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} models.User
// @Failure 404 {string} string "Пользователь не найден"
// @Router /api/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	user, err := h.adminService.UpdateUser(r.Context(), id, &req)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Удалить пользователя (только admin; свою учётку удалить нельзя)
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Success 200 {string} string "Пользователь удалён"
// @Failure 400 {string} string "Нельзя удалить собственную учётку"
// @Failure 404 {string} string "Пользователь не найден"
// @Router /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
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

	if err := h.adminService.DeleteUser(r.Context(), principal, id); err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Пользователь удалён")
}

// GetShops godoc
// @Summary Все магазины без фильтра активности (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ShopListItem
// @Router /api/admin/shops [get]
func (h *AdminHandler) GetShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shopService.GetAllShopsAdmin(r.Context())
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, shops)
}

// GetProducts godoc
// @Summary Все товары всех магазинов (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ProductListItem
// @Router /api/admin/products [get]
func (h *AdminHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAllProductsAdmin(r.Context())
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, products)
}

// GetProducers godoc
// @Summary Все карточки производителей с данными владельцев (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ProducerListItem
// @Router /api/admin/producers [get]
func (h *AdminHandler) GetProducers(w http.ResponseWriter, r *http.Request) {
	producers, err := h.producerService.GetAllProducersAdmin(r.Context())
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, producers)
}

// GetStats godoc
// @Summary Сводная статистика системы (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.SystemStats
// @Router /api/admin/stats [get]
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetSystemStats(r.Context())
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, stats)
}
