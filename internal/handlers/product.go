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

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListShopProducts godoc
// @Summary Доступные товары магазина
// @Tags products
// @Produce json
// @Param id path int true "ID магазина"
// @Success 200 {array} models.Product
// @Router /shops/{id}/products [get]
func (h *ProductHandler) ListShopProducts(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	products, err := h.productService.GetProductsByShop(r.Context(), shopID)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, products)
}

// GetProduct godoc
// @Summary Товар по ID
// @Tags products
// @Produce json
// @Param id path int true "ID товара"
// @Success 200 {object} models.ProductListItem
// @Failure 404 {string} string "Товар не найден"
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Добавить товар в магазин
// @Tags products
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID магазина"
// @Param input body models.ProductInput true "Данные товара"
// @Success 201 {object} models.Product
// @Failure 400 {string} string "Не указано название"
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/shops/{id}/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
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

	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), principal, shopID, &input)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, product)
}

// CreateProducts godoc
// @Summary Добавить пачку товаров (элементы без названия пропускаются)
// @Tags products
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID магазина"
// @Param input body []models.ProductInput true "Список товаров"
// @Success 201 {array} models.Product
// @Failure 400 {string} string "Пустой список"
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/shops/{id}/products/bulk [post]
func (h *ProductHandler) CreateProducts(w http.ResponseWriter, r *http.Request) {
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

	var inputs []*models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	created, err := h.productService.CreateProducts(r.Context(), principal, shopID, inputs)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, created)
}

// SyncProducts godoc
// @Summary Полностью заменить набор товаров магазина
// @Tags products
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID магазина"
// @Param input body []models.ProductInput true "Новый набор товаров"
// @Success 200 {array} models.Product
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/shops/{id}/products/sync [put]
func (h *ProductHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
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

	var inputs []*models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	saved, err := h.productService.SyncProducts(r.Context(), principal, shopID, inputs)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, saved)
}

// UpdateProduct godoc
// @Summary Частично обновить товар (владение транзитивно через магазин)
// @Tags products
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID товара"
// @Param input body models.UpdateProductRequest true "Изменяемые поля"
// @Success 200 {object} models.ProductListItem
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Товар не найден"
// @Router /api/products/{id} [patch]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	updated, err := h.productService.UpdateProduct(r.Context(), principal, id, &req)
	if err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, updated)
}

// DeleteProduct godoc
// @Summary Удалить товар
// @Tags products
// @Security ApiKeyAuth
// @Param id path int true "ID товара"
// @Success 200 {string} string "Товар удалён"
// @Failure 403 {string} string "Доступ запрещён"
// @Failure 404 {string} string "Товар не найден"
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
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

	if err := h.productService.DeleteProduct(r.Context(), principal, id); err != nil {
		helpers.FromError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Товар удалён")
}
