package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/zenith/internal/service"
	"github.com/d60-Lab/zenith/pkg/response"
)

const (
	msgProductNotFound = "Product not found"
	msgProductRequired = "Name, price and stock are required"
	msgStockInvalid    = "Stock must be a non-negative integer"
	msgProductDeleted  = "Product deleted successfully"
)

// ListProducts 商品列表
// @Summary 商品列表
// @Tags 商品
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Product}
// @Failure 500 {object} response.Response
// @Router /api/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err, "Failed to fetch products")
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
// @Summary 按 id 查询商品
// @Tags 商品
// @Produce json
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response{data=model.Product}
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrProductNotFound) {
		response.NotFound(c, msgProductNotFound)
		return
	}
	if err != nil {
		response.InternalError(c, err, "Failed to fetch product")
		return
	}
	response.Success(c, p)
}

// CreateProduct 新增商品
// @Summary 创建商品
// @Tags 商品
// @Accept json
// @Produce json
// @Param request body service.CreateProductInput true "商品信息"
// @Success 201 {object} response.Response{data=model.Product}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.BadRequest(c, msgProductRequired)
			return
		}
		response.BadRequest(c, msgInvalidBody)
		return
	}
	p, err := h.productService.Create(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidProduct) {
		response.BadRequest(c, msgProductRequired)
		return
	}
	if err != nil {
		response.InternalError(c, err, "Failed to create product")
		return
	}
	response.Created(c, p)
}

// UpdateStock 修改库存
// @Summary 只更新库存
// @Tags 商品
// @Accept json
// @Produce json
// @Param id path string true "商品ID"
// @Param request body service.UpdateStockInput true "库存"
// @Success 200 {object} response.Response{data=model.Product}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/products/{id} [patch]
func (h *Handler) UpdateStock(c *gin.Context) {
	var req service.UpdateStockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}
	p, err := h.productService.UpdateStock(c.Request.Context(), c.Param("id"), req)
	switch {
	case errors.Is(err, service.ErrInvalidStock):
		response.BadRequest(c, msgStockInvalid)
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, msgProductNotFound)
	case err != nil:
		response.InternalError(c, err, "Failed to update product")
	default:
		response.Success(c, p)
	}
}

// DeleteProduct 删除商品
// @Summary 删除商品
// @Tags 商品
// @Produce json
// @Param id path string true "商品ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	err := h.productService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrProductNotFound) {
		response.NotFound(c, msgProductNotFound)
		return
	}
	if err != nil {
		response.InternalError(c, err, "Failed to delete product")
		return
	}
	response.Message(c, msgProductDeleted)
}
