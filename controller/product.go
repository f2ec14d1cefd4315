package controller

import (
	"net/http"

	"ecommerce-api/service"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	products *service.ProductService
}

func NewProductController(products *service.ProductService) *ProductController {
	return &ProductController{products: products}
}

// GetProducts godoc
// @Summary Get all products
// @Description Get a page of products, served from cache when possible.
// @Tags products
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {array} models.Product
// @Router /products/ [get]
func (ctl *ProductController) GetProducts(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	products, err := ctl.products.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID godoc
// @Summary Get a single product by its ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Router /products/{id} [get]
func (ctl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := ctl.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create a new product
// @Tags products
// @Accept json
// @Produce json
// @Param product body service.ProductInput true "Product object"
// @Success 201 {object} models.Product
// @Router /products/ [post]
func (ctl *ProductController) CreateProduct(c *gin.Context) {
	var input service.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	product, err := ctl.products.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Partially update an existing product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body service.ProductPatch true "Fields to change"
// @Success 200 {object} models.Product
// @Router /products/{id} [put]
func (ctl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch service.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}
	product, err := ctl.products.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product that no order references
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "No Content"
// @Router /products/{id} [delete]
func (ctl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
