package controller

import (
	"bytes"
	"net/http"

	"ecommerce-api/apperror"
	"ecommerce-api/middleware"
	"ecommerce-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type OrderController struct {
	orders *service.OrderService
}

func NewOrderController(orders *service.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type createOrderInput struct {
	Items []service.OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type updateStatusInput struct {
	Status *string `json:"status"`
}

// CreateOrder places an order for the caller. The body is either
// {"items": [...]} or the bare item list.
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, apperror.Validation("could not read request body"))
		return
	}
	if body := bytes.TrimSpace(raw); len(body) > 0 && body[0] == '[' {
		raw = append(append([]byte(`{"items":`), body...), '}')
	}
	var input createOrderInput
	if err := binding.JSON.BindBody(raw, &input); err != nil {
		respondError(c, apperror.Validation("%s", err.Error()))
		return
	}
	order, err := ctl.orders.CreateOrder(c.Request.Context(), middleware.CurrentUser(c).ID, input.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// MyOrders lists the caller's orders, newest first.
func (ctl *OrderController) MyOrders(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	orders, err := ctl.orders.UserOrders(c.Request.Context(), middleware.CurrentUser(c).ID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order to its owner or an administrator.
func (ctl *OrderController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := ctl.orders.ViewOrder(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// AllOrders lists every order (administrators only).
func (ctl *OrderController) AllOrders(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	orders, err := ctl.orders.AllOrders(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus changes an order's status (administrators only). A body
// without status leaves the order unchanged.
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input updateStatusInput
	if !bindJSON(c, &input) {
		return
	}

	ctx := c.Request.Context()
	if input.Status == nil {
		order, err := ctl.orders.GetOrder(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
		return
	}
	order, err := ctl.orders.UpdateStatus(ctx, id, *input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
