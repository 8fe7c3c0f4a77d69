package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	app "coffeemesh/internal/application/order"
	domain "coffeemesh/internal/domain/order"
	"coffeemesh/internal/domain/repository"
	"coffeemesh/pkg/logger"
)

// OrderHandler drives one unit of work per request: begin, build the service
// around the transaction-bound repository, run one use case, commit, respond.
// The deferred rollback releases the transaction on every other exit path.
type OrderHandler struct {
	begin    repository.BeginFunc
	kitchen  domain.KitchenGateway
	payments domain.PaymentsGateway
	log      logger.Logger
}

func NewOrderHandler(begin repository.BeginFunc, kitchen domain.KitchenGateway, payments domain.PaymentsGateway, log logger.Logger) *OrderHandler {
	return &OrderHandler{begin: begin, kitchen: kitchen, payments: payments, log: log}
}

type createOrderRequest struct {
	Items []app.ItemInput `json:"items" binding:"required,min=1,dive"`
}

type itemResponse struct {
	ID       string `json:"id"`
	Product  string `json:"product"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	ID         string         `json:"id"`
	Created    time.Time      `json:"created"`
	Status     string         `json:"status"`
	Items      []itemResponse `json:"items"`
	ScheduleID *string        `json:"schedule_id,omitempty"`
	DeliveryID *string        `json:"delivery_id,omitempty"`
}

func toOrderResponse(o *domain.Order) (orderResponse, error) {
	id, err := o.ID()
	if err != nil {
		return orderResponse{}, err
	}
	created, err := o.Created()
	if err != nil {
		return orderResponse{}, err
	}
	status, err := o.Status()
	if err != nil {
		return orderResponse{}, err
	}

	items := make([]itemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, itemResponse{
			ID:       item.ID,
			Product:  item.Product,
			Size:     string(item.Size),
			Quantity: item.Quantity,
		})
	}
	return orderResponse{
		ID:         id,
		Created:    created,
		Status:     string(status),
		Items:      items,
		ScheduleID: o.ScheduleID,
		DeliveryID: o.DeliveryID,
	}, nil
}

// respondError maps domain errors onto status codes. The original route
// layer only handled not-found; invalid actions and collaborator failures
// are mapped explicitly here.
func (h *OrderHandler) respondError(c *gin.Context, err error) {
	var notFound *domain.NotFoundError
	var invalidAction *domain.InvalidActionError
	var integration *domain.IntegrationError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &invalidAction):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &integration):
		h.log.Error("collaborator call failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrMissingProduct),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	uow, err := h.begin(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer uow.Rollback(ctx)

	svc := app.NewService(uow.Orders(), h.kitchen, h.payments)
	order, err := svc.PlaceOrder(ctx, req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp, err := toOrderResponse(order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var q app.ListOrdersQuery
	if raw, ok := c.GetQuery("cancelled"); ok {
		cancelled, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cancelled must be a boolean"})
			return
		}
		q.Cancelled = &cancelled
	}
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		q.Limit = &limit
	}

	ctx := c.Request.Context()
	uow, err := h.begin(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer uow.Rollback(ctx)

	svc := app.NewService(uow.Orders(), h.kitchen, h.payments)
	orders, err := svc.ListOrders(ctx, q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp, err := toOrderResponse(order)
		if err != nil {
			h.respondError(c, err)
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()
	uow, err := h.begin(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer uow.Rollback(ctx)

	svc := app.NewService(uow.Orders(), h.kitchen, h.payments)
	order, err := svc.GetOrder(ctx, c.Param("order_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp, err := toOrderResponse(order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	uow, err := h.begin(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer uow.Rollback(ctx)

	svc := app.NewService(uow.Orders(), h.kitchen, h.payments)
	order, err := svc.UpdateOrder(ctx, c.Param("order_id"), req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp, err := toOrderResponse(order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	ctx := c.Request.Context()
	uow, err := h.begin(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer uow.Rollback(ctx)

	svc := app.NewService(uow.Orders(), h.kitchen, h.payments)
	if err := svc.DeleteOrder(ctx, c.Param("order_id")); err != nil {
		h.respondError(c, err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) PayOrder(c *gin.Context) {
	ctx := c.Request.Context()
	uow, err := h.begin(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer uow.Rollback(ctx)

	svc := app.NewService(uow.Orders(), h.kitchen, h.payments)
	order, err := svc.PayOrder(ctx, c.Param("order_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp, err := toOrderResponse(order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	ctx := c.Request.Context()
	uow, err := h.begin(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer uow.Rollback(ctx)

	svc := app.NewService(uow.Orders(), h.kitchen, h.payments)
	order, err := svc.CancelOrder(ctx, c.Param("order_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp, err := toOrderResponse(order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
