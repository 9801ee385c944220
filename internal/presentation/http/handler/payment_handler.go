package handler

import (
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/service"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/request"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler serves the gateway's payment journal
type PaymentHandler struct {
	checkoutService *service.CheckoutService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(checkoutService *service.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkoutService: checkoutService}
}

// List handles listing recorded payments of the active restaurant
func (h *PaymentHandler) List(c *gin.Context) {
	restaurantID, ok := requireRestaurant(c)
	if !ok {
		return
	}

	params, ok := filterParams(c)
	if !ok {
		return
	}

	result, err := h.checkoutService.ListPayments(c.Request.Context(), restaurantID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// Get handles getting one recorded payment
func (h *PaymentHandler) Get(c *gin.Context) {
	restaurantID, ok := requireRestaurant(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	record, err := h.checkoutService.GetPayment(c.Request.Context(), restaurantID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", record)
}

// Summary totals recorded payments per method, with the same filters as List
func (h *PaymentHandler) Summary(c *gin.Context) {
	restaurantID, ok := requireRestaurant(c)
	if !ok {
		return
	}

	params, ok := filterParams(c)
	if !ok {
		return
	}

	report, err := h.checkoutService.Summary(c.Request.Context(), restaurantID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment summary retrieved successfully", report)
}

func filterParams(c *gin.Context) (*repository.PaymentFilterParams, bool) {
	var q request.ListPaymentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return nil, false
	}

	params := &repository.PaymentFilterParams{
		PaginationParams: pagination.PaginationParams{Page: q.Page, PerPage: q.PerPage},
		OrderID:          q.OrderID,
	}
	params.Validate()

	if q.Method != "" {
		method, err := enum.ParsePaymentMethod(q.Method)
		if err != nil {
			response.BadRequest(c, "Unsupported payment method")
			return nil, false
		}
		params.Method = &method
	}

	from, to, ok := q.DateRange()
	if !ok {
		response.BadRequest(c, "Invalid date range, use YYYY-MM-DD")
		return nil, false
	}
	params.From, params.To = from, to

	return params, true
}
