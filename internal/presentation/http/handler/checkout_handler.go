package handler

import (
	"strings"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/checkout"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/service"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/request"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles the checkout dialog of a till
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Open fetches the ticket of an order and quotes both payment methods
func (h *CheckoutHandler) Open(c *gin.Context) {
	restaurantID, ok := requireRestaurant(c)
	if !ok {
		return
	}

	var fallback request.Fallback
	if err := c.ShouldBindQuery(&fallback); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return
	}

	view, err := h.checkoutService.OpenCheckout(c.Request.Context(), restaurantID, orderID(c), fallback.Totals())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout opened", view)
}

// Quote computes a payment intent without committing it. Validation failures
// are part of the quote, not an error response.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	restaurantID, ok := requireRestaurant(c)
	if !ok {
		return
	}

	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Unsupported payment method")
		return
	}

	result, err := h.checkoutService.Quote(c.Request.Context(), &service.QuoteInput{
		RestaurantID: restaurantID,
		OrderID:      orderID(c),
		Method:       method,
		AmountGiven:  req.AmountGiven.String(),
		Fallback:     req.Fallback.Totals(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment quoted", result)
}

// Tender applies a quick tender button to the cash amount
func (h *CheckoutHandler) Tender(c *gin.Context) {
	restaurantID, ok := requireRestaurant(c)
	if !ok {
		return
	}

	var req request.TenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	denomination := decimal.Zero
	if checkout.TenderAction(req.Action) == checkout.TenderAdd {
		d, ok := req.Denomination.Decimal()
		if !ok {
			response.BadRequest(c, "Denomination is required")
			return
		}
		denomination = d
	}

	result, err := h.checkoutService.Tender(c.Request.Context(), &service.TenderInput{
		RestaurantID: restaurantID,
		OrderID:      orderID(c),
		AmountGiven:  req.AmountGiven.String(),
		Action:       checkout.TenderAction(req.Action),
		Denomination: denomination,
		Fallback:     req.Fallback.Totals(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tender updated", result)
}

// Pay commits a payment to the order service
func (h *CheckoutHandler) Pay(c *gin.Context) {
	restaurantID, ok := requireRestaurant(c)
	if !ok {
		return
	}

	var req request.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Unsupported payment method")
		return
	}

	result, err := h.checkoutService.Pay(c.Request.Context(), &service.PayInput{
		RestaurantID: restaurantID,
		StaffID:      middleware.GetStaffID(c),
		Cashier:      GetStaffName(c),
		OrderID:      orderID(c),
		Method:       method,
		AmountGiven:  req.AmountGiven.String(),
		PrintSlip:    req.ShouldPrint(),
		Fallback:     req.Fallback.Totals(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded", result)
}

func orderID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("order_id"))
}
