package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vinagsv/quickbite-api/internal/adapter/http/middleware"
	"github.com/vinagsv/quickbite-api/internal/checkout"
	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/logging"
	"github.com/vinagsv/quickbite-api/internal/security"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

type OrderHandler struct {
	session  *usecase.CheckoutSession
	verify   *usecase.VerifyPayment
	queries  *usecase.OrderQueries
	attempts *checkout.Manager
}

func NewOrderHandler(session *usecase.CheckoutSession, verify *usecase.VerifyPayment, queries *usecase.OrderQueries, attempts *checkout.Manager) *OrderHandler {
	return &OrderHandler{session: session, verify: verify, queries: queries, attempts: attempts}
}

type orderItemReq struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Price      int64  `json:"price" binding:"required,gt=0"`
	Quantity   int    `json:"quantity" binding:"required,gte=1"`
}

type checkoutSessionReq struct {
	Amount          int64          `json:"amount" binding:"required,gt=0"`
	Currency        string         `json:"currency"`
	RestaurantID    string         `json:"restaurantId" binding:"required"`
	Items           []orderItemReq `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string         `json:"deliveryAddress" binding:"required"`
}

type verifyPaymentReq struct {
	RazorpayData struct {
		OrderID   string `json:"razorpay_order_id" binding:"required"`
		PaymentID string `json:"razorpay_payment_id" binding:"required"`
		Signature string `json:"razorpay_signature" binding:"required"`
	} `json:"razorpayData" binding:"required"`
	OrderDetails struct {
		RestaurantID    string         `json:"restaurantId" binding:"required"`
		Items           []orderItemReq `json:"items" binding:"required,min=1,dive"`
		TotalAmount     int64          `json:"totalAmount" binding:"required,gt=0"`
		DeliveryAddress string         `json:"deliveryAddress" binding:"required"`
	} `json:"orderDetails" binding:"required"`
}

// CheckoutSession creates a gateway order for the cart and returns the
// handle the client needs to open the hosted checkout UI.
func (h *OrderHandler) CheckoutSession(c *gin.Context) {
	var req checkoutSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid checkout request")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	out, err := h.session.Execute(ctx, usecase.CheckoutSessionInput{
		UserID:          middleware.CurrentUserID(c),
		UserName:        middleware.CurrentUserName(c),
		AmountCents:     req.Amount,
		Currency:        req.Currency,
		RestaurantID:    req.RestaurantID,
		Items:           toOrderItems(req.Items),
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		failWithError(c, err)
		return
	}

	// The hosted-UI attempt is now live and waiting on the gateway callback.
	attempt, err := checkout.Begin(out.GatewayOrderID)
	if err != nil {
		failWithError(c, err)
		return
	}
	h.attempts.Track(middleware.CurrentUserID(c), attempt)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"orderId":        out.GatewayOrderID,
		"amount":         out.AmountCents,
		"currency":       out.Currency,
		"keyId":          out.KeyID,
		"restaurantName": out.RestaurantName,
	})
}

// VerifyPayment proves the callback and creates the order.
func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid verification request")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	order, err := h.verify.Execute(ctx, usecase.VerifyPaymentInput{
		UserID:           middleware.CurrentUserID(c),
		GatewayOrderID:   req.RazorpayData.OrderID,
		GatewayPaymentID: req.RazorpayData.PaymentID,
		Signature:        req.RazorpayData.Signature,
		RestaurantID:     req.OrderDetails.RestaurantID,
		Items:            toOrderItems(req.OrderDetails.Items),
		TotalCents:       req.OrderDetails.TotalAmount,
		DeliveryAddress:  req.OrderDetails.DeliveryAddress,
	})
	if err != nil {
		middleware.CountVerification(verifyOutcome(err))
		// A failed verification also resolves any tracked attempt.
		if errors.Is(err, security.ErrSignatureMismatch) || errors.Is(err, usecase.ErrPaymentNotCaptured) {
			if a, ok := h.attempts.Lookup(req.RazorpayData.OrderID); ok {
				_ = a.Fail(err)
			}
		}
		failWithError(c, err)
		return
	}

	middleware.CountVerification("verified")
	if err := h.attempts.Complete(checkout.CallbackPayload{
		GatewayOrderID:   req.RazorpayData.OrderID,
		GatewayPaymentID: req.RazorpayData.PaymentID,
		Signature:        req.RazorpayData.Signature,
	}); err != nil && !errors.Is(err, checkout.ErrUnknownAttempt) {
		logging.From(c).Warn("attempt resolve failed", "error", err.Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Order created successfully",
		"data": gin.H{
			"order":     orderJSON(order),
			"paymentId": order.GatewayPaymentID,
		},
	})
}

// CancelCheckout maps the hosted UI's dismiss event: the attempt resolves
// with the cancelled variant and the cart stays as it was.
func (h *OrderHandler) CancelCheckout(c *gin.Context) {
	gwOrderID := c.Param("orderId")
	if err := h.attempts.Cancel(gwOrderID); err != nil {
		failJSON(c, http.StatusNotFound, "No active checkout for this order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Checkout cancelled",
	})
}

// CheckoutBack steps the live attempt back once, for a client leaving the
// hosted payment UI to edit the delivery details.
func (h *OrderHandler) CheckoutBack(c *gin.Context) {
	a, ok := h.attempts.Lookup(c.Param("orderId"))
	if !ok {
		failJSON(c, http.StatusNotFound, "No active checkout for this order")
		return
	}
	step, err := a.Back()
	if err != nil {
		failJSON(c, http.StatusConflict, "Checkout already finished")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"step": step.String()},
	})
}

// CheckoutResult long-polls the attempt outcome so the storefront learns
// the payment result without spinning on the order endpoint.
func (h *OrderHandler) CheckoutResult(c *gin.Context) {
	a, ok := h.attempts.Lookup(c.Param("orderId"))
	if !ok {
		failJSON(c, http.StatusNotFound, "No active checkout for this order")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 25*time.Second)
	defer cancel()

	out, err := a.Outcome(ctx)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   gin.H{"outcome": "pending"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"outcome": out.Kind.String()},
	})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.queries.ListForUser(ctx, middleware.CurrentUserID(c))
	if err != nil {
		failWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"orders": out},
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.queries.GetForUser(ctx, middleware.CurrentUserID(c), c.Param("orderId"))
	if err != nil {
		failWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"order": orderJSON(order)},
	})
}

func toOrderItems(in []orderItemReq) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(in))
	for _, it := range in {
		out = append(out, domain.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			PriceCents: it.Price,
			Quantity:   it.Quantity,
		})
	}
	return out
}

func orderJSON(o *domain.Order) gin.H {
	out := gin.H{
		"id":              o.ID,
		"restaurantId":    o.RestaurantID,
		"items":           o.Items,
		"totalPrice":      o.TotalCents,
		"currency":        o.Currency,
		"deliveryAddress": o.DeliveryAddress,
		"paymentStatus":   o.PaymentStatus,
		"deliveryStatus":  o.DeliveryStatus,
		"createdAt":       o.CreatedAt,
	}
	if !o.PaidAt.IsZero() {
		out["paidAt"] = o.PaidAt
	}
	return out
}

func verifyOutcome(err error) string {
	switch {
	case errors.Is(err, security.ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, usecase.ErrPaymentNotCaptured):
		return "not_captured"
	default:
		return "error"
	}
}

func failJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"status": "fail", "message": msg})
}

// failWithError translates use-case errors into the storefront's JSON
// envelope. Messages mirror what the web client already displays.
func failWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, security.ErrSignatureMismatch):
		failJSON(c, http.StatusBadRequest, "Payment verification failed")
	case errors.Is(err, usecase.ErrPaymentNotCaptured):
		failJSON(c, http.StatusBadRequest, "Payment not complete")
	case errors.Is(err, usecase.ErrRestaurantNotFound):
		failJSON(c, http.StatusNotFound, "Restaurant not found")
	case errors.Is(err, usecase.ErrInvalidItems):
		failJSON(c, http.StatusBadRequest, "Invalid items in the order")
	case errors.Is(err, usecase.ErrAmountMismatch):
		failJSON(c, http.StatusBadRequest, "Order amount does not match item total")
	case errors.Is(err, usecase.ErrEmptyCart):
		failJSON(c, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, usecase.ErrVerificationPending):
		failJSON(c, http.StatusConflict, "Payment verification already in progress")
	case errors.Is(err, usecase.ErrNotFound):
		failJSON(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, usecase.ErrForbidden):
		failJSON(c, http.StatusForbidden, "Unauthorized to view this order")
	case errors.Is(err, domain.ErrMixedRestaurants):
		failJSON(c, http.StatusBadRequest, "Cart mixes items from different restaurants")
	default:
		logging.From(c).Error("request failed", "error", err.Error())
		failJSON(c, http.StatusInternalServerError, "Something went wrong")
	}
}
