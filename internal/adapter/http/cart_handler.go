package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vinagsv/quickbite-api/internal/adapter/http/middleware"
	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/pricing"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

type CartHandler struct {
	carts *usecase.CartService
}

func NewCartHandler(carts *usecase.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addCartItemReq struct {
	MenuItemID   string `json:"menuItemId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Price        int64  `json:"price" binding:"required,gt=0"`
	Image        string `json:"image"`
	RestaurantID string `json:"restaurantId" binding:"required"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.carts.Get(ctx, middleware.CurrentUserID(c))
	if err != nil {
		failWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(cart))
}

// AddItem increments the line for the item, inserting at quantity 1.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid cart item")
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.carts.AddItem(ctx, middleware.CurrentUserID(c), domain.CartLine{
		MenuItemID:   req.MenuItemID,
		Name:         req.Name,
		PriceCents:   req.Price,
		Image:        req.Image,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		failWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(cart))
}

// RemoveItem decrements the line; at quantity 1 the line disappears.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.carts.RemoveItem(ctx, middleware.CurrentUserID(c), c.Param("itemId"))
	if err != nil {
		failWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(cart))
}

// DropItem removes the whole line regardless of quantity.
func (h *CartHandler) DropItem(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.carts.DropItem(ctx, middleware.CurrentUserID(c), c.Param("itemId"))
	if err != nil {
		failWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartJSON(cart))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.carts.Clear(ctx, middleware.CurrentUserID(c)); err != nil {
		failWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 3*time.Second)
}

func cartJSON(cart *domain.Cart) gin.H {
	subtotal := cart.TotalCents()
	return gin.H{
		"status": "success",
		"data": gin.H{
			"lines":      cart.Lines,
			"totalItems": cart.TotalItems(),
			"subtotal":   subtotal,
			"tax":        pricing.GST(subtotal),
			"total":      pricing.Total(subtotal),
		},
	}
}
