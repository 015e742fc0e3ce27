package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randy-rebucas/localpro-backend/internal/models"
	"github.com/randy-rebucas/localpro-backend/pkg/cache"
)

// CartView is the cart API payload.
type CartView struct {
	Cart   *models.Cart      `json:"cart"`
	Totals models.CartTotals `json:"totals"`
}

type cartService struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCartService creates a CartService that keeps each cart in the cache for ttl after its last change.
func NewCartService(c cache.Cache, ttl time.Duration) CartService {
	return &cartService{cache: c, ttl: ttl}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: cart, Totals: CartTotals(cart)}, nil
}

func (s *cartService) UpdateCart(ctx context.Context, userID string, req models.CartItemRequest) (*CartView, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err := s.cache.Update(ctx, cartKey(userID), s.ttl, func(current string) (string, error) {
		var err error
		if cart, err = decodeCart(userID, current); err != nil {
			return "", err
		}
		applyCartItem(cart, req)
		cart.UpdatedAt = time.Now().UTC()
		if len(cart.Items) == 0 {
			return "", nil
		}
		data, err := json.Marshal(cart)
		if err != nil {
			return "", fmt.Errorf("failed to encode cart: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save cart for '%s': %w", userID, err)
	}
	return &CartView{Cart: cart, Totals: CartTotals(cart)}, nil
}

func (s *cartService) load(ctx context.Context, userID string) (*models.Cart, error) {
	raw, err := s.cache.Get(ctx, cartKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read cart for '%s': %w", userID, err)
	}
	return decodeCart(userID, raw)
}

// decodeCart parses a stored cart. An empty value is an empty cart.
func decodeCart(userID, raw string) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	if raw == "" {
		return cart, nil
	}
	if err := json.Unmarshal([]byte(raw), cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart for '%s': %w", userID, err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// applyCartItem sets the quantity of req.ProductID, removing the line when the quantity is 0.
func applyCartItem(cart *models.Cart, req models.CartItemRequest) {
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ProductID != req.ProductID {
			continue
		}
		if req.Quantity == 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return
		}
		item.Quantity = req.Quantity
		item.Price = req.Price
		if req.Name != "" {
			item.Name = req.Name
		}
		return
	}
	if req.Quantity == 0 {
		return
	}
	cart.Items = append(cart.Items, models.CartItem{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
}

// CartTotals sums quantities and price × quantity, rounded to cents.
func CartTotals(cart *models.Cart) models.CartTotals {
	var totals models.CartTotals
	for _, item := range cart.Items {
		totals.ItemCount += item.Quantity
		totals.Subtotal += item.Price * float64(item.Quantity)
	}
	totals.Subtotal = math.Round(totals.Subtotal*100) / 100
	return totals
}
