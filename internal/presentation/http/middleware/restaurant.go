package middleware

import (
	"strings"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RestaurantHeader selects the restaurant a request acts for
	RestaurantHeader = "X-Restaurant-ID"
	// RestaurantIDKey is the gin context key of the resolved restaurant
	RestaurantIDKey = "restaurant_id"
)

// RestaurantMiddleware resolves the active restaurant from the X-Restaurant-ID
// header and checks the staff member belongs to it. Staff attached to a single
// restaurant may omit the header. Must run after AuthMiddleware.
func RestaurantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetStaffClaims(c)
		if claims == nil {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		raw := strings.TrimSpace(c.GetHeader(RestaurantHeader))
		if raw == "" {
			if len(claims.Restaurants) != 1 {
				response.BadRequest(c, RestaurantHeader+" header is required")
				c.Abort()
				return
			}
			raw = claims.Restaurants[0].String()
		}

		restaurantID, err := uuid.Parse(raw)
		if err != nil || restaurantID == uuid.Nil {
			response.BadRequest(c, "Invalid restaurant ID")
			c.Abort()
			return
		}

		if !claims.HasRestaurant(restaurantID) {
			response.Forbidden(c, "Access denied to this restaurant")
			c.Abort()
			return
		}

		c.Set(RestaurantIDKey, restaurantID)
		c.Next()
	}
}

// GetRestaurantID retrieves the restaurant id from gin context
func GetRestaurantID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(RestaurantIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
