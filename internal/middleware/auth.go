package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

const ContextRequester = "requester"

// AuthMiddleware trusts the identity provider's HMAC-signed token and turns
// its claims into a Requester. shopId is only present for shop staff.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		req := domain.Requester{UserID: uint(userID), Role: domain.RoleCustomer}
		if role, _ := claims["role"].(string); role != "" {
			req.Role = role
		}
		if shopID, ok := claims["shopId"].(float64); ok && shopID > 0 {
			req.ShopID = uint(shopID)
		}
		if req.Role == domain.RoleShop && req.ShopID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextRequester, req)
		c.Next()
	}
}

// RequesterFrom returns the caller stored by AuthMiddleware.
func RequesterFrom(c *gin.Context) (domain.Requester, bool) {
	v, ok := c.Get(ContextRequester)
	if !ok {
		return domain.Requester{}, false
	}
	req, ok := v.(domain.Requester)
	return req, ok
}
