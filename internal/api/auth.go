package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	ctxUserID  = "user_id"
	ctxStoreID = "store_id"
)

// Claims identifies the player and the store whose catalog they cook from
type Claims struct {
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id"`
	jwt.StandardClaims
}

// IssueToken signs an HS256 token for a player
func IssueToken(secret []byte, userID, storeID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		StoreID: storeID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// AuthMiddleware handles JWT authentication. The token comes from the
// Authorization header, with or without a Bearer prefix, or from the token
// query parameter for websocket clients that cannot set headers.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return secret, nil
		})

		if err != nil || !token.Valid || claims.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxStoreID, claims.StoreID)
		c.Next()
	}
}
