package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dkeye/Dicode/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

var errNoToken = errors.New("missing token")

func tokenFromRequest(c *gin.Context, cookieName string) (string, error) {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token, nil
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), nil
	}
	return "", errNoToken
}

// userFromToken verifies an HS256 access token and returns its user id,
// taken from the "id" claim and falling back to "sub".
func userFromToken(tokenString string, secret []byte) (domain.UserID, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return domain.UserID(id), nil
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no user id")
	}
	return domain.UserID(sub), nil
}

// AuthMiddleware rejects requests without a valid access token before any
// handler, including the WebSocket upgrade, runs.
func AuthMiddleware(secret, cookieName string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c, cookieName)
		if err == nil {
			var uid domain.UserID
			if uid, err = userFromToken(token, key); err == nil {
				c.Set(UserIDKey, string(uid))
				c.Next()
				return
			}
		}
		log.Warn().Err(err).Str("module", "adapters.http").Str("ip", c.ClientIP()).Str("path", c.FullPath()).Msg("unauthorized")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}

func currentUser(c *gin.Context) domain.UserID {
	return domain.UserID(c.GetString(UserIDKey))
}
