package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/playmatatu/billiards/internal/config"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// TableIDKey is the gin context key holding the authorised table ID.
const TableIDKey = "table_id"

// IssueTableToken signs a token that authorises commands on one table
func IssueTableToken(cfg *config.Config, tableID string) (string, time.Time, error) {
	ttl := time.Duration(cfg.TableTokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	exp := time.Now().Add(ttl)

	claims := jwt.MapClaims{"table_id": tableID, "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseTableToken validates a table token and returns the table ID it carries
func ParseTableToken(cfg *config.Config, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	tableID, ok := claims["table_id"].(string)
	if !ok || tableID == "" {
		return "", ErrInvalidToken
	}
	return tableID, nil
}

// TableAuthMiddleware validates the bearer table token against the :id route param
func TableAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		tableID, err := ParseTableToken(cfg, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if id := c.Param("id"); id != "" && id != tableID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token does not match table"})
			return
		}

		c.Set(TableIDKey, tableID)
		c.Next()
	}
}
