package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vinagsv/quickbite-api/configs"
)

const (
	sessionCookie  = "session"
	ctxUserIDKey   = "userID"
	ctxUserNameKey = "userName"
)

// SessionAuth verifies the HS256 session tokens issued by the user service.
// Tokens arrive in the session cookie for browser traffic, or a bearer
// header for everything else. Issuance is not this service's job.
type SessionAuth struct {
	cfg configs.Config
}

func NewSessionAuth(cfg configs.Config) *SessionAuth {
	return &SessionAuth{cfg: cfg}
}

func (a *SessionAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			loginRequired(c)
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.cfg.Session.Secret), nil
		}, jwt.WithLeeway(30*time.Second)) // small clock skew

		if err != nil || !token.Valid {
			loginRequired(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			loginRequired(c)
			return
		}
		if a.cfg.Session.Issuer != "" && claims["iss"] != a.cfg.Session.Issuer {
			loginRequired(c)
			return
		}
		if a.cfg.Session.Audience != "" && claims["aud"] != a.cfg.Session.Audience {
			loginRequired(c)
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			loginRequired(c)
			return
		}
		name, _ := claims["name"].(string)

		c.Set(ctxUserIDKey, sub)
		c.Set(ctxUserNameKey, name)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func loginRequired(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "fail",
		"message": "Please login first",
	})
}

// CurrentUserID returns the authenticated user id set by Require.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

// CurrentUserName returns the authenticated user's display name, if present.
func CurrentUserName(c *gin.Context) string {
	return c.GetString(ctxUserNameKey)
}
