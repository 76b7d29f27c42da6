package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextEmployeeID = "employee_id"
	ContextRole       = "role"
)

var (
	errTokenNotFound = apperror.ErrUnauthorized.WithMessage("Token not found")
	errTokenExpired  = apperror.ErrUnauthorized.WithMessage("Token has expired")
	errInvalidToken  = apperror.ErrUnauthorized.WithMessage("Invalid token")
)

// ActorClaims is the token body. Tokens are minted elsewhere; this service only verifies them.
type ActorClaims struct {
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// SignActorToken issues an HS256 token for actor. Used by the dev token command and tests.
func SignActorToken(secret []byte, actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		EmployeeID: actor.ID.String(),
		Role:       string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func AuthMiddleware() gin.HandlerFunc {
	return AuthMiddlewareWithSecret(nil)
}

// AuthMiddlewareWithSecret verifies the bearer token (or access_token cookie) and puts the
// actor on the request context. A nil secret reads JWT_SECRET on each request.
func AuthMiddlewareWithSecret(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.FromError(c, errTokenNotFound)
			c.Abort()
			return
		}

		key := secret
		if key == nil {
			key = jwtSecret()
		}

		claims := &ActorClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			errObj := errInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = errTokenExpired
			}
			response.FromError(c, errObj)
			c.Abort()
			return
		}

		actor, err := domain.NewActor(claims.EmployeeID, claims.Role)
		if err != nil {
			response.FromError(c, errInvalidToken.WithCause(err))
			c.Abort()
			return
		}

		c.Set(ContextEmployeeID, actor.ID.String())
		c.Set(ContextRole, string(actor.Role))
		c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

// RoleMiddleware is a coarse gate for routes that do not need a policy lookup.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := contextutil.GetActor(c.Request.Context())
		if !ok {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		response.FromError(c, apperror.ErrForbidden)
		c.Abort()
	}
}
