package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orchardworks/presshouse/internal/actorcontext"
)

const requestIDHeader = "X-Request-Id"

// AuthRequired validates the bearer token and stores the actor, request id,
// and client IP on the request context for downstream services and the audit
// writer.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := s.actorFromToken(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := actorcontext.WithActor(c.Request.Context(), actor)

		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = actorcontext.WithRequestID(ctx, requestID)
		ctx = actorcontext.WithIPAddress(ctx, c.ClientIP())

		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) actorFromToken(c *gin.Context) (actorcontext.Actor, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return actorcontext.Actor{}, ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return actorcontext.Actor{}, ErrUnauthorized
	}

	secret := s.cfg.AuthJWTSecret
	if secret == "" {
		return actorcontext.Actor{}, ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return actorcontext.Actor{}, ErrUnauthorized
	}

	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return actorcontext.Actor{}, ErrUnauthorized
	}
	role, _ := claims["role"].(string)

	return actorcontext.Actor{
		ID:   strings.TrimSpace(subject),
		Role: strings.ToLower(strings.TrimSpace(role)),
	}, nil
}

func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authzSvc.Authorize(c.Request.Context(), object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
