package server

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// resolveIdentity derives the rate-limit key for a request. A verified
// bearer token wins; otherwise the client-supplied device id (body field,
// then header). Unverifiable tokens are treated as absent rather than
// rejected: rate limiting is cost control, not authentication.
func (s *Server) resolveIdentity(c *fiber.Ctx, deviceID string) string {
	if sub := s.bearerSubject(c.Get(fiber.HeaderAuthorization)); sub != "" {
		return "user:" + sub
	}

	if deviceID != "" {
		return "device:" + deviceID
	}

	if header := c.Get("X-Device-ID"); header != "" {
		return "device:" + header
	}

	return "anonymous"
}

func (s *Server) bearerSubject(authHeader string) string {
	if s.cfg.Server.AuthSecret == "" {
		return ""
	}

	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return ""
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(s.cfg.Server.AuthSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return ""
	}

	return sub
}
