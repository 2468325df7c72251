package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	pkgErrors "github.com/vogiaan1904/seatqueue/pkg/errors"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
	"github.com/vogiaan1904/seatqueue/pkg/response"
)

const RoleOperator = "operator"

var (
	errMissingToken = pkgErrors.NewHTTPError(40101, "Missing bearer token", http.StatusUnauthorized)
	errInvalidToken = pkgErrors.NewHTTPError(40102, "Invalid token", http.StatusUnauthorized)
	errForbidden    = pkgErrors.NewHTTPError(40301, "Operator role required", http.StatusForbidden)
)

type OperatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type subjectKey struct{}

// Subject returns the token subject stored by OperatorAuth.
func Subject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subjectKey{}).(string)
	return sub, ok
}

// OperatorAuth only lets through requests carrying an HMAC-signed bearer token
// with the operator role.
func OperatorAuth(secret string, l logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				response.Error(w, errMissingToken)
				return
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims := &OperatorClaims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				l.Warnf(ctx, "middleware.OperatorAuth: %v", err)
				response.Error(w, errInvalidToken)
				return
			}

			if claims.Role != RoleOperator {
				l.Warn(ctx, "Rejected non-operator token", "subject", claims.Subject, "role", claims.Role)
				response.Error(w, errForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, subjectKey{}, claims.Subject)))
		})
	}
}
