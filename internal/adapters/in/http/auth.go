package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	delivererContextKey = "deliverer"

	// ClaimIsDeliverer is the boolean claim granting the deliverer role.
	ClaimIsDeliverer = "is_deliverer"
)

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject")
)

// Authenticator turns HS256 bearer tokens into confirmation.Deliverer
// identities. Tokens are issued elsewhere; the subject is the deliverer id.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Authenticate parses an Authorization header value.
func (a *Authenticator) Authenticate(header string) (confirmation.Deliverer, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return confirmation.Deliverer{}, ErrMissingToken
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, isHMAC := token.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return confirmation.Deliverer{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return confirmation.Deliverer{}, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return confirmation.Deliverer{}, ErrMissingSubject
	}

	id, err := kernel.IDFromString(subject)
	if err != nil {
		return confirmation.Deliverer{}, errors.Join(ErrInvalidToken, err)
	}

	isDeliverer, _ := claims[ClaimIsDeliverer].(bool)
	return confirmation.NewDeliverer(id, isDeliverer)
}

// Middleware rejects unauthenticated requests with 401 and stores the
// identity for DelivererFrom.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deliverer, err := a.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return writeProblem(c, http.StatusUnauthorized, reasonUnauthorized, err.Error())
			}

			c.Set(delivererContextKey, deliverer)
			return next(c)
		}
	}
}

// DelivererFrom returns the identity stored by Middleware.
func DelivererFrom(c echo.Context) (confirmation.Deliverer, bool) {
	deliverer, ok := c.Get(delivererContextKey).(confirmation.Deliverer)
	return deliverer, ok
}
