// Package identity turns request credentials into the owner key carts and orders are stored under.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nikolayk812/cartkeeper/internal/domain"
)

// Identity is the outcome of resolving one request.
// SessionID is kept even when Owner is an account, for merging the guest cart.
type Identity struct {
	Owner     domain.Owner
	SessionID string
	Email     string
	Name      string
}

// Claims are the bearer token claims issued by the auth service. Subject holds the account id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Resolver struct {
	secret []byte
	parser *jwt.Parser
}

func NewResolver(secret []byte) (*Resolver, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("secret is empty")
	}

	return &Resolver{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Resolve never fails: a token that does not verify falls back to the session id,
// and with neither the owner is domain.NoOwner().
func (r *Resolver) Resolve(ctx context.Context, authorization, sessionID string) Identity {
	id := Identity{
		Owner:     domain.SessionOwner(sessionID),
		SessionID: sessionID,
	}

	token, ok := bearerToken(authorization)
	if !ok {
		return id
	}

	claims, err := r.verify(token)
	if err != nil {
		slog.DebugContext(ctx, "bearer token rejected, continuing as guest", "error", err)
		return id
	}

	id.Owner = domain.AccountOwner(claims.Subject)
	id.Email = claims.Email
	id.Name = claims.Name
	return id
}

func (r *Resolver) verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := r.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return r.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parser.ParseWithClaims: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "

	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
