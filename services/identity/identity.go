package identity

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

// Identity is a resolved caller: the durable external subject plus whatever
// profile claims the provider carries.
type Identity struct {
	ExternalID string
	Name       string
	Email      string
}

// Provider resolves an inbound bearer token to an external identity.
// Anonymous callers simply never reach Resolve.
type Provider interface {
	Resolve(tokenString string) (*Identity, error)
}

// JWTProvider validates HS256 tokens minted by the identity service and
// extracts the subject and profile claims.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Resolve(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}

	id := &Identity{ExternalID: sub}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}
