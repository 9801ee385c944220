package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StaffClaims represents the claims of a staff access token
type StaffClaims struct {
	StaffID     uuid.UUID   `json:"staff_id"`
	Name        string      `json:"name"`
	Restaurants []uuid.UUID `json:"restaurants"`
	Roles       []string    `json:"roles"`
	jwt.RegisteredClaims
}

// HasRestaurant reports whether the staff member works at the given restaurant.
func (c *StaffClaims) HasRestaurant(id uuid.UUID) bool {
	for _, r := range c.Restaurants {
		if r == id {
			return true
		}
	}
	return false
}

// JWTManager handles staff token generation and validation
type JWTManager struct {
	secretKey []byte
	issuer    string
	expiry    time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret, issuer string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secret),
		issuer:    issuer,
		expiry:    expiry,
	}
}

// GenerateAccessToken signs a staff token. Tokens are normally issued by the
// back office; the gateway only mints them for tests and local tills.
func (m *JWTManager) GenerateAccessToken(staffID uuid.UUID, name string, restaurants []uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := &StaffClaims{
		StaffID:     staffID,
		Name:        name,
		Restaurants: restaurants,
		Roles:       roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   staffID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateAccessToken validates a staff token and returns the claims
func (m *JWTManager) ValidateAccessToken(tokenString string) (*StaffClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*StaffClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.StaffID == uuid.Nil {
		return nil, errors.New("token carries no staff id")
	}

	return claims, nil
}
