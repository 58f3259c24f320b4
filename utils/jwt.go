package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaffClaims identifies the staff member behind a request. Tokens are
// issued by the external auth service; this side only verifies them.
type StaffClaims struct {
	StaffID      uint   `json:"staff_id"`
	RestaurantID uint   `json:"restaurant_id,omitempty"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret []byte, staffID, restaurantID uint, role string, ttl time.Duration) (string, error) {
	claims := &StaffClaims{
		StaffID:      staffID,
		RestaurantID: restaurantID,
		Role:         role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "RestaurantCommands",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*StaffClaims)
	if !ok || claims.StaffID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
