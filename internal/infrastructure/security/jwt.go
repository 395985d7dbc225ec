package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateSysOpToken creates a signed token granting sysop dashboard access.
func GenerateSysOpToken(jwtSecret string, lifetime time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": "sysop",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateSysOpToken validates a sysop token and checks the role claim.
func ValidateSysOpToken(tokenString, jwtSecret string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != "sysop" {
		return errors.New("invalid role claim")
	}
	return nil
}
