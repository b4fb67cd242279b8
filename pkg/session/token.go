package session

import (
	"errors"
	"time"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/result"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the student identity and the validated exam selection
// through the session credential.
type Claims struct {
	RollNo     string           `json:"rollNo"`
	Department string           `json:"department"`
	Dob        string           `json:"dob"`
	Selection  result.Selection `json:"selection"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session credentials. Verification is
// local, no store lookup, the registry layers the liveness check on top.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func ProvideTokenService(config *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(config.JwtSecret),
		ttl:    config.SessionDuration,
	}
}

func (s *TokenService) Generate(rollNo, department, dob string, selection result.Selection) (string, error) {
	now := time.Now()
	claims := Claims{
		RollNo:     rollNo,
		Department: department,
		Dob:        dob,
		Selection:  selection,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
