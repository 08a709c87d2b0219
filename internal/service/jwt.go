package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongRoom    = errors.New("token is for another room")
)

// Viewer is who a view token was issued to.
type Viewer struct {
	Name   string
	RoomID string
}

// TokenService signs and checks the tokens that guard the local view API.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("view token secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *TokenService) Generate(v Viewer) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  v.Name,
		"room": v.RoomID,
		"exp":  now.Add(s.ttl).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates the token and, when roomID is not empty, that it was issued
// for that room.
func (s *TokenService) Parse(tokenString, roomID string) (Viewer, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Viewer{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Viewer{}, ErrInvalidToken
	}

	name, _ := claims["sub"].(string)
	room, _ := claims["room"].(string)
	if name == "" {
		return Viewer{}, ErrInvalidToken
	}
	if roomID != "" && room != roomID {
		return Viewer{}, ErrWrongRoom
	}
	return Viewer{Name: name, RoomID: room}, nil
}
