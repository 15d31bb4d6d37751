package token

import (
	"errors"
	"fmt"
	authPort "minisocial/internal/ports/auth"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const issuer = "minisocial"

// JWTTokenService issues HMAC signed access tokens whose subject is the user id.
type JWTTokenService struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenService accepts HS256, HS384 or HS512.
func NewJWTTokenService(secret, alg string, ttl time.Duration) (*JWTTokenService, error) {
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", alg)
	}
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTTokenService{
		key:    []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the issuing clock. Verification always uses jwt.TimeFunc.
func (s *JWTTokenService) WithClock(now func() time.Time) *JWTTokenService {
	s.now = now
	return s
}

func (s *JWTTokenService) IssueToken(subject string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := &jwt.StandardClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.UTC(), nil
}

func (s *JWTTokenService) VerifyToken(raw string) (string, error) {
	claims := &jwt.StandardClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", fmt.Errorf("%w: %v", authPort.ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %v", authPort.ErrTokenInvalid, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return "", authPort.ErrTokenInvalid
	}
	return claims.Subject, nil
}
