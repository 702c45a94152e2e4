package services

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and verifies the HS256 bearer tokens of the API. The subject is the user id.
type TokenService struct {
	secret []byte
	now    func() time.Time
	log    logger.Logger
}

func NewTokenService(secret string, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret: []byte(secret),
		now:    now,
		log:    logger.New("tokenService"),
	}
}

func (s *TokenService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	log := s.log.Function("Issue")

	if ttl <= 0 {
		ttl = DEFAULT_TOKEN_TTL
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", userID)
	}
	return signed, nil
}

// Parse verifies the signature and time claims and returns the user id of the subject.
func (s *TokenService) Parse(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, s.log.Function("Parse").ErrMsg("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, s.log.Function("Parse").Err("invalid token subject", err)
	}
	return userID, nil
}
