package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/pkg/uid"
)

var ErrInvalidToken = errors.New("invalid token")

// GameClaims authorise the holder to play Checker in GameID.
type GameClaims struct {
	GameID  string `json:"game_id"`
	Checker int    `json:"checker"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and checks game tokens with an HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateGameToken creates a token for the human side of a game
func (ti *TokenIssuer) GenerateGameToken(gameID string, checker domain.Checker) (string, error) {
	if !checker.Valid() {
		return "", domain.ErrInvalidSymbol
	}
	now := ti.now()
	claims := &GameClaims{
		GameID:  gameID,
		Checker: int(checker),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uid.GenerateTokenID(),
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// ValidateGameToken validates a game token and returns the claims
func (ti *TokenIssuer) ValidateGameToken(tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*GameClaims); ok && token.Valid {
		if claims.GameID == "" || !domain.Checker(claims.Checker).Valid() {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
