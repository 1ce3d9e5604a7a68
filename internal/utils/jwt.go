package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
    "github.com/google/uuid"
)

// ErrInvalidToken covers every way a session token can fail verification:
// malformed, wrong signature or algorithm, expired, or missing claims.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT along with its validity window.
type SessionToken struct {
    Token    string    // the serialized JWT string
    IssuedAt time.Time // UTC issue time
    Exp      time.Time // UTC expiration time
}

// SessionClaims are the claims carried by a session token.  UserID mirrors
// the subject so clients that only read user_id keep working.
type SessionClaims struct {
    UserID uint64 `json:"user_id"`
    jwt.RegisteredClaims
}

// NewSessionToken builds and signs an HS256 JWT for userID that expires ttl
// after now.  The token includes sub, user_id, iat, exp and a random jti.
func NewSessionToken(secret string, userID uint64, ttl time.Duration, now time.Time) (SessionToken, error) {
    iat := now.UTC()
    exp := iat.Add(ttl)
    claims := SessionClaims{
        UserID: userID,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            IssuedAt:  jwt.NewNumericDate(iat),
            ExpiresAt: jwt.NewNumericDate(exp),
            ID:        uuid.NewString(),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, IssuedAt: iat, Exp: exp}, nil
}

// ParseSessionToken verifies raw against secret as of now and returns its
// claims.  Only HS256 is accepted and the exp claim is mandatory.  Every
// failure is reported as ErrInvalidToken.
func ParseSessionToken(secret, raw string, now time.Time) (SessionClaims, error) {
    var claims SessionClaims
    tok, err := jwt.ParseWithClaims(raw, &claims,
        func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithIssuedAt(),
        jwt.WithTimeFunc(func() time.Time { return now }),
    )
    if err != nil || !tok.Valid || claims.UserID == 0 {
        return SessionClaims{}, ErrInvalidToken
    }
    return claims, nil
}
