// Package token reads caller identity out of bearer tokens issued by the
// identity provider.
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"accountd/internal/apperr"
)

// Claims is the subset of bearer-token claims this service consumes.
type Claims struct {
	Subject        string
	OrganizationID string // empty when the token carries no usable org hint
}

// Decode splits a bearer token into its three segments and reads the payload
// without checking the signature. Only use it behind a verifying gateway;
// Verify is the trusted path.
//
// The subject comes from "sub", falling back to "user_id". The org hint comes
// from "organization_id" then "org_id"; a missing or malformed hint is treated
// as absent, never as an error.
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, apperr.Auth(apperr.CodeInvalidToken, "token must have exactly three segments")
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, apperr.CodeInvalidToken, "token payload is not valid base64", err)
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, apperr.CodeInvalidToken, "token payload is not a JSON object", err)
	}

	sub := stringClaim(claims, "sub")
	if sub == "" {
		sub = stringClaim(claims, "user_id")
	}
	if sub == "" {
		return nil, apperr.Auth(apperr.CodeInvalidToken, "token payload has no subject claim")
	}

	org := stringClaim(claims, "organization_id")
	if org == "" {
		org = stringClaim(claims, "org_id")
	}

	return &Claims{Subject: sub, OrganizationID: org}, nil
}

type jwtClaims struct {
	UserID         string `json:"user_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	OrgID          string `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// Verify parses the token with signature verification against the shared
// HMAC secret and applies the same subject/org-hint fallbacks as Decode.
func Verify(raw, secret string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, apperr.CodeInvalidToken, "token verification failed", err)
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, apperr.Auth(apperr.CodeInvalidToken, "token claims are not usable")
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		sub = strings.TrimSpace(claims.UserID)
	}
	if sub == "" {
		return nil, apperr.Auth(apperr.CodeInvalidToken, "token payload has no subject claim")
	}

	org := strings.TrimSpace(claims.OrganizationID)
	if org == "" {
		org = strings.TrimSpace(claims.OrgID)
	}

	return &Claims{Subject: sub, OrganizationID: org}, nil
}

// decodeSegment accepts both raw (JWT standard) and padded base64url.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(seg)
}

func stringClaim(claims map[string]any, key string) string {
	v, ok := claims[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
