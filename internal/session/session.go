// Package session carries the caller's authentication state as an explicit
// value instead of ambient token storage. Anonymous callers get a concrete
// Session with Authenticated=false rather than a nil sentinel.
package session

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const sessionKey ctxKey = "docassist.session"

// Session describes the caller of a request.
type Session struct {
	Authenticated bool
	UserID        string
	// Token is the raw bearer token, forwarded verbatim to the upstream
	// record store on authenticated calls.
	Token string
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session {
	return Session{}
}

// FromBearer parses an Authorization header value into a Session.
// A missing or malformed header yields the anonymous session, not an error:
// public pages must keep working for callers arriving from an external
// redirect without an active session.
func FromBearer(authHeader, secret string) Session {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return Anonymous()
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return Anonymous()
	}

	sess := Session{Authenticated: true, Token: tokenString}
	if secret == "" {
		// No local verification configured: the upstream validates the
		// token on every call, so carry it through as-is.
		return sess
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Anonymous()
	}
	sess.UserID = claims.Subject
	return sess
}

// WithSession stores the session in context.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext extracts the session, defaulting to anonymous.
func FromContext(ctx context.Context) Session {
	val := ctx.Value(sessionKey)
	if val == nil {
		return Anonymous()
	}
	sess, ok := val.(Session)
	if !ok {
		return Anonymous()
	}
	return sess
}
