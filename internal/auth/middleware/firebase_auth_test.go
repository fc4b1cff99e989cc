package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	dashauth "github.com/nextdash/dashboard-backend/internal/auth"
)

type fakeVerifier struct {
	tokens map[string]*auth.Token
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token signature invalid")
}

func serve(mw gin.HandlerFunc, header http.Header) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": dashauth.UserID(c), "email": c.GetString(dashauth.CtxEmail)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	v := fakeVerifier{tokens: map[string]*auth.Token{
		"good": {UID: "uid-1", Claims: map[string]interface{}{"email": "amy@example.com"}},
	}}
	mw := FirebaseAuthMiddleware(v)

	t.Run("missing token", func(t *testing.T) {
		rr := serve(mw, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "missing authorization token")
	})

	t.Run("invalid token", func(t *testing.T) {
		rr := serve(mw, http.Header{"Authorization": {"Bearer bad"}})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotContains(t, rr.Body.String(), "signature")
	})

	t.Run("valid token", func(t *testing.T) {
		rr := serve(mw, http.Header{"Authorization": {"Bearer good"}})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"uid":"uid-1","email":"amy@example.com"}`, rr.Body.String())
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		rr := serve(mw, http.Header{"Authorization": {"Basic good"}})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHeaderIdentity(t *testing.T) {
	rr := serve(HeaderIdentity(), nil)
	assert.JSONEq(t, `{"uid":"demo-user","email":""}`, rr.Body.String())

	rr = serve(HeaderIdentity(), http.Header{"X-User-Id": {" u-7 "}, "X-User-Email": {"u7@example.com"}})
	assert.JSONEq(t, `{"uid":"u-7","email":"u7@example.com"}`, rr.Body.String())
}
