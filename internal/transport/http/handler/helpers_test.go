package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/voter-api/internal/config"
	jwtinfra "github.com/voter-api/internal/infrastructure/jwt"
	"github.com/voter-api/internal/transport/http/middleware"
)

// newTestJWTProvider generates a fresh RSA key pair and returns a *jwtinfra.Provider.
func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		UserTokenTTL:      2 * time.Hour,
		StudentTokenTTL:   time.Hour,
	})
	require.NoError(t, err)
	return p
}

// jsonReq builds a request with body marshalled as JSON; raw strings are sent as-is.
func jsonReq(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf []byte
	switch b := body.(type) {
	case nil:
	case string:
		buf = []byte(b)
	default:
		var err error
		buf, err = json.Marshal(b)
		require.NoError(t, err)
	}
	if buf == nil {
		return httptest.NewRequest(method, target, nil)
	}
	return httptest.NewRequest(method, target, bytes.NewReader(buf))
}

// bearerReq builds a request carrying an account token for userID.
func bearerReq(t *testing.T, p *jwtinfra.Provider, method, target, userID string, body interface{}) *http.Request {
	t.Helper()
	token, err := p.SignUser(userID, userID+"@example.com")
	require.NoError(t, err)
	r := jsonReq(t, method, target, body)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// withChiParams injects chi URL params (key, value pairs) into the request context.
func withChiParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serveAuthed wraps the handler with middleware.Auth before serving.
func serveAuthed(p *jwtinfra.Provider, h http.Handler, w http.ResponseWriter, r *http.Request) {
	middleware.Auth(p)(h).ServeHTTP(w, r)
}

// serveOptional wraps the handler with middleware.OptionalAuth before serving.
func serveOptional(p *jwtinfra.Provider, h http.Handler, w http.ResponseWriter, r *http.Request) {
	middleware.OptionalAuth(p)(h).ServeHTTP(w, r)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}
