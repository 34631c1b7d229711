package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/core/auth"
	resp "restaurant-forum/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

var testJWT = &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, resp.Resp) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, resp.OK(gin.H{"uid": c.GetUint(KeyUserID), "role": c.GetString(KeyRole)}))
}

func withToken(t *testing.T, uid uint, role string) *http.Request {
	t.Helper()
	tok, err := testJWT.Issue(uid, role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func TestAuthJWT(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthJWT(testJWT, "admin"), whoami)

	tests := []struct {
		name string
		req  *http.Request
		code int
	}{
		{"no header", httptest.NewRequest(http.MethodGet, "/", nil), resp.CodeUnauthorized},
		{"user role", withToken(t, 7, "user"), resp.CodeForbidden},
		{"admin", withToken(t, 1, "admin"), resp.CodeOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(r, tt.req)
			if w.Code != http.StatusOK {
				t.Fatalf("http status = %d, envelope must always be 200", w.Code)
			}
			if body.Code != tt.code {
				t.Fatalf("code = %d, want %d (%s)", body.Code, tt.code, body.Msg)
			}
		})
	}

	expired := &auth.JWTer{Secret: testJWT.Secret, Issuer: testJWT.Issuer, TTL: -time.Hour}
	tok, _ := expired.Issue(1, "admin")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if _, body := do(r, req); body.Code != resp.CodeUnauthorized || body.Msg != "token expired" {
		t.Fatalf("expired token = %+v", body)
	}
}

func TestAuthJWTSetsOnlyIdentityKeys(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthJWT(testJWT, ""), func(c *gin.Context) {
		keys := make([]string, 0, len(c.Keys))
		for k := range c.Keys {
			keys = append(keys, k)
		}
		c.JSON(http.StatusOK, resp.OK(keys))
	})

	_, body := do(r, withToken(t, 5, "user"))
	keys, _ := body.Data.([]any)
	if len(keys) != 2 {
		t.Fatalf("context keys = %v, want only %s and %s", keys, KeyUserID, KeyRole)
	}
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuth(testJWT), whoami)

	_, body := do(r, withToken(t, 42, "user"))
	data := body.Data.(map[string]any)
	if data["uid"].(float64) != 42 || data["role"] != "user" {
		t.Fatalf("identity = %v", data)
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer garbage")
	_, body = do(r, bad)
	if body.Code != resp.CodeOK || body.Data.(map[string]any)["uid"].(float64) != 0 {
		t.Fatalf("invalid token should fall back to anonymous: %+v", body)
	}
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int64, _ time.Duration) (bool, int64, error) {
	s.keys = append(s.keys, key)
	return s.allow, 1, s.err
}

func TestRateLimitShared(t *testing.T) {
	tests := []struct {
		name string
		lim  *stubLimiter
		code int
	}{
		{"allowed", &stubLimiter{allow: true}, resp.CodeOK},
		{"denied", &stubLimiter{allow: false}, resp.CodeTooManyRequests},
		{"store down fails open", &stubLimiter{err: errors.New("dial tcp: refused")}, resp.CodeOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", RateLimitShared(tt.lim, 10, time.Minute, zap.NewNop()), whoami)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.9:1234"
			_, body := do(r, req)
			if body.Code != tt.code {
				t.Fatalf("code = %d, want %d", body.Code, tt.code)
			}
			if tt.lim.keys[0] != "ip:10.0.0.9" {
				t.Fatalf("key = %q", tt.lim.keys[0])
			}
		})
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitPerIP(0.001, 1), whoami)

	req := func(ip string) *http.Request {
		q := httptest.NewRequest(http.MethodGet, "/", nil)
		q.RemoteAddr = ip + ":1"
		return q
	}
	if _, body := do(r, req("10.0.0.1")); body.Code != resp.CodeOK {
		t.Fatalf("first request code = %d", body.Code)
	}
	if _, body := do(r, req("10.0.0.1")); body.Code != resp.CodeTooManyRequests {
		t.Fatalf("second request code = %d", body.Code)
	}
	if _, body := do(r, req("10.0.0.2")); body.Code != resp.CodeOK {
		t.Fatalf("other ip code = %d", body.Code)
	}
}

func TestRateLimitGlobalIsShared(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(0.001, 1), whoami)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1"
	if _, body := do(r, first); body.Code != resp.CodeOK {
		t.Fatalf("first request code = %d", body.Code)
	}
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1"
	if _, body := do(r, other); body.Code != resp.CodeTooManyRequests {
		t.Fatalf("global cap must apply across ips, code = %d", body.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Body.String() == "" || w.Header().Get(KeyRequestID) != w.Body.String() {
		t.Fatalf("generated id %q / header %q", w.Body.String(), w.Header().Get(KeyRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc" {
		t.Fatalf("incoming id not kept: %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "bad id\twith spaces")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() == "bad id\twith spaces" || w.Body.String() == "" {
		t.Fatalf("unsafe id should be replaced: %q", w.Body.String())
	}
}

func TestConcurrencyLimitRejectsWhenFull(t *testing.T) {
	entered, release := make(chan struct{}), make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1, 20*time.Millisecond, zap.NewNop()))
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		c.JSON(http.StatusOK, resp.OK(nil))
	})
	r.GET("/fast", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		do(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	}()
	<-entered

	if _, body := do(r, httptest.NewRequest(http.MethodGet, "/fast", nil)); body.Code != resp.CodeTooManyRequests {
		t.Fatalf("busy code = %d", body.Code)
	}
	close(release)
	<-done
	if _, body := do(r, httptest.NewRequest(http.MethodGet, "/fast", nil)); body.Code != resp.CodeOK {
		t.Fatalf("after release code = %d", body.Code)
	}
}

func TestTimeoutWritesTimeoutCode(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10*time.Millisecond, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

	if _, body := do(r, httptest.NewRequest(http.MethodGet, "/", nil)); body.Code != resp.CodeTimeout {
		t.Fatalf("code = %d", body.Code)
	}
}

func TestMaxBodyBytesPicksLimitByContentType(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8, 64))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, fmt.Sprint(err != nil))
	})

	post := func(ct string, n int) string {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", n)))
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}
	if post("application/json", 16) != "true" {
		t.Fatal("json body over limit should fail")
	}
	if post("multipart/form-data; boundary=x", 16) != "false" {
		t.Fatal("multipart body under upload limit should pass")
	}
}

func TestMaskQuery(t *testing.T) {
	got := maskQuery(map[string][]string{"Password": {"x"}, "page": {"2"}})
	if got["Password"][0] != "****" || got["page"][0] != "2" {
		t.Fatalf("masked = %v", got)
	}
}
