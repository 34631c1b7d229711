package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/domain"
	mdw "restaurant-forum/internal/transport/http/middleware"
	resp "restaurant-forum/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r http.Handler, method, path, body string) resp.Resp {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestErrorKindsMapToCodes(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.Validation("name is required"), resp.CodeBadRequest, "name is required"},
		{domain.Unauthenticated("invalid credentials"), resp.CodeUnauthorized, "invalid credentials"},
		{domain.Forbidden("cannot edit other users"), resp.CodeForbidden, "cannot edit other users"},
		{domain.NotFound("restaurant not found"), resp.CodeNotFound, "restaurant not found"},
		{domain.Conflict("favorite already exists"), resp.CodeConflict, "favorite already exists"},
		{fmt.Errorf("wrapped: %w", domain.NotFound("user not found")), resp.CodeNotFound, "user not found"},
		{errors.New("dial tcp 10.0.0.1: refused"), resp.CodeServerError, "Internal Server Error"},
		{BadRequest("invalid id"), resp.CodeBadRequest, "invalid id"},
		{fmt.Errorf("list restaurants: %w", context.DeadlineExceeded), resp.CodeTimeout, "timeout"},
	}

	r := gin.New()
	e := New(r.Group(""), nil)
	for i, tt := range tests {
		err := tt.err
		Register(e, Action[struct{}, any]{
			Method:  http.MethodGet,
			Path:    fmt.Sprintf("/e/%d", i),
			Binder:  BindNone,
			Handler: func(*gin.Context, *struct{}) (any, error) { return nil, err },
		})
	}
	for i, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			out := serve(r, http.MethodGet, fmt.Sprintf("/e/%d", i), "")
			if out.Code != tt.code || out.Msg != tt.msg {
				t.Fatalf("got %d %q, want %d %q", out.Code, out.Msg, tt.code, tt.msg)
			}
		})
	}
}

func TestAuthAndBinding(t *testing.T) {
	type in struct {
		Name string `json:"name" binding:"required"`
	}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(mdw.KeyUserID, uint(len(uid)))
			c.Set(mdw.KeyRole, uid)
		}
	})
	e := New(r.Group(""), nil)
	Register(e, Action[in, string]{
		Method: http.MethodPost,
		Path:   "/admin-only",
		Binder: BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *in) (string, error) {
			return fmt.Sprintf("%s by %d", in.Name, UserID(c)), nil
		},
	})

	send := func(user, body string) resp.Resp {
		req := httptest.NewRequest(http.MethodPost, "/admin-only", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var out resp.Resp
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		return out
	}

	if out := send("", `{"name":"x"}`); out.Code != resp.CodeUnauthorized {
		t.Fatalf("anonymous code = %d", out.Code)
	}
	if out := send("user", `{"name":"x"}`); out.Code != resp.CodeForbidden {
		t.Fatalf("user role code = %d", out.Code)
	}
	if out := send("admin", `{}`); out.Code != resp.CodeBadRequest {
		t.Fatalf("missing field code = %d", out.Code)
	}
	out := send("admin", `{"name":"x"}`)
	if out.Code != resp.CodeOK || out.Data != "x by 5" {
		t.Fatalf("ok response = %+v", out)
	}
}

func TestParamID(t *testing.T) {
	r := gin.New()
	e := New(r.Group(""), nil)
	Register(e, Action[struct{}, uint]{
		Method: http.MethodGet,
		Path:   "/items/:id",
		Handler: func(c *gin.Context, _ *struct{}) (uint, error) {
			return ParamID(c, "id")
		},
	})
	if out := serve(r, http.MethodGet, "/items/12", ""); out.Code != resp.CodeOK || out.Data.(float64) != 12 {
		t.Fatalf("valid id = %+v", out)
	}
	for _, bad := range []string{"abc", "0", "-1"} {
		if out := serve(r, http.MethodGet, "/items/"+bad, ""); out.Code != resp.CodeBadRequest {
			t.Fatalf("id %q code = %d", bad, out.Code)
		}
	}
}

func TestSlowHandlerUnderTimeoutGetsTimeoutCode(t *testing.T) {
	r := gin.New()
	r.Use(mdw.Timeout(10*time.Millisecond, zap.NewNop()))
	e := New(r.Group(""), nil)
	Register(e, Action[struct{}, any]{
		Method: http.MethodGet,
		Path:   "/slow",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			// 模拟查询被 ctx 取消：gorm 把 ctx.Err() 包一层返回
			ctx := c.Request.Context()
			<-ctx.Done()
			return nil, fmt.Errorf("page restaurants: %w", ctx.Err())
		},
	})

	out := serve(r, http.MethodGet, "/slow", "")
	if out.Code != resp.CodeTimeout || out.Msg != "timeout" {
		t.Fatalf("resp = %+v", out)
	}
}
