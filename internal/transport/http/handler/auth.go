package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/core/auth"
	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/ez"
	"restaurant-forum/internal/view"
)

// AuthHandler 注册 / 登录 / 当前用户
type AuthHandler struct {
	users *service.UserService
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthHandler(users *service.UserService, jwt *auth.JWTer, l *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, log: l}
}

func (h *AuthHandler) Priority() int { return 10 }

type signUpIn struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	PasswordCheck string `json:"passwordCheck"`
}

type signInIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signInOut struct {
	Token string       `json:"token"`
	User  view.Account `json:"user"`
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[signUpIn, view.Account]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signUpIn) (view.Account, error) {
			return h.users.SignUp(c, service.SignUpInput(*in))
		},
	})

	ez.Register(e, ez.Action[signInIn, signInOut]{
		Method: http.MethodPost,
		Path:   "/auth/signin",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signInIn) (signInOut, error) {
			u, err := h.users.SignIn(c, in.Email, in.Password)
			if err != nil {
				return signInOut{}, err
			}
			tok, err := h.jwt.Issue(u.ID, u.Role)
			if err != nil {
				return signInOut{}, err
			}
			return signInOut{Token: tok, User: view.NewAccount(*u)}, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, view.Account]{
		Method: http.MethodGet,
		Path:   "/me",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (view.Account, error) {
			return h.users.Account(c, ez.UserID(c))
		},
	})
}
