package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/pagination"
	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/ez"
	"restaurant-forum/internal/view"
)

type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewUserHandler(users *service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: l}
}

type profileForm struct {
	Name string `form:"name"`
}

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, []service.RankedUser]{
		Method: http.MethodGet,
		Path:   "/users/top",
		Handler: func(c *gin.Context, _ *struct{}) ([]service.RankedUser, error) {
			return h.users.Top(c, ez.UserID(c))
		},
	})

	ez.Register(e, ez.Action[struct{}, service.Profile]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Handler: func(c *gin.Context, _ *struct{}) (service.Profile, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return service.Profile{}, err
			}
			return h.users.Profile(c, id, ez.UserID(c))
		},
	})

	ez.Register(e, ez.Action[struct{}, view.Account]{
		Method: http.MethodGet,
		Path:   "/users/:id/edit",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (view.Account, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return view.Account{}, err
			}
			return h.users.Get(c, ez.UserID(c), id)
		},
	})

	ez.Register(e, ez.Action[profileForm, view.Account]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindForm,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileForm) (view.Account, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return view.Account{}, err
			}
			img, done, err := ez.FormFile(c, "image")
			if err != nil {
				return view.Account{}, err
			}
			defer done()
			return h.users.UpdateProfile(c, ez.UserID(c), id, service.UpdateProfileInput{Name: in.Name, Image: img})
		},
	})
}

func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, service.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Handler: func(c *gin.Context, _ *struct{}) (service.UserPage, error) {
			return h.users.List(c, pagination.ParseLimit(c.Query("limit")), pagination.ParsePage(c.Query("page")))
		},
	})

	ez.Register(e, ez.Action[struct{}, view.Account]{
		Method: http.MethodPatch,
		Path:   "/users/:id/role",
		Handler: func(c *gin.Context, _ *struct{}) (view.Account, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return view.Account{}, err
			}
			return h.users.ToggleRole(c, ez.UserID(c), id)
		},
	})
}
