package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/ez"
	"restaurant-forum/internal/view"
)

// CategoryHandler 只在后台开放
type CategoryHandler struct {
	categories *service.CategoryService
	log        *zap.Logger
}

func NewCategoryHandler(categories *service.CategoryService, l *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: l}
}

type categoryIn struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, service.CategoryList]{
		Method: http.MethodGet,
		Path:   "/categories",
		Handler: func(c *gin.Context, _ *struct{}) (service.CategoryList, error) {
			return h.categories.List(c, 0)
		},
	})

	ez.Register(e, ez.Action[struct{}, service.CategoryList]{
		Method: http.MethodGet,
		Path:   "/categories/:id",
		Handler: func(c *gin.Context, _ *struct{}) (service.CategoryList, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return service.CategoryList{}, err
			}
			return h.categories.List(c, id)
		},
	})

	ez.Register(e, ez.Action[categoryIn, view.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *categoryIn) (view.Category, error) {
			return h.categories.Create(c, in.Name)
		},
	})

	ez.Register(e, ez.Action[categoryIn, view.Category]{
		Method: http.MethodPut,
		Path:   "/categories/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *categoryIn) (view.Category, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return view.Category{}, err
			}
			return h.categories.Update(c, id, in.Name)
		},
	})

	ez.Register(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.categories.SoftDelete(c, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
