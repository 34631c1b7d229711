package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/core/storage"
	"restaurant-forum/internal/pagination"
	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/ez"
	"restaurant-forum/internal/view"
)

type RestaurantHandler struct {
	restaurants *service.RestaurantService
	log         *zap.Logger
}

func NewRestaurantHandler(restaurants *service.RestaurantService, l *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, log: l}
}

func (h *RestaurantHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, service.RestaurantPage]{
		Method: http.MethodGet,
		Path:   "/restaurants",
		Handler: func(c *gin.Context, _ *struct{}) (service.RestaurantPage, error) {
			return h.restaurants.List(c, service.ListQuery{
				CategoryID: ez.QueryID(c, "categoryId"),
				Limit:      pagination.ParseLimit(c.Query("limit")),
				Page:       pagination.ParsePage(c.Query("page")),
				ViewerID:   ez.UserID(c),
			})
		},
	})

	ez.Register(e, ez.Action[struct{}, service.Feeds]{
		Method: http.MethodGet,
		Path:   "/restaurants/feeds",
		Handler: func(c *gin.Context, _ *struct{}) (service.Feeds, error) {
			return h.restaurants.Feeds(c)
		},
	})

	ez.Register(e, ez.Action[struct{}, []service.RankedRestaurant]{
		Method: http.MethodGet,
		Path:   "/restaurants/top",
		Handler: func(c *gin.Context, _ *struct{}) ([]service.RankedRestaurant, error) {
			return h.restaurants.Top(c, ez.UserID(c))
		},
	})

	ez.Register(e, ez.Action[struct{}, service.RestaurantDetail]{
		Method: http.MethodGet,
		Path:   "/restaurants/:id",
		Handler: func(c *gin.Context, _ *struct{}) (service.RestaurantDetail, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return service.RestaurantDetail{}, err
			}
			return h.restaurants.Get(c, id, ez.UserID(c))
		},
	})

	ez.Register(e, ez.Action[struct{}, service.RestaurantDashboard]{
		Method: http.MethodGet,
		Path:   "/restaurants/:id/dashboard",
		Handler: func(c *gin.Context, _ *struct{}) (service.RestaurantDashboard, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return service.RestaurantDashboard{}, err
			}
			return h.restaurants.Dashboard(c, id)
		},
	})
}

type restaurantForm struct {
	Name         string `form:"name"`
	Tel          string `form:"tel"`
	Address      string `form:"address"`
	OpeningHours string `form:"openingHours"`
	Description  string `form:"description"`
	CategoryID   uint   `form:"categoryId"`
}

func (h *RestaurantHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, service.AdminRestaurantPage]{
		Method: http.MethodGet,
		Path:   "/restaurants",
		Handler: func(c *gin.Context, _ *struct{}) (service.AdminRestaurantPage, error) {
			return h.restaurants.AdminList(c, pagination.ParseLimit(c.Query("limit")), pagination.ParsePage(c.Query("page")))
		},
	})

	ez.Register(e, ez.Action[struct{}, view.Restaurant]{
		Method: http.MethodGet,
		Path:   "/restaurants/:id",
		Handler: func(c *gin.Context, _ *struct{}) (view.Restaurant, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return view.Restaurant{}, err
			}
			return h.restaurants.AdminGet(c, id)
		},
	})

	ez.Register(e, ez.Action[restaurantForm, view.Restaurant]{
		Method: http.MethodPost,
		Path:   "/restaurants",
		Binder: ez.BindForm,
		Handler: func(c *gin.Context, in *restaurantForm) (view.Restaurant, error) {
			img, done, err := ez.FormFile(c, "image")
			if err != nil {
				return view.Restaurant{}, err
			}
			defer done()
			return h.restaurants.Create(c, in.input(img))
		},
	})

	ez.Register(e, ez.Action[restaurantForm, view.Restaurant]{
		Method: http.MethodPut,
		Path:   "/restaurants/:id",
		Binder: ez.BindForm,
		Handler: func(c *gin.Context, in *restaurantForm) (view.Restaurant, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return view.Restaurant{}, err
			}
			img, done, err := ez.FormFile(c, "image")
			if err != nil {
				return view.Restaurant{}, err
			}
			defer done()
			return h.restaurants.Update(c, id, in.input(img))
		},
	})
}

func (f restaurantForm) input(img *storage.Upload) service.RestaurantInput {
	return service.RestaurantInput{
		Name:         f.Name,
		Tel:          f.Tel,
		Address:      f.Address,
		OpeningHours: f.OpeningHours,
		Description:  f.Description,
		CategoryID:   f.CategoryID,
		Image:        img,
	}
}
