package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/ez"
)

// RelationHandler 收藏 / 喜欢 / 追踪，全部需要登录
type RelationHandler struct {
	favorites *service.FavoriteService
	likes     *service.LikeService
	follows   *service.FollowService
	log       *zap.Logger
}

func NewRelationHandler(s *service.Services, l *zap.Logger) *RelationHandler {
	return &RelationHandler{favorites: s.Favorites, likes: s.Likes, follows: s.Follows, log: l}
}

type toggled struct {
	OK bool `json:"ok"`
}

// toggle 注册一对 POST/DELETE
func toggle[O any](e ez.EZ, path, param string, add, remove func(c *gin.Context, actor, target uint) (O, error)) {
	for method, fn := range map[string]func(*gin.Context, uint, uint) (O, error){
		http.MethodPost:   add,
		http.MethodDelete: remove,
	} {
		ez.Register(e, ez.Action[struct{}, O]{
			Method: method,
			Path:   path,
			Auth:   true,
			Handler: func(c *gin.Context, _ *struct{}) (O, error) {
				target, err := ez.ParamID(c, param)
				if err != nil {
					var zero O
					return zero, err
				}
				return fn(c, ez.UserID(c), target)
			},
		})
	}
}

func okResult(err error) (toggled, error) { return toggled{OK: err == nil}, err }

func (h *RelationHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	toggle(e, "/favorite/:restaurantId", "restaurantId",
		func(c *gin.Context, uid, rid uint) ([]service.RankedRestaurant, error) { return h.favorites.Add(c, uid, rid) },
		func(c *gin.Context, uid, rid uint) ([]service.RankedRestaurant, error) { return h.favorites.Remove(c, uid, rid) },
	)
	toggle(e, "/like/:restaurantId", "restaurantId",
		func(c *gin.Context, uid, rid uint) (toggled, error) { return okResult(h.likes.Add(c, uid, rid)) },
		func(c *gin.Context, uid, rid uint) (toggled, error) { return okResult(h.likes.Remove(c, uid, rid)) },
	)
	toggle(e, "/following/:userId", "userId",
		func(c *gin.Context, uid, target uint) (toggled, error) { return okResult(h.follows.Add(c, uid, target)) },
		func(c *gin.Context, uid, target uint) (toggled, error) { return okResult(h.follows.Remove(c, uid, target)) },
	)
}
