package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/ez"
	"restaurant-forum/internal/view"
)

type CommentHandler struct {
	comments *service.CommentService
	log      *zap.Logger
}

func NewCommentHandler(comments *service.CommentService, l *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: l}
}

type commentIn struct {
	Text         string `json:"text"`
	RestaurantID uint   `json:"restaurantId" binding:"required"`
}

func (h *CommentHandler) MountAPI(g *gin.RouterGroup) {
	ez.Register(ez.New(g, h.log), ez.Action[commentIn, view.Comment]{
		Method: http.MethodPost,
		Path:   "/comments",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *commentIn) (view.Comment, error) {
			return h.comments.Create(c, ez.UserID(c), in.RestaurantID, in.Text)
		},
	})
}

func (h *CommentHandler) MountAdmin(g *gin.RouterGroup) {
	ez.Register(ez.New(g, h.log), ez.Action[struct{}, view.Comment]{
		Method: http.MethodDelete,
		Path:   "/comments/:id",
		Handler: func(c *gin.Context, _ *struct{}) (view.Comment, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return view.Comment{}, err
			}
			return h.comments.Delete(c, id)
		},
	})
}
