package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/averost/commerce-api/internal/clients/http/content"
	sharederrors "github.com/averost/commerce-api/internal/shared/errors"
	"github.com/averost/commerce-api/internal/shared/fault"
)

// ContentGateway is what the transport needs from the content client.
type ContentGateway interface {
	GetPosts(ctx context.Context) ([]content.Post, error)
	CreatePost(ctx context.Context, post content.NewPost) (*content.Post, error)
}

// ContentAPI proxies the external content service.
type ContentAPI struct {
	gateway ContentGateway
}

func NewContentAPI(gateway ContentGateway) ContentAPI {
	return ContentAPI{gateway: gateway}
}

// Get /external/posts
func (api *ContentAPI) GetPosts(c *gin.Context) {
	if api.gateway == nil {
		sharederrors.Respond(c, sharederrors.ErrUpstream.WithDetail("content service is not configured"))
		return
	}
	posts, err := api.gateway.GetPosts(c.Request.Context())
	if err != nil {
		api.respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

type createPostRequest struct {
	UserID int    `json:"userId"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
}

// Post /external/posts
func (api *ContentAPI) CreatePost(c *gin.Context) {
	if api.gateway == nil {
		sharederrors.Respond(c, sharederrors.ErrUpstream.WithDetail("content service is not configured"))
		return
	}
	var payload createPostRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	created, err := api.gateway.CreatePost(c.Request.Context(), content.NewPost{
		UserID: payload.UserID,
		Title:  payload.Title,
		Body:   payload.Body,
	})
	if err != nil {
		api.respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// respondUpstreamError keeps upstream failures distinguishable from our
// own: transient client faults map to 502 instead of 503.
func (api *ContentAPI) respondUpstreamError(c *gin.Context, err error) {
	var problem sharederrors.ProblemDetail
	if errors.As(err, &problem) {
		sharederrors.Respond(c, problem)
		return
	}
	if fault.KindOf(err) == fault.KindValidation {
		sharederrors.Respond(c, sharederrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	sharederrors.Respond(c, sharederrors.ErrUpstream.WithDetail(err.Error()))
}
