package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/averost/commerce-api/internal/domains/users/domain"
	usersports "github.com/averost/commerce-api/internal/domains/users/ports"
	sharederrors "github.com/averost/commerce-api/internal/shared/errors"
)

// UserAPI serves registration and login.
type UserAPI struct {
	service usersports.Service
}

func NewUserAPI(service usersports.Service) UserAPI {
	return UserAPI{service: service}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post /auth/register
func (api *UserAPI) Register(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	user, err := api.service.Register(c.Request.Context(), usersdomain.RegistrationInput{
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

type emailLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type usernameLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Post /auth/login/email
func (api *UserAPI) LoginByEmail(c *gin.Context) {
	var payload emailLoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	session, err := api.service.LoginByEmail(c.Request.Context(), payload.Email, payload.Password)
	api.respondLogin(c, session, err)
}

// Post /auth/login/username
func (api *UserAPI) LoginByUsername(c *gin.Context) {
	var payload usernameLoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	session, err := api.service.LoginByUsername(c.Request.Context(), payload.Username, payload.Password)
	api.respondLogin(c, session, err)
}

func (api *UserAPI) respondLogin(c *gin.Context, session *usersdomain.Session, err error) {
	if err != nil {
		if errors.Is(err, usersports.ErrInvalidCredentials) {
			sharederrors.DefaultResponder.Unauthorized(c, "invalid credentials")
			return
		}
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		Token:     session.Token,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	})
}
