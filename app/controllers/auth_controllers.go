package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/auth"
	"github.com/shashiranjanraj/stockpile/pkg/ctx"
	"github.com/shashiranjanraj/stockpile/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// identity returns the user resolved by the auth middleware.
func identity(x *ctx.Context) (auth.Identity, bool) {
	id, ok := auth.FromCtx(x.Context())
	if !ok {
		x.Error(http.StatusForbidden, "Unauthorized AuthKey")
	}
	return id, ok
}

func (c *AuthController) Register(x *ctx.Context) {
	var in services.RegisterInput
	if !x.BindJSON(&in) {
		return
	}
	sess, err := c.service.Register(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.JSON(http.StatusCreated, response.Body{
		"message":  "User created successfully",
		"auth_key": sess.Key,
		"user":     sess.User,
	})
}

func (c *AuthController) Login(x *ctx.Context) {
	var in services.LoginInput
	if !x.BindJSON(&in) {
		return
	}
	key, err := c.service.Login(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "Login successful", "auth_key", key)
}

func (c *AuthController) Show(x *ctx.Context) {
	id, ok := identity(x)
	if !ok {
		return
	}
	rec, err := c.service.Retrieve(x.Context(), id.UserID)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "User retrieved successfully", "user", rec)
}

func (c *AuthController) Logout(x *ctx.Context) {
	id, ok := identity(x)
	if !ok {
		return
	}
	if err := c.service.Logout(x.Context(), id.UserID); err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "Logout successful", "", nil)
}

func (c *AuthController) Update(x *ctx.Context) {
	id, ok := identity(x)
	if !ok {
		return
	}
	var in services.UserUpdate
	if !x.BindJSON(&in) {
		return
	}
	rec, err := c.service.Update(x.Context(), id.UserID, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "User updated successfully", "user", rec)
}

func (c *AuthController) Destroy(x *ctx.Context) {
	id, ok := identity(x)
	if !ok {
		return
	}
	if err := c.service.Delete(x.Context(), id.UserID); err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "User deleted successfully", "", nil)
}

func (c *AuthController) RefreshKey(x *ctx.Context) {
	id, ok := identity(x)
	if !ok {
		return
	}
	key, err := c.service.RefreshKey(x.Context(), id.UserID)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "Token refreshed successfully", "auth_key", key)
}
