// Package controllers holds the HTTP controllers: thin translations between
// requests and the services package.
package controllers

import (
	"errors"
	"net/http"

	"github.com/armature-go/armature/app/services"
	"github.com/armature-go/armature/framework/app"
	gohttp "github.com/armature-go/armature/framework/http"
)

// Controller extends the framework controller base with service-error
// translation. Every application controller embeds it.
type Controller struct {
	app.Controller
}

// RespondError maps service sentinels onto HTTP statuses. Anything
// unrecognised becomes a 500 without leaking the error text.
func (c *Controller) RespondError(res *gohttp.Response, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		res.NotFound(err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		res.Conflict(err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, services.ErrExpiredRefreshToken):
		res.Unauthorized(err.Error())
	case errors.Is(err, services.ErrTokensDisabled):
		res.Error(http.StatusServiceUnavailable, err.Error())
	default:
		res.ServerError()
	}
}
