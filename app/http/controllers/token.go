package controllers

import (
	"net/http"

	"github.com/armature-go/armature/app/http/middleware"
	"github.com/armature-go/armature/app/services"
	"github.com/armature-go/armature/framework/http/validation"
	"github.com/armature-go/armature/framework/routing"
)

// TokenController serves the token endpoints:
//
//	POST   /v1/users/me/token          issue a pair from credentials
//	POST   /v1/users/me/token/refresh  rotate a refresh token
//	DELETE /v1/users/me/token          revoke a refresh session (authenticated)
type TokenController struct {
	Controller
	users  *services.UserService
	tokens *services.TokenService
}

func NewTokenController(users *services.UserService, tokens *services.TokenService) *TokenController {
	return &TokenController{users: users, tokens: tokens}
}

// RegisterRoutes attaches the token endpoints. Revocation requires a valid
// access token; issue and refresh are anonymous by nature.
func (c *TokenController) RegisterRoutes(r *routing.Router) {
	r.Post("/v1/users/me/token", c.Issue)
	r.Post("/v1/users/me/token/refresh", c.Refresh)
	r.Group(func(g *routing.Router) {
		g.Middleware(middleware.Authenticate(c.tokens, c.users))
		g.Delete("/v1/users/me/token", c.Revoke)
	})
}

// ── Request schemas ──────────────────────────────────────────────────────────

type issueTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (c *TokenController) Issue(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	var in issueTokenRequest
	if err := req.Bind(&in); err != nil {
		res.BadRequest("malformed request body")
		return
	}
	v := validation.Make(map[string]string{
		"username": in.Username,
		"password": in.Password,
	}, validation.Rules{
		"username": "required",
		"password": "required",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	user, err := c.users.Authenticate(in.Username, in.Password)
	if err != nil {
		c.RespondError(res, err)
		return
	}
	pair, err := c.tokens.IssuePair(user, r.UserAgent(), req.IP())
	if err != nil {
		c.RespondError(res, err)
		return
	}
	res.Success(pair)
}

func (c *TokenController) Refresh(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	var in refreshTokenRequest
	if err := req.Bind(&in); err != nil || in.RefreshToken == "" {
		res.BadRequest("refresh_token is required")
		return
	}

	pair, err := c.tokens.Refresh(in.RefreshToken)
	if err != nil {
		c.RespondError(res, err)
		return
	}
	res.Success(pair)
}

func (c *TokenController) Revoke(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	var in refreshTokenRequest
	if err := req.Bind(&in); err != nil || in.RefreshToken == "" {
		res.BadRequest("refresh_token is required")
		return
	}

	user := middleware.AuthUser(r)
	if user == nil {
		res.Unauthorized()
		return
	}
	if err := c.tokens.Revoke(in.RefreshToken, user.ID); err != nil {
		c.RespondError(res, err)
		return
	}
	res.NoContent()
}
