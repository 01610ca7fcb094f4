package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/armature-go/armature/app/services"
	gohttp "github.com/armature-go/armature/framework/http"
	"github.com/armature-go/armature/framework/http/validation"
	"github.com/armature-go/armature/framework/routing"
)

// UserController serves the /v1/users resource.
type UserController struct {
	Controller
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// RegisterRoutes attaches the RESTful user routes.
func (c *UserController) RegisterRoutes(r *routing.Router) {
	r.Resource("/v1/users", c)
}

// ── Request schemas ──────────────────────────────────────────────────────────

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (in createUserRequest) validate() *validation.Validator {
	return validation.Make(map[string]string{
		"username":   in.Username,
		"email":      in.Email,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"password":   in.Password,
	}, validation.Rules{
		"username":   "required|alpha_num|min:3|max:32",
		"email":      "required|email",
		"first_name": "sometimes|max:100",
		"last_name":  "sometimes|max:100",
		"password":   "required|min:8|max:128",
	})
}

type updateUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (in updateUserRequest) validate() *validation.Validator {
	return validation.Make(map[string]string{
		"email":      in.Email,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
	}, validation.Rules{
		"email":      "sometimes|email",
		"first_name": "sometimes|max:100",
		"last_name":  "sometimes|max:100",
	})
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	c.Response(w).Success(c.users.List())
}

func (c *UserController) Store(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	var in createUserRequest
	if err := req.Bind(&in); err != nil {
		res.BadRequest("malformed request body")
		return
	}
	if v := in.validate(); v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	user, err := c.users.Create(services.CreateUserInput{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
	})
	if err != nil {
		c.RespondError(res, err)
		return
	}
	res.Created(user)
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	res := c.Response(w)
	id, ok := c.userID(r, res)
	if !ok {
		return
	}
	user, err := c.users.Get(id)
	if err != nil {
		c.RespondError(res, err)
		return
	}
	res.Success(user)
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)
	id, ok := c.userID(r, res)
	if !ok {
		return
	}

	var in updateUserRequest
	if err := req.Bind(&in); err != nil {
		res.BadRequest("malformed request body")
		return
	}
	if v := in.validate(); v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	user, err := c.users.Update(id, services.UpdateUserInput{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		c.RespondError(res, err)
		return
	}
	res.Success(user)
}

func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	res := c.Response(w)
	id, ok := c.userID(r, res)
	if !ok {
		return
	}
	if err := c.users.Delete(id); err != nil {
		c.RespondError(res, err)
		return
	}
	res.NoContent()
}

// userID parses the {id} route parameter, writing a 400 when it is not a
// UUID.
func (c *UserController) userID(r *http.Request, res *gohttp.Response) (uuid.UUID, bool) {
	id, err := uuid.Parse(routing.Param(r, "id"))
	if err != nil {
		res.BadRequest("invalid user id")
		return uuid.Nil, false
	}
	return id, true
}
