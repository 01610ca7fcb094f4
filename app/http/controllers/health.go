package controllers

import (
	"net/http"

	"github.com/armature-go/armature/app/services"
	"github.com/armature-go/armature/framework/routing"
)

// HealthController serves GET /v1/health.
type HealthController struct {
	Controller
	health *services.HealthService
}

func NewHealthController(health *services.HealthService) *HealthController {
	return &HealthController{health: health}
}

// RegisterRoutes attaches the health endpoint.
func (c *HealthController) RegisterRoutes(r *routing.Router) {
	r.Get("/v1/health", c.Show)
}

func (c *HealthController) Show(w http.ResponseWriter, r *http.Request) {
	res := c.Response(w)
	if err := c.health.Check(); err != nil {
		res.Error(http.StatusServiceUnavailable, err.Error())
		return
	}
	res.Success(map[string]string{"status": "ok"})
}
