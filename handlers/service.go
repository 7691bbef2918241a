package handlers

import (
	"net/http"

	"coolserve/database/repository"

	"github.com/gin-gonic/gin"
)

// ServiceHandler exposes the service catalogue.
type ServiceHandler struct {
	Services repository.ServiceRepository
}

func NewServiceHandler(services repository.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{Services: services}
}

// ListServices handles GET /api/services.
func (h *ServiceHandler) ListServices(c *gin.Context) {
	list, err := h.Services.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": list})
}
