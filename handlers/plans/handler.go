package plans

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contentking-de/womosuche-sub000/models"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// GetPlans lists the plan catalog.
// @Summary Plan catalog
// @Description Returns the static plan catalog used by the pricing page.
// @Tags plans
// @Produce json
// @Success 200 {object} map[string][]models.Plan
// @Router /plans [get]
func (h *Handler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": models.PlanCatalog()})
}
