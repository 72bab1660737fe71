package api

import (
	"github.com/gin-gonic/gin"
)

type needUpdateResponse struct {
	NeedsUpdate bool `json:"needsUpdate"`
}

func (m *ApiHandler) needUpdate(c *gin.Context) {
	needs := m.SyncService.NeedsUpdate(c.Request.Context())

	c.JSON(200, needUpdateResponse{NeedsUpdate: needs})
}
