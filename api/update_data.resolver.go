package api

import (
	"nisasim/internal/logger"

	"github.com/gin-gonic/gin"
)

type updateDataResponse struct {
	Success bool `json:"success"`
}

// dataUpdate triggers a full sync pass. Concurrent triggers share one
// run via singleflight; the response is a coarse success flag.
func (m *ApiHandler) dataUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	_, err, _ := m.syncGroup.Do("sync", func() (interface{}, error) {
		return nil, m.SyncService.Sync(ctx)
	})
	if err != nil {
		logger.FromContext(ctx).Errorf("data update failed: %v", err)
		c.JSON(200, updateDataResponse{Success: false})
		return
	}

	c.JSON(200, updateDataResponse{Success: true})
}
