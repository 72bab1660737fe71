package api

import (
	"nisasim/internal/strategy"

	"github.com/gin-gonic/gin"
)

type strategyResponse struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (m *ApiHandler) strategies(c *gin.Context) {
	out := []strategyResponse{}
	for _, s := range strategy.All() {
		out = append(out, strategyResponse{
			ID:          s.ID(),
			Name:        s.Name(),
			DisplayName: s.DisplayName(),
		})
	}

	c.JSON(200, out)
}
