package api

import (
	"fmt"
	"net/http"

	"nisasim/internal/strategy"

	"github.com/gin-gonic/gin"
)

type portfolioEntry struct {
	Name          string  `json:"name"`
	SearchKeyword *string `json:"searchKeyword"`
	Percent       int32   `json:"percent"`
	Amount        int32   `json:"amount"`
}

type portfolioResponse struct {
	Date     string           `json:"date"`
	Strategy string           `json:"strategy"`
	Total    int32            `json:"total"`
	Results  []portfolioEntry `json:"results"`
}

// portfolio returns the latest persisted allocation for the named
// strategy. An unknown strategy name is the caller's error, distinct
// from a computation failure.
func (m *ApiHandler) portfolio(c *gin.Context) {
	s, err := strategy.FromName(c.Param("strategy"))
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	results, err := m.AllocationService.LatestResults(c.Request.Context(), s)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	if len(results) == 0 {
		returnErrorJsonCode(fmt.Errorf("no allocation registered for %s", s.Name()), c, http.StatusNotFound)
		return
	}

	out := portfolioResponse{
		Date:     results[0].Date.Format("2006/01/02"),
		Strategy: s.Name(),
		Results:  []portfolioEntry{},
	}
	for _, r := range results {
		out.Total += r.WeightAmount
		out.Results = append(out.Results, portfolioEntry{
			Name:          r.InstrumentKey,
			SearchKeyword: r.DisplayKeyword,
			Percent:       r.WeightPercent,
			Amount:        r.WeightAmount,
		})
	}

	c.JSON(200, out)
}
