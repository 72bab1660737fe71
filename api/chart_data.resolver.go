package api

import (
	"math"
	"time"

	"nisasim/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/montanaflynn/stats"
)

type chartDataset struct {
	Label       string     `json:"label"`
	Data        []*float64 `json:"data"`
	BorderColor string     `json:"borderColor"`
}

type chartDataResponse struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

// colors the front-end chart cycles through
var chartColors = []string{"red", "green", "blue", "yellow", "orange", "gray", "purple"}

// chartData returns the stored series shaped for a chart.js line
// chart. By default each series is centered on its mean so indices of
// very different magnitudes share one axis; pass scale=false for raw
// closes.
func (m *ApiHandler) chartData(c *gin.Context) {
	series, err := m.PriceRepository.ListSeries()
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	matrix := domain.NewPriceMatrix(series)

	scale := c.DefaultQuery("scale", "true") != "false"

	labels := make([]string, 0, matrix.NumRows())
	for _, d := range matrix.Dates() {
		labels = append(labels, d.Format(time.DateOnly))
	}

	datasets := []chartDataset{}
	for i, key := range matrix.Keys() {
		col, _ := matrix.Column(key)

		values := col
		if scale {
			scaled, err := scaleAroundMean(col)
			if err != nil {
				returnErrorJson(err, c)
				return
			}
			values = scaled
		}

		data := make([]*float64, len(values))
		for j := range values {
			if !math.IsNaN(values[j]) {
				v := values[j]
				data[j] = &v
			}
		}

		datasets = append(datasets, chartDataset{
			Label:       key,
			Data:        data,
			BorderColor: chartColors[i%len(chartColors)],
		})
	}

	c.JSON(200, chartDataResponse{Labels: labels, Datasets: datasets})
}

// scaleAroundMean maps each value to (x - mean) / mean, keeping NaN
// gaps in place.
func scaleAroundMean(col []float64) ([]float64, error) {
	present := []float64{}
	for _, v := range col {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return col, nil
	}

	mean, err := stats.Mean(present)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(col))
	for i, v := range col {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = (v - mean) / mean
	}

	return out, nil
}
