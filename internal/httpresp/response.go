// Package httpresp holds the success-side response envelopes. Handlers for
// trainers, bookings and training requests all list collections, so the
// list envelope carries a total the web client uses for its counters.
package httpresp

import "github.com/gin-gonic/gin"

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

// List writes a collection envelope. A nil slice renders as [] so clients
// never see null for an empty trainer search or notification feed.
func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
