package api

import (
	"encoding/json"
	"fmt"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"
)

type meta struct {
	TotalRecords uint64  `json:"totalRecords"`
	Offset       *uint64 `json:"offset,omitempty"`
	Limit        *uint64 `json:"limit,omitempty"`
	Count        uint64  `json:"count"`
}

type links struct {
	Self  *string `json:"self,omitempty"`
	First *string `json:"first,omitempty"`
	Prev  *string `json:"prev,omitempty"`
	Next  *string `json:"next,omitempty"`
	Last  *string `json:"last,omitempty"`
}

type ApiResponse struct {
	Meta  *meta  `json:"meta,omitempty"`
	Data  any    `json:"data"`
	Links *links `json:"links,omitempty"`
}

func (r ApiResponse) Byte() []byte {
	b, _ := json.Marshal(r)
	return b
}

func NewApiResponse[T any](c types.Collection[T], path string) ApiResponse {
	response := ApiResponse{
		Meta: &meta{
			TotalRecords: c.TotalCount,
			Count:        c.Count,
		},
		Data: c.Data,
	}

	if c.Limit > 0 {
		offset := c.Offset
		limit := c.Limit
		response.Meta.Offset = &offset
		response.Meta.Limit = &limit

		self := fmt.Sprintf("%s?offset=%d&limit=%d", path, offset, limit)
		response.Links = &links{Self: &self}
	}

	return response
}

type acknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledgedBy"`
}

type triggerRunResponse struct {
	Report types.RunReport `json:"report"`
}
