package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	recordsdomain "github.com/averost/commerce-api/internal/domains/records/domain"
	recordsports "github.com/averost/commerce-api/internal/domains/records/ports"
	sharederrors "github.com/averost/commerce-api/internal/shared/errors"
)

// RecordAPI serves the sequential data record surface.
type RecordAPI struct {
	service recordsports.Service
}

func NewRecordAPI(service recordsports.Service) RecordAPI {
	return RecordAPI{service: service}
}

type allocateRecordRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type recordResponse struct {
	ID            string          `json:"id"`
	UniqueCode    string          `json:"uniqueCode"`
	RunningNumber int64           `json:"runningNumber"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toRecordResponse(r recordsdomain.DataRecord) recordResponse {
	return recordResponse{
		ID:            r.ID,
		UniqueCode:    r.UniqueCode,
		RunningNumber: r.RunningNumber,
		Payload:       r.Payload,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Post /data
func (api *RecordAPI) Allocate(c *gin.Context) {
	var payload allocateRecordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	record, err := api.service.AllocateNext(c.Request.Context(), recordsdomain.AllocationRequest{
		Payload: payload.Payload,
	})
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecordResponse(*record))
}

// Get /data
func (api *RecordAPI) List(c *gin.Context) {
	records, err := api.service.List(c.Request.Context())
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	out := make([]recordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toRecordResponse(record))
	}
	c.JSON(http.StatusOK, out)
}
