// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/maplabs/warehouse-mapper/internal/geo"
	"github.com/maplabs/warehouse-mapper/internal/service"
	"github.com/maplabs/warehouse-mapper/internal/table"
)

// SessionHandler exposes the upload → coerce → edit → export session flow.
type SessionHandler struct {
	svc *service.SessionService
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// RegisterRoutes registers the session routes with Huma.
func (h *SessionHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/sessions", h.CreateSession, huma.OperationTags("sessions"))
	huma.Get(api, "/api/v1/sessions/{id}", h.GetSession, huma.OperationTags("sessions"))
	huma.Delete(api, "/api/v1/sessions/{id}", h.DeleteSession, huma.OperationTags("sessions"))
	huma.Put(api, "/api/v1/sessions/{id}/columns", h.SelectColumns, huma.OperationTags("sessions"))
	huma.Put(api, "/api/v1/sessions/{id}/colors/{row}", h.SetColor, huma.OperationTags("sessions"))
	huma.Get(api, "/api/v1/sessions/{id}/points", h.GetPoints, huma.OperationTags("sessions"))
	huma.Get(api, "/api/v1/sessions/{id}/view", h.GetView, huma.OperationTags("sessions"))
	huma.Get(api, "/api/v1/sessions/{id}/export/csv", h.ExportCSV, huma.OperationTags("export"))
	huma.Get(api, "/api/v1/sessions/{id}/export/geojson", h.ExportGeoJSON, huma.OperationTags("export"))
	huma.Get(api, "/api/v1/sample", h.GetSample, huma.OperationTags("export"))
}

// Types

type SessionIDInput struct {
	ID string `path:"id" doc:"Session ID" example:"f1e2d3c4b5a69788"`
}

type UploadInput struct {
	RawBody []byte `contentType:"text/csv" doc:"CSV file contents"`
}

type SessionOutput struct {
	Body service.Info
}

type ColumnsInput struct {
	SessionIDInput
	Body struct {
		Lat string `json:"lat" required:"true" minLength:"1" doc:"Latitude column name" example:"latitude"`
		Lon string `json:"lon" required:"true" minLength:"1" doc:"Longitude column name" example:"longitude"`
	}
}

type ColorInput struct {
	SessionIDInput
	Row  int `path:"row" minimum:"0" doc:"Row index in the coerced table"`
	Body struct {
		Color string `json:"color" doc:"Hex color like #FF8800 or #f80" example:"#FF8800"`
	}
}

type ColorOutput struct {
	Body struct {
		Row   int    `json:"row" doc:"Row index"`
		Color string `json:"color" doc:"Color actually stored after sanitizing"`
	}
}

type PointsOutput struct {
	Body struct {
		Points []geo.Point `json:"points" doc:"Validated points with colors applied"`
		Count  int         `json:"count" doc:"Number of points"`
	}
}

type ViewOutput struct {
	Body geo.ViewState
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

// FileOutput carries an export as raw bytes with download headers.
type FileOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// Handlers

func (h *SessionHandler) CreateSession(ctx context.Context, input *UploadInput) (*SessionOutput, error) {
	info, err := h.svc.Create(input.RawBody)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &SessionOutput{Body: info}, nil
}

func (h *SessionHandler) GetSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	info, err := h.svc.Get(input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &SessionOutput{Body: info}, nil
}

func (h *SessionHandler) DeleteSession(ctx context.Context, input *SessionIDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Delete(input.ID); err != nil {
		return nil, mapServiceError(err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Session deleted"}}, nil
}

func (h *SessionHandler) SelectColumns(ctx context.Context, input *ColumnsInput) (*SessionOutput, error) {
	info, err := h.svc.SelectColumns(input.ID, input.Body.Lat, input.Body.Lon)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &SessionOutput{Body: info}, nil
}

func (h *SessionHandler) SetColor(ctx context.Context, input *ColorInput) (*ColorOutput, error) {
	stored, err := h.svc.SetColor(input.ID, input.Row, input.Body.Color)
	if err != nil {
		return nil, mapServiceError(err)
	}
	out := &ColorOutput{}
	out.Body.Row = input.Row
	out.Body.Color = stored
	return out, nil
}

func (h *SessionHandler) GetPoints(ctx context.Context, input *SessionIDInput) (*PointsOutput, error) {
	points, err := h.svc.Points(input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	out := &PointsOutput{}
	out.Body.Points = points
	out.Body.Count = len(points)
	return out, nil
}

func (h *SessionHandler) GetView(ctx context.Context, input *SessionIDInput) (*ViewOutput, error) {
	view, err := h.svc.View(input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &ViewOutput{Body: view}, nil
}

func (h *SessionHandler) ExportCSV(ctx context.Context, input *SessionIDInput) (*FileOutput, error) {
	data, err := h.svc.ExportCSV(input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &FileOutput{
		ContentType:        "text/csv",
		ContentDisposition: `attachment; filename="warehouses_with_colors.csv"`,
		Body:               data,
	}, nil
}

func (h *SessionHandler) ExportGeoJSON(ctx context.Context, input *SessionIDInput) (*FileOutput, error) {
	data, err := h.svc.ExportGeoJSON(input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &FileOutput{
		ContentType:        geo.GeoJSONContentType,
		ContentDisposition: `attachment; filename="warehouses.geojson"`,
		Body:               data,
	}, nil
}

func (h *SessionHandler) GetSample(ctx context.Context, input *struct{}) (*FileOutput, error) {
	return &FileOutput{
		ContentType:        "text/csv",
		ContentDisposition: `attachment; filename="sample.csv"`,
		Body:               service.SampleCSV(),
	}, nil
}

// mapServiceError translates domain errors into HTTP status errors. Anything
// unrecognized (e.g. an unknown column name) is a bad request.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrRowOutOfRange):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, table.ErrMalformedInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, geo.ErrNoValidRows):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, service.ErrColumnsNotSelected):
		return huma.Error409Conflict(err.Error())
	default:
		return huma.Error400BadRequest(fmt.Sprintf("request failed: %s", err))
	}
}
