package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// InfoHandler serves health and service metadata.
type InfoHandler struct {
	dbOK bool
}

func NewInfoHandler(dbOK bool) *InfoHandler {
	return &InfoHandler{dbOK: dbOK}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DB       bool     `json:"db" doc:"Whether the SQL surface is available"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "warehouse-mapper",
		Version:  "0.1.0",
		DB:       h.dbOK,
		Features: []string{"csv", "geojson", "duckdb"},
	}}, nil
}
