package router

import (
	"net/http"

	"walletsync/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController         *controllers.HealthController
	SwaggerController        *controllers.SwaggerController
	AccountHistoryController *controllers.AccountHistoryController
	NotesController          *controllers.NotesController
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	mux.HandleFunc("GET /v1/accounts/{address}/history", deps.AccountHistoryController.GetAccountHistory)
	mux.HandleFunc("GET /v1/notes", deps.NotesController.GetNoteByLink)

	return mux
}
