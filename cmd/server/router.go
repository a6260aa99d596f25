package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gestorvip/fila/internal/handler"
)

func setupRouter(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/clients", func(r chi.Router) {
		r.Post("/", h.CreateClient)
		r.Get("/", h.ListClients)
		r.Get("/export", h.ExportClients)
		r.Post("/import", h.ImportClients)
		r.Post("/{id}/call", h.CallClient)
		r.Delete("/{id}", h.DeleteClient)
		r.Put("/{id}/ibo", h.UpdateIbo)
		r.Get("/{id}/whatsapp-link", h.WhatsAppLink)
	})

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	r.Post("/scheduler/start", h.StartScheduler)
	r.Post("/scheduler/stop", h.StopScheduler)

	r.Get("/health", h.HealthCheck)

	return r
}
