package connector_http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	app "connector/internal/app/connector"
)

func RegisterRoutes(r chi.Router, s app.ConnectorService, l *zap.Logger) {
	handler := NewConnectorHandler(s, l.With(zap.String("component", "ConnectorHTTPHandler")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Connector is healthy!"))
	})

	r.Get("/manifest", handler.ManifestHandler)

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", handler.AuthorizeHandler)
		r.Route("/{paymentId}", func(r chi.Router) {
			r.Post("/cancellations", handler.CancelHandler)
			r.Post("/refunds", handler.RefundHandler)
			r.Post("/settlements", handler.SettleHandler)
		})
	})

	r.Post("/webhooks/gateway", handler.GatewayWebhookHandler)
}
