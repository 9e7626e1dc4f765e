package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	accountHandler "github.com/openledgerhq/ledgerd/internal/http/account"
	importHandler "github.com/openledgerhq/ledgerd/internal/http/importcsv"
	journalHandler "github.com/openledgerhq/ledgerd/internal/http/journal"
	ledgerHandler "github.com/openledgerhq/ledgerd/internal/http/ledger"
	reportHandler "github.com/openledgerhq/ledgerd/internal/http/report"
)

type Options struct {
	AuthSecret     string
	AllowedOrigins []string
}

func New(
	accountsV1 *accountHandler.Handler,
	journalV1 *journalHandler.Handler,
	ledgerV1 *ledgerHandler.Handler,
	reportsV1 *reportHandler.Handler,
	importV1 *importHandler.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	router.Use(Auth(opts.AuthSecret))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			accountsV1.Routes(r)
			ledgerV1.Routes(r)
		})

		r.Route("/accounting", func(r chi.Router) {
			r.With(middleware.AllowContentType("application/json")).Post("/reset", accountsV1.Reset)

			journalV1.Routes(r)
			reportsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
	})

	return router
}
