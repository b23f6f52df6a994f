package server

import (
	"errors"
	"log/slog"
	"time"

	"respite/app/config"
	"respite/app/service/mediator"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Server)(nil)

// Server is the HTTP surface of the mediation proxy.
type Server struct {
	cfg         *config.Config
	app         *fiber.App
	mediatorSvc *mediator.Service
}

func New(di *do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Server{
		cfg:         cfg,
		mediatorSvc: do.MustInvoke[*mediator.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s.app.Get("/healthz", s.handleHealth)
	s.app.Post("/suggest", s.handleSuggest)

	return s, nil
}

func (s *Server) Listen() error {
	slog.Info("HTTP server listening", "addr", s.cfg.Server.Listen)

	return s.app.Listen(s.cfg.Server.Listen)
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorHandler keeps every failure that escapes a handler in the stable
// {error, code} envelope, including fiber's own body-limit rejection.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			return c.Status(fiberErr.Code).JSON(errorBody{
				Error: "request body is too large",
				Code:  mediator.CodePayloadTooLarge,
			})
		}

		if fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(errorBody{
				Error: fiberErr.Message,
				Code:  "request_error",
			})
		}
	}

	slog.Error("Unhandled request error", "error", err)

	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
		Error: "internal error",
		Code:  "internal_error",
	})
}
