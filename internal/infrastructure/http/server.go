// Package http provides the HTTP server infrastructure.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
	"github.com/tiendabot/salesrag-go/internal/domain/usecases"
)

// productInput mirrors the ingestion wire contract.
type productInput struct {
	Code        string  `json:"codigo"`
	Image       string  `json:"imagen"`
	Description string  `json:"descripcion"`
	Features    string  `json:"caracteristicas"`
	SalePrice   float64 `json:"precio_venta"`
}

type productsResponse struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
}

type askRequest struct {
	Phone        string `json:"telefono"`
	CustomerName string `json:"nombre_apellido"`
	Question     string `json:"pregunta"`
}

type askResponse struct {
	Answer string `json:"respuesta"`
}

// Server exposes the ingestion and question endpoints.
type Server struct {
	echo   *echo.Echo
	ingest *usecases.IngestUseCase
	ask    *usecases.AskUseCase
	addr   string
	logger *slog.Logger
}

// NewServer creates the HTTP server and registers routes.
func NewServer(ingest *usecases.IngestUseCase, ask *usecases.AskUseCase, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	s := &Server{
		echo:   e,
		ingest: ingest,
		ask:    ask,
		addr:   addr,
		logger: logger,
	}

	e.POST("/products", s.handleAddProducts)
	e.POST("/ask", s.handleAsk)
	e.GET("/healthz", s.handleHealth)

	return s
}

// Handler returns the underlying handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("server listening", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleAddProducts(c echo.Context) error {
	var inputs []productInput
	if err := c.Bind(&inputs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}

	products := make([]entities.Product, len(inputs))
	for i, in := range inputs {
		products[i] = entities.Product{
			Code:        in.Code,
			Image:       in.Image,
			Description: in.Description,
			Features:    in.Features,
			SalePrice:   in.SalePrice,
		}
	}

	total, err := s.ingest.Ingest(c.Request().Context(), products)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, productsResponse{
		Message: "Productos cargados correctamente",
		Total:   total,
	})
}

func (s *Server) handleAsk(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if req.Phone == "" || req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "telefono y pregunta son obligatorios")
	}

	answer, err := s.ask.Ask(c.Request().Context(), req.Phone, req.CustomerName, req.Question)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// mapError translates domain errors into HTTP status codes: validation
// failures are 400s, gateway failures surface as 502.
func mapError(err error) error {
	var (
		dup     *entities.DuplicateCodeError
		invalid *entities.InvalidProductError
		gateway *entities.GatewayError
	)
	switch {
	case errors.Is(err, entities.ErrEmptyBatch):
		return echo.NewHTTPError(http.StatusBadRequest, "La lista de productos está vacía")
	case errors.As(err, &dup):
		return echo.NewHTTPError(http.StatusBadRequest, dup.Error())
	case errors.As(err, &invalid):
		return echo.NewHTTPError(http.StatusBadRequest, invalid.Error())
	case errors.As(err, &gateway):
		return echo.NewHTTPError(http.StatusBadGateway, "el servicio del modelo no está disponible")
	default:
		return err
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
			logger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			return err
		}
	}
}
