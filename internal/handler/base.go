package handler

import (
	"time"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/deppfellow/speakers-bff/internal/middleware"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

// Handler is the base handler type that holds shared application
// dependencies. Concrete handlers embed it.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives the validated request and
// returns a response or an error.
type HandlerFunc[Req any, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint without a response body.
type HandlerFuncNoContent[Req any] func(c echo.Context, req Req) error

// params is satisfied by pointers to request types bound from path and
// query parameters.
type params[T any] interface {
	*T
	validation.Validatable
}

// binder produces the request value for one call.
type binder[Req any] func(c echo.Context) (Req, error)

// bindParams binds path and query parameters into a fresh Req per request.
func bindParams[Req any, PReq params[Req]]() binder[PReq] {
	return func(c echo.Context) (PReq, error) {
		req := PReq(new(Req))
		if err := validation.BindAndValidate(c, req); err != nil {
			var zero PReq
			return zero, err
		}
		return req, nil
	}
}

// bodyFromGate reads the value stored by middleware.ValidateBody. A missing
// value means the route was registered without the gate.
func bodyFromGate[Req any]() binder[Req] {
	return func(c echo.Context) (Req, error) {
		body, ok := middleware.Body[Req](c)
		if !ok {
			var zero Req
			return zero, errors.Errorf("route %s has no body validation for %T", c.Path(), zero)
		}
		return body, nil
	}
}

// ResponseHandler writes a successful result and describes it for logs and
// tracing.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	// http.status_code is already set by EnhanceTracing.
}

// NoContentResponseHandler writes responses without a body.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {}

// HTMLResponseHandler writes an HTML document. The handler result must be a
// string.
type HTMLResponseHandler struct {
	status int
}

func (h HTMLResponseHandler) Handle(c echo.Context, result any) error {
	html, ok := result.(string)
	if !ok {
		return errs.NewInternalServerError()
	}
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTML(h.status, html)
}

func (h HTMLResponseHandler) GetOperation() string {
	return "handler_html"
}

func (h HTMLResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if txn == nil {
		return
	}
	if html, ok := result.(string); ok {
		txn.AddAttribute("html.size_bytes", len(html))
	}
}

// handleRequest is the execution pipeline shared by every typed handler:
// bind, run, log, trace and write the response.
func handleRequest[Req any](
	c echo.Context,
	bind binder[Req],
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	bindStart := time.Now()
	req, err := bind(c)
	bindDuration := time.Since(bindStart)
	if err != nil {
		logger.Warn().
			Err(err).
			Dur("validation_duration", bindDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", bindDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", bindDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)
	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", bindDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle serves a route whose input comes from path and query parameters.
//
//	r.GET("/speakers/:id", handler.Handle(h.Handler, h.GetSpeaker, http.StatusOK))
func Handle[Req any, PReq params[Req], Res any](
	h Handler,
	handler HandlerFunc[PReq, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, bindParams[Req, PReq](), func(c echo.Context, req PReq) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for routes that answer without a body.
func HandleNoContent[Req any, PReq params[Req]](
	h Handler,
	handler HandlerFuncNoContent[PReq],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, bindParams[Req, PReq](), func(c echo.Context, req PReq) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}

// HandleHTML is Handle for routes that render an HTML document.
func HandleHTML[Req any, PReq params[Req]](
	h Handler,
	handler HandlerFunc[PReq, string],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, bindParams[Req, PReq](), func(c echo.Context, req PReq) (any, error) {
			return handler(c, req)
		}, HTMLResponseHandler{status: status})
	}
}

// HandleBody serves a route guarded by middleware.ValidateBody: the handler
// receives the normalized body.
//
//	r.POST("/speakers", handler.HandleBody(h.Handler, h.CreateSpeaker, http.StatusCreated),
//		middleware.ValidateBody(model.CreateSpeakerSchema))
func HandleBody[Req any, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, bodyFromGate[Req](), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}
