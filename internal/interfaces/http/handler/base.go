package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/erp/edigateway/internal/domain/integration"
	"github.com/erp/edigateway/internal/domain/shared"
	"github.com/erp/edigateway/internal/interfaces/http/dto"
	"github.com/erp/edigateway/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// parseOrderID reads the :id path parameter as an order ID
func parseOrderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// NotFound sends the bare {"error": message} body used for missing orders
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NotFoundResponse{Error: message})
}

// Problem sends an application/problem+json response. gin's JSON renderer
// keeps a Content-Type that is already set.
func (h *BaseHandler) Problem(c *gin.Context, problem dto.ProblemDetails) {
	c.Header("Content-Type", dto.ProblemContentType)
	c.JSON(problem.Status, problem)
}

// HandleError is a generic error handler that handles domain, storage and
// dispatch errors. The error is also attached to the gin context so the
// request logger reports it.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, domainErr.Message)
			return
		}
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}

	if _, ok := dispatchStatus(err); ok {
		h.Problem(c, dispatchProblem(err))
		return
	}

	var storageErr *shared.StorageError
	if errors.As(err, &storageErr) {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeStorageUnavailable, "Order store is unavailable")
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}

// dispatchStatus maps an invoice dispatch failure to the HTTP status returned
// to the caller. An upstream error status is passed through; anything else
// the partner sent back, or no answer at all, becomes 502. A missing partner
// configuration is 503.
func dispatchStatus(err error) (int, bool) {
	var dispatchErr *integration.DispatchError
	switch {
	case errors.As(err, &dispatchErr):
		if dispatchErr.StatusCode >= http.StatusBadRequest {
			return dispatchErr.StatusCode, true
		}
		return http.StatusBadGateway, true
	case errors.Is(err, integration.ErrPartnerUnavailable):
		return http.StatusBadGateway, true
	case errors.Is(err, integration.ErrPartnerNotConfigured):
		return http.StatusServiceUnavailable, true
	default:
		return 0, false
	}
}

func dispatchProblem(err error) dto.ProblemDetails {
	status, _ := dispatchStatus(err)
	detail := err.Error()
	var dispatchErr *integration.DispatchError
	if errors.As(err, &dispatchErr) && dispatchErr.Body != "" {
		detail = dispatchErr.Body
	}
	return dto.NewProblem(status, detail)
}
