package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRequest(t *testing.T) {
	t.Run("marshals values", func(t *testing.T) {
		req := NewJSONRequest(t, http.MethodPost, "/webhook", map[string]int{"qty": 2})

		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"qty":2}`, string(body))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	})

	t.Run("sends strings verbatim", func(t *testing.T) {
		req := NewJSONRequest(t, http.MethodPost, "/webhook", `{"qty":`)

		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"qty":`, string(body))
	})

	t.Run("no body", func(t *testing.T) {
		req := NewJSONRequest(t, http.MethodGet, "/erp/orders", nil)
		assert.Empty(t, req.Header.Get("Content-Type"))
	})
}

func TestAssertProblem(t *testing.T) {
	engine := gin.New()
	engine.POST("/send", func(c *gin.Context) {
		c.Header("Content-Type", "application/problem+json")
		c.JSON(http.StatusBadGateway, gin.H{
			"type":   "about:blank",
			"title":  "Bad Gateway",
			"status": http.StatusBadGateway,
			"detail": "connection refused",
		})
	})

	w := Serve(engine, NewJSONRequest(t, http.MethodPost, "/send", nil))
	problem := AssertProblem(t, w, http.StatusBadGateway)
	assert.Equal(t, "connection refused", problem.Detail)
}

func TestAssertErrorEnvelope(t *testing.T) {
	engine := gin.New()
	engine.POST("/in", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_VALIDATION", "message": "Request validation failed"},
		})
	})

	w := Serve(engine, NewJSONRequest(t, http.MethodPost, "/in", "{}"))
	AssertErrorEnvelope(t, w, http.StatusBadRequest, "ERR_VALIDATION")
}

func TestDecodeJSON(t *testing.T) {
	engine := gin.New()
	engine.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 1}})
	})

	w := Serve(engine, NewJSONRequest(t, http.MethodGet, "/orders", nil))
	got := DecodeJSON[[]struct {
		ID int64 `json:"id"`
	}](t, w)
	require.Len(t, got, 1)
	assert.EqualValues(t, 1, got[0].ID)
}
