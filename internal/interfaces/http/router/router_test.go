package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "/", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithBasePath(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithBasePath("/gateway"))

	g := NewDomainGroup("orders", "/erp/orders")
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "orders") })
	r.Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/gateway/erp/orders").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/erp/orders").Code)
}

func TestRouterSetup_MountsAtRoot(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	edi := NewDomainGroup("edi", "/webhook/zenbridge")
	edi.POST("/inbound-850", func(c *gin.Context) { c.String(http.StatusOK, "ack") })

	orders := NewDomainGroup("orders", "/erp/orders")
	orders.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("/:id/send-invoice", func(c *gin.Context) { c.String(http.StatusOK, "sent "+c.Param("id")) })

	r.Register(edi).Register(orders)
	r.Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/webhook/zenbridge/inbound-850", "ack"},
		{http.MethodGet, "/erp/orders", "list"},
		{http.MethodPost, "/erp/orders/12/send-invoice", "sent 12"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.body, w.Body.String())
	}

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/erp/orders").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("system", "/system")
		assert.Equal(t, "system", g.Name())
		assert.Equal(t, "/system", g.Prefix())
	})

	t.Run("applies middleware to its routes only", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("edi", "/webhook")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.POST("/in", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		other := NewDomainGroup("orders", "/erp")
		other.GET("/orders", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		r := NewRouter(engine)
		r.Register(g).Register(other).Setup()

		assert.Equal(t, "applied", serve(engine, http.MethodPost, "/webhook/in").Header().Get("X-Test-Middleware"))
		assert.Empty(t, serve(engine, http.MethodGet, "/erp/orders").Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("erp", "/erp")
		g.Group("orders", "/orders").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "orders list")
		})

		g.RegisterRoutes(engine.Group("/"))

		w := serve(engine, http.MethodGet, "/erp/orders")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "orders list", w.Body.String())
	})

	t.Run("unregistered method is not routed", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("orders", "/erp/orders")
		g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/"))

		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodDelete, "/erp/orders").Code)
	})
}

func TestDomainGroup_Routes(t *testing.T) {
	noop := func(c *gin.Context) {}
	g := NewDomainGroup("erp", "/erp")
	g.GET("/status", noop)
	g.Group("orders", "/orders").
		GET("", noop).
		POST("/:id/send-invoice", noop)

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/erp/status"},
		{Method: http.MethodGet, Path: "/erp/orders"},
		{Method: http.MethodPost, Path: "/erp/orders/:id/send-invoice"},
	}, g.Routes())
}
