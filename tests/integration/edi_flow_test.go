package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	integrationapp "github.com/erp/edigateway/internal/application/integration"
	tradeapp "github.com/erp/edigateway/internal/application/trade"
	"github.com/erp/edigateway/internal/infrastructure/persistence"
	"github.com/erp/edigateway/internal/infrastructure/zenbridge"
	"github.com/erp/edigateway/internal/interfaces/http/handler"
	"github.com/erp/edigateway/internal/interfaces/http/middleware"
	"github.com/erp/edigateway/internal/interfaces/http/router"
	"github.com/erp/edigateway/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceDay = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

// partnerStub records invoice deliveries and answers with a configurable status
type partnerStub struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []capturedRequest
}

type capturedRequest struct {
	Authorization string
	ContentType   string
	Body          []byte
}

func (p *partnerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, capturedRequest{
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.status)
	_, _ = io.WriteString(w, p.body)
}

func (p *partnerStub) respond(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.body = body
}

func (p *partnerStub) received() []capturedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedRequest(nil), p.requests...)
}

// GatewayTestServer wires the gateway's HTTP stack onto a Postgres test database
type GatewayTestServer struct {
	DB      *TestDB
	Engine  *gin.Engine
	Partner *partnerStub
}

func NewGatewayTestServer(t *testing.T) *GatewayTestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	partner := &partnerStub{status: http.StatusOK, body: `{"accepted":true}`}
	partnerServer := httptest.NewServer(partner)
	t.Cleanup(partnerServer.Close)

	client, err := zenbridge.NewClient(zenbridge.Config{
		URL:     partnerServer.URL + "/v1/invoices",
		Token:   "partner-token",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	repo := persistence.NewGormPurchaseOrderRepository(tdb.DB)
	ediService := integrationapp.NewEDIService(repo, client)
	ediService.SetClock(func() time.Time { return invoiceDay })
	ediHandler := handler.NewEDIHandler(ediService)
	orderHandler := handler.NewPurchaseOrderHandler(tradeapp.NewPurchaseOrderService(repo))

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.BodyLimit(1 << 20))

	edi := router.NewDomainGroup("edi", "/webhook/zenbridge")
	edi.POST("/inbound-850", ediHandler.ReceivePurchaseOrder)
	orders := router.NewDomainGroup("orders", "/erp/orders")
	orders.GET("", orderHandler.List).
		POST("/:id/send-invoice", ediHandler.SendInvoice)
	router.NewRouter(engine).Register(edi).Register(orders).Setup()

	return &GatewayTestServer{DB: tdb, Engine: engine, Partner: partner}
}

func (ts *GatewayTestServer) Request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Serve(ts.Engine, testutil.NewJSONRequest(t, method, path, body))
}

const po1 = `{
	"document_id": "DOC-1",
	"sender_id": "S1",
	"po_number": "PO-1",
	"date_created": "2024-01-01",
	"items": [{"product_code": "X", "qty": 2, "price": 10.00}]
}`

func TestEDIFlow_ReceiveListAndInvoice(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewGatewayTestServer(t)

	t.Run("inbound 850 is stored", func(t *testing.T) {
		w := ts.Request(t, http.MethodPost, "/webhook/zenbridge/inbound-850", po1)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{
			"status": "success",
			"message": "EDI 850 Processed Successfully",
			"erp_reference_id": 1
		}`, w.Body.String())
		assert.EqualValues(t, 1, ts.DB.CountRows("purchase_orders"))
		assert.EqualValues(t, 1, ts.DB.CountRows("po_line_items"))
	})

	t.Run("order is listed with its line items", func(t *testing.T) {
		w := ts.Request(t, http.MethodGet, "/erp/orders", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{
			"id": 1,
			"po_number": "PO-1",
			"partner_id": "S1",
			"order_date": "2024-01-01T00:00:00Z",
			"total_amount": 20,
			"line_items": [{"id": 1, "sku": "X", "quantity": 2, "unit_price": 10, "purchase_order_id": 1}]
		}]`, w.Body.String())
	})

	t.Run("invoice is delivered with the bearer token", func(t *testing.T) {
		w := ts.Request(t, http.MethodPost, "/erp/orders/1/send-invoice", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		sent := ts.Partner.received()
		require.Len(t, sent, 1)
		assert.Equal(t, "Bearer partner-token", sent[0].Authorization)
		assert.Equal(t, "application/json", sent[0].ContentType)
		assert.JSONEq(t, `[{
			"documentType": "810",
			"invoiceNumber": "INV-1-0315",
			"invoiceDate": "2024-03-15",
			"purchaseOrderNumber": "PO-1",
			"monetarySummary": {"amount": 20.00},
			"lineItemSummary": {"numberOfLineItems": 1, "hashTotal": 20.00}
		}]`, string(sent[0].Body))

		resp := testutil.DecodeJSON[struct {
			Message     string          `json:"message"`
			SentPayload json.RawMessage `json:"sent_payload"`
		}](t, w)
		assert.Equal(t, "Invoice sent successfully", resp.Message)
		assert.JSONEq(t, string(sent[0].Body), string(resp.SentPayload))
	})

	t.Run("partner rejection is passed through and the order kept", func(t *testing.T) {
		ts.Partner.respond(http.StatusUnauthorized, `{"error":"invalid token"}`)

		w := ts.Request(t, http.MethodPost, "/erp/orders/1/send-invoice", nil)

		problem := testutil.AssertProblem(t, w, http.StatusUnauthorized)
		assert.Equal(t, `{"error":"invalid token"}`, problem.Detail)
		assert.EqualValues(t, 1, ts.DB.CountRows("purchase_orders"))
	})

	t.Run("missing order never reaches the partner", func(t *testing.T) {
		before := len(ts.Partner.received())

		w := ts.Request(t, http.MethodPost, "/erp/orders/999/send-invoice", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Order not found"}`, w.Body.String())
		assert.Len(t, ts.Partner.received(), before)
	})
}

func TestEDIFlow_RejectedPayloadStoresNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewGatewayTestServer(t)

	w := ts.Request(t, http.MethodPost, "/webhook/zenbridge/inbound-850", `{"sender_id": "S1", "date_created": "2024-01-01", "items": []}`)

	testutil.AssertErrorEnvelope(t, w, http.StatusBadRequest, "ERR_VALIDATION")
	assert.Contains(t, w.Body.String(), "po_number")
	assert.Zero(t, ts.DB.CountRows("purchase_orders"))
}

func TestEDIFlow_ListOrderAndEmptyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewGatewayTestServer(t)

	w := ts.Request(t, http.MethodGet, "/erp/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, po := range []string{"PO-A", "PO-B", "PO-C"} {
		body := map[string]any{
			"sender_id":    "S1",
			"po_number":    po,
			"date_created": "2024-01-01",
			"items":        []map[string]any{{"product_code": "X", "qty": 1, "price": 1.5}},
		}
		require.Equal(t, http.StatusOK, ts.Request(t, http.MethodPost, "/webhook/zenbridge/inbound-850", body).Code)
	}

	w = ts.Request(t, http.MethodGet, "/erp/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := testutil.DecodeJSON[[]struct {
		ID       int64  `json:"id"`
		PoNumber string `json:"po_number"`
	}](t, w)
	require.Len(t, listed, 3)
	for i, po := range []string{"PO-A", "PO-B", "PO-C"} {
		assert.Equal(t, po, listed[i].PoNumber)
		assert.EqualValues(t, i+1, listed[i].ID)
	}
}

func TestPurchaseOrderSchema_DeleteCascadesToLineItems(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewGatewayTestServer(t)
	body := map[string]any{
		"sender_id":    "S1",
		"po_number":    "PO-CASCADE",
		"date_created": "2024-01-01",
		"items": []map[string]any{
			{"product_code": "X", "qty": 1, "price": 1},
			{"product_code": "Y", "qty": 2, "price": 2},
		},
	}
	require.Equal(t, http.StatusOK, ts.Request(t, http.MethodPost, "/webhook/zenbridge/inbound-850", body).Code)
	require.EqualValues(t, 2, ts.DB.CountRows("po_line_items"))

	require.NoError(t, ts.DB.DB.Exec(`DELETE FROM purchase_orders WHERE po_number = ?`, "PO-CASCADE").Error)

	assert.Zero(t, ts.DB.CountRows("po_line_items"))
}
