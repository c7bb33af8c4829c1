package billing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()
	body := fmt.Sprintf(`{"patient_id":%q,"insurance_portion":600,"items":[{"procedure_code":"D2740","fee":850},{"procedure_code":"D0120","fee":50}]}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var got struct {
		Invoice
		Items []*InvoiceItem `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Total != 900 {
		t.Errorf("expected total 900, got %v", got.Total)
	}
	if got.InvoiceNumber == "" {
		t.Error("expected assigned invoice number")
	}
	if len(got.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(got.Items))
	}
}

func TestHandler_Create_NoItems(t *testing.T) {
	h, e := newTestHandler()
	body := fmt.Sprintf(`{"patient_id":%q}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err == nil {
		t.Error("expected error for invoice without items")
	}
}

func TestHandler_Get(t *testing.T) {
	h, e := newTestHandler()
	inv := &Invoice{PatientID: uuid.New()}
	if err := h.svc.CreateInvoice(nil, inv, testItems()); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(inv.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Invoice
		Items []*InvoiceItem `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.ID != inv.ID {
		t.Error("expected invoice to round-trip")
	}
	if len(got.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(got.Items))
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 error, got %v", err)
	}
}

func TestHandler_IssueAndPay(t *testing.T) {
	h, e := newTestHandler()
	inv := &Invoice{PatientID: uuid.New(), InsurancePortion: 600}
	if err := h.svc.CreateInvoice(nil, inv, testItems()); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(inv.ID.String())
	if err := h.Issue(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":300,"method":"card"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(inv.ID.String())
	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var got struct {
		Invoice Invoice `json:"invoice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Invoice.Status != InvoicePaid {
		t.Errorf("expected paid invoice, got %s", got.Invoice.Status)
	}
}

func TestHandler_RecordPayment_BadMethod(t *testing.T) {
	h, e := newTestHandler()
	inv := &Invoice{PatientID: uuid.New()}
	if err := h.svc.CreateInvoice(nil, inv, testItems()); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.IssueInvoice(nil, inv.ID); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":10,"method":"barter"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(inv.ID.String())

	err := h.RecordPayment(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 error, got %v", err)
	}
}

func TestHandler_Void(t *testing.T) {
	h, e := newTestHandler()
	inv := &Invoice{PatientID: uuid.New()}
	if err := h.svc.CreateInvoice(nil, inv, testItems()); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(inv.ID.String())

	if err := h.Void(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Invoice
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Status != InvoiceVoid {
		t.Errorf("expected void status, got %s", got.Status)
	}
}
