package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func TestGetQuotationsByRequestUsesPathParam(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM quotations q").WithArgs(5).WillReturnRows(
		sqlmock.NewRows([]string{"id", "quotation_request_id", "vendor_id", "vendor_name", "email",
			"total_amount", "delivery_charge", "notes", "status", "created_at", "updated_at"}).
			AddRow(9, 5, 2, "Ava Vendor", "ava@example.com", 5450.5, nil, "Delivery Cost: 450.00", "submitted", now, now))
	mock.ExpectQuery("FROM quotation_products").WithArgs(9).WillReturnRows(
		sqlmock.NewRows([]string{"id", "quotation_id", "part_name", "quantity", "unit_price", "total_price"}))

	r := gin.New()
	r.GET("/api/quotation-requests/:id/quotations", GetQuotationsByRequestHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotation-requests/5/quotations", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"quotation_request_id":5`) {
		t.Errorf("response missing request id:\n%s", body)
	}
	if !strings.Contains(body, `"delivery_charge_display":"450.00"`) {
		t.Errorf("delivery charge not extracted from notes:\n%s", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetQuotationsByRequestInvalidID(t *testing.T) {
	r := gin.New()
	r.GET("/api/quotation-requests/:id/quotations", GetQuotationsByRequestHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotation-requests/abc/quotations", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", w.Code)
	}
}
