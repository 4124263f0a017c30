package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"partshub/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func purchaseOrderRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_number", "buyer_id", "vendor_id", "quotation_id",
		"quotation_request_id", "total_amount", "delivery_charge", "status", "payment_slip_url",
		"created_at", "updated_at", "completed_at"}).
		AddRow(11, "PO-AB12345", 1, 2, 7, 3, 5450.5, nil, "pending", nil, now, now, nil)
}

// A second accept on a quotation that already has an order must return the
// existing order and never insert a new one.
func TestAcceptQuotationIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM quotations").WithArgs(7).WillReturnRows(
		sqlmock.NewRows([]string{"id", "quotation_request_id", "vendor_id", "total_amount",
			"delivery_charge", "status"}).
			AddRow(7, 3, 2, 5450.5, nil, "accepted"))
	mock.ExpectQuery("FROM quotation_requests").WithArgs(3).WillReturnRows(
		sqlmock.NewRows([]string{"buyer_id", "status"}).AddRow(1, "completed"))
	mock.ExpectQuery("FROM purchase_orders").WithArgs(7).WillReturnRows(
		sqlmock.NewRows([]string{"id", "order_number", "buyer_id", "vendor_id", "quotation_id",
			"quotation_request_id", "total_amount", "status", "created_at", "updated_at"}).
			AddRow(11, "PO-AB12345", 1, 2, 7, 3, 5450.5, "pending", now, now))
	mock.ExpectCommit()

	r := gin.New()
	r.POST("/api/quotations/:id/accept", asUser(&models.User{ID: 1, Role: "buyer"}), AcceptQuotationHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quotations/7/accept", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for repeat accept, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "PO-AB12345") {
		t.Errorf("existing order not returned:\n%s", body)
	}
	if !strings.Contains(body, "Quotation already accepted") {
		t.Errorf("repeat accept not flagged:\n%s", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("repeat accept must not write a second order: %v", err)
	}
}

func TestAcceptQuotationForeignBuyerForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM quotations").WithArgs(7).WillReturnRows(
		sqlmock.NewRows([]string{"id", "quotation_request_id", "vendor_id", "total_amount",
			"delivery_charge", "status"}).
			AddRow(7, 3, 2, 5450.5, nil, "submitted"))
	mock.ExpectQuery("FROM quotation_requests").WithArgs(3).WillReturnRows(
		sqlmock.NewRows([]string{"buyer_id", "status"}).AddRow(1, "received_quotes"))
	mock.ExpectRollback()

	r := gin.New()
	r.POST("/api/quotations/:id/accept", asUser(&models.User{ID: 9, Role: "buyer"}), AcceptQuotationHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quotations/7/accept", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another buyer's request, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetPurchaseOrderForeignUserForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM purchase_orders").WithArgs(11).WillReturnRows(purchaseOrderRow(time.Now()))

	r := gin.New()
	r.GET("/api/purchase-orders/:id", asUser(&models.User{ID: 9, Role: "buyer"}), GetPurchaseOrderHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/purchase-orders/11", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-party, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetPurchaseOrderVisibleToBuyer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM purchase_orders").WithArgs(11).WillReturnRows(purchaseOrderRow(time.Now()))
	mock.ExpectQuery("FROM quotation_products").WithArgs(7).WillReturnRows(
		sqlmock.NewRows([]string{"id", "quotation_id", "part_name", "quantity", "unit_price", "total_price"}))

	r := gin.New()
	r.GET("/api/purchase-orders/:id", asUser(&models.User{ID: 1, Role: "buyer"}), GetPurchaseOrderHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/purchase-orders/11", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for the order's buyer, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "PO-AB12345") {
		t.Errorf("order not returned:\n%s", w.Body.String())
	}
}

func TestOrderQRCodeForeignUserForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM purchase_orders po").WithArgs(11).WillReturnRows(
		sqlmock.NewRows([]string{"order_number", "status", "total_amount", "buyer_id", "vendor_id",
			"buyer_name", "vendor_name"}).
			AddRow("PO-AB12345", "paid", 5450.5, 1, 2, "John Doe", "Ava Vendor"))

	r := gin.New()
	r.GET("/api/purchase-orders/:id/qr", asUser(&models.User{ID: 9, Role: "vendor"}), GenerateOrderQRCodeJPEG(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/purchase-orders/11/qr", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-party, got %d: %s", w.Code, w.Body.String())
	}
}
