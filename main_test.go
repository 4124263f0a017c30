package main

import (
	"testing"

	"partshub/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestExpireStaleRequestsTargetsOnlyPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE quotation_requests").
		WithArgs(models.RequestStatusCancelled, models.RequestStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := expireStaleRequests(db); err != nil {
		t.Fatalf("expireStaleRequests: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("requests with received quotes must be left alone: %v", err)
	}
}

func TestAutoCompleteDeliveredOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE purchase_orders").
		WithArgs(models.OrderStatusCompleted, models.OrderStatusDelivered).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := autoCompleteDeliveredOrders(db); err != nil {
		t.Fatalf("autoCompleteDeliveredOrders: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected statement shape: %v", err)
	}
}
