package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"partshub/models"
	"partshub/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func gateRouter(db *sql.DB, role string) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", RequireRole(db, role), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func sessionUserRow(role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "phone_no", "role",
		"is_active", "suspended", "profile_picture", "address", "city", "state", "country",
		"zip_code", "created_at", "updated_at", "first_access", "last_access"}).
		AddRow(2, role+"@example.com", "Ava", "Vendor", "9876543210", role, true, false,
			"", "", "", "", "", "", now, now, nil, nil)
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	r := gateRouter(nil, models.RoleBuyer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestRequireRoleWrongRoleForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	token, err := utils.GenerateJWT("vendor@example.com", "vendor")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	mock.ExpectQuery("FROM session s").WithArgs(token).WillReturnRows(sessionUserRow("vendor"))

	r := gateRouter(db, models.RoleBuyer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("vendor hitting a buyer gate: expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireRoleAdminPassesEveryGate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	token, err := utils.GenerateJWT("admin@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	mock.ExpectQuery("FROM session s").WithArgs(token).WillReturnRows(sessionUserRow("admin"))

	r := gateRouter(db, models.RoleBuyer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("admin on a buyer gate: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireRoleExpiredSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	token, err := utils.GenerateJWT("buyer@example.com", "buyer")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	mock.ExpectQuery("FROM session s").WithArgs(token).WillReturnError(sql.ErrNoRows)

	r := gateRouter(db, models.RoleBuyer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token without a live session: expected 401, got %d: %s", w.Code, w.Body.String())
	}
}
