package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"partshub/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGormTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.GalleryImage{}, &models.MeasurementUnit{}, &models.VehicleType{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCreateMeasurementUnit(t *testing.T) {
	gdb := setupGormTestDB(t)
	r := gin.New()
	r.POST("/api/measurement-units", CreateMeasurementUnit(gdb))

	req := httptest.NewRequest(http.MethodPost, "/api/measurement-units", strings.NewReader(`{"name":"  Square   Metre "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	var unit models.MeasurementUnit
	if err := json.Unmarshal(w.Body.Bytes(), &unit); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if unit.Name != "Square Metre" {
		t.Errorf("name = %q, want whitespace collapsed to %q", unit.Name, "Square Metre")
	}
	if !unit.IsActive {
		t.Error("new units default to active")
	}
}

func TestCreateMeasurementUnitRejectsBlankName(t *testing.T) {
	gdb := setupGormTestDB(t)
	r := gin.New()
	r.POST("/api/measurement-units", CreateMeasurementUnit(gdb))

	for _, body := range []string{`{}`, `{"name":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/measurement-units", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400 got %d", body, w.Code)
		}
	}

	var count int64
	gdb.Model(&models.MeasurementUnit{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no rows after rejected creates, got %d", count)
	}
}

func TestGetMeasurementUnitsSortedByName(t *testing.T) {
	gdb := setupGormTestDB(t)
	for _, name := range []string{"Piece", "Kilogram", "Litre"} {
		if err := gdb.Create(&models.MeasurementUnit{Name: name, IsActive: true}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	r := gin.New()
	r.GET("/api/measurement-units", GetMeasurementUnits(gdb))

	req := httptest.NewRequest(http.MethodGet, "/api/measurement-units", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var units []models.MeasurementUnit
	if err := json.Unmarshal(w.Body.Bytes(), &units); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"Kilogram", "Litre", "Piece"}
	if len(units) != len(want) {
		t.Fatalf("got %d units, want %d", len(units), len(want))
	}
	for i, name := range want {
		if units[i].Name != name {
			t.Errorf("units[%d].Name = %q, want %q", i, units[i].Name, name)
		}
	}
}

func TestToggleMeasurementUnit(t *testing.T) {
	gdb := setupGormTestDB(t)
	unit := models.MeasurementUnit{Name: "Kilogram", IsActive: true}
	if err := gdb.Create(&unit).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := gin.New()
	r.PUT("/api/measurement-units/:id/toggle", ToggleMeasurementUnit(gdb))

	req := httptest.NewRequest(http.MethodPut, "/api/measurement-units/1/toggle", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	var stored models.MeasurementUnit
	if err := gdb.First(&stored, unit.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.IsActive {
		t.Error("toggle should have deactivated the unit")
	}

	// Toggling again re-activates.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/measurement-units/1/toggle", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("second toggle: expected 200 got %d", w.Code)
	}
	if err := gdb.First(&stored, unit.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.IsActive {
		t.Error("second toggle should have re-activated the unit")
	}
}

func TestToggleMeasurementUnitNotFound(t *testing.T) {
	gdb := setupGormTestDB(t)
	r := gin.New()
	r.PUT("/api/measurement-units/:id/toggle", ToggleMeasurementUnit(gdb))

	req := httptest.NewRequest(http.MethodPut, "/api/measurement-units/99/toggle", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestUpdateVehicleTypeRename(t *testing.T) {
	gdb := setupGormTestDB(t)
	vt := models.VehicleType{Name: "Hatchback", IsActive: true}
	if err := gdb.Create(&vt).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := gin.New()
	r.PUT("/api/vehicle-types/:id", UpdateVehicleType(gdb))

	req := httptest.NewRequest(http.MethodPut, "/api/vehicle-types/1", strings.NewReader(`{"name":" Sedan "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	var stored models.VehicleType
	if err := gdb.First(&stored, vt.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Name != "Sedan" {
		t.Errorf("name = %q, want Sedan", stored.Name)
	}
}

func TestCreateVehicleTypeInactive(t *testing.T) {
	gdb := setupGormTestDB(t)
	r := gin.New()
	r.POST("/api/vehicle-types", CreateVehicleType(gdb))

	req := httptest.NewRequest(http.MethodPost, "/api/vehicle-types", strings.NewReader(`{"name":"Truck","is_active":false}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	var vt models.VehicleType
	if err := json.Unmarshal(w.Body.Bytes(), &vt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if vt.IsActive {
		t.Error("explicit is_active=false should be honored")
	}
}
