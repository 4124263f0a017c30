package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"partshub/models"

	"github.com/gin-gonic/gin"
)

// asUser injects an authenticated user the way the role gate does.
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

func TestGetGalleryFiltersInactive(t *testing.T) {
	gdb := setupGormTestDB(t)
	images := []models.GalleryImage{
		{VendorID: 1, Title: "Brake pads", ImageURL: "/api/get-file?file=a.jpg", IsActive: true},
		{VendorID: 1, Title: "Old stock", ImageURL: "/api/get-file?file=b.jpg", IsActive: false},
		{VendorID: 2, Title: "Headlights", ImageURL: "/api/get-file?file=c.jpg", IsActive: true},
	}
	for i := range images {
		if err := gdb.Create(&images[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	r := gin.New()
	r.GET("/api/gallery", GetGalleryHandler(gdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var got []models.GalleryImage
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active images, got %d", len(got))
	}
	for _, img := range got {
		if !img.IsActive {
			t.Errorf("inactive image %q leaked into public gallery", img.Title)
		}
	}

	// Vendor filter narrows to one.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery?vendor_id=2", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Headlights" {
		t.Errorf("vendor filter returned %+v, want only Headlights", got)
	}
}

func TestGetMyGalleryIncludesInactive(t *testing.T) {
	gdb := setupGormTestDB(t)
	for _, img := range []models.GalleryImage{
		{VendorID: 5, Title: "Active", ImageURL: "/api/get-file?file=a.jpg", IsActive: true},
		{VendorID: 5, Title: "Hidden", ImageURL: "/api/get-file?file=b.jpg", IsActive: false},
		{VendorID: 9, Title: "Other vendor", ImageURL: "/api/get-file?file=c.jpg", IsActive: true},
	} {
		img := img
		if err := gdb.Create(&img).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	vendor := &models.User{ID: 5, Role: models.RoleVendor}
	r := gin.New()
	r.GET("/api/my/gallery", asUser(vendor), GetMyGalleryHandler(gdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/my/gallery", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var got []models.GalleryImage
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected vendor's 2 images including inactive, got %d", len(got))
	}
}

func TestUpdateGalleryImageOwnership(t *testing.T) {
	gdb := setupGormTestDB(t)
	img := models.GalleryImage{VendorID: 5, Title: "Brake pads", ImageURL: "/api/get-file?file=a.jpg", IsActive: true}
	if err := gdb.Create(&img).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A different vendor cannot edit it.
	other := &models.User{ID: 9, Role: models.RoleVendor}
	r := gin.New()
	r.PUT("/api/gallery/:id", asUser(other), UpdateGalleryImageHandler(gdb))

	req := httptest.NewRequest(http.MethodPut, "/api/gallery/1", strings.NewReader(`{"title":"Stolen"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign vendor, got %d", w.Code)
	}

	// An admin can.
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	r = gin.New()
	r.PUT("/api/gallery/:id", asUser(admin), UpdateGalleryImageHandler(gdb))

	req = httptest.NewRequest(http.MethodPut, "/api/gallery/1", strings.NewReader(`{"is_active":false}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.GalleryImage
	if err := gdb.First(&stored, img.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.IsActive {
		t.Error("admin update should have deactivated the image")
	}
}

func TestDeleteGalleryImageNotFound(t *testing.T) {
	gdb := setupGormTestDB(t)
	vendor := &models.User{ID: 5, Role: models.RoleVendor}
	r := gin.New()
	r.DELETE("/api/gallery/:id", asUser(vendor), DeleteGalleryImageHandler(gdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/gallery/42", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
