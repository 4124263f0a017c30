// @title           PartsHub API
// @version         1.0
// @description     PartsHub Backend API - automotive parts marketplace endpoints.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	_ "partshub/docs"
	"partshub/handlers"
	"partshub/models"
	"partshub/services"
	"partshub/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://partshub.example.com",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-XSRF-TOKEN",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

var cronRunning int32

func safeGo(
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	fn func(context.Context) error,
	cronLogger *log.Logger,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				if cronLogger != nil {
					cronLogger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				}
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("%s failed: %v", name, err)
			if cronLogger != nil {
				cronLogger.Printf("%s failed: %v", name, err)
			}
		} else {
			log.Printf("%s completed successfully", name)
			if cronLogger != nil {
				cronLogger.Printf("%s completed successfully", name)
			}
		}
	}()
}

// autoCompleteDeliveredOrders closes out orders that sat in delivered for 30
// days without a dispute.
func autoCompleteDeliveredOrders(db *sql.DB) error {
	result, err := db.Exec(`
		UPDATE purchase_orders
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND completed_at < NOW() - INTERVAL '30 days'`,
		models.OrderStatusCompleted, models.OrderStatusDelivered)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		log.Printf("Auto-completed %d delivered orders", n)
	}
	return nil
}

// expireStaleRequests cancels quotation requests that sat in pending for 90
// days without a single quotation. Requests that already received quotes are
// left alone so live quotations are never discarded.
func expireStaleRequests(db *sql.DB) error {
	result, err := db.Exec(`
		UPDATE quotation_requests
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < NOW() - INTERVAL '90 days'`,
		models.RequestStatusCancelled, models.RequestStatusPending)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		log.Printf("Expired %d stale quotation requests", n)
	}
	return nil
}

func main() {
	db := storage.InitDB()
	gdb := storage.InitGormDB()

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Firebase Cloud Messaging via the HTTP v1 API. Push is optional, the
	// server runs without it.
	credentialsPath := os.Getenv("FCM_CREDENTIALS_PATH")
	if credentialsPath == "" {
		credentialsPath = "firebase-credentials.json"
	}
	fcmService, err := services.NewFCMService(credentialsPath, db)
	if err != nil {
		log.Printf("Warning: Failed to initialize FCM service: %v. Push notifications will be disabled.", err)
		fcmService = nil
	} else {
		log.Println("FCM service initialized successfully")
	}
	handlers.SetFCMService(fcmService)

	frontendBaseURL := os.Getenv("FRONTEND_BASE_URL")
	if frontendBaseURL == "" {
		frontendBaseURL = "http://localhost:3000"
	}

	// Daily maintenance at 02:30.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)

	cronLogFile, err := os.OpenFile("cron_errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open cron error log file: %v", err)
	}
	cronLogger := log.New(cronLogFile, "CRON_ERROR: ", log.LstdFlags)

	_, err = c.AddFunc("30 2 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			if cronLogger != nil {
				cronLogger.Println("Previous cron still running. Skipping this run.")
			}
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting daily maintenance cron job")

		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Minute)
		defer cancel()

		var wg sync.WaitGroup

		safeGo(ctx, &wg, "CleanupExpiredSessions", func(ctx context.Context) error {
			return storage.CleanupExpiredSessions(db)
		}, cronLogger)

		safeGo(ctx, &wg, "AutoCompleteDeliveredOrders", func(ctx context.Context) error {
			return autoCompleteDeliveredOrders(db)
		}, cronLogger)

		safeGo(ctx, &wg, "ExpireStaleRequests", func(ctx context.Context) error {
			return expireStaleRequests(db)
		}, cronLogger)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("All cron jobs finished")
		case <-ctx.Done():
			log.Println("Cron timeout reached, jobs cancelled")
			if cronLogger != nil {
				cronLogger.Println("Cron timeout reached, jobs cancelled")
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}

	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & LOGIN ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.GET("/api/session/:user_id", handlers.GetSessionHandler(db))
	r.DELETE("/api/session/:user_id", handlers.DeleteSessionHandler(db))
	r.GET("/api/active-devices", handlers.GetActiveDevicesHandler(db))
	r.POST("/api/logout-device", handlers.LogoutDeviceHandler(db))
	r.POST("/api/auth/forgot-password", handlers.ForgetPasswordHandler(db, frontendBaseURL+"/reset-password/"))
	r.POST("/api/auth/reset-password/:token", handlers.ResetPasswordHandler(db))
	r.POST("/api/change_password", handlers.ChangePasswordHandler(db))

	// ==================== 2. USERS ====================
	r.POST("/api/register", handlers.CreateUser(db))
	r.GET("/api/user_fetch/:id", handlers.RequireAuth(db), handlers.GetUser(db))
	r.PUT("/api/update_user/:id", handlers.RequireAuth(db), handlers.UpdateUser(db))
	r.GET("/api/users", handlers.RequireRole(db, models.RoleAdmin), handlers.GetAllUsers(db))
	r.PUT("/api/users/:id/suspend", handlers.RequireRole(db, models.RoleAdmin), handlers.SuspendUser(db))

	// ==================== 3. QUOTATION REQUESTS ====================
	r.POST("/api/quotation-requests", handlers.RequireRole(db, models.RoleBuyer), handlers.CreateQuotationRequestHandler(db))
	r.GET("/api/quotation-requests", handlers.RequireRole(db, models.RoleVendor), handlers.GetQuotationRequestsHandler(db))
	r.GET("/api/quotation-requests/:id", handlers.RequireAuth(db), handlers.GetQuotationRequestHandler(db))
	r.GET("/api/my/quotation-requests", handlers.RequireRole(db, models.RoleBuyer), handlers.GetMyQuotationRequestsHandler(db))
	r.PUT("/api/quotation-requests/:id/cancel", handlers.RequireRole(db, models.RoleBuyer), handlers.CancelQuotationRequestHandler(db))

	// ==================== 4. QUOTATIONS ====================
	r.POST("/api/quotations", handlers.RequireRole(db, models.RoleVendor), handlers.SubmitQuotationHandler(db))
	r.GET("/api/quotation-requests/:id/quotations", handlers.RequireRole(db, models.RoleBuyer), handlers.GetQuotationsByRequestHandler(db))
	r.GET("/api/my/quotations", handlers.RequireRole(db, models.RoleVendor), handlers.GetMyQuotationsHandler(db))
	r.POST("/api/quotations/:id/delivery-messages", handlers.RequireRole(db, models.RoleVendor), handlers.CreateDeliveryMessageHandler(db))
	r.GET("/api/quotations/:id/delivery-messages", handlers.RequireAuth(db), handlers.GetDeliveryMessagesHandler(db))

	// ==================== 5. PURCHASE ORDERS ====================
	r.POST("/api/quotations/:id/accept", handlers.RequireRole(db, models.RoleBuyer), handlers.AcceptQuotationHandler(db))
	r.GET("/api/purchase-orders", handlers.RequireAuth(db), handlers.GetPurchaseOrdersHandler(db))
	r.GET("/api/purchase-orders/:id", handlers.RequireAuth(db), handlers.GetPurchaseOrderHandler(db))
	r.PUT("/api/purchase-orders/:id/status", handlers.RequireAuth(db), handlers.UpdateOrderStatusHandler(db))
	r.POST("/api/purchase-orders/:id/payment-slip", handlers.RequireRole(db, models.RoleBuyer), handlers.UploadPaymentSlipHandler(db))
	r.GET("/api/completed-orders", handlers.RequireAuth(db), handlers.GetCompletedOrdersHandler(db))
	r.GET("/api/purchase-orders/:id/document", handlers.RequireAuth(db), handlers.GeneratePurchaseOrderPDF(db))
	r.GET("/api/purchase-orders/:id/qr", handlers.RequireAuth(db), handlers.GenerateOrderQRCodeJPEG(db))

	// ==================== 6. GALLERY ====================
	r.POST("/api/gallery", handlers.RequireRole(db, models.RoleVendor), handlers.UploadGalleryImageHandler(gdb))
	r.GET("/api/gallery", handlers.GetGalleryHandler(gdb))
	r.GET("/api/my/gallery", handlers.RequireRole(db, models.RoleVendor), handlers.GetMyGalleryHandler(gdb))
	r.PUT("/api/gallery/:id", handlers.RequireRole(db, models.RoleVendor), handlers.UpdateGalleryImageHandler(gdb))
	r.DELETE("/api/gallery/:id", handlers.RequireRole(db, models.RoleVendor), handlers.DeleteGalleryImageHandler(gdb))

	// ==================== 7. REFERENCE DATA ====================
	r.GET("/api/measurement-units", handlers.GetMeasurementUnits(gdb))
	r.POST("/api/measurement-units", handlers.RequireRole(db, models.RoleAdmin), handlers.CreateMeasurementUnit(gdb))
	r.PUT("/api/measurement-units/:id", handlers.RequireRole(db, models.RoleAdmin), handlers.UpdateMeasurementUnit(gdb))
	r.PUT("/api/measurement-units/:id/toggle", handlers.RequireRole(db, models.RoleAdmin), handlers.ToggleMeasurementUnit(gdb))
	r.GET("/api/vehicle-types", handlers.GetVehicleTypes(gdb))
	r.POST("/api/vehicle-types", handlers.RequireRole(db, models.RoleAdmin), handlers.CreateVehicleType(gdb))
	r.PUT("/api/vehicle-types/:id", handlers.RequireRole(db, models.RoleAdmin), handlers.UpdateVehicleType(gdb))
	r.PUT("/api/vehicle-types/:id/toggle", handlers.RequireRole(db, models.RoleAdmin), handlers.ToggleVehicleType(gdb))

	// ==================== 8. FILE UPLOAD ====================
	r.POST("/api/upload", handlers.RequireAuth(db), handlers.UploadFile)
	r.GET("/api/get-file", handlers.ServeFile)

	// ==================== 9. NOTIFICATIONS ====================
	r.POST("/api/notifications", handlers.RequireRole(db, models.RoleAdmin), handlers.CreateNotificationHandler(db))
	r.GET("/api/notifications", handlers.GetMyNotificationsHandler(db))
	r.PUT("/api/notifications/:id/read", handlers.MarkNotificationAsReadHandler(db))
	r.PUT("/api/notifications/read-all", handlers.MarkAllNotificationsAsReadHandler(db))
	r.DELETE("/api/notifications/:id", handlers.DeleteNotificationHandler(db))
	r.POST("/api/fcm/register-token", handlers.RegisterFCMTokenHandler(db, fcmService))
	r.DELETE("/api/fcm/remove-token", handlers.RemoveFCMTokenHandler(db, fcmService))

	// ==================== 10. EMAIL TEMPLATES ====================
	r.POST("/api/email-templates", handlers.RequireRole(db, models.RoleAdmin), handlers.CreateEmailTemplate(db))
	r.GET("/api/email-templates", handlers.RequireRole(db, models.RoleAdmin), handlers.GetEmailTemplates(db))
	r.GET("/api/email-templates/variables", handlers.RequireRole(db, models.RoleAdmin), handlers.GetEmailTemplateVariables(db))
	r.GET("/api/email-templates/:id/preview", handlers.RequireRole(db, models.RoleAdmin), handlers.PreviewEmailTemplate(db))
	r.DELETE("/api/email-templates/:id", handlers.RequireRole(db, models.RoleAdmin), handlers.DeleteEmailTemplate(db))

	// ==================== 11. DASHBOARD ====================
	r.GET("/api/dashboard/admin", handlers.RequireRole(db, models.RoleAdmin), handlers.GetAdminDashboard(db))
	r.GET("/api/dashboard/buyer", handlers.RequireRole(db, models.RoleBuyer), handlers.GetBuyerDashboard(db))
	r.GET("/api/dashboard/vendor", handlers.RequireRole(db, models.RoleVendor), handlers.GetVendorDashboard(db))

	// ==================== 12. EXPORT (EXCEL) ====================
	r.GET("/api/exports/purchase-orders", handlers.RequireRole(db, models.RoleAdmin), handlers.ExportPurchaseOrdersXLSX(db))
	r.GET("/api/exports/quotation-requests", handlers.RequireRole(db, models.RoleAdmin), handlers.ExportQuotationRequestsXLSX(db))

	// ==================== 13. ACTIVITY LOGS ====================
	r.GET("/api/logs", handlers.RequireRole(db, models.RoleAdmin), handlers.GetActivityLogsHandler(db))
	r.GET("/api/log/search", handlers.RequireRole(db, models.RoleAdmin), handlers.SearchActivityLogsHandler(db))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
