package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"partshub/models"
	"partshub/repository"
	"partshub/services"

	"github.com/gin-gonic/gin"
)

// AcceptQuotationHandler turns an accepted quotation into a purchase order.
// The operation is transactional and idempotent: accepting a quotation that
// already has an order returns the existing order instead of creating a
// duplicate.
// @Summary Accept quotation
// @Tags PurchaseOrders
// @Produce json
// @Param id path int true "Quotation ID"
// @Success 200 {object} models.PurchaseOrder "Order already existed"
// @Success 201 {object} models.PurchaseOrder
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id}/accept [post]
func AcceptQuotationHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		quotationID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		var quotation models.Quotation
		var deliveryCharge sql.NullFloat64
		err = tx.QueryRow(`
			SELECT id, quotation_request_id, vendor_id, total_amount, delivery_charge, status
			FROM quotations
			WHERE id = $1
			FOR UPDATE`, quotationID).
			Scan(&quotation.ID, &quotation.QuotationRequestID, &quotation.VendorID,
				&quotation.TotalAmount, &deliveryCharge, &quotation.Status)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
			return
		}
		if deliveryCharge.Valid {
			v := deliveryCharge.Float64
			quotation.DeliveryCharge = &v
		}

		var requestBuyerID int
		var requestStatus string
		err = tx.QueryRow(`SELECT buyer_id, status FROM quotation_requests WHERE id = $1 FOR UPDATE`,
			quotation.QuotationRequestID).Scan(&requestBuyerID, &requestStatus)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load quotation request", "details": err.Error()})
			return
		}

		if requestBuyerID != buyer.ID && strings.ToLower(buyer.Role) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only accept quotations on your own requests"})
			return
		}

		// Idempotency: an order already created for this quotation is the
		// answer, regardless of how many times accept is called.
		var existing models.PurchaseOrder
		err = tx.QueryRow(`
			SELECT id, order_number, buyer_id, vendor_id, quotation_id, quotation_request_id,
			       total_amount, status, created_at, updated_at
			FROM purchase_orders
			WHERE quotation_id = $1`, quotationID).
			Scan(&existing.ID, &existing.OrderNumber, &existing.BuyerID, &existing.VendorID,
				&existing.QuotationID, &existing.QuotationRequestID, &existing.TotalAmount,
				&existing.Status, &existing.CreatedAt, &existing.UpdatedAt)
		if err == nil {
			if commitErr := tx.Commit(); commitErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"message": "Quotation already accepted",
				"order":   existing,
			})
			return
		} else if err != sql.ErrNoRows {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
			return
		}

		if quotation.Status != models.QuotationStatusSubmitted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quotation is not open for acceptance"})
			return
		}
		if requestStatus == models.RequestStatusCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request has been cancelled"})
			return
		}

		order := models.PurchaseOrder{
			OrderNumber:        repository.GenerateOrderNumber(),
			BuyerID:            requestBuyerID,
			VendorID:           quotation.VendorID,
			QuotationID:        quotation.ID,
			QuotationRequestID: quotation.QuotationRequestID,
			TotalAmount:        quotation.TotalAmount,
			DeliveryCharge:     quotation.DeliveryCharge,
			Status:             models.OrderStatusPending,
		}

		err = tx.QueryRow(`
			INSERT INTO purchase_orders
				(order_number, buyer_id, vendor_id, quotation_id, quotation_request_id,
				 total_amount, delivery_charge, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			order.OrderNumber, order.BuyerID, order.VendorID, order.QuotationID,
			order.QuotationRequestID, order.TotalAmount, order.DeliveryCharge, order.Status,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order", "details": err.Error()})
			return
		}

		if _, err := tx.Exec(`UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2`,
			models.QuotationStatusAccepted, quotation.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept quotation", "details": err.Error()})
			return
		}

		if _, err := tx.Exec(`
			UPDATE quotations SET status = $1, updated_at = NOW()
			WHERE quotation_request_id = $2 AND id <> $3 AND status = $4`,
			models.QuotationStatusRejected, quotation.QuotationRequestID, quotation.ID,
			models.QuotationStatusSubmitted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject other quotations", "details": err.Error()})
			return
		}

		if _, err := tx.Exec(`UPDATE quotation_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
			models.RequestStatusCompleted, quotation.QuotationRequestID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request", "details": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		products, err := loadQuotationProducts(db, quotation.ID)
		if err == nil {
			order.Products = products
		}

		logEntry := models.ActivityLog{
			EventContext: "PurchaseOrder",
			EventName:    "Post",
			Description:  "Accepted quotation #" + strconv.Itoa(quotation.ID) + ", created order " + order.OrderNumber,
			UserName:     strings.TrimSpace(buyer.FirstName + " " + buyer.LastName),
			HostName:     buyer.Email,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now(),
		}
		if logErr := SaveActivityLog(db, logEntry); logErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log activity", "details": logErr.Error()})
			return
		}

		go SendNotificationHelper(db, order.VendorID,
			"Quotation accepted",
			"Your quotation was accepted. Order "+order.OrderNumber+" has been created.",
			map[string]string{"action": "/vendor/orders/" + strconv.Itoa(order.ID)},
			"/vendor/orders/"+strconv.Itoa(order.ID))

		c.JSON(http.StatusCreated, gin.H{
			"message": "Quotation accepted",
			"order":   order,
		})
	}
}

func scanPurchaseOrder(rows *sql.Rows) (models.PurchaseOrder, error) {
	var o models.PurchaseOrder
	var deliveryCharge sql.NullFloat64
	var paymentSlip sql.NullString
	var completedAt sql.NullTime

	err := rows.Scan(&o.ID, &o.OrderNumber, &o.BuyerID, &o.VendorID, &o.QuotationID,
		&o.QuotationRequestID, &o.TotalAmount, &deliveryCharge, &o.Status,
		&paymentSlip, &o.CreatedAt, &o.UpdatedAt, &completedAt)
	if err != nil {
		return o, err
	}

	if deliveryCharge.Valid {
		v := deliveryCharge.Float64
		o.DeliveryCharge = &v
	}
	o.PaymentSlipURL = getStringOrEmpty(paymentSlip)
	if completedAt.Valid {
		t := completedAt.Time
		o.CompletedAt = &t
	}
	return o, nil
}

const purchaseOrderColumns = `
	id, order_number, buyer_id, vendor_id, quotation_id, quotation_request_id,
	total_amount, delivery_charge, status, payment_slip_url, created_at, updated_at, completed_at`

// GetPurchaseOrdersHandler lists orders visible to the authenticated user:
// buyers see orders they placed, vendors see orders placed with them, and
// admins see everything.
// @Summary List purchase orders
// @Tags PurchaseOrders
// @Produce json
// @Success 200 {array} models.PurchaseOrder
// @Failure 401 {object} models.ErrorResponse
// @Router /api/purchase-orders [get]
func GetPurchaseOrdersHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders`
		args := []interface{}{}
		switch strings.ToLower(user.Role) {
		case models.RoleBuyer:
			query += ` WHERE buyer_id = $1`
			args = append(args, user.ID)
		case models.RoleVendor:
			query += ` WHERE vendor_id = $1`
			args = append(args, user.ID)
		}
		query += ` ORDER BY created_at DESC`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase orders", "details": err.Error()})
			return
		}
		defer rows.Close()

		orders := []models.PurchaseOrder{}
		for rows.Next() {
			o, err := scanPurchaseOrder(rows)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning purchase order"})
				return
			}
			orders = append(orders, o)
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GetPurchaseOrderHandler fetches one order with its product lines. Only the
// order's buyer, its vendor, or an admin may read it.
// @Summary Get purchase order
// @Tags PurchaseOrders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.PurchaseOrder
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/purchase-orders/{id} [get]
func GetPurchaseOrderHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		rows, err := db.Query(`SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase order"})
			return
		}
		defer rows.Close()

		if !rows.Next() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
			return
		}

		o, err := scanPurchaseOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning purchase order"})
			return
		}
		rows.Close()

		if strings.ToLower(user.Role) != models.RoleAdmin && user.ID != o.BuyerID && user.ID != o.VendorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this order"})
			return
		}

		products, err := loadQuotationProducts(db, o.QuotationID)
		if err == nil {
			o.Products = products
		}

		c.JSON(http.StatusOK, o)
	}
}

// UpdateOrderStatusHandler moves an order through its lifecycle. Transitions
// outside the allowed set are rejected with 400.
// @Summary Update order status
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param body body object true "status"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/purchase-orders/{id}/status [put]
func UpdateOrderStatusHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
			return
		}

		newStatus := strings.ToLower(strings.TrimSpace(req.Status))
		if !models.ValidOrderStatus(newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status: " + req.Status})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		var buyerID, vendorID int
		var currentStatus, orderNumber string
		err = tx.QueryRow(`SELECT buyer_id, vendor_id, status, order_number FROM purchase_orders WHERE id = $1 FOR UPDATE`, id).
			Scan(&buyerID, &vendorID, &currentStatus, &orderNumber)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
			return
		}

		role := strings.ToLower(user.Role)
		if role != models.RoleAdmin && user.ID != buyerID && user.ID != vendorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this order"})
			return
		}

		if err := models.ValidateOrderTransition(currentStatus, newStatus); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if newStatus == models.OrderStatusDelivered || newStatus == models.OrderStatusCompleted {
			_, err = tx.Exec(`
				UPDATE purchase_orders
				SET status = $1, completed_at = COALESCE(completed_at, NOW()), updated_at = NOW()
				WHERE id = $2`, newStatus, id)
		} else {
			_, err = tx.Exec(`UPDATE purchase_orders SET status = $1, updated_at = NOW() WHERE id = $2`, newStatus, id)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status", "details": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		logEntry := models.ActivityLog{
			EventContext: "PurchaseOrder",
			EventName:    "Update",
			Description:  "Order " + orderNumber + " moved from " + currentStatus + " to " + newStatus,
			UserName:     strings.TrimSpace(user.FirstName + " " + user.LastName),
			HostName:     user.Email,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now(),
		}
		if logErr := SaveActivityLog(db, logEntry); logErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log activity", "details": logErr.Error()})
			return
		}

		// The other party gets notified of the change.
		notifyID := buyerID
		if user.ID == buyerID {
			notifyID = vendorID
		}
		go SendNotificationHelper(db, notifyID,
			"Order status updated",
			"Order "+orderNumber+" is now "+newStatus,
			map[string]string{"action": "/orders/" + strconv.Itoa(id)},
			"/orders/"+strconv.Itoa(id))

		go func(notifyID int, orderNumber, newStatus string) {
			recipient, err := getUserByID(db, notifyID)
			if err != nil {
				return
			}
			emailService := services.NewEmailService(db)
			if mailErr := emailService.SendOrderStatusEmail(recipient, orderNumber, newStatus); mailErr != nil {
				log.Printf("Failed to send order status email to %s: %v", recipient.Email, mailErr)
			}
		}(notifyID, orderNumber, newStatus)

		c.JSON(http.StatusOK, gin.H{
			"message":      "Order status updated",
			"order_id":     id,
			"order_number": orderNumber,
			"from":         currentStatus,
			"to":           newStatus,
		})
	}
}

// UploadPaymentSlipHandler stores the buyer's payment slip for an order and
// moves a pending order to paid.
// @Summary Upload payment slip
// @Tags PurchaseOrders
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Order ID"
// @Param file formData file true "Payment slip"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/purchase-orders/{id}/payment-slip [post]
func UploadPaymentSlipHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var buyerID int
		var status string
		err = db.QueryRow(`SELECT buyer_id, status FROM purchase_orders WHERE id = $1`, id).Scan(&buyerID, &status)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if buyerID != buyer.ID && strings.ToLower(buyer.Role) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the buyer can upload a payment slip"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment slip file is required"})
			return
		}

		storedName, err := UploadFileToDirectory(fileHeader, uploadDir(), 20<<20)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store payment slip", "details": err.Error()})
			return
		}

		slipURL := "/api/get-file?file=" + storedName

		if status == models.OrderStatusPending {
			_, err = db.Exec(`UPDATE purchase_orders SET payment_slip_url = $1, status = $2, updated_at = NOW() WHERE id = $3`,
				slipURL, models.OrderStatusPaid, id)
		} else {
			_, err = db.Exec(`UPDATE purchase_orders SET payment_slip_url = $1, updated_at = NOW() WHERE id = $2`,
				slipURL, id)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment slip", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":          "Payment slip uploaded",
			"order_id":         id,
			"payment_slip_url": slipURL,
		})
	}
}

// GetCompletedOrdersHandler returns the buyer's completed-orders view:
// delivered and completed orders, most recently completed first.
// @Summary List completed orders
// @Tags PurchaseOrders
// @Produce json
// @Success 200 {array} models.PurchaseOrder
// @Failure 401 {object} models.ErrorResponse
// @Router /api/completed-orders [get]
func GetCompletedOrdersHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		query := `
			SELECT ` + purchaseOrderColumns + `
			FROM purchase_orders
			WHERE status IN ($1, $2)`
		args := []interface{}{models.OrderStatusDelivered, models.OrderStatusCompleted}

		switch strings.ToLower(user.Role) {
		case models.RoleBuyer:
			query += ` AND buyer_id = $3`
			args = append(args, user.ID)
		case models.RoleVendor:
			query += ` AND vendor_id = $3`
			args = append(args, user.ID)
		}
		query += ` ORDER BY completed_at DESC NULLS LAST, updated_at DESC`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch completed orders", "details": err.Error()})
			return
		}
		defer rows.Close()

		orders := []models.PurchaseOrder{}
		for rows.Next() {
			o, err := scanPurchaseOrder(rows)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning purchase order"})
				return
			}
			orders = append(orders, o)
		}

		c.JSON(http.StatusOK, orders)
	}
}
