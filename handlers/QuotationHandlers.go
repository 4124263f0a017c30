package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"partshub/models"
	"partshub/services"

	"github.com/gin-gonic/gin"
)

// SubmitQuotationHandler lets a vendor quote an open request. Line totals
// and the quotation total are recomputed server-side.
// @Summary Submit quotation
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body models.QuotationInput true "Quotation"
// @Success 201 {object} models.Quotation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations [post]
func SubmitQuotationHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var input models.QuotationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		if input.DeliveryCharge != nil && *input.DeliveryCharge < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery charge cannot be negative"})
			return
		}

		var buyerID int
		var requestStatus, partName string
		err := db.QueryRow(`SELECT buyer_id, status, part_name FROM quotation_requests WHERE id = $1`, input.QuotationRequestID).
			Scan(&buyerID, &requestStatus, &partName)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
			return
		}

		if requestStatus != models.RequestStatusPending && requestStatus != models.RequestStatusReceivedQuotes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request is no longer open for quotations"})
			return
		}

		quotation := models.Quotation{
			QuotationRequestID: input.QuotationRequestID,
			VendorID:           vendor.ID,
			DeliveryCharge:     input.DeliveryCharge,
			Notes:              strings.TrimSpace(input.Notes),
			Status:             models.QuotationStatusSubmitted,
		}
		for _, p := range input.Products {
			quotation.Products = append(quotation.Products, models.QuotationProduct{
				PartName:  strings.TrimSpace(p.PartName),
				Quantity:  p.Quantity,
				UnitPrice: p.UnitPrice,
			})
		}
		quotation.ComputeTotals()

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		err = tx.QueryRow(`
			INSERT INTO quotations
				(quotation_request_id, vendor_id, total_amount, delivery_charge, notes, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			quotation.QuotationRequestID, quotation.VendorID, quotation.TotalAmount,
			quotation.DeliveryCharge, quotation.Notes, quotation.Status,
		).Scan(&quotation.ID, &quotation.CreatedAt, &quotation.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quotation", "details": err.Error()})
			return
		}

		for i := range quotation.Products {
			p := &quotation.Products[i]
			p.QuotationID = quotation.ID
			err = tx.QueryRow(`
				INSERT INTO quotation_products (quotation_id, part_name, quantity, unit_price, total_price)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				p.QuotationID, p.PartName, p.Quantity, p.UnitPrice, p.TotalPrice,
			).Scan(&p.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quotation line", "details": err.Error()})
				return
			}
		}

		// First quotation flips the request out of pending. The counter is
		// bumped inside the same transaction so the two never drift.
		_, err = tx.Exec(`
			UPDATE quotation_requests
			SET quotations_received = quotations_received + 1,
			    status = CASE WHEN status = $1 THEN $2 ELSE status END,
			    updated_at = NOW()
			WHERE id = $3`,
			models.RequestStatusPending, models.RequestStatusReceivedQuotes, quotation.QuotationRequestID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request", "details": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		quotation.VendorName = strings.TrimSpace(vendor.FirstName + " " + vendor.LastName)
		quotation.VendorEmail = vendor.Email

		logEntry := models.ActivityLog{
			EventContext: "Quotation",
			EventName:    "Post",
			Description:  "Submitted quotation for request #" + strconv.Itoa(input.QuotationRequestID),
			UserName:     quotation.VendorName,
			HostName:     vendor.Email,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now(),
		}
		if logErr := SaveActivityLog(db, logEntry); logErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log activity", "details": logErr.Error()})
			return
		}

		go SendNotificationHelper(db, buyerID,
			"New quotation received",
			quotation.VendorName+" quoted your request for "+partName,
			map[string]string{"action": "/buyer/requests/" + strconv.Itoa(input.QuotationRequestID)},
			"/buyer/requests/"+strconv.Itoa(input.QuotationRequestID))

		go func(buyerID int, vendorName, partName string, total float64) {
			buyer, err := getUserByID(db, buyerID)
			if err != nil {
				return
			}
			emailService := services.NewEmailService(db)
			if mailErr := emailService.SendQuotationReceivedEmail(buyer, vendorName, partName,
				strconv.FormatFloat(total, 'f', 2, 64)); mailErr != nil {
				log.Printf("Failed to send quotation email to %s: %v", buyer.Email, mailErr)
			}
		}(buyerID, quotation.VendorName, partName, quotation.TotalAmount)

		c.JSON(http.StatusCreated, quotation)
	}
}

func loadQuotationProducts(db *sql.DB, quotationID int) ([]models.QuotationProduct, error) {
	rows, err := db.Query(`
		SELECT id, quotation_id, part_name, quantity, unit_price, total_price
		FROM quotation_products
		WHERE quotation_id = $1
		ORDER BY id`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.QuotationProduct{}
	for rows.Next() {
		var p models.QuotationProduct
		if err := rows.Scan(&p.ID, &p.QuotationID, &p.PartName, &p.Quantity, &p.UnitPrice, &p.TotalPrice); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// GetQuotationsByRequestHandler lists quotations for a request, including a
// display-ready delivery charge for each.
// @Summary List quotations for a request
// @Tags Quotations
// @Produce json
// @Param id path int true "Quotation request ID"
// @Success 200 {array} object
// @Failure 400 {object} models.ErrorResponse
// @Router /api/quotation-requests/{id}/quotations [get]
func GetQuotationsByRequestHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		if idParam == "" {
			idParam = c.Query("request_id")
		}
		requestID, err := strconv.Atoi(idParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation request ID"})
			return
		}

		rows, err := db.Query(`
			SELECT q.id, q.quotation_request_id, q.vendor_id,
			       CONCAT(u.first_name, ' ', u.last_name) AS vendor_name, u.email,
			       q.total_amount, q.delivery_charge, q.notes, q.status, q.created_at, q.updated_at
			FROM quotations q
			JOIN users u ON q.vendor_id = u.id
			WHERE q.quotation_request_id = $1
			ORDER BY q.created_at ASC`, requestID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotations", "details": err.Error()})
			return
		}
		defer rows.Close()

		quotations := []gin.H{}
		for rows.Next() {
			var q models.Quotation
			var deliveryCharge sql.NullFloat64
			var notes sql.NullString
			if err := rows.Scan(&q.ID, &q.QuotationRequestID, &q.VendorID, &q.VendorName, &q.VendorEmail,
				&q.TotalAmount, &deliveryCharge, &notes, &q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation"})
				return
			}
			if deliveryCharge.Valid {
				v := deliveryCharge.Float64
				q.DeliveryCharge = &v
			}
			q.Notes = getStringOrEmpty(notes)

			products, err := loadQuotationProducts(db, q.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading quotation products"})
				return
			}
			q.Products = products

			quotations = append(quotations, gin.H{
				"id":                      q.ID,
				"quotation_request_id":    q.QuotationRequestID,
				"vendor_id":               q.VendorID,
				"vendor_name":             q.VendorName,
				"vendor_email":            q.VendorEmail,
				"products":                q.Products,
				"total_amount":            q.TotalAmount,
				"delivery_charge":         q.DeliveryCharge,
				"delivery_charge_display": q.DeliveryChargeDisplay(),
				"notes":                   q.Notes,
				"status":                  q.Status,
				"created_at":              q.CreatedAt,
				"updated_at":              q.UpdatedAt,
			})
		}

		c.JSON(http.StatusOK, quotations)
	}
}

// GetMyQuotationsHandler lists the authenticated vendor's quotations.
// @Summary List my quotations
// @Tags Quotations
// @Produce json
// @Success 200 {array} models.Quotation
// @Failure 401 {object} models.ErrorResponse
// @Router /api/my/quotations [get]
func GetMyQuotationsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		rows, err := db.Query(`
			SELECT q.id, q.quotation_request_id, q.vendor_id, q.total_amount,
			       q.delivery_charge, q.notes, q.status, q.created_at, q.updated_at
			FROM quotations q
			WHERE q.vendor_id = $1
			ORDER BY q.created_at DESC`, vendor.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotations"})
			return
		}
		defer rows.Close()

		quotations := []models.Quotation{}
		for rows.Next() {
			var q models.Quotation
			var deliveryCharge sql.NullFloat64
			var notes sql.NullString
			if err := rows.Scan(&q.ID, &q.QuotationRequestID, &q.VendorID, &q.TotalAmount,
				&deliveryCharge, &notes, &q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation"})
				return
			}
			if deliveryCharge.Valid {
				v := deliveryCharge.Float64
				q.DeliveryCharge = &v
			}
			q.Notes = getStringOrEmpty(notes)

			products, err := loadQuotationProducts(db, q.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading quotation products"})
				return
			}
			q.Products = products
			quotations = append(quotations, q)
		}

		c.JSON(http.StatusOK, quotations)
	}
}

// CreateDeliveryMessageHandler records a vendor's delivery-cost note on a
// quotation. A parsable "Delivery Cost: N" figure is extracted and stored.
// @Summary Add delivery message
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path int true "Quotation ID"
// @Param body body object true "message"
// @Success 201 {object} models.DeliveryMessage
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/quotations/{id}/delivery-messages [post]
func CreateDeliveryMessageHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		quotationID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
			return
		}

		var req struct {
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		var quotationVendorID int
		err = db.QueryRow(`SELECT vendor_id FROM quotations WHERE id = $1`, quotationID).Scan(&quotationVendorID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if quotationVendorID != vendor.ID && strings.ToLower(vendor.Role) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only message on your own quotations"})
			return
		}

		msg := models.DeliveryMessage{
			QuotationID: quotationID,
			VendorID:    vendor.ID,
			Message:     strings.TrimSpace(req.Message),
		}
		if extracted := models.ExtractDeliveryCost(msg.Message); extracted != "-" {
			if cost, err := strconv.ParseFloat(extracted, 64); err == nil {
				msg.Cost = &cost
			}
		}

		err = db.QueryRow(`
			INSERT INTO delivery_messages (quotation_id, vendor_id, message, cost, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, created_at`,
			msg.QuotationID, msg.VendorID, msg.Message, msg.Cost,
		).Scan(&msg.ID, &msg.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save delivery message", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, msg)
	}
}

// GetDeliveryMessagesHandler lists delivery messages for a quotation.
// @Summary List delivery messages
// @Tags Quotations
// @Produce json
// @Param id path int true "Quotation ID"
// @Success 200 {array} models.DeliveryMessage
// @Router /api/quotations/{id}/delivery-messages [get]
func GetDeliveryMessagesHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quotationID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
			return
		}

		rows, err := db.Query(`
			SELECT id, quotation_id, vendor_id, message, cost, created_at
			FROM delivery_messages
			WHERE quotation_id = $1
			ORDER BY created_at ASC`, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch delivery messages"})
			return
		}
		defer rows.Close()

		messages := []models.DeliveryMessage{}
		for rows.Next() {
			var m models.DeliveryMessage
			var cost sql.NullFloat64
			if err := rows.Scan(&m.ID, &m.QuotationID, &m.VendorID, &m.Message, &cost, &m.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning delivery message"})
				return
			}
			if cost.Valid {
				v := cost.Float64
				m.Cost = &v
			}
			messages = append(messages, m)
		}

		c.JSON(http.StatusOK, messages)
	}
}
