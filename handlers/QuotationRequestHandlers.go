package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"partshub/models"

	"github.com/gin-gonic/gin"
)

// CreateQuotationRequestHandler posts a new part request on behalf of the
// authenticated buyer. All active vendors are notified.
// @Summary Create quotation request
// @Tags QuotationRequests
// @Accept json
// @Produce json
// @Param request body models.QuotationRequestInput true "Quotation request"
// @Success 201 {object} models.QuotationRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/quotation-requests [post]
func CreateQuotationRequestHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var input models.QuotationRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		req := models.QuotationRequest{
			BuyerID:       buyer.ID,
			VehicleMake:   strings.TrimSpace(input.VehicleMake),
			VehicleModel:  strings.TrimSpace(input.VehicleModel),
			VehicleYear:   strings.TrimSpace(input.VehicleYear),
			VehicleTypeID: input.VehicleTypeID,
			PartName:      strings.TrimSpace(input.PartName),
			PartNumber:    strings.TrimSpace(input.PartNumber),
			Description:   strings.TrimSpace(input.Description),
			ImageURL:      input.ImageURL,
			Status:        models.RequestStatusPending,
		}

		query := `
			INSERT INTO quotation_requests
				(buyer_id, vehicle_make, vehicle_model, vehicle_year, vehicle_type_id,
				 part_name, part_number, description, image_url, status,
				 quotations_received, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, NOW(), NOW())
			RETURNING id, created_at, updated_at`
		var vehicleTypeID interface{}
		if req.VehicleTypeID != 0 {
			vehicleTypeID = req.VehicleTypeID
		}
		err := db.QueryRow(query,
			req.BuyerID, req.VehicleMake, req.VehicleModel, req.VehicleYear, vehicleTypeID,
			req.PartName, req.PartNumber, req.Description, req.ImageURL, req.Status,
		).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quotation request", "details": err.Error()})
			return
		}

		logEntry := models.ActivityLog{
			EventContext: "QuotationRequest",
			EventName:    "Post",
			Description:  "Created quotation request for " + req.PartName,
			UserName:     strings.TrimSpace(buyer.FirstName + " " + buyer.LastName),
			HostName:     buyer.Email,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now(),
		}
		if logErr := SaveActivityLog(db, logEntry); logErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log activity", "details": logErr.Error()})
			return
		}

		go SendNotificationToVendors(db,
			"New part request",
			"A buyer is looking for "+req.PartName+" ("+req.VehicleMake+" "+req.VehicleModel+")",
			map[string]string{"action": "/vendor/requests/" + strconv.Itoa(req.ID)},
		)

		c.JSON(http.StatusCreated, req)
	}
}

func scanQuotationRequest(rows *sql.Rows) (models.QuotationRequest, error) {
	var r models.QuotationRequest
	var vehicleYear, partNumber, description, imageURL, buyerName sql.NullString
	var vehicleTypeID sql.NullInt64

	err := rows.Scan(
		&r.ID, &r.BuyerID, &buyerName, &r.VehicleMake, &r.VehicleModel, &vehicleYear,
		&vehicleTypeID, &r.PartName, &partNumber, &description, &imageURL,
		&r.Status, &r.QuotationsReceived, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	r.BuyerName = getStringOrEmpty(buyerName)
	r.VehicleYear = getStringOrEmpty(vehicleYear)
	r.PartNumber = getStringOrEmpty(partNumber)
	r.Description = getStringOrEmpty(description)
	r.ImageURL = getStringOrEmpty(imageURL)
	if vehicleTypeID.Valid {
		r.VehicleTypeID = int(vehicleTypeID.Int64)
	}
	return r, nil
}

const quotationRequestColumns = `
	qr.id, qr.buyer_id, CONCAT(u.first_name, ' ', u.last_name) AS buyer_name,
	qr.vehicle_make, qr.vehicle_model, qr.vehicle_year, qr.vehicle_type_id,
	qr.part_name, qr.part_number, qr.description, qr.image_url,
	qr.status, qr.quotations_received, qr.created_at, qr.updated_at`

// GetQuotationRequestsHandler lists open requests for the vendor feed. An
// optional free-text q parameter filters across all text fields.
// @Summary List open quotation requests
// @Tags QuotationRequests
// @Produce json
// @Param q query string false "Free-text filter"
// @Success 200 {array} models.QuotationRequest
// @Router /api/quotation-requests [get]
func GetQuotationRequestsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))

		query := `
			SELECT ` + quotationRequestColumns + `
			FROM quotation_requests qr
			JOIN users u ON qr.buyer_id = u.id
			WHERE qr.status IN ($1, $2)
			ORDER BY qr.created_at DESC`

		rows, err := db.Query(query, models.RequestStatusPending, models.RequestStatusReceivedQuotes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotation requests", "details": err.Error()})
			return
		}
		defer rows.Close()

		requests := []models.QuotationRequest{}
		for rows.Next() {
			r, err := scanQuotationRequest(rows)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation request"})
				return
			}
			if r.MatchesQuery(q) {
				requests = append(requests, r)
			}
		}

		c.JSON(http.StatusOK, requests)
	}
}

// GetQuotationRequestHandler fetches a single request by ID.
// @Summary Get quotation request
// @Tags QuotationRequests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.QuotationRequest
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotation-requests/{id} [get]
func GetQuotationRequestHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
			return
		}

		query := `
			SELECT ` + quotationRequestColumns + `
			FROM quotation_requests qr
			JOIN users u ON qr.buyer_id = u.id
			WHERE qr.id = $1`

		rows, err := db.Query(query, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotation request"})
			return
		}
		defer rows.Close()

		if !rows.Next() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quotation request not found"})
			return
		}

		r, err := scanQuotationRequest(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation request"})
			return
		}

		c.JSON(http.StatusOK, r)
	}
}

// GetMyQuotationRequestsHandler lists the authenticated buyer's own requests.
// @Summary List my quotation requests
// @Tags QuotationRequests
// @Produce json
// @Success 200 {array} models.QuotationRequest
// @Failure 401 {object} models.ErrorResponse
// @Router /api/my/quotation-requests [get]
func GetMyQuotationRequestsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		query := `
			SELECT ` + quotationRequestColumns + `
			FROM quotation_requests qr
			JOIN users u ON qr.buyer_id = u.id
			WHERE qr.buyer_id = $1
			ORDER BY qr.created_at DESC`

		rows, err := db.Query(query, buyer.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotation requests"})
			return
		}
		defer rows.Close()

		requests := []models.QuotationRequest{}
		for rows.Next() {
			r, err := scanQuotationRequest(rows)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation request"})
				return
			}
			requests = append(requests, r)
		}

		c.JSON(http.StatusOK, requests)
	}
}

// CancelQuotationRequestHandler cancels a request the buyer owns. Requests
// with an accepted quotation cannot be cancelled here; the purchase order
// carries its own cancellation flow.
// @Summary Cancel quotation request
// @Tags QuotationRequests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotation-requests/{id}/cancel [put]
func CancelQuotationRequestHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
			return
		}

		var ownerID int
		var status string
		err = db.QueryRow(`SELECT buyer_id, status FROM quotation_requests WHERE id = $1`, id).Scan(&ownerID, &status)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
			return
		}

		if ownerID != buyer.ID && strings.ToLower(buyer.Role) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own requests"})
			return
		}

		if !models.CanCancelRequest(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request cannot be cancelled in status " + status})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`UPDATE quotation_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
			models.RequestStatusCancelled, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel request", "details": err.Error()})
			return
		}

		// Open quotations on a cancelled request are rejected.
		if _, err := tx.Exec(`UPDATE quotations SET status = $1, updated_at = NOW() WHERE quotation_request_id = $2 AND status = $3`,
			models.QuotationStatusRejected, id, models.QuotationStatusSubmitted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject open quotations", "details": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quotation request cancelled", "request_id": id})
	}
}
