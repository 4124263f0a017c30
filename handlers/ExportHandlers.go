package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportPurchaseOrdersXLSX streams an XLSX workbook of all purchase orders.
// Admin-only, wired behind the admin role gate.
// @Summary      Export purchase orders to Excel
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "XLSX workbook"
// @Router       /api/exports/purchase-orders [get]
func ExportPurchaseOrdersXLSX(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(`
			SELECT po.order_number, po.status, po.total_amount, po.created_at, po.completed_at,
			       CONCAT(b.first_name, ' ', b.last_name) AS buyer_name,
			       CONCAT(v.first_name, ' ', v.last_name) AS vendor_name
			FROM purchase_orders po
			LEFT JOIN users b ON po.buyer_id = b.id
			LEFT JOIN users v ON po.vendor_id = v.id
			ORDER BY po.created_at DESC`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase orders", "details": err.Error()})
			return
		}
		defer rows.Close()

		f := excelize.NewFile()
		sheet := "Purchase Orders"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Order Number", "Buyer", "Vendor", "Status", "Total Amount", "Created", "Completed"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		rowIdx := 2
		for rows.Next() {
			var orderNumber, status string
			var totalAmount float64
			var createdAt time.Time
			var completedAt sql.NullTime
			var buyerName, vendorName sql.NullString

			if err := rows.Scan(&orderNumber, &status, &totalAmount, &createdAt, &completedAt, &buyerName, &vendorName); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning purchase order"})
				return
			}

			values := []interface{}{
				orderNumber,
				getStringOrEmpty(buyerName),
				getStringOrEmpty(vendorName),
				status,
				totalAmount,
				createdAt.Format("2006-01-02 15:04"),
			}
			if completedAt.Valid {
				values = append(values, completedAt.Time.Format("2006-01-02 15:04"))
			} else {
				values = append(values, "")
			}

			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
				f.SetCellValue(sheet, cell, v)
			}
			rowIdx++
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=purchase_orders_%s.xlsx", time.Now().Format("20060102")))
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook"})
			return
		}
	}
}

// ExportQuotationRequestsXLSX streams an XLSX workbook of all quotation
// requests with their quote counts.
// @Summary      Export quotation requests to Excel
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "XLSX workbook"
// @Router       /api/exports/quotation-requests [get]
func ExportQuotationRequestsXLSX(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(`
			SELECT qr.id, CONCAT(u.first_name, ' ', u.last_name) AS buyer_name,
			       qr.vehicle_make, qr.vehicle_model, qr.part_name, qr.status,
			       qr.quotations_received, qr.created_at
			FROM quotation_requests qr
			JOIN users u ON qr.buyer_id = u.id
			ORDER BY qr.created_at DESC`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotation requests", "details": err.Error()})
			return
		}
		defer rows.Close()

		f := excelize.NewFile()
		sheet := "Quotation Requests"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"ID", "Buyer", "Vehicle Make", "Vehicle Model", "Part", "Status", "Quotes Received", "Created"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		rowIdx := 2
		for rows.Next() {
			var id, quotesReceived int
			var buyerName, vehicleMake, vehicleModel, partName, status string
			var createdAt time.Time

			if err := rows.Scan(&id, &buyerName, &vehicleMake, &vehicleModel, &partName, &status, &quotesReceived, &createdAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation request"})
				return
			}

			values := []interface{}{id, buyerName, vehicleMake, vehicleModel, partName, status, quotesReceived, createdAt.Format("2006-01-02 15:04")}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
				f.SetCellValue(sheet, cell, v)
			}
			rowIdx++
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=quotation_requests_%s.xlsx", time.Now().Format("20060102")))
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook"})
			return
		}
	}
}
