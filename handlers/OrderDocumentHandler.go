package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"partshub/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GeneratePurchaseOrderPDF renders the purchase order as a downloadable PDF.
// @Summary      Generate purchase order PDF
// @Tags         PurchaseOrders
// @Produce      application/pdf
// @Param        id   path      int  true  "Order ID"
// @Success      200  {file}    file  "PDF document"
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/purchase-orders/{id}/document [get]
func GeneratePurchaseOrderPDF(db *sql.DB) gin.HandlerFunc {
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

		var order models.PurchaseOrder
		var deliveryCharge sql.NullFloat64
		var buyerName, buyerEmail, buyerAddress, buyerCity sql.NullString
		var vendorName, vendorEmail sql.NullString

		err = db.QueryRow(`
			SELECT po.id, po.order_number, po.buyer_id, po.vendor_id, po.quotation_id,
			       po.total_amount, po.delivery_charge, po.status, po.created_at,
			       CONCAT(b.first_name, ' ', b.last_name), b.email, b.address, b.city,
			       CONCAT(v.first_name, ' ', v.last_name), v.email
			FROM purchase_orders po
			LEFT JOIN users b ON po.buyer_id = b.id
			LEFT JOIN users v ON po.vendor_id = v.id
			WHERE po.id = $1`, id).
			Scan(&order.ID, &order.OrderNumber, &order.BuyerID, &order.VendorID, &order.QuotationID,
				&order.TotalAmount, &deliveryCharge, &order.Status, &order.CreatedAt,
				&buyerName, &buyerEmail, &buyerAddress, &buyerCity,
				&vendorName, &vendorEmail)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if deliveryCharge.Valid {
			v := deliveryCharge.Float64
			order.DeliveryCharge = &v
		}

		if strings.ToLower(user.Role) != models.RoleAdmin && user.ID != order.BuyerID && user.ID != order.VendorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this order"})
			return
		}

		products, err := loadQuotationProducts(db, order.QuotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order lines"})
			return
		}

		titleCaser := cases.Title(language.Und)
		amount := message.NewPrinter(language.English)

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetMargins(10, 10, 10)
		pdf.SetFont("Arial", "", 10)

		pdf.SetFont("Arial", "B", 18)
		pdf.Cell(190, 10, "PURCHASE ORDER")
		pdf.Ln(12)

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(95, 8, "Buyer")
		pdf.Cell(95, 8, "Vendor")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(90, 6, fmt.Sprintf("%s\n%s\n%s\n%s",
			getStringOrEmpty(buyerName), getStringOrEmpty(buyerEmail),
			getStringOrEmpty(buyerAddress), getStringOrEmpty(buyerCity)), "", "", false)
		pdf.SetXY(110, 38)
		pdf.MultiCell(90, 6, fmt.Sprintf("%s\n%s",
			getStringOrEmpty(vendorName), getStringOrEmpty(vendorEmail)), "", "", false)
		pdf.Ln(10)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(95, 6, fmt.Sprintf("Order No: %s", order.OrderNumber))
		pdf.Cell(95, 6, fmt.Sprintf("Status: %s", titleCaser.String(order.Status)))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(95, 6, fmt.Sprintf("Order Date: %s", order.CreatedAt.Format("02-Jan-2006")))
		pdf.Ln(10)

		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(85, 8, "Part", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 8, "Unit Price", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 8, "Line Total", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		var linesTotal float64
		for _, p := range products {
			linesTotal += p.TotalPrice
			pdf.CellFormat(85, 8, p.PartName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 8, amount.Sprintf("%.2f", p.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 8, amount.Sprintf("%.2f", p.UnitPrice), "1", 0, "C", false, 0, "")
			pdf.CellFormat(45, 8, amount.Sprintf("%.2f", p.TotalPrice), "1", 1, "R", false, 0, "")
		}

		pdf.Ln(5)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(145, 8, "Subtotal")
		pdf.CellFormat(45, 8, amount.Sprintf("%.2f", linesTotal), "1", 1, "R", false, 0, "")
		pdf.Cell(145, 8, "Delivery Charge")
		if order.DeliveryCharge != nil {
			pdf.CellFormat(45, 8, amount.Sprintf("%.2f", *order.DeliveryCharge), "1", 1, "R", false, 0, "")
		} else {
			pdf.CellFormat(45, 8, "-", "1", 1, "R", false, 0, "")
		}
		pdf.Cell(145, 8, "Total Amount")
		grandTotal := order.TotalAmount
		if order.DeliveryCharge != nil {
			grandTotal += *order.DeliveryCharge
		}
		pdf.CellFormat(45, 8, amount.Sprintf("%.2f", grandTotal), "1", 1, "R", false, 0, "")

		pdf.SetY(-20)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(190, 6, "This is a computer-generated purchase order. No signature required.")
		pdf.Ln(5)
		pdf.Cell(190, 6, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"))

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", order.OrderNumber))
		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}
	}
}
