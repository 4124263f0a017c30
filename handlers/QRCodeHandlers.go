package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"strconv"
	"strings"

	"partshub/models"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// addLabel adds text to an image at the specified position
func addLabel(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{0, 0, 0, 255}
	face := inconsolata.Regular8x16

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// addLabelBold adds bold text, used for field labels
func addLabelBold(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{30, 30, 30, 255}
	face := inconsolata.Bold8x16

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

func truncateLabel(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// GenerateOrderQRCodeJPEG renders a scannable shipment label for a purchase
// order: a QR code carrying the order identity over a printed summary block.
// @Summary      Generate order QR label as JPEG
// @Tags         qr
// @Param        id   path      int  true  "Order ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      400  {object}  object
// @Failure      403  {object}  object
// @Failure      404  {object}  object
// @Router       /api/purchase-orders/{id}/qr [get]
func GenerateOrderQRCodeJPEG(db *sql.DB) gin.HandlerFunc {
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

		var orderNumber, status string
		var totalAmount float64
		var buyerID, vendorID int
		var buyerName, vendorName sql.NullString
		err = db.QueryRow(`
			SELECT po.order_number, po.status, po.total_amount, po.buyer_id, po.vendor_id,
			       CONCAT(b.first_name, ' ', b.last_name) AS buyer_name,
			       CONCAT(v.first_name, ' ', v.last_name) AS vendor_name
			FROM purchase_orders po
			LEFT JOIN users b ON po.buyer_id = b.id
			LEFT JOIN users v ON po.vendor_id = v.id
			WHERE po.id = $1
		`, id).Scan(&orderNumber, &status, &totalAmount, &buyerID, &vendorID, &buyerName, &vendorName)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order details"})
			return
		}

		if strings.ToLower(user.Role) != models.RoleAdmin && user.ID != buyerID && user.ID != vendorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this order"})
			return
		}

		qrData := struct {
			ID          int    `json:"id"`
			OrderNumber string `json:"order_number"`
			IsValid     bool   `json:"is_valid"`
		}{
			ID:          id,
			OrderNumber: orderNumber,
			IsValid:     true,
		}

		jsonData, err := json.Marshal(qrData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to marshal order data"})
			return
		}

		qr, err := qrcode.New(string(jsonData), qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}

		qrImg := qr.Image(512)

		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 4*lineHeight + padding
		totalHeight := qrSize + padding + textAreaHeight

		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

		qrRect := image.Rect(0, 0, qrSize, qrSize)
		draw.Draw(combinedImg, qrRect, qrImg, image.Point{}, draw.Src)

		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		addLabelBold(combinedImg, xPos, startY, "Order No:")
		addLabel(combinedImg, xPos+120, startY, orderNumber)

		addLabelBold(combinedImg, xPos, startY+lineHeight, "Buyer:")
		addLabel(combinedImg, xPos+120, startY+lineHeight, truncateLabel(getStringOrEmpty(buyerName), 30))

		addLabelBold(combinedImg, xPos, startY+2*lineHeight, "Vendor:")
		addLabel(combinedImg, xPos+120, startY+2*lineHeight, truncateLabel(getStringOrEmpty(vendorName), 30))

		addLabelBold(combinedImg, xPos, startY+3*lineHeight, "Status:")
		addLabel(combinedImg, xPos+120, startY+3*lineHeight, status)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combinedImg, nil); err != nil {
			c.String(http.StatusInternalServerError, "JPEG encoding failed")
			return
		}

		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
