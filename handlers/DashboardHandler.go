package handlers

import (
	"database/sql"
	"net/http"

	"partshub/utils"

	"github.com/gin-gonic/gin"
)

// GetAdminDashboard godoc
// @Summary      Marketplace-wide counts and revenue for the admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  object
// @Failure      500  {object}  models.ErrorResponse
// @Router       /api/dashboard/admin [get]
func GetAdminDashboard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetFastQueryContext(c.Request.Context())
		defer cancel()

		var totalUsers, buyers, vendors, suspended int
		err := db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE LOWER(role) = 'buyer') AS buyers,
				COUNT(*) FILTER (WHERE LOWER(role) = 'vendor') AS vendors,
				COUNT(*) FILTER (WHERE suspended = true) AS suspended
			FROM users`).Scan(&totalUsers, &buyers, &vendors, &suspended)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user counts"})
			return
		}

		var totalRequests, pendingRequests, quotedRequests, completedRequests, cancelledRequests int
		err = db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status = 'pending') AS pending,
				COUNT(*) FILTER (WHERE status = 'received_quotes') AS quoted,
				COUNT(*) FILTER (WHERE status = 'completed') AS completed,
				COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
			FROM quotation_requests`).
			Scan(&totalRequests, &pendingRequests, &quotedRequests, &completedRequests, &cancelledRequests)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch request counts"})
			return
		}

		var totalQuotations, submittedQuotations, acceptedQuotations, rejectedQuotations int
		err = db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status = 'submitted') AS submitted,
				COUNT(*) FILTER (WHERE status = 'accepted') AS accepted,
				COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
			FROM quotations`).
			Scan(&totalQuotations, &submittedQuotations, &acceptedQuotations, &rejectedQuotations)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotation counts"})
			return
		}

		var totalOrders, pendingOrders, paidOrders, deliveredOrders, completedOrders, cancelledOrders int
		var completedRevenue float64
		err = db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status = 'pending') AS pending,
				COUNT(*) FILTER (WHERE status = 'paid') AS paid,
				COUNT(*) FILTER (WHERE status = 'delivered') AS delivered,
				COUNT(*) FILTER (WHERE status = 'completed') AS completed,
				COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
				COALESCE(SUM(total_amount) FILTER (WHERE status IN ('delivered', 'completed')), 0) AS revenue
			FROM purchase_orders`).
			Scan(&totalOrders, &pendingOrders, &paidOrders, &deliveredOrders, &completedOrders, &cancelledOrders, &completedRevenue)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order counts"})
			return
		}

		var galleryImages int
		err = db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM gallery_images WHERE is_active = true`).Scan(&galleryImages)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gallery count"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users": gin.H{
				"total":     totalUsers,
				"buyers":    buyers,
				"vendors":   vendors,
				"suspended": suspended,
			},
			"quotation_requests": gin.H{
				"total":           totalRequests,
				"pending":         pendingRequests,
				"received_quotes": quotedRequests,
				"completed":       completedRequests,
				"cancelled":       cancelledRequests,
			},
			"quotations": gin.H{
				"total":     totalQuotations,
				"submitted": submittedQuotations,
				"accepted":  acceptedQuotations,
				"rejected":  rejectedQuotations,
			},
			"purchase_orders": gin.H{
				"total":     totalOrders,
				"pending":   pendingOrders,
				"paid":      paidOrders,
				"delivered": deliveredOrders,
				"completed": completedOrders,
				"cancelled": cancelledOrders,
			},
			"gallery_images":    galleryImages,
			"completed_revenue": completedRevenue,
		})
	}
}

// GetBuyerDashboard godoc
// @Summary      Counts scoped to the logged-in buyer
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/dashboard/buyer [get]
func GetBuyerDashboard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx, cancel := utils.GetFastQueryContext(c.Request.Context())
		defer cancel()

		var openRequests, quotedRequests, cancelledRequests int
		err := db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status = 'pending') AS open,
				COUNT(*) FILTER (WHERE status = 'received_quotes') AS quoted,
				COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
			FROM quotation_requests
			WHERE buyer_id = $1`, user.ID).Scan(&openRequests, &quotedRequests, &cancelledRequests)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch request counts"})
			return
		}

		var activeOrders, completedOrders int
		var totalSpent float64
		err = db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status IN ('pending', 'paid')) AS active,
				COUNT(*) FILTER (WHERE status IN ('delivered', 'completed')) AS completed,
				COALESCE(SUM(total_amount) FILTER (WHERE status IN ('delivered', 'completed')), 0) AS spent
			FROM purchase_orders
			WHERE buyer_id = $1`, user.ID).Scan(&activeOrders, &completedOrders, &totalSpent)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order counts"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"open_requests":      openRequests,
			"quoted_requests":    quotedRequests,
			"cancelled_requests": cancelledRequests,
			"active_orders":      activeOrders,
			"completed_orders":   completedOrders,
			"total_spent":        totalSpent,
		})
	}
}

// GetVendorDashboard godoc
// @Summary      Counts scoped to the logged-in vendor
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/dashboard/vendor [get]
func GetVendorDashboard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx, cancel := utils.GetFastQueryContext(c.Request.Context())
		defer cancel()

		var submittedQuotations, acceptedQuotations, rejectedQuotations int
		err := db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status = 'submitted') AS submitted,
				COUNT(*) FILTER (WHERE status = 'accepted') AS accepted,
				COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
			FROM quotations
			WHERE vendor_id = $1`, user.ID).
			Scan(&submittedQuotations, &acceptedQuotations, &rejectedQuotations)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotation counts"})
			return
		}

		var activeOrders, completedOrders int
		var totalEarned float64
		err = db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status IN ('pending', 'paid')) AS active,
				COUNT(*) FILTER (WHERE status IN ('delivered', 'completed')) AS completed,
				COALESCE(SUM(total_amount) FILTER (WHERE status IN ('delivered', 'completed')), 0) AS earned
			FROM purchase_orders
			WHERE vendor_id = $1`, user.ID).Scan(&activeOrders, &completedOrders, &totalEarned)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order counts"})
			return
		}

		var openRequests int
		err = db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM quotation_requests WHERE status IN ('pending', 'received_quotes')`).
			Scan(&openRequests)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch open request count"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"open_requests":        openRequests,
			"submitted_quotations": submittedQuotations,
			"accepted_quotations":  acceptedQuotations,
			"rejected_quotations":  rejectedQuotations,
			"active_orders":        activeOrders,
			"completed_orders":     completedOrders,
			"total_earned":         totalEarned,
		})
	}
}
