package handlers

import (
	"database/sql"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"partshub/models"
	"partshub/utils"

	"github.com/gin-gonic/gin"
)

// CreateUser registers a new buyer or vendor account.
// @Summary Register user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body object true "User registration payload"
// @Success 201 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/register [post]
func CreateUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email     string `json:"email" binding:"required,email"`
			Password  string `json:"password" binding:"required,min=6"`
			FirstName string `json:"first_name" binding:"required"`
			LastName  string `json:"last_name"`
			PhoneNo   string `json:"phone_no"`
			Role      string `json:"role" binding:"required"`
			Address   string `json:"address"`
			City      string `json:"city"`
			State     string `json:"state"`
			Country   string `json:"country"`
			ZipCode   string `json:"zip_code"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		role := strings.ToLower(strings.TrimSpace(req.Role))
		if role != models.RoleBuyer && role != models.RoleVendor {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be buyer or vendor"})
			return
		}

		var existingID int
		err := db.QueryRow(`SELECT id FROM users WHERE LOWER(email) = LOWER($1)`, req.Email).Scan(&existingID)
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
			return
		} else if err != sql.ErrNoRows {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		var newID int
		insertQuery := `
			INSERT INTO users (email, password, first_name, last_name, phone_no, role,
			                   is_active, suspended, address, city, state, country, zip_code,
			                   created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING id`
		err = db.QueryRow(insertQuery,
			strings.ToLower(req.Email), hashed, req.FirstName, req.LastName, req.PhoneNo, role,
			req.Address, req.City, req.State, req.Country, req.ZipCode,
		).Scan(&newID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"user": gin.H{
				"id":    newID,
				"email": strings.ToLower(req.Email),
				"role":  role,
			},
		})
	}
}

// GetUser retrieves user information by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/user_fetch/{id} [get]
func GetUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		user, err := getUserByID(db, id)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user: " + err.Error()})
			return
		}

		user.Password = ""
		c.JSON(http.StatusOK, user)
	}
}

func getUserByID(db *sql.DB, id int) (models.User, error) {
	var user models.User
	var firstAccess, lastAccess sql.NullTime
	var profilePicture sql.NullString

	query := `
		SELECT id, email, password, first_name, last_name, phone_no, role,
		       is_active, suspended, profile_picture, address, city, state,
		       country, zip_code, created_at, updated_at, first_access, last_access
		FROM users
		WHERE id = $1`
	err := db.QueryRow(query, id).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName, &user.PhoneNo,
		&user.Role, &user.IsActive, &user.Suspended, &profilePicture, &user.Address, &user.City,
		&user.State, &user.Country, &user.ZipCode, &user.CreatedAt, &user.UpdatedAt, &firstAccess, &lastAccess,
	)
	if err != nil {
		return user, err
	}

	if firstAccess.Valid {
		user.FirstAccess = firstAccess.Time
	}
	if lastAccess.Valid {
		user.LastAccess = lastAccess.Time
	}
	if profilePicture.Valid {
		user.ProfilePic = profilePicture.String
	}

	return user, nil
}

// GetAllUsers lists users with pagination and an optional role filter.
// @Summary List users
// @Tags Users
// @Produce json
// @Param role   query string false "Filter by role (buyer, vendor, admin)"
// @Param page   query int    false "Page"
// @Param limit  query int    false "Limit"
// @Success 200 {object} object
// @Router /api/users [get]
func GetAllUsers(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		offset := (page - 1) * limit

		role := strings.ToLower(strings.TrimSpace(c.Query("role")))

		args := []interface{}{}
		where := ""
		if role != "" {
			where = " WHERE LOWER(role) = $1"
			args = append(args, role)
		}

		var totalRecords int
		if err := db.QueryRow(`SELECT COUNT(*) FROM users`+where, args...).Scan(&totalRecords); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting users"})
			return
		}

		query := `
			SELECT id, email, first_name, last_name, phone_no, role, is_active, suspended,
			       city, state, country, created_at
			FROM users` + where + `
			ORDER BY created_at DESC
			LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, limit, offset)

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying users", "details": err.Error()})
			return
		}
		defer rows.Close()

		var users []gin.H
		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNo, &u.Role,
				&u.IsActive, &u.Suspended, &u.City, &u.State, &u.Country, &u.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning users"})
				return
			}
			users = append(users, gin.H{
				"id":         u.ID,
				"email":      u.Email,
				"first_name": u.FirstName,
				"last_name":  u.LastName,
				"phone_no":   u.PhoneNo,
				"role":       u.Role,
				"is_active":  u.IsActive,
				"suspended":  u.Suspended,
				"city":       u.City,
				"state":      u.State,
				"country":    u.Country,
				"created_at": u.CreatedAt,
			})
		}

		totalPages := int(math.Ceil(float64(totalRecords) / float64(limit)))
		c.JSON(http.StatusOK, gin.H{
			"users": users,
			"pagination": gin.H{
				"current_page":  page,
				"page_size":     limit,
				"total_records": totalRecords,
				"total_pages":   totalPages,
				"has_next":      page < totalPages,
				"has_prev":      page > 1,
			},
		})
	}
}

// UpdateUser updates a user's profile fields.
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/update_user/{id} [put]
func UpdateUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var req struct {
			FirstName  *string `json:"first_name"`
			LastName   *string `json:"last_name"`
			PhoneNo    *string `json:"phone_no"`
			ProfilePic *string `json:"profile_picture"`
			Address    *string `json:"address"`
			City       *string `json:"city"`
			State      *string `json:"state"`
			Country    *string `json:"country"`
			ZipCode    *string `json:"zip_code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		current, err := getUserByID(db, id)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
			return
		}

		pick := func(p *string, fallback string) string {
			if p != nil {
				return *p
			}
			return fallback
		}

		_, err = db.Exec(`
			UPDATE users
			SET first_name = $1, last_name = $2, phone_no = $3, profile_picture = $4,
			    address = $5, city = $6, state = $7, country = $8, zip_code = $9,
			    updated_at = NOW()
			WHERE id = $10`,
			pick(req.FirstName, current.FirstName), pick(req.LastName, current.LastName),
			pick(req.PhoneNo, current.PhoneNo), pick(req.ProfilePic, current.ProfilePic),
			pick(req.Address, current.Address), pick(req.City, current.City),
			pick(req.State, current.State), pick(req.Country, current.Country),
			pick(req.ZipCode, current.ZipCode), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user_id": id})
	}
}

// SuspendUser godoc
// @Summary      Suspend or unsuspend user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "User ID"
// @Param        body  body  object  true  "suspended (bool)"
// @Success      200  {object}  object
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Failure      403  {object}  object
// @Router       /api/users/{id}/suspend [put]
func SuspendUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if strings.ToLower(caller.Role) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can suspend users"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var req struct {
			Suspended bool `json:"suspended"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		u, err := getUserByID(db, id)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user: " + err.Error()})
			return
		}

		if u.Suspended == req.Suspended {
			c.JSON(http.StatusOK, gin.H{"message": "User is already in requested suspension state"})
			return
		}

		_, err = db.Exec(`UPDATE users SET suspended = $1, updated_at = NOW() WHERE id = $2`, req.Suspended, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user: " + err.Error()})
			return
		}

		// Suspension also logs the user out everywhere.
		if req.Suspended {
			if _, err := db.Exec(`DELETE FROM session WHERE user_id = $1`, id); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sessions", "details": err.Error()})
				return
			}
		}

		logEntry := models.ActivityLog{
			EventContext: "User",
			EventName:    "SUSPEND",
			Description:  "Set user " + u.FirstName + " suspension to " + strconv.FormatBool(req.Suspended),
			UserName:     strings.TrimSpace(caller.FirstName + " " + caller.LastName),
			HostName:     caller.Email,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now(),
		}
		if logErr := SaveActivityLog(db, logEntry); logErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log activity"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "User suspension status updated",
			"suspended":     req.Suspended,
			"user_id":       id,
			"affected_user": u.FirstName + " " + u.LastName,
		})
	}
}
