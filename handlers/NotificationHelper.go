package handlers

import (
	"database/sql"
	"log"

	"partshub/services"
)

// Global FCM service - set from main.go
var GlobalFCMService *services.FCMService

// SetFCMService sets the global FCM service
func SetFCMService(fcmService *services.FCMService) {
	GlobalFCMService = fcmService
}

// SendNotificationHelper sends a push notification without each handler
// needing a service reference.
func SendNotificationHelper(db *sql.DB, userID int, title, body string, data map[string]string, action string) {
	SendPushNotification(db, GlobalFCMService, userID, title, body, data, action)
}

// SendNotificationToUsersHelper sends notifications to multiple users
func SendNotificationToUsersHelper(db *sql.DB, userIDs []int, title, body string, data map[string]string) {
	SendPushNotificationToUsers(db, GlobalFCMService, userIDs, title, body, data)
}

// SendNotificationToVendors notifies every active vendor, used when a buyer
// posts a new quotation request.
func SendNotificationToVendors(db *sql.DB, title, body string, data map[string]string) {
	rows, err := db.Query(`SELECT id FROM users WHERE LOWER(role) = 'vendor' AND is_active = TRUE AND suspended = FALSE`)
	if err != nil {
		log.Printf("Error fetching vendors for notification: %v", err)
		return
	}
	defer rows.Close()

	var userIDs []int
	for rows.Next() {
		var userID int
		if err := rows.Scan(&userID); err != nil {
			log.Printf("Error scanning user ID: %v", err)
			continue
		}
		userIDs = append(userIDs, userID)
	}

	if len(userIDs) > 0 {
		SendNotificationToUsersHelper(db, userIDs, title, body, data)
	}
}
