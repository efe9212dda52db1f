package helpers

import (
	"fmt"
	"log"

	"zonelayout-app/config"
	"zonelayout-app/models"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// InsertActivityLog writes one audit row. Failures are logged and swallowed;
// audit delivery never affects the operation that produced the event.
func InsertActivityLog(db *gorm.DB, entry models.ActivityLog) {
	if err := db.Create(&entry).Error; err != nil {
		log.Println("Warning: failed to insert activity log:", err)
	}
}

// SendAlertEmail notifies the configured recipients. Fire-and-forget: errors
// are returned for logging only and must not be propagated to callers.
func SendAlertEmail(subject, detail string) error {
	if config.SMTPHost == "" || len(config.AlertEmails) == 0 {
		return nil
	}

	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>%s</h3>
				<p>%s</p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, subject, detail)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", config.AlertEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Println("Warning: failed to send alert email:", err)
		return err
	}
	return nil
}
