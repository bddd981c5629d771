package services

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"payments-module/config"
	"payments-module/db"
	"payments-module/logger"
	"payments-module/models"

	"gopkg.in/gomail.v2"
)

// SendEmailDirect sends email directly via SMTP.
func SendEmailDirect(to, subject, body string, attachment ...string) error {
	logger.Info("Sending email via SMTP - Recipient: %s", to)

	m := gomail.NewMessage()

	from := config.AppConfig.EmailFrom
	if from == "" {
		from = config.AppConfig.SMTPUser
	}
	if from == "" {
		return fmt.Errorf("email sender not configured (set EMAIL_FROM or SMTP_USER)")
	}

	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if len(attachment) > 0 {
		m.Attach(attachment[0])
	}

	port := 587
	if p := config.AppConfig.SMTPPort; p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	smtpUser := config.AppConfig.SMTPUser
	smtpPass := config.AppConfig.SMTPPass
	if smtpUser == "" || smtpPass == "" {
		return fmt.Errorf("smtp credentials not configured (set SMTP_USER and SMTP_PASS)")
	}

	d := gomail.NewDialer(config.AppConfig.SMTPHost, port, smtpUser, smtpPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email successfully sent to: %s", to)
	return nil
}

// sendEnrollmentReceipt emails a receipt PDF after enrollment
// activation. Runs on its own goroutine; any failure is logged only.
func sendEnrollmentReceipt(userID int, enrollment models.Enrollment, orderID string) {
	var name, email string
	err := db.DB.QueryRow("SELECT name, email FROM users WHERE id = $1", userID).Scan(&name, &email)
	if err == sql.ErrNoRows || email == "" {
		return
	}
	if err != nil {
		logger.Warn("Receipt email skipped, user lookup failed: %v", err)
		return
	}

	payment, err := GetPaymentByOrderID(orderID)
	if err != nil {
		logger.Warn("Receipt email skipped, payment lookup failed: %v", err)
		return
	}

	pdfPath, err := GenerateReceiptPDF(payment, enrollment, name)
	if err != nil {
		logger.Warn("Receipt PDF generation failed for order %s: %v", orderID, err)
		return
	}
	defer os.Remove(pdfPath)

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your payment for <b>%s</b> was successful and your enrollment is active.</p><p>Order: %s</p>",
		name, enrollment.CourseSlug, orderID)

	if err := SendEmailDirect(email, "Enrollment confirmed", body, pdfPath); err != nil {
		logger.Warn("Receipt email failed for order %s: %v", orderID, err)
	}
}
