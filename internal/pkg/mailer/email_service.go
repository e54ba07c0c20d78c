package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendComplaintAlert(orderID, complaintText string, fileURLs []string) error
	SendOrderReceipt(toEmail, orderID, productName string) error
}

type emailService struct {
	dialer       *gomail.Dialer
	senderEmail  string
	supportEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail, supportEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:       d,
		senderEmail:  senderEmail,
		supportEmail: supportEmail,
	}
}

// SendComplaintAlert notifies the support inbox that a complaint was filed.
func (s *emailService) SendComplaintAlert(orderID, complaintText string, fileURLs []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.supportEmail)
	m.SetHeader("Subject", fmt.Sprintf("New complaint on order %s", orderID))

	attachments := "none"
	if len(fileURLs) > 0 {
		attachments = strings.Join(fileURLs, "<br>")
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New Customer Complaint</h2>
			<p><strong>Order ID:</strong> %s</p>
			<p><strong>Complaint:</strong></p>
			<p>%s</p>
			<p><strong>Attachments:</strong><br>%s</p>
		</div>
	`, orderID, complaintText, attachments)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send complaint alert for %s: %v\n", orderID, err)
		return err
	}

	fmt.Printf("[MAILER] Complaint alert sent for order %s\n", orderID)
	return nil
}

func (s *emailService) SendOrderReceipt(toEmail, orderID, productName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your SparkMart Order Confirmation")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for shopping with SparkMart!</h2>
			<p>Your order has been placed.</p>
			<p><strong>Order ID:</strong> %s</p>
			<p><strong>Product:</strong> %s</p>
			<p>Keep your Order ID handy for tracking or support.</p>
		</div>
	`, orderID, productName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send receipt to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Receipt sent to %s\n", toEmail)
	return nil
}
