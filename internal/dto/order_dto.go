package dto

import "time"

type OrderResponse struct {
	OrderId           string    `json:"order_id"`
	ProductName       string    `json:"product_name"`
	UserId            int       `json:"user_id"`
	IsComplaint       bool      `json:"is_complaint"`
	ComplaintText     string    `json:"complaint_text,omitempty"`
	ComplaintFileUrls []string  `json:"complaint_file_urls,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type PaymentLinkResponse struct {
	OrderId     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	Token       string `json:"token"`
}

// PublishComplaintMessage is the payload carried on the complaint worker
// topic.
type PublishComplaintMessage struct {
	OrderId       string   `json:"order_id"`
	ComplaintText string   `json:"complaint_text"`
	FileUrls      []string `json:"file_urls"`
}
