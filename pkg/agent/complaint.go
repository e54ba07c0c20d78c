package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/store"
)

// ErrOrderNotFound is returned by ComplaintRecorder when the order id does
// not exist.
var ErrOrderNotFound = errors.New("order not found")

// ComplaintRecorder attaches a complaint, and any uploaded file URLs, to an
// existing order. Implemented by the order service.
type ComplaintRecorder interface {
	RecordComplaint(ctx context.Context, orderID, complaintText string, fileURLs []string) error
}

var (
	fileMarkerPattern = regexp.MustCompile(`\[FILE_ATTACHED:\s*([^\]]+)\]`)
	orderIDPattern    = regexp.MustCompile(`order_[A-Za-z0-9]+`)
)

// ComplaintAgent files complaints against orders. The model extracts order
// id and issue text from the conversation; regexes over the raw messages
// back it up so an extraction miss does not lose an id the user typed.
type ComplaintAgent struct {
	llmProvider llm.LLMProvider
	complaints  ComplaintRecorder
	sessions    store.SessionStore
	logger      *log.Logger
}

func NewComplaintAgent(llmProvider llm.LLMProvider, complaints ComplaintRecorder, sessions store.SessionStore, logger *log.Logger) *ComplaintAgent {
	return &ComplaintAgent{
		llmProvider: llmProvider,
		complaints:  complaints,
		sessions:    sessions,
		logger:      logger,
	}
}

func (a *ComplaintAgent) Handle(ctx context.Context, message, sessionID string, history []llm.Message) string {
	fileURLs, cleanMessage := ExtractFileMarkers(message)

	orderID, complaintText := a.extractDetails(ctx, cleanMessage, history)

	if orderID == "" {
		orderID = findOrderID(cleanMessage, history)
	}
	if orderID == "" {
		if session, err := a.sessions.Get(ctx, sessionID); err == nil && session != nil {
			orderID = session.LastOrderID
		}
	}
	if orderID == "" {
		a.logger.Printf("[COMPLAINT_AGENT] No order id found for session %s", sessionID)
		return constant.ComplaintAskOrderID
	}

	if complaintText == "" {
		complaintText = cleanMessage
	}

	if err := a.complaints.RecordComplaint(ctx, orderID, complaintText, fileURLs); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return fmt.Sprintf("I couldn't find an order with ID %s. "+
				"Could you double-check it? It should look like order_xxxxx.", orderID)
		}
		a.logger.Printf("[COMPLAINT_AGENT] Failed to record complaint: %v", err)
		return constant.ComplaintAgentApology
	}

	a.logger.Printf("[COMPLAINT_AGENT] Recorded complaint for order %s (%d attachments)", orderID, len(fileURLs))

	reply := fmt.Sprintf("I'm truly sorry for the trouble with your order %s. "+
		"Your complaint has been registered and our team will review it shortly. "+
		"You'll hear from us soon — thank you for your patience.", orderID)
	if len(fileURLs) > 0 {
		reply += fmt.Sprintf("\n\nI've also attached the %d file(s) you uploaded to the complaint.", len(fileURLs))
	}
	return reply
}

func (a *ComplaintAgent) extractDetails(ctx context.Context, message string, history []llm.Message) (orderID, complaintText string) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.ComplaintExtractionPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	response, err := a.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[COMPLAINT_AGENT] Extraction error: %v", err)
		return "", ""
	}

	raw := firstJSONObject(response)
	if raw == "" {
		return "", ""
	}

	var parsed struct {
		OrderID       string `json:"order_id"`
		ComplaintText string `json:"complaint_text"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", ""
	}
	return strings.TrimSpace(parsed.OrderID), strings.TrimSpace(parsed.ComplaintText)
}

// ExtractFileMarkers pulls every [FILE_ATTACHED: url] marker out of the
// message and returns the URLs plus the message with markers removed.
func ExtractFileMarkers(message string) ([]string, string) {
	matches := fileMarkerPattern.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return nil, message
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.TrimSpace(m[1]))
	}
	clean := strings.TrimSpace(fileMarkerPattern.ReplaceAllString(message, ""))
	return urls, clean
}

func findOrderID(message string, history []llm.Message) string {
	if id := orderIDPattern.FindString(message); id != "" {
		return id
	}
	for i := len(history) - 1; i >= 0; i-- {
		if id := orderIDPattern.FindString(history[i].Content); id != "" {
			return id
		}
	}
	return ""
}
