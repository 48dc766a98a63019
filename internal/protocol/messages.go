// ABOUTME: Whisper service message type definitions
// ABOUTME: Request and response envelopes shared by the HTTP API and the WebSocket endpoint
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vitruviano/whisper-go/internal/gift"
)

// ActionFinalize asks the service to voice a message
const ActionFinalize = "finalize"

// GenerateRequest is sent by clients to /api/generate or over /ws
type GenerateRequest struct {
	RequestID     string `json:"requestId,omitempty"`
	Action        string `json:"action"`
	Message       string `json:"message"`
	Mode          string `json:"mode,omitempty"`
	Occasion      string `json:"occasion,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`
	Quote         string `json:"quote,omitempty"`
}

// GenerateResponse is the service's answer to a GenerateRequest
type GenerateResponse struct {
	RequestID   string `json:"requestId,omitempty"`
	Success     bool   `json:"success"`
	GiftID      string `json:"giftId,omitempty"`
	AudioBase64 string `json:"audioBase64,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DecodeRequest parses and checks a request envelope
func DecodeRequest(data []byte) (*GenerateRequest, error) {
	var req GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

// Gift builds the gift described by a finalize request
func (r *GenerateRequest) Gift() (*gift.Gift, error) {
	mode, err := gift.ParseMode(r.Mode)
	if err != nil {
		return nil, err
	}

	g := gift.New(r.Message, mode)
	g.Occasion = r.Occasion
	g.RecipientName = r.RecipientName
	g.Quote = r.Quote
	return g, nil
}

// Failure builds an unsuccessful response for this request
func (r *GenerateRequest) Failure(err error) GenerateResponse {
	return GenerateResponse{
		RequestID: r.RequestID,
		Success:   false,
		Error:     err.Error(),
	}
}
