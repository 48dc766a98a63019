// ABOUTME: Tests for whisper service messages
// ABOUTME: Tests request decoding, gift construction and wire field names
package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vitruviano/whisper-go/internal/gift"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"action":"finalize","message":"Breathe.","mode":"asmr","requestId":"r1"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if req.Action != ActionFinalize || req.Message != "Breathe." || req.Mode != "asmr" || req.RequestID != "r1" {
		t.Errorf("unexpected request: %+v", req)
	}

	if _, err := DecodeRequest([]byte("nope")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestRequestGift(t *testing.T) {
	req := &GenerateRequest{Message: "You are enough.", Occasion: "exam", RecipientName: "Sam"}
	g, err := req.Gift()
	if err != nil {
		t.Fatalf("gift failed: %v", err)
	}
	if g.Mode != gift.ModeConfidence {
		t.Errorf("expected default mode, got %s", g.Mode)
	}
	if g.ID == "" || g.Message != req.Message || g.Occasion != "exam" || g.RecipientName != "Sam" {
		t.Errorf("unexpected gift: %+v", g)
	}

	req.Mode = "opera"
	if _, err := req.Gift(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestResponseWireFormat(t *testing.T) {
	data, err := json.Marshal(GenerateResponse{Success: true, GiftID: "g1", AudioBase64: "AAAA"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"success":true`, `"giftId":"g1"`, `"audioBase64":"AAAA"`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, "error") {
		t.Errorf("expected no error field on success, got %s", s)
	}
}

func TestFailure(t *testing.T) {
	req := &GenerateRequest{RequestID: "r9"}
	resp := req.Failure(errors.New("boom"))
	if resp.Success || resp.Error != "boom" || resp.RequestID != "r9" {
		t.Errorf("unexpected failure response: %+v", resp)
	}
}
