// ABOUTME: HTTP handlers for the whisper service
// ABOUTME: Generation, WAV export and the shared finalize logic
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/internal/protocol"
	"github.com/vitruviano/whisper-go/pkg/audio"
	"github.com/vitruviano/whisper-go/pkg/audio/encode"
	"go.uber.org/zap"
)

// maxRequestBytes caps request bodies and WebSocket frames
const maxRequestBytes = 1 << 20

// errUnknownAction is returned for actions the service does not implement
var errUnknownAction = errors.New("unknown action")

// setCORS applies the API's cross-origin policy
func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleGenerate serves POST /api/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, protocol.GenerateResponse{Error: "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.GenerateResponse{Error: err.Error()})
		return
	}

	req, err := protocol.DecodeRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.GenerateResponse{Error: err.Error()})
		return
	}

	resp, err := s.process(r.Context(), req)
	writeJSON(w, statusFor(err), resp)
}

// statusFor maps a process error to an HTTP status
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errUnknownAction), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errBadRequest marks client errors other than unknown actions
var errBadRequest = errors.New("bad request")

// process runs one request envelope; both transports share it
func (s *Server) process(ctx context.Context, req *protocol.GenerateRequest) (protocol.GenerateResponse, error) {
	if req.Action != protocol.ActionFinalize {
		err := fmt.Errorf("%w: %q", errUnknownAction, req.Action)
		s.logger.Warn("Rejected request", zap.String("action", req.Action))
		return req.Failure(err), err
	}

	g, err := req.Gift()
	if err != nil {
		err = fmt.Errorf("%w: %v", errBadRequest, err)
		return req.Failure(err), err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.SynthTimeout)
	defer cancel()

	payload, err := s.config.Synth.Synthesize(ctx, g.Message, g.Mode)
	if err != nil {
		s.logger.Error("Synthesis failed", zap.String("gift", g.ID), zap.Error(err))
		return req.Failure(err), err
	}

	g.AudioBase64 = payload
	s.store.Put(g)
	s.recordGift(g)

	s.logger.Info("Gift finalized",
		zap.String("gift", g.ID),
		zap.String("mode", string(g.Mode)),
		zap.Int("payload_bytes", len(payload)))

	return protocol.GenerateResponse{
		RequestID:   req.RequestID,
		Success:     true,
		GiftID:      g.ID,
		AudioBase64: payload,
	}, nil
}

// handleExport serves GET /api/gifts/{id}/whisper.wav
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	id := r.PathValue("id")

	g, ok := s.store.Get(id)
	if !ok || !g.HasAudio() {
		http.Error(w, "gift not found", http.StatusNotFound)
		return
	}

	wav, err := encode.EncodeWAV(g.AudioBase64)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, audio.ErrInvalidAudioPayload) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("Export failed", zap.String("gift", id), zap.Error(err))
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", audio.WAVMimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", g.ExportName()))
	w.Header().Set("Content-Length", fmt.Sprint(len(wav)))
	w.WriteHeader(http.StatusOK)
	w.Write(wav)
}

// recordGift notes the latest gift for the dashboard
func (s *Server) recordGift(g *gift.Gift) {
	s.clientsMu.Lock()
	s.lastGift = g.ID
	s.clientsMu.Unlock()
	s.updateTUI()
}
