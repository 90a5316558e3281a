// Package assist proxies the browser's AI requests to the generative
// backend so the API key never ships to the client. It covers three
// operations: conversational health guidance, symptom triage, and short
// medication explanations.
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/just-rehan/vitality-companion/internal/errors"
	"github.com/just-rehan/vitality-companion/internal/store"
	"go.uber.org/zap"
)

// Fallback is shown whenever the backend fails; assistant errors never
// reach the view as raw errors.
const Fallback = "I'm sorry, I couldn't process that. Please try again."

const advisorInstruction = `You are a friendly Healthcare AI Assistant named VitalPulse.
Provide helpful, empathetic, and clear health information.
IMPORTANT: You are NOT a doctor. Always include a disclaimer that this is not medical advice.
Be concise. If the user mentions symptoms, provide a structured analysis but stress seeking professional help.`

const triageInstruction = "You are a medical triage assistant. Analyze symptoms and return JSON format. Always state this is non-diagnostic."

const explainInstruction = "Provide a 2-sentence summary of what this medication is for and its main precaution. Keep it simple."

// Service exposes the assistant operations. Each keyed operation carries an
// in-flight guard: a duplicate request while one is pending is rejected
// rather than racing it.
type Service struct {
	client *Client
	store  *store.Store
	logger *zap.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// New creates an assistant service
func New(client *Client, st *store.Store, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		store:    st,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return false
	}
	s.inFlight[key] = true
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

// HealthAdvice forwards the conversation to the backend and returns the
// reply text. Failures come back as the fixed fallback string; the error
// is logged, never surfaced. When conversationID is non-empty the exchange
// is appended to the chat log.
func (s *Service) HealthAdvice(ctx context.Context, conversationID string, history []ChatMessage, input string) string {
	if !s.acquire("chat") {
		return Fallback
	}
	defer s.release("chat")

	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: string(m.Role), Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: string(RoleUser), Parts: []part{{Text: input}}})

	reply, err := s.client.Generate(ctx, generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: advisorInstruction}}},
	})
	if err != nil {
		s.logger.Warn("Health advice request failed", zap.Error(err))
		return Fallback
	}

	if conversationID != "" {
		s.logExchange(conversationID, input, reply)
	}

	return reply
}

func (s *Service) logExchange(conversationID, input, reply string) {
	userMsg := &store.ChatMessage{ConversationID: conversationID, Role: string(RoleUser), Text: input}
	if err := s.store.CreateChatMessage(userMsg); err != nil {
		s.logger.Warn("Failed to log chat message", zap.Error(err))
		return
	}
	modelMsg := &store.ChatMessage{ConversationID: conversationID, Role: string(RoleModel), Text: reply}
	if err := s.store.CreateChatMessage(modelMsg); err != nil {
		s.logger.Warn("Failed to log chat message", zap.Error(err))
	}
}

// AnalyzeSymptoms runs the triage prompt and parses the structured result.
// Any transport or parse failure yields nil.
func (s *Service) AnalyzeSymptoms(ctx context.Context, symptoms string) *SymptomReport {
	if !s.acquire("symptoms") {
		return nil
	}
	defer s.release("symptoms")

	raw, err := s.client.Generate(ctx, generateRequest{
		Contents: []content{
			{Role: string(RoleUser), Parts: []part{{Text: "Analyze these symptoms: " + symptoms}}},
		},
		SystemInstruction: &content{Parts: []part{{Text: triageInstruction}}},
		GenerationConfig:  &generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		s.logger.Warn("Symptom analysis request failed", zap.Error(err))
		return nil
	}

	var report SymptomReport
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &report); err != nil {
		s.logger.Warn("Symptom analysis returned unparseable payload", zap.Error(err))
		return nil
	}
	return &report
}

// ExplainMedication fetches a two-sentence summary for the named
// medication. Unlike HealthAdvice the error is returned: the caller only
// patches the medication's purpose on success.
func (s *Service) ExplainMedication(ctx context.Context, medName string) (string, error) {
	key := "explain:" + medName
	if !s.acquire(key) {
		return "", errors.ErrRequestInFlight
	}
	defer s.release(key)

	reply, err := s.client.Generate(ctx, generateRequest{
		Contents: []content{
			{Role: string(RoleUser), Parts: []part{{Text: fmt.Sprintf("Explain the medication: %s", medName)}}},
		},
		SystemInstruction: &content{Parts: []part{{Text: explainInstruction}}},
	})
	if err != nil {
		s.logger.Warn("Medication explanation failed",
			zap.String("medication", medName),
			zap.Error(err),
		)
		return "", errors.Wrap(err, "AI_001", "assistant backend unavailable")
	}
	return reply, nil
}
