package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/just-rehan/vitality-companion/internal/assist"
	"github.com/just-rehan/vitality-companion/internal/errors"
	"github.com/just-rehan/vitality-companion/internal/session"
	"github.com/just-rehan/vitality-companion/internal/sos"
	"github.com/just-rehan/vitality-companion/internal/store"
	"github.com/just-rehan/vitality-companion/internal/tracker"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   "0.1.0",
		"timestamp": time.Now().Unix(),
	})
}

// ==================== Auth ====================

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	user, token, err := s.auth.Login(req.Email, req.DisplayName)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidEmail) {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid email address"})
		}
		s.logger.Error("Login failed", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "login failed"})
	}

	return c.JSON(fiber.Map{"user": user, "token": token})
}

func (s *Server) handleCurrentUser(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	user, err := s.auth.CurrentUser(token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(user)
}

// ==================== Medications ====================

func (s *Server) handleListMedications(c *fiber.Ctx) error {
	return c.JSON(s.tracker.Medications())
}

func (s *Server) handleAddMedication(c *fiber.Ctx) error {
	var req struct {
		Name   string `json:"name"`
		Dosage string `json:"dosage"`
		Time   string `json:"time"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	med, err := s.tracker.AddMedication(req.Name, req.Dosage, req.Time)
	if err != nil {
		return s.trackerError(c, err)
	}

	s.session.ShowToast("Medication added")
	return c.Status(201).JSON(med)
}

func (s *Server) handleRemoveMedication(c *fiber.Ctx) error {
	if err := s.tracker.RemoveMedication(c.Params("id")); err != nil {
		return s.trackerError(c, err)
	}
	return c.SendStatus(204)
}

func (s *Server) handleUpdateMedication(c *fiber.Ctx) error {
	var patch tracker.MedicationPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	med, err := s.tracker.UpdateMedication(c.Params("id"), patch)
	if err != nil {
		return s.trackerError(c, err)
	}
	return c.JSON(med)
}

func (s *Server) handleExplainMedication(c *fiber.Ctx) error {
	id := c.Params("id")

	var med *tracker.Medication
	for _, m := range s.tracker.Medications() {
		if m.ID == id {
			med = &m
			break
		}
	}
	if med == nil {
		return c.Status(404).JSON(fiber.Map{"error": "medication not found"})
	}

	explanation, err := s.assist.ExplainMedication(c.Context(), med.Name)
	if err != nil {
		if stderrors.Is(err, errors.ErrRequestInFlight) {
			s.metrics.AIRequests.WithLabelValues("explain", "rejected").Inc()
			return c.Status(409).JSON(fiber.Map{"error": "explanation already in progress"})
		}
		s.metrics.AIRequests.WithLabelValues("explain", "error").Inc()
		return c.Status(502).JSON(fiber.Map{"error": assist.Fallback})
	}
	s.metrics.AIRequests.WithLabelValues("explain", "ok").Inc()

	updated, err := s.tracker.UpdateMedication(id, tracker.MedicationPatch{Purpose: &explanation})
	if err != nil {
		return s.trackerError(c, err)
	}
	return c.JSON(updated)
}

// ==================== Vitals ====================

func (s *Server) handleListVitals(c *fiber.Ctx) error {
	return c.JSON(s.tracker.Vitals())
}

func (s *Server) handleAddVital(c *fiber.Ctx) error {
	var rec tracker.VitalRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	saved, err := s.tracker.AddVital(rec)
	if err != nil {
		return s.trackerError(c, err)
	}

	s.session.ShowToast("Vitals recorded")
	return c.Status(201).JSON(saved)
}

// ==================== Allergies ====================

func (s *Server) handleListAllergies(c *fiber.Ctx) error {
	return c.JSON(s.tracker.Allergies())
}

func (s *Server) handleAddAllergy(c *fiber.Ctx) error {
	var req struct {
		Type     tracker.AllergyType `json:"type"`
		Name     string              `json:"name"`
		Severity tracker.Severity    `json:"severity"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	a, err := s.tracker.AddAllergy(req.Type, req.Name, req.Severity)
	if err != nil {
		return s.trackerError(c, err)
	}

	s.session.ShowToast("Allergy updated")
	return c.Status(201).JSON(a)
}

func (s *Server) handleRemoveAllergy(c *fiber.Ctx) error {
	if err := s.tracker.RemoveAllergy(c.Params("id")); err != nil {
		return s.trackerError(c, err)
	}
	return c.SendStatus(204)
}

// ==================== SOS ====================

func (s *Server) handleSOSHistory(c *fiber.Ctx) error {
	return c.JSON(s.tracker.SOSHistory())
}

func (s *Server) handleSOSDispatch(c *fiber.Ctx) error {
	// The browser runs the geolocation prompt and reports the outcome
	// here; a denied or absent position means no event is recorded.
	var req struct {
		Lat    *float64 `json:"lat"`
		Lng    *float64 `json:"lng"`
		Denied bool     `json:"denied"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	geo := sos.GeolocatorFunc(func(ctx context.Context) (tracker.Coordinates, error) {
		if req.Denied || req.Lat == nil || req.Lng == nil {
			return tracker.Coordinates{}, fmt.Errorf("location access denied")
		}
		return tracker.Coordinates{Lat: *req.Lat, Lng: *req.Lng}, nil
	})

	userName := s.config.User.DisplayName
	token, _ := c.Locals("token").(string)
	if user, err := s.auth.CurrentUser(token); err == nil && user.DisplayName != "" {
		userName = user.DisplayName
	}

	dispatch, err := s.sos.Dispatch(c.Context(), userName, geo)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrDispatchInFlight):
			return c.Status(409).JSON(fiber.Map{"error": "dispatch already in progress"})
		case errors.GetCode(err) == "SOS_001":
			s.metrics.SOSFailed.Inc()
			return c.Status(422).JSON(fiber.Map{"error": "Location access denied."})
		default:
			return s.trackerError(c, err)
		}
	}

	s.metrics.SOSDispatched.Inc()
	s.session.ShowToast("SOS Alert logged.")
	return c.Status(201).JSON(dispatch)
}

// ==================== Assistant ====================

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req struct {
		ConversationID string               `json:"conversation_id"`
		History        []assist.ChatMessage `json:"history"`
		Message        string               `json:"message"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	if req.ConversationID == "" {
		conv := &store.Conversation{Title: "Health chat", Model: s.config.AI.Model}
		if err := s.store.CreateConversation(conv); err != nil {
			s.logger.Warn("Failed to create conversation", zap.Error(err))
		} else {
			req.ConversationID = conv.ID
		}
	}

	reply := s.assist.HealthAdvice(c.Context(), req.ConversationID, req.History, req.Message)
	if reply == assist.Fallback {
		s.metrics.AIRequests.WithLabelValues("chat", "error").Inc()
	} else {
		s.metrics.AIRequests.WithLabelValues("chat", "ok").Inc()
	}

	return c.JSON(fiber.Map{
		"reply":           reply,
		"conversation_id": req.ConversationID,
	})
}

func (s *Server) handleAnalyzeSymptoms(c *fiber.Ctx) error {
	var req struct {
		Symptoms string `json:"symptoms"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.Symptoms == "" {
		return c.Status(400).JSON(fiber.Map{"error": "symptoms text is required"})
	}

	report := s.assist.AnalyzeSymptoms(c.Context(), req.Symptoms)
	if report == nil {
		s.metrics.AIRequests.WithLabelValues("symptoms", "error").Inc()
	} else {
		s.metrics.AIRequests.WithLabelValues("symptoms", "ok").Inc()
	}

	return c.JSON(fiber.Map{"report": report})
}

// ==================== Session ====================

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"active_view":  s.session.ActiveView(),
		"toast":        s.session.Toast(),
		"notification": s.session.Notification(),
	})
}

func (s *Server) handleSetView(c *fiber.Ctx) error {
	var req struct {
		View session.View `json:"view"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if !req.View.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "unknown view"})
	}

	s.session.SetActiveView(req.View)
	return c.JSON(fiber.Map{"active_view": req.View})
}

func (s *Server) handleDismissNotification(c *fiber.Ctx) error {
	s.session.DismissNotification()
	return c.SendStatus(204)
}

// trackerError maps collection errors to HTTP responses. Validation
// failures are rejected before any mutation; persistence failures keep the
// in-memory state and tell the user instead of dropping data silently.
func (s *Server) trackerError(c *fiber.Ctx, err error) error {
	switch {
	case stderrors.Is(err, errors.ErrMissingFields):
		return c.Status(400).JSON(fiber.Map{"error": "required fields missing"})
	case stderrors.Is(err, errors.ErrInvalidTime):
		return c.Status(400).JSON(fiber.Map{"error": "time must be a 24-hour HH:MM value"})
	case stderrors.Is(err, errors.ErrMedicationNotFound),
		stderrors.Is(err, errors.ErrAllergyNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	default:
		s.logger.Error("Collection operation failed", zap.Error(err))
		s.session.ShowToast("Saving failed. Your change may not survive a restart.")
		return c.Status(500).JSON(fiber.Map{"error": "failed to save changes"})
	}
}
