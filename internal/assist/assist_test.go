package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/just-rehan/vitality-companion/internal/config"
	"github.com/just-rehan/vitality-companion/internal/errors"
	"github.com/just-rehan/vitality-companion/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestStore(t *testing.T) *store.Store {
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DataDir:    dir,
			SQLitePath: filepath.Join(dir, "test.db"),
			BadgerPath: filepath.Join(dir, "badger"),
		},
	}

	st, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *store.Store) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.AIConfig{
		BaseURL: srv.URL,
		Model:   "gemini-2.0-flash",
		APIKey:  "test-key",
		RPM:     6000,
	})

	st := setupTestStore(t)
	return New(client, st, zap.NewNop()), st
}

func textResponse(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestHealthAdvice_ReturnsReply(t *testing.T) {
	var gotKey string
	var gotBody generateRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		textResponse("Stay hydrated. This is not medical advice.")(w, r)
	})

	reply := svc.HealthAdvice(context.Background(), "", nil, "I have a mild headache")

	assert.Equal(t, "Stay hydrated. This is not medical advice.", reply)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, gotBody.SystemInstruction)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
}

func TestHealthAdvice_IncludesHistory(t *testing.T) {
	var gotBody generateRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		textResponse("ok")(w, r)
	})

	history := []ChatMessage{
		{Role: RoleUser, Text: "hello"},
		{Role: RoleModel, Text: "hi, how can I help?"},
	}
	svc.HealthAdvice(context.Background(), "", history, "my knee hurts")

	require.Len(t, gotBody.Contents, 3)
	assert.Equal(t, "model", gotBody.Contents[1].Role)
	assert.Equal(t, "my knee hurts", gotBody.Contents[2].Parts[0].Text)
}

func TestHealthAdvice_FallbackOnBackendError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	reply := svc.HealthAdvice(context.Background(), "", nil, "anything")
	assert.Equal(t, Fallback, reply)
}

func TestHealthAdvice_LogsExchange(t *testing.T) {
	svc, st := newTestService(t, textResponse("Rest and fluids."))

	conv := &store.Conversation{Title: "Chat"}
	require.NoError(t, st.CreateConversation(conv))

	svc.HealthAdvice(context.Background(), conv.ID, nil, "I feel feverish")

	msgs, err := st.GetChatMessages(conv.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "I feel feverish", msgs[0].Text)
	assert.Equal(t, "model", msgs[1].Role)
	assert.Equal(t, "Rest and fluids.", msgs[1].Text)
}

func TestAnalyzeSymptoms_ParsesReport(t *testing.T) {
	report := `{"riskLevel":"Low","possibleCondition":"Tension headache","recommendation":"Rest","urgency":"Routine"}`
	svc, _ := newTestService(t, textResponse(report))

	got := svc.AnalyzeSymptoms(context.Background(), "dull headache since morning")
	require.NotNil(t, got)
	assert.Equal(t, "Low", got.RiskLevel)
	assert.Equal(t, "Tension headache", got.PossibleCondition)
}

func TestAnalyzeSymptoms_NilOnGarbage(t *testing.T) {
	svc, _ := newTestService(t, textResponse("I think you might have a cold"))

	got := svc.AnalyzeSymptoms(context.Background(), "sniffles")
	assert.Nil(t, got)
}

func TestAnalyzeSymptoms_NilOnBackendError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.Nil(t, svc.AnalyzeSymptoms(context.Background(), "sniffles"))
}

func TestExplainMedication_ReturnsSummary(t *testing.T) {
	svc, _ := newTestService(t, textResponse("Metformin controls blood sugar. Take with food."))

	got, err := svc.ExplainMedication(context.Background(), "Metformin")
	require.NoError(t, err)
	assert.Contains(t, got, "Metformin controls blood sugar")
}

func TestExplainMedication_ErrorSurfaces(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.ExplainMedication(context.Background(), "Metformin")
	require.Error(t, err)
	assert.Equal(t, "AI_001", errors.GetCode(err))
}

func TestExplainMedication_InFlightGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		textResponse("done")(w, r)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.ExplainMedication(context.Background(), "Metformin")
		assert.NoError(t, err)
	}()

	<-started
	_, err := svc.ExplainMedication(context.Background(), "Metformin")
	assert.ErrorIs(t, err, errors.ErrRequestInFlight)

	// A different medication is an independent key
	done := make(chan error, 1)
	go func() {
		_, err := svc.ExplainMedication(context.Background(), "Lisinopril")
		done <- err
	}()

	close(release)
	wg.Wait()
	assert.NoError(t, <-done)
}

func TestClient_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.AIConfig{BaseURL: srv.URL, Model: "m", RPM: 6000})
	_, err := client.Generate(context.Background(), generateRequest{})
	assert.Error(t, err)
}
