package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type stubLeadIngestor struct {
	ingested []string
	failIDs  map[string]bool
}

func (s *stubLeadIngestor) IngestFacebookLead(_ context.Context, leadgenID string) (*models.Lead, error) {
	if s.failIDs[leadgenID] {
		return nil, errors.New("graph fetch failed")
	}
	s.ingested = append(s.ingested, leadgenID)
	return &models.Lead{ExternalID: &leadgenID}, nil
}

func newWebhookTestApp(service *stubLeadIngestor, verifyToken string) *fiber.App {
	handler := &WebhookHandler{service: service, verifyToken: verifyToken}

	app := fiber.New()
	app.Get("/api/webhooks/facebook", handler.Verify)
	app.Post("/api/webhooks/facebook", handler.Receive)
	return app
}

func TestVerifyEchoesChallengeOnMatchingToken(t *testing.T) {
	app := newWebhookTestApp(&stubLeadIngestor{}, "secret-token")

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/webhooks/facebook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345",
		nil,
	)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != "12345" {
		t.Fatalf("expected raw challenge echo, got %q", string(body))
	}
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	app := newWebhookTestApp(&stubLeadIngestor{}, "secret-token")

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/webhooks/facebook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345",
		nil,
	)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

// An unconfigured verify token never matches, not even an empty one.
func TestVerifyRejectsWhenTokenUnconfigured(t *testing.T) {
	app := newWebhookTestApp(&stubLeadIngestor{}, "")

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/webhooks/facebook?hub.mode=subscribe&hub.verify_token=&hub.challenge=12345",
		nil,
	)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestReceiveIngestsEveryLeadgenAndSkipsFailures(t *testing.T) {
	service := &stubLeadIngestor{failIDs: map[string]bool{"lead-2": true}}
	app := newWebhookTestApp(service, "secret-token")

	body := `{
		"object": "page",
		"entry": [
			{"id": "page-1", "changes": [
				{"field": "leadgen", "value": {"leadgen_id": "lead-1"}},
				{"field": "leadgen", "value": {"leadgen_id": "lead-2"}},
				{"field": "feed", "value": {}}
			]},
			{"id": "page-2", "changes": [
				{"field": "leadgen", "value": {"leadgen_id": "lead-3"}}
			]}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/facebook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	// Failures are skipped, never bounced back to the sender.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(service.ingested) != 2 {
		t.Fatalf("expected 2 ingested leads, got %v", service.ingested)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Ingested int `json:"ingested"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !payload.Success || payload.Data.Ingested != 2 {
		t.Fatalf("unexpected envelope: %+v", payload)
	}
}

func TestReceiveRejectsNonPageObject(t *testing.T) {
	service := &stubLeadIngestor{}
	app := newWebhookTestApp(service, "secret-token")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/webhooks/facebook",
		strings.NewReader(`{"object":"user","entry":[]}`),
	)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if len(service.ingested) != 0 {
		t.Fatalf("expected no ingestion, got %v", service.ingested)
	}
}
