package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCheckoutSession(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["shareId"] != "shr_1" {
			t.Errorf("shareId = %v", body["shareId"])
		}
		if body["amountPence"] != float64(999) {
			t.Errorf("amountPence = %v", body["amountPence"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(CheckoutSession{ID: "cs_1", RedirectURL: "https://pay.example/cs_1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-123")
	session, err := client.CreateCheckoutSession(context.Background(), "shr_1", 999, "usr_1")
	if err != nil {
		t.Fatalf("CreateCheckoutSession() error = %v", err)
	}
	if session.RedirectURL != "https://pay.example/cs_1" {
		t.Errorf("redirect url = %q", session.RedirectURL)
	}
	if gotAuth != "Bearer key-123" {
		t.Errorf("authorization header = %q", gotAuth)
	}
}

func TestCreateCheckoutSessionRejectsMissingRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(CheckoutSession{ID: "cs_1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-123")
	if _, err := client.CreateCheckoutSession(context.Background(), "shr_1", 999, "usr_1"); err == nil {
		t.Fatal("expected error for session without redirect url")
	}
}

func TestRetrieveSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cs_1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(SessionStatus{ShareID: "shr_1", Outcome: OutcomePaid, PaymentReference: "pi_abc"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-123")
	status, err := client.RetrieveSession(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("RetrieveSession() error = %v", err)
	}
	if status.ShareID != "shr_1" || status.Outcome != OutcomePaid || status.PaymentReference != "pi_abc" {
		t.Errorf("unexpected status: %+v", status)
	}

	if _, err := client.RetrieveSession(context.Background(), "cs_missing"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("whsec")
	body := []byte(`{"shareId":"shr_1","outcome":"paid","paymentReference":"pi_abc"}`)

	sig := SignPayload(secret, body)
	if !VerifySignature(secret, body, sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, body, sig+"00") {
		t.Error("tampered signature accepted")
	}
	if VerifySignature([]byte("other"), body, sig) {
		t.Error("wrong secret accepted")
	}
	if VerifySignature(secret, append(body, '!'), sig) {
		t.Error("tampered body accepted")
	}
}
