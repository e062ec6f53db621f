package gcalendar_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"family-hub/pkg/gcalendar"
)

type rewriteTransport struct {
	Transport http.RoundTripper
	Host      string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.Host
	return t.Transport.RoundTrip(req)
}

func newStubClient(t *testing.T, handler http.HandlerFunc) *gcalendar.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	httpClient := ts.Client()
	httpClient.Transport = &rewriteTransport{
		Transport: httpClient.Transport,
		Host:      strings.TrimPrefix(ts.URL, "http://"),
	}

	client, err := gcalendar.NewClientFromHTTP(context.Background(), httpClient)
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	return client
}

const installedCreds = `{
	"installed": {
		"client_id": "test-client-id.apps.googleusercontent.com",
		"client_secret": "test-secret",
		"redirect_uris": ["http://localhost"]
	}
}`

func TestNewClientFromCredentialsJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("broken credentials", func(t *testing.T) {
		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(`{"broken":true`), "")
		if err == nil {
			t.Errorf("expected decoding failure")
		}
	})

	t.Run("installed app with token", func(t *testing.T) {
		token := filepath.Join(dir, "token.json")
		os.WriteFile(token, []byte(`{"access_token": "dummy", "token_type": "Bearer", "expiry": "2030-01-01T00:00:00Z"}`), 0o600)

		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(installedCreds), token)
		if err != nil {
			t.Fatalf("expected parsing to succeed: %v", err)
		}
	})

	t.Run("installed app with broken token", func(t *testing.T) {
		token := filepath.Join(dir, "bad-token.json")
		os.WriteFile(token, []byte(`{"broken": true`), 0o600)

		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(installedCreds), token)
		if err == nil {
			t.Fatalf("expected parsing to fail on bad token")
		}
	})

	t.Run("installed app without token", func(t *testing.T) {
		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(installedCreds), filepath.Join(dir, "missing.json"))
		if err == nil {
			t.Fatalf("expected missing token to fail")
		}
	})
}

func TestNew_MissingFile(t *testing.T) {
	_, err := gcalendar.New(context.Background(), gcalendar.Config{CredentialsFile: filepath.Join(t.TempDir(), "none.json")})
	if err == nil {
		t.Errorf("expected reading file error")
	}
}

func TestCreateEvent(t *testing.T) {
	var got map[string]interface{}
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar/v3/calendars/family/events" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id": "event-123", "htmlLink": "https://calendar.google.com/event-uri", "location": "Clinic"}`))
	})

	start := time.Date(2024, 5, 3, 17, 0, 0, 0, time.UTC)
	event, err := client.CreateEvent(context.Background(), gcalendar.CreateEventRequest{
		CalendarID: "family",
		Summary:    "Dentist",
		Location:   "Clinic",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	if event.ID != "event-123" || event.Location != "Clinic" {
		t.Errorf("unexpected event: %+v", event)
	}
	startBody, _ := got["start"].(map[string]interface{})
	if startBody["dateTime"] != "2024-05-03T17:00:00Z" {
		t.Errorf("expected RFC3339 start, got %v", startBody)
	}
}

func TestCreateEvent_AllDay(t *testing.T) {
	var got map[string]interface{}
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id": "event-1"}`))
	})

	day := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if _, err := client.CreateEvent(context.Background(), gcalendar.CreateEventRequest{
		Summary:   "School trip",
		StartTime: day,
		AllDay:    true,
	}); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	startBody, _ := got["start"].(map[string]interface{})
	endBody, _ := got["end"].(map[string]interface{})
	if startBody["date"] != "2024-05-03" || endBody["date"] != "2024-05-04" {
		t.Errorf("expected exclusive date range, got start=%v end=%v", startBody, endBody)
	}
}

func TestCreateEvent_APIError(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CreateEvent(context.Background(), gcalendar.CreateEventRequest{
		Summary:   "Title",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
	})
	if err == nil {
		t.Fatal("expected error on 500")
	}
}
