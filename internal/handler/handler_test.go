package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"meeting-management-api/internal/auth"
	"meeting-management-api/internal/handler"
	"meeting-management-api/internal/mail"
	"meeting-management-api/internal/meeting"
	"meeting-management-api/internal/middleware"
	"meeting-management-api/internal/notify"
	"meeting-management-api/internal/store"
	"meeting-management-api/internal/upload"
)

type recorderMailer struct {
	sends []string // recipient strings, in send order
}

func (m *recorderMailer) Send(_ context.Context, recipients, subject, body string) error {
	if len(mail.Recipients(recipients)) == 0 {
		return nil
	}
	m.sends = append(m.sends, recipients)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(st *store.Store, mailer mail.Mailer, uploads *upload.Storage, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	notifier := notify.New(notify.NewTranslator("tr"))
	svc := meeting.NewService(st, mailer, notifier)
	h := handler.New(st, svc, uploads, mailer, notifier, secret)
	return h.Router(discardLogger(), middleware.NewRateLimiter(1000, 1000))
}

func setup(t *testing.T) (*gin.Engine, *recorderMailer, string) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	secret := os.Getenv("JWT_SECRET")
	if dbURL == "" || secret == "" {
		t.Skip("DATABASE_URL or JWT_SECRET not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := store.RunMigrations(dbURL, "../../db/migrations"); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	uploads, err := upload.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}

	mailer := &recorderMailer{}
	return newRouter(store.New(pool), mailer, uploads, secret), mailer, secret
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	w.Close()
	return buf, w.FormDataContentType()
}

func doMultipart(t *testing.T, r *gin.Engine, method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, fields)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", ct)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, r *gin.Engine) (email string) {
	t.Helper()
	email = fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rec := doMultipart(t, r, "POST", "/auth/register", "", map[string]string{
		"firstName": "Test", "lastName": "User", "email": email,
		"phone": "5550001", "password": "testpass123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d: %s", rec.Code, rec.Body.String())
	}
	return email
}

func loginToken(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	return resp.Token
}

func createMeetingHTTP(t *testing.T, r *gin.Engine, token, participants string) map[string]any {
	t.Helper()
	rec := doMultipart(t, r, "POST", "/meetings", token, map[string]string{
		"title":        "Sprint Review",
		"startDate":    "2024-01-10T10:00:00Z",
		"endDate":      "2024-01-10T11:00:00Z",
		"participants": participants,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meeting: %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Meeting map[string]any `json:"meeting"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	return resp.Meeting
}

// ----- no-DB tests -----

func noDBRouter(t *testing.T) *gin.Engine {
	t.Helper()
	uploads, err := upload.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}
	// store is never reached; requests fail at the auth middleware
	return newRouter(store.New(nil), &recorderMailer{}, uploads, "test-secret")
}

func TestHealthz(t *testing.T) {
	r := noDBRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMeetingRoutesRequireToken(t *testing.T) {
	r := noDBRouter(t)

	for _, path := range []string{"/meetings", "/users"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: expected 401, got %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "/meetings", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", rec.Code)
	}

	// token signed with a different secret
	tok, _ := auth.MakeToken("uid", "a@x.com", "other-secret")
	req = httptest.NewRequest("GET", "/meetings", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong-secret token: expected 401, got %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := noDBRouter(t)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"empty form", map[string]string{}},
		{"missing email", map[string]string{"firstName": "A", "lastName": "B", "phone": "1", "password": "x"}},
		{"missing password", map[string]string{"firstName": "A", "lastName": "B", "email": "a@x.com", "phone": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doMultipart(t, r, "POST", "/auth/register", "", tt.fields)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	r := noDBRouter(t)
	tok, _ := auth.MakeToken("uid", "a@x.com", "test-secret")

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing title", map[string]string{"startDate": "2024-01-10T10:00:00Z", "endDate": "2024-01-10T11:00:00Z"}},
		{"missing dates", map[string]string{"title": "X"}},
		{"bad startDate", map[string]string{"title": "X", "startDate": "whenever", "endDate": "2024-01-10T11:00:00Z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doMultipart(t, r, "POST", "/meetings", tok, tt.fields)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

// ----- DB-backed tests -----

func TestRegisterAndLogin(t *testing.T) {
	r, mailer, _ := setup(t)

	email := registerUser(t, r)
	if len(mailer.sends) != 1 || mailer.sends[0] != email {
		t.Errorf("expected welcome mail to %s, got %v", email, mailer.sends)
	}

	loginToken(t, r, email, "testpass123")
}

func TestRegisterResponseOmitsPasswordHash(t *testing.T) {
	r, _, _ := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rec := doMultipart(t, r, "POST", "/auth/register", "", map[string]string{
		"firstName": "Test", "lastName": "User", "email": email,
		"phone": "5550001", "password": "testpass123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User map[string]any `json:"user"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	for _, key := range []string{"password", "passwordHash", "PasswordHash"} {
		if _, ok := resp.User[key]; ok {
			t.Errorf("response exposes %s", key)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _, _ := setup(t)

	email := registerUser(t, r)
	rec := doMultipart(t, r, "POST", "/auth/register", "", map[string]string{
		"firstName": "Second", "lastName": "User", "email": email,
		"phone": "5550002", "password": "testpass123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate email: expected 400, got %d", rec.Code)
	}
}

func TestLoginFailures(t *testing.T) {
	r, _, _ := setup(t)
	email := registerUser(t, r)

	body, _ := json.Marshal(map[string]string{"email": "nobody@nowhere.com", "password": "x"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: expected 404, got %d", rec.Code)
	}

	body, _ = json.Marshal(map[string]string{"email": email, "password": "wrongpassword"})
	req = httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad password: expected 400, got %d", rec.Code)
	}
}

func TestMeetingLifecycle(t *testing.T) {
	r, mailer, _ := setup(t)
	email := registerUser(t, r)
	tok := loginToken(t, r, email, "testpass123")
	mailer.sends = nil

	m := createMeetingHTTP(t, r, tok, "a@x.com,b@x.com")
	id, _ := m["id"].(string)
	if id == "" {
		t.Fatal("missing meeting id")
	}
	if m["status"] != "active" {
		t.Errorf("status: got %v", m["status"])
	}
	if m["participants"] != "a@x.com,b@x.com" {
		t.Errorf("participants not stored verbatim: %v", m["participants"])
	}
	if len(mailer.sends) != 1 {
		t.Fatalf("expected 1 creation mail, got %d", len(mailer.sends))
	}

	// get
	req := httptest.NewRequest("GET", "/meetings/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}

	// update with empty participants keeps the stored list
	rec = doMultipart(t, r, "PUT", "/meetings/"+id, tok, map[string]string{
		"title": "Sprint Retro", "participants": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d: %s", rec.Code, rec.Body.String())
	}
	var updated map[string]any
	json.NewDecoder(rec.Body).Decode(&updated)
	if updated["title"] != "Sprint Retro" {
		t.Errorf("title not updated: %v", updated["title"])
	}
	if updated["participants"] != "a@x.com,b@x.com" {
		t.Errorf("participants cleared by empty update: %v", updated["participants"])
	}

	// cancel
	req = httptest.NewRequest("PATCH", "/meetings/"+id+"/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: %d", rec.Code)
	}

	// delete, then get -> 404
	req = httptest.NewRequest("DELETE", "/meetings/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/meetings/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestGetMeetingNotFound(t *testing.T) {
	r, _, _ := setup(t)
	email := registerUser(t, r)
	tok := loginToken(t, r, email, "testpass123")

	req := httptest.NewRequest("GET", "/meetings/"+uuid.New().String(), nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestListUsers(t *testing.T) {
	r, _, _ := setup(t)
	email := registerUser(t, r)
	tok := loginToken(t, r, email, "testpass123")

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: %d", rec.Code)
	}

	var users []map[string]any
	json.NewDecoder(rec.Body).Decode(&users)
	if len(users) == 0 {
		t.Fatal("expected at least one user")
	}
	found := false
	for _, u := range users {
		if u["email"] == email {
			found = true
		}
		if _, ok := u["password"]; ok {
			t.Error("user listing exposes password")
		}
	}
	if !found {
		t.Errorf("registered user %s not in listing", email)
	}
}
