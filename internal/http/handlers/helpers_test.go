package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/auth"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/handlers"
	mw "github.com/rogerio-castellano/stock-sales-tracker/internal/http/middleware"
	rl "github.com/rogerio-castellano/stock-sales-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/router"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/sales"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/session"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

const (
	adminUser     = "admin"
	adminPassword = "secret"
)

type testEnv struct {
	router   http.Handler
	server   *handlers.Server
	limiter  *rl.Limiter
	products *repo.InMemoryProductRepository
	clients  *repo.InMemoryClientRepository
	users    *repo.InMemoryUserRepository
	sales    *repo.InMemorySaleRepository
	sessions *session.MemoryStore

	adminToken string
}

// newTestEnv builds a router over in-memory repositories with a seeded admin.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	products := repo.NewInMemoryProductRepository()
	clients := repo.NewInMemoryClientRepository()
	users := repo.NewInMemoryUserRepository()
	saleRepo := repo.NewInMemorySaleRepository(products, clients)
	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(products, clients, saleRepo)

	if _, err := auth.EnsureAdmin(context.Background(), users, adminUser, adminPassword); err != nil {
		t.Fatalf("could not seed admin: %v", err)
	}

	sessions := session.NewMemoryStore(time.Hour)
	tokens := auth.NewJWTManager("test-secret", 15*time.Minute)
	monitor := stock.NewMonitor(products, nil)

	server := &handlers.Server{
		Products:   products,
		Clients:    clients,
		Sales:      saleRepo,
		Users:      users,
		Metrics:    metrics,
		Monitor:    monitor,
		Recorder:   sales.NewRecorder(saleRepo, nil, monitor),
		Sessions:   sessions,
		Tokens:     tokens,
		SessionTTL: time.Hour,
	}
	limiter := rl.NewLoginLimiter()

	env := &testEnv{
		router: router.NewRouter(server, &mw.Authenticator{Sessions: sessions, Tokens: tokens}, router.Options{
			LoginLimiter: limiter,
		}),
		server:   server,
		limiter:  limiter,
		products: products,
		clients:  clients,
		users:    users,
		sales:    saleRepo,
		sessions: sessions,
	}

	token, err := env.generateToken(adminUser, adminPassword)
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}
	env.adminToken = token
	limiter.Reset()
	return env
}

func (e *testEnv) generateToken(username, password string) (string, error) {
	w := e.login(username, password)
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp handlers.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func (e *testEnv) login(username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handlers.CredentialsRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// userToken registers and logs in a plain user.
func (e *testEnv) userToken(t *testing.T, username string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/register", "", handlers.CredentialsRequest{
		Username: username, Password: "pass1234", ConfirmPassword: "pass1234",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}
	token, err := e.generateToken(username, "pass1234")
	if err != nil {
		t.Fatal(err)
	}
	return token
}

// do sends a JSON request. payload may be nil; token may be empty.
func (e *testEnv) do(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createProduct(t *testing.T, p handlers.ProductRequest) handlers.ProductResponse {
	t.Helper()
	w := e.do(http.MethodPost, "/api/products", e.adminToken, p)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var resp handlers.ProductResponse
	decode(t, w, &resp)
	return resp
}

func (e *testEnv) createClient(t *testing.T, name, email string) models.Client {
	t.Helper()
	w := e.do(http.MethodPost, "/api/clients", e.adminToken, handlers.ClientRequest{Name: name, Email: email, Phone: "555-0100"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var c models.Client
	decode(t, w, &c)
	return c
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
}

func intPtr(v int) *int { return &v }

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
