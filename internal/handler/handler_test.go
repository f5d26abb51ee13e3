package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/stylish/clothing-store/internal/config"
	"github.com/stylish/clothing-store/internal/database"
	"github.com/stylish/clothing-store/internal/handler"
	"github.com/stylish/clothing-store/internal/repository"
	"github.com/stylish/clothing-store/internal/router"
)

// newTestApp wires the full application against a throwaway SQLite
// file, exactly as cmd/server does minus Redis and the broker. Requests
// walk the real route table, session middleware included.
func newTestApp(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{SessionTTLHrs: 1, BcryptCost: 4}
	sessions := repository.NewSessionRepo(db)
	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, repository.NewUserRepo(db), sessions),
		Users:    handler.NewUserHandler(cfg, repository.NewUserRepo(db)),
		Taxonomy: handler.NewTaxonomyHandler(repository.NewCategoryRepo(db), repository.NewSubcategoryRepo(db)),
		Products: handler.NewProductHandler(repository.NewProductRepo(db)),
		Taggings: handler.NewTaggingHandler(repository.NewTaggingRepo(db)),
		Orders:   handler.NewOrderHandler(repository.NewOrderRepo(db), nil),
	}

	e := echo.New()
	router.RegisterRoutes(e, h, sessions, nil, config.LoadCacheConfig(), config.LoadRateLimitConfig())
	return e
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates a user and returns a live session token.
func registerAndLogin(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"pw123456"}`, username, username)
	w := doJSON(e, http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(e, http.MethodPost, "/login", fmt.Sprintf(`{"username":%q,"password":"pw123456"}`, username), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginMe(t *testing.T) {
	e := newTestApp(t)

	token := registerAndLogin(t, e, "alice")

	w := doJSON(e, http.MethodGet, "/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, "alice", me.Username)
	require.NotContains(t, w.Body.String(), "password_hash")

	// No session, no identity.
	w = doJSON(e, http.MethodGet, "/me", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong password.
	w = doJSON(e, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	e := newTestApp(t)
	token := registerAndLogin(t, e, "alice")

	w := doJSON(e, http.MethodPost, "/logout", "", token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(e, http.MethodGet, "/me", "", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out again is still a 204.
	w = doJSON(e, http.MethodPost, "/logout", "", token)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestUserConflicts(t *testing.T) {
	e := newTestApp(t)
	registerAndLogin(t, e, "alice")

	w := doJSON(e, http.MethodPost, "/users", `{"username":"alice","email":"x@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "username")

	w = doJSON(e, http.MethodPost, "/users", `{"username":"bob","email":"alice@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "email")

	w = doJSON(e, http.MethodPost, "/users", `{"username":"bob"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaxonomyRequiresSession(t *testing.T) {
	e := newTestApp(t)

	w := doJSON(e, http.MethodPost, "/categories", `{"name":"Tops"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := registerAndLogin(t, e, "alice")
	w = doJSON(e, http.MethodPost, "/categories", `{"name":"Tops"}`, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(e, http.MethodPost, "/categories", `{"name":"Tops"}`, token)
	require.Equal(t, http.StatusConflict, w.Code)

	// Reads stay public.
	w = doJSON(e, http.MethodGet, "/categories", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Tops")
}

func TestProductLifecycle(t *testing.T) {
	e := newTestApp(t)
	alice := registerAndLogin(t, e, "alice")
	bob := registerAndLogin(t, e, "bob")

	w := doJSON(e, http.MethodPost, "/categories", `{"name":"Tops"}`, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	// Anonymous creation is rejected.
	w = doJSON(e, http.MethodPost, "/products", `{"name":"Tee","price":"19.99"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := fmt.Sprintf(`{"name":"Classic Tee","description":"Plain cotton tee","price":"19.99","inventory_count":5,"available_sizes":["S","M"],"categories":[%d],"featured":true}`, cat.ID)
	w = doJSON(e, http.MethodPost, "/products", body, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	var product struct {
		ID     uint64 `json:"id"`
		UserID uint64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

	// Negative price never reaches the database.
	w = doJSON(e, http.MethodPost, "/products", `{"name":"Bad","price":"-1"}`, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Public browsing and filtering.
	w = doJSON(e, http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Classic Tee")

	w = doJSON(e, http.MethodGet, "/products?category=Tops", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Classic Tee")

	w = doJSON(e, http.MethodGet, "/products?search=denim", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "Classic Tee")

	// Only the owner may patch.
	patch := fmt.Sprintf("/products/%d", product.ID)
	w = doJSON(e, http.MethodPatch, patch, `{"price":"25.00"}`, bob)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(e, http.MethodPatch, patch, `{"price":"25.00"}`, alice)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "25")

	// Only the owner may delete.
	w = doJSON(e, http.MethodDelete, patch, "", bob)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(e, http.MethodDelete, patch, "", alice)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(e, http.MethodGet, patch, "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderScoping(t *testing.T) {
	e := newTestApp(t)
	alice := registerAndLogin(t, e, "alice")
	bob := registerAndLogin(t, e, "bob")

	w := doJSON(e, http.MethodGet, "/orders", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := `{"total_amount":"59.98","items":[{"product_id":1,"quantity":2,"price_at_purchase":"19.99","size":"M"},{"product_id":2,"quantity":1,"price_at_purchase":"20.00"}]}`
	w = doJSON(e, http.MethodPost, "/orders", body, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	var order struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.Equal(t, "pending", order.Status)

	// Listing only shows the caller's ledger.
	w = doJSON(e, http.MethodGet, "/orders", "", bob)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]\n", w.Body.String())

	path := fmt.Sprintf("/orders/%d", order.ID)
	w = doJSON(e, http.MethodGet, path, "", bob)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(e, http.MethodPatch, path, `{"status":"shipped"}`, bob)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(e, http.MethodPatch, path, `{"status":"shipped"}`, alice)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "shipped")

	w = doJSON(e, http.MethodPost, "/orders", `{"total_amount":"1.00","items":[]}`, alice)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestOrderWithoutItems(t *testing.T) {
	e := newTestApp(t)
	alice := registerAndLogin(t, e, "alice")

	w := doJSON(e, http.MethodPost, "/orders", `{"total_amount":"10.00"}`, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	var order struct {
		ID    uint64            `json:"id"`
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.NotZero(t, order.ID)
	require.Empty(t, order.Items)
}

func TestHealthz(t *testing.T) {
	e := newTestApp(t)
	w := doJSON(e, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, w.Code)
}
