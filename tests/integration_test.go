package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"sales_tracker/api"
	"sales_tracker/internal/auth"
	"sales_tracker/internal/sales"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	logger := zaptest.NewLogger(t)

	hash, err := auth.HashPassword("hunter22aa")
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	userStore := auth.NewMemoryUserStore([]auth.User{
		{ID: "user-1", Email: "seller@example.com", PasswordHash: hash},
	})

	salesService := sales.NewService(sales.NewLocalStorage(), logger)
	authService := auth.NewService(userStore, logger, "integration-secret", time.Hour)

	api.RegisterRoutes(router, salesService, authService, logger)
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// installDateFixture returns a date far enough out to be neither in the
// past nor in the calendar month after the current one, so the sale
// always counts toward earnings.
func installDateFixture() string {
	return time.Now().AddDate(0, 0, 70).Format("2006-01-02")
}

// TestSalesHappyPath_FullFlow exercises login -> create -> patch ->
// list -> earnings against the full router.
func TestSalesHappyPath_FullFlow(t *testing.T) {
	router := newTestRouter(t)

	var token string
	var saleID string

	t.Run("POST_Login", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/login", "", map[string]string{
			"email":    "seller@example.com",
			"password": "hunter22aa",
		})
		assert.Equal(t, http.StatusOK, w.Code, "Expected HTTP 200 OK for valid credentials")

		var resp struct {
			Token string `json:"token"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token, "Expected a session token")
		token = resp.Token
	})

	if token == "" {
		t.Fatal("Session token was not obtained in POST_Login step.")
	}

	t.Run("POST_CreateSale", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/sales", token, map[string]string{
			"name":         "Anna Larsson",
			"number":       "0735301569",
			"install_date": installDateFixture(),
		})
		assert.Equal(t, http.StatusCreated, w.Code, "Expected HTTP 201 Created for successful sale creation")

		var created sales.Sale
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID, "Expected sale ID to be generated")
		assert.Equal(t, sales.StatusNotCalled, created.Status, "Every new sale starts as not called")
		assert.Equal(t, "user-1", created.UserID, "Expected the authenticated user as owner")
		assert.False(t, created.CreatedAt.IsZero(), "Expected store-assigned creation timestamp")

		saleID = created.ID
	})

	if saleID == "" {
		t.Fatal("Sale ID was not successfully generated in POST_CreateSale step.")
	}

	t.Run("PATCH_UpdateSaleStatus", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, fmt.Sprintf("/sales/%s/status", saleID), "", map[string]string{
			"status": "called",
		})
		assert.Equal(t, http.StatusOK, w.Code, "Expected HTTP 200 OK for successful status update")
	})

	t.Run("GET_ListSales", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/sales", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Results  []sales.Sale       `json:"results"`
			Metadata sales.ListMetadata `json:"metadata"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Results, 1, "Expected 1 sale in list results")
		assert.Equal(t, saleID, response.Results[0].ID)
		assert.Equal(t, sales.StatusCalled, response.Results[0].Status, "Expected the patched status on the next fetch")
		assert.Equal(t, 1, response.Metadata.Quantity)
		assert.Equal(t, 1, response.Metadata.Called)
		assert.Equal(t, 0, response.Metadata.NotCalled)
	})

	t.Run("GET_Earnings", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/earnings", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var report sales.EarningsReport
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 1, report.ValidCount)
		assert.Equal(t, 1500, report.Rate)
		assert.Equal(t, 0, report.Bonus)
		assert.Equal(t, 1500, report.Total)
	})
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/login", "", map[string]string{
		"email":    "seller@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSale_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/sales", "", map[string]string{
		"name":         "Anna Larsson",
		"number":       "0735301569",
		"install_date": installDateFixture(),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "Expected HTTP 401 without a bearer token")

	w = doJSON(router, http.MethodPost, "/sales", "bogus-token", map[string]string{
		"name":         "Anna Larsson",
		"number":       "0735301569",
		"install_date": installDateFixture(),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "Expected HTTP 401 with a forged token")
}

func TestCreateSale_ValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/login", "", map[string]string{
		"email":    "seller@example.com",
		"password": "hunter22aa",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	cases := []struct {
		name string
		body map[string]string
	}{
		{"short phone", map[string]string{"name": "Anna", "number": "12345", "install_date": installDateFixture()}},
		{"alphabetic phone", map[string]string{"name": "Anna", "number": "abcdefghij", "install_date": installDateFixture()}},
		{"dashed phone", map[string]string{"name": "Anna", "number": "123-456-7890", "install_date": installDateFixture()}},
		{"missing name", map[string]string{"number": "0735301569", "install_date": installDateFixture()}},
		{"past install date", map[string]string{"name": "Anna", "number": "0735301569", "install_date": "2020-01-01"}},
		{"malformed install date", map[string]string{"name": "Anna", "number": "0735301569", "install_date": "01/02/2026"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/sales", login.Token, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateSaleStatus_Errors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPatch, "/sales/no-such-id/status", "", map[string]string{
		"status": "called",
	})
	assert.Equal(t, http.StatusNotFound, w.Code, "Expected HTTP 404 for an unknown sale ID")

	w = doJSON(router, http.MethodPatch, "/sales/no-such-id/status", "", map[string]string{
		"status": "done",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "Expected HTTP 400 for a status outside the pipeline")
}
