package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	customersvc "github.com/shaheen-020/pharmacy-backend/internal/customers"
	pkgerrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
)

func setupCustomerService(t *testing.T) customersvc.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:controllers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address TEXT,
  doctor_name TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)

	svc, err := customersvc.NewService(customersvc.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func customerRouter(svc customersvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/customers", CreateCustomer(svc, nil))
	r.Get("/api/v1/customers", ListCustomers(svc, nil))
	r.Get("/api/v1/customers/{id}", GetCustomer(svc, nil))
	r.Put("/api/v1/customers/{id}", UpdateCustomer(svc, nil))
	r.Delete("/api/v1/customers/{id}", DeleteCustomer(svc, nil))
	return r
}

func decodeData(t *testing.T, body []byte, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestCustomerLifecycleOverHTTP(t *testing.T) {
	router := customerRouter(setupCustomerService(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(`{"name":"Ayesha Rahman","phone":"01711111111"}`)))
	require.Equal(t, http.StatusCreated, resp.Code)

	var created customersvc.CustomerDTO
	decodeData(t, resp.Body.Bytes(), &created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Ayesha Rahman", created.Name)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+created.ID.String(), nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var fetched customersvc.CustomerDTO
	decodeData(t, resp.Body.Bytes(), &fetched)
	assert.Equal(t, created.ID, fetched.ID)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/api/v1/customers/"+created.ID.String(), strings.NewReader(`{"name":"Ayesha R."}`)))
	require.Equal(t, http.StatusOK, resp.Code)

	var updated customersvc.CustomerDTO
	decodeData(t, resp.Body.Bytes(), &updated)
	assert.Equal(t, "Ayesha R.", updated.Name)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/customers/"+created.ID.String(), nil))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+created.ID.String(), nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), decodeErrorCode(t, resp.Body.Bytes()))
}

func TestCreateCustomerRejectsBadBody(t *testing.T) {
	router := customerRouter(setupCustomerService(t))

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"phone":"123"}`},
		{"unknown field", `{"name":"X","nickname":"Y"}`},
		{"bad email", `{"name":"X","email":"not-an-email"}`},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(tt.body)))
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, string(pkgerrors.CodeValidation), decodeErrorCode(t, resp.Body.Bytes()))
		})
	}
}

func TestGetCustomerRejectsMalformedID(t *testing.T) {
	router := customerRouter(setupCustomerService(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeErrorCode(t, resp.Body.Bytes()))
}

func TestListCustomersSearch(t *testing.T) {
	svc := setupCustomerService(t)
	router := customerRouter(svc)

	for _, name := range []string{"Karim Uddin", "Karima Begum", "Rahim Mia"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(fmt.Sprintf(`{"name":%q}`, name))))
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/customers?search=Karim", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var list customersvc.CustomerListDTO
	decodeData(t, resp.Body.Bytes(), &list)
	assert.Len(t, list.Customers, 2)
}
