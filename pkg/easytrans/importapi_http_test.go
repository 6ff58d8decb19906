package easytrans_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easytrans/easytrans-go/pkg/easytrans"
)

func testImportRequest() *easytrans.ImportRequest {
	return &easytrans.ImportRequest{
		Authentication: easytrans.Authentication{
			Username: "apiuser",
			Password: "apipass",
			Type:     easytrans.ImportTypeOrder,
			Mode:     easytrans.ModeTest,
			Version:  2,
		},
	}
}

func newImportServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *easytrans.HTTPImportAPI) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := easytrans.NewHTTPImportAPI(easytrans.Config{
		Server:      server.URL,
		Environment: "demo",
	})
	t.Cleanup(api.Close)
	return server, api
}

func TestHTTPImportAPI_Success(t *testing.T) {
	var gotBody easytrans.ImportRequest
	_, api := newImportServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/demo/import_json.php", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": {
				"mode": "test",
				"total_orders": 1,
				"result_description": "Import successful",
				"new_ordernos": [29145]
			}
		}`))
	})

	order, err := easytrans.NewOrder(5, testDestinations()...)
	require.NoError(t, err)
	req := testImportRequest()
	req.Orders = []easytrans.Order{*order}

	result, err := api.ImportOrders(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []int{29145}, result.NewOrderNos)
	assert.Equal(t, "apiuser", gotBody.Authentication.Username)
	assert.Equal(t, 2, gotBody.Authentication.Version)
	require.Len(t, gotBody.Orders, 1)
	assert.Len(t, gotBody.Orders[0].Destinations, 2)
}

func TestHTTPImportAPI_ErrorObjectUnder200(t *testing.T) {
	_, api := newImportServer(t, func(w http.ResponseWriter, r *http.Request) {
		// The import endpoint reports failures in the body, never through
		// the HTTP status code.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": {"errorno": 12, "error_description": "Login attempt failed"}}`))
	})

	_, err := api.ImportOrders(context.Background(), testImportRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrAuth)

	var apiErr *easytrans.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 12, apiErr.Code)
	assert.Equal(t, "[Error 12] Login attempt failed", apiErr.Message)
}

func TestHTTPImportAPI_OrderErrorCode(t *testing.T) {
	_, api := newImportServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"errorno": 25, "error_description": "Invalid productno"}}`))
	})

	_, err := api.ImportOrders(context.Background(), testImportRequest())
	assert.ErrorIs(t, err, easytrans.ErrOrder)
}

func TestHTTPImportAPI_UnexpectedStatus(t *testing.T) {
	_, api := newImportServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := api.ImportOrders(context.Background(), testImportRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrTransport)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPImportAPI_InvalidJSON(t *testing.T) {
	_, api := newImportServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance page</html>`))
	})

	_, err := api.ImportOrders(context.Background(), testImportRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrTransport)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestHTTPImportAPI_NeitherResultNorError(t *testing.T) {
	_, api := newImportServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})

	_, err := api.ImportCustomers(context.Background(), testImportRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrTransport)
	assert.Contains(t, err.Error(), "neither result nor error")
}
