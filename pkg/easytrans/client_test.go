package easytrans_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/easytrans/easytrans-go/pkg/easytrans"
)

func newTestClient(importAPI easytrans.ImportAPI, restAPI easytrans.RestAPI) *easytrans.Client {
	logger := otelzap.New(zap.NewNop())
	return easytrans.NewWithAPIClients(
		easytrans.Config{
			Server:      "demo.easytrans.nl",
			Environment: "demo",
			Username:    "apiuser",
			Password:    "apipass",
		},
		importAPI,
		restAPI,
		logger,
		nil,
	)
}

func TestClient_ImportOrders_Success(t *testing.T) {
	mockImport := easytrans.NewMockImportAPI()
	client := newTestClient(mockImport, easytrans.NewMockRestAPI())

	order, err := easytrans.NewOrder(5, testDestinations()...)
	require.NoError(t, err)

	ctx := context.Background()
	result, err := client.ImportOrders(ctx, []easytrans.Order{*order}, easytrans.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalOrders)
	assert.Len(t, result.NewOrderNos, 1)

	// Every created order number indexes the track and trace map via its
	// string form.
	_, ok := result.OrderTrackTrace[fmt.Sprintf("%d", result.NewOrderNos[0])]
	assert.True(t, ok)

	require.Len(t, mockImport.Requests, 1)
	auth := mockImport.Requests[0].Authentication
	assert.Equal(t, "apiuser", auth.Username)
	assert.Equal(t, "apipass", auth.Password)
	assert.Equal(t, easytrans.ImportTypeOrder, auth.Type)
	assert.Equal(t, easytrans.ModeTest, auth.Mode)
	assert.Equal(t, 2, auth.Version)
	assert.False(t, auth.ReturnRates)
}

func TestClient_ImportOrders_Options(t *testing.T) {
	mockImport := easytrans.NewMockImportAPI()
	client := newTestClient(mockImport, easytrans.NewMockRestAPI())

	order, err := easytrans.NewOrder(5, testDestinations()...)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.ImportOrders(ctx, []easytrans.Order{*order}, easytrans.ImportOptions{
		Mode:            easytrans.ModeEffect,
		ReturnRates:     true,
		ReturnDocuments: easytrans.ReturnDocumentLabel10x15,
	})

	require.NoError(t, err)
	auth := mockImport.Requests[0].Authentication
	assert.Equal(t, easytrans.ModeEffect, auth.Mode)
	assert.True(t, auth.ReturnRates)
	assert.Equal(t, easytrans.ReturnDocumentLabel10x15, auth.ReturnDocuments)
}

func TestClient_ImportOrders_ValidatesBeforeSending(t *testing.T) {
	mockImport := easytrans.NewMockImportAPI()
	client := newTestClient(mockImport, easytrans.NewMockRestAPI())

	invalid := easytrans.Order{ProductNo: 5, Destinations: testDestinations()[:1]}

	ctx := context.Background()
	_, err := client.ImportOrders(ctx, []easytrans.Order{invalid}, easytrans.ImportOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrValidation)
	assert.Empty(t, mockImport.Requests, "invalid orders must not reach the wire")
}

func TestClient_ImportOrders_APIError(t *testing.T) {
	mockImport := easytrans.NewMockImportAPI()
	mockImport.OnImportOrders = func(ctx context.Context, req *easytrans.ImportRequest) (*easytrans.OrderResult, error) {
		return nil, &easytrans.Error{
			Kind:    easytrans.KindAuth,
			Code:    12,
			Message: "[Error 12] Login attempt failed",
		}
	}
	client := newTestClient(mockImport, easytrans.NewMockRestAPI())

	order, err := easytrans.NewOrder(5, testDestinations()...)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.ImportOrders(ctx, []easytrans.Order{*order}, easytrans.ImportOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrAuth)
	assert.Contains(t, err.Error(), "[Error 12]")
}

func TestClient_ImportCustomers_Success(t *testing.T) {
	mockImport := easytrans.NewMockImportAPI()
	client := newTestClient(mockImport, easytrans.NewMockRestAPI())

	customer, err := easytrans.NewCustomer("ACME B.V.")
	require.NoError(t, err)
	customer.Contacts = []easytrans.CustomerContact{easytrans.NewCustomerContact("Jan")}

	ctx := context.Background()
	result, err := client.ImportCustomers(ctx, []easytrans.Customer{*customer}, easytrans.ImportOptions{Mode: easytrans.ModeEffect})

	require.NoError(t, err)
	require.Len(t, result.NewCustomerNos, 1)
	userIDs, ok := result.NewUserIDs[result.NewCustomerNos[0]]
	require.True(t, ok)
	assert.Len(t, userIDs, 1)

	auth := mockImport.Requests[0].Authentication
	assert.Equal(t, easytrans.ImportTypeCustomer, auth.Type)
}

const orderPageBody = `{
	"data": [
		{
			"id": 1,
			"createdAt": "2024-05-01T08:00:00+02:00",
			"updatedAt": "2024-05-02T09:00:00+02:00",
			"attributes": {
				"orderNo": 35558,
				"date": "2024-05-03",
				"status": "planned",
				"customerNo": 12345,
				"waybillNotes": "Handle with care"
			}
		},
		{
			"id": 2,
			"attributes": {"orderNo": 35559, "customerNo": 12345}
		}
	],
	"links": {"first": "https://x/api/v1/orders?page=1", "last": null, "prev": null, "next": null},
	"meta": {"current_page": 1, "last_page": 1, "per_page": 100, "total": 2}
}`

func TestClient_GetOrders_Success(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnGet = func(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
		return json.RawMessage(orderPageBody), nil
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	page, err := client.GetOrders(ctx, easytrans.ListOrdersOptions{
		Filter: easytrans.Filter{"status": "planned", "date": easytrans.Filter{"gte": "2024-01-01"}},
		Sort:   "date",
		Page:   1,
		Includes: easytrans.OrderIncludes{
			TrackHistory: true,
		},
	})

	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, 35558, page.Data[0].Attributes.OrderNo)
	assert.Equal(t, "planned", page.Data[0].Attributes.Status)
	assert.Equal(t, 2, page.Meta.Total)
	assert.False(t, page.HasNext)

	require.Len(t, mockRest.Calls, 1)
	call := mockRest.Calls[0]
	assert.Equal(t, "/orders", call.Path)
	assert.Equal(t, "planned", call.Query.Get("filter[status]"))
	assert.Equal(t, "2024-01-01", call.Query.Get("filter[date][gte]"))
	assert.Equal(t, "date", call.Query.Get("sort"))
	assert.Equal(t, "1", call.Query.Get("page"))
	assert.Equal(t, "true", call.Query.Get("include_track_history"))
	_, present := call.Query["include_customer"]
	assert.False(t, present)
}

func TestClient_GetOrders_EmptyCollection404(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnGet = func(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
		return nil, &easytrans.Error{Kind: easytrans.KindNotFound, StatusCode: 404, Message: "resource not found (404)"}
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	page, err := client.GetOrders(ctx, easytrans.ListOrdersOptions{})

	// A 404 on a list endpoint means an empty collection, not an error.
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.False(t, page.HasNext)
}

func TestClient_GetOrder_NotFoundPropagates(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnGet = func(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
		return nil, &easytrans.Error{Kind: easytrans.KindNotFound, StatusCode: 404, Message: "resource not found (404)"}
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	_, err := client.GetOrder(ctx, 99999, easytrans.OrderIncludes{})

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrNotFound)
}

func TestClient_GetOrder_PathAndIncludes(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnGet = func(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
		return json.RawMessage(`{"data": {"id": 1, "attributes": {"orderNo": 35558, "customerNo": 12345}}}`), nil
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	order, err := client.GetOrder(ctx, 35558, easytrans.OrderIncludes{Customer: true, SalesRates: true})

	require.NoError(t, err)
	assert.Equal(t, 35558, order.Attributes.OrderNo)

	call := mockRest.Calls[0]
	assert.Equal(t, "/orders/35558", call.Path)
	assert.Equal(t, "true", call.Query.Get("include_customer"))
	assert.Equal(t, "true", call.Query.Get("include_sales_rates"))
}

func TestClient_UpdateOrder_PartialBody(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnPut = func(ctx context.Context, path string, body any) (json.RawMessage, error) {
		return json.RawMessage(`{"data": {"id": 1, "attributes": {"orderNo": 35558, "customerNo": 12345}}}`), nil
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	order, err := client.UpdateOrder(ctx, 35558, easytrans.OrderUpdate{
		CarrierNo:    easytrans.Int(0), // 0 removes the assigned carrier
		WaybillNotes: easytrans.String("Deliver before noon"),
	})

	require.NoError(t, err)
	assert.Equal(t, 35558, order.Attributes.OrderNo)

	call := mockRest.Calls[0]
	assert.Equal(t, "PUT", call.Method)
	assert.Equal(t, "/orders/35558", call.Path)

	data, err := json.Marshal(call.Body)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, float64(0), wire["carrierNo"])
	assert.Equal(t, "Deliver before noon", wire["waybillNotes"])
	assert.NotContains(t, wire, "fleetNo")
	assert.NotContains(t, wire, "internalNotes")
	assert.NotContains(t, wire, "destinations")
}

func TestClient_GetCustomer_Embedded(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnGet = func(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
		return json.RawMessage(`{
			"data": {
				"id": 7,
				"attributes": {
					"customerNo": 12345,
					"companyName": "ACME B.V.",
					"contacts": [{"userId": 201, "name": "Jan"}]
				}
			}
		}`), nil
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	customer, err := client.GetCustomer(ctx, 12345, false)

	require.NoError(t, err)
	assert.Equal(t, 12345, customer.CustomerNo)
	assert.Equal(t, "ACME B.V.", customer.CompanyName)
	assert.True(t, customer.VatLiable)
	require.Len(t, customer.Contacts, 1)
	assert.Equal(t, "Jan", customer.Contacts[0].Name)

	assert.Equal(t, "/customers/12345", mockRest.Calls[0].Path)
}

func TestClient_GetProducts_NameFilter(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	page, err := client.GetProducts(ctx, easytrans.ListReferenceOptions{FilterName: "Express", IncludeDeleted: true})

	require.NoError(t, err)
	assert.Empty(t, page.Data)

	call := mockRest.Calls[0]
	assert.Equal(t, "/products", call.Path)
	assert.Equal(t, "Express", call.Query.Get("filter[productName]"))
	assert.Equal(t, "true", call.Query.Get("include_deleted"))
}

func TestClient_IterOrders_FollowsNextLinks(t *testing.T) {
	pageOne := `{
		"data": [
			{"id": 1, "attributes": {"orderNo": 1, "customerNo": 1}},
			{"id": 2, "attributes": {"orderNo": 2, "customerNo": 1}}
		],
		"links": {"next": "https://demo.easytrans.nl/demo/api/v1/orders?page=2"},
		"meta": {"current_page": 1, "last_page": 2, "per_page": 2, "total": 3}
	}`
	pageTwo := `{
		"data": [
			{"id": 3, "attributes": {"orderNo": 3, "customerNo": 1}}
		],
		"links": {"next": null},
		"meta": {"current_page": 2, "last_page": 2, "per_page": 2, "total": 3}
	}`

	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnGet = func(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
		if query.Get("page") == "2" {
			return json.RawMessage(pageTwo), nil
		}
		return json.RawMessage(pageOne), nil
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	var orderNos []int
	for order, err := range client.IterOrders(ctx, easytrans.ListOrdersOptions{}) {
		require.NoError(t, err)
		orderNos = append(orderNos, order.Attributes.OrderNo)
	}

	assert.Equal(t, []int{1, 2, 3}, orderNos)
	assert.Len(t, mockRest.Calls, 2, "one request per page, no request after the last page")
}

func TestClient_IterOrders_StopsEarly(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.OnGet = func(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
		return json.RawMessage(`{
			"data": [
				{"id": 1, "attributes": {"orderNo": 1, "customerNo": 1}},
				{"id": 2, "attributes": {"orderNo": 2, "customerNo": 1}}
			],
			"links": {"next": "https://demo.easytrans.nl/demo/api/v1/orders?page=2"},
			"meta": {"current_page": 1, "last_page": 99, "per_page": 2, "total": 198}
		}`), nil
	}
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	for order, err := range client.IterOrders(ctx, easytrans.ListOrdersOptions{}) {
		require.NoError(t, err)
		if order.Attributes.OrderNo == 1 {
			break
		}
	}

	assert.Len(t, mockRest.Calls, 1, "breaking the loop must not fetch further pages")
}

func TestClient_IterOrders_PropagatesError(t *testing.T) {
	mockRest := easytrans.NewMockRestAPI()
	mockRest.SimulateErrors = true
	client := newTestClient(easytrans.NewMockImportAPI(), mockRest)

	ctx := context.Background()
	var seen int
	for _, err := range client.IterOrders(ctx, easytrans.ListOrdersOptions{}) {
		seen++
		require.Error(t, err)
		assert.ErrorIs(t, err, easytrans.ErrTransport)
	}
	assert.Equal(t, 1, seen, "a failed page yields exactly one error element")
}

func TestClient_Close(t *testing.T) {
	mockImport := easytrans.NewMockImportAPI()
	mockRest := easytrans.NewMockRestAPI()
	client := newTestClient(mockImport, mockRest)

	client.Close()
	client.Close() // idempotent

	ctx := context.Background()

	order, err := easytrans.NewOrder(5, testDestinations()...)
	require.NoError(t, err)

	_, err = client.ImportOrders(ctx, []easytrans.Order{*order}, easytrans.ImportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrTransport)

	_, err = client.GetOrders(ctx, easytrans.ListOrdersOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrTransport)

	assert.Empty(t, mockImport.Requests)
	assert.Empty(t, mockRest.Calls)
}
