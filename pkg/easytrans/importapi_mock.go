package easytrans

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockImportAPI is a mock implementation of ImportAPI for testing.
type MockImportAPI struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnImportOrders    func(ctx context.Context, req *ImportRequest) (*OrderResult, error)
	OnImportCustomers func(ctx context.Context, req *ImportRequest) (*CustomerResult, error)

	// Requests records every request received, in order.
	Requests []*ImportRequest
}

// NewMockImportAPI creates a new mock import API with default behavior.
func NewMockImportAPI() *MockImportAPI {
	return &MockImportAPI{}
}

// ImportOrders returns a mock order import result.
func (m *MockImportAPI) ImportOrders(ctx context.Context, req *ImportRequest) (*OrderResult, error) {
	m.Requests = append(m.Requests, req)

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, classifyImportError(5, "Error in JSON data, import cancelled")
	}
	if m.OnImportOrders != nil {
		return m.OnImportOrders(ctx, req)
	}

	totalDestinations := 0
	totalPackages := 0
	for _, order := range req.Orders {
		totalDestinations += len(order.Destinations)
		totalPackages += len(order.Packages)
	}

	orderNos := make([]int, len(req.Orders))
	trackTrace := make(map[string]OrderTrackTrace, len(req.Orders))
	for i := range req.Orders {
		orderNo := 29000 + int(time.Now().UnixNano()%1000) + i
		orderNos[i] = orderNo
		tracking := mockTrackingNr()
		trackTrace[fmt.Sprintf("%d", orderNo)] = OrderTrackTrace{
			LocalTrackingNr:     tracking,
			LocalTrackTraceURL:  fmt.Sprintf("https://demo.easytrans.nl/track/%s", tracking),
			GlobalTrackingNr:    tracking,
			GlobalTrackTraceURL: fmt.Sprintf("https://portal.easytrans.net/track/%s", tracking),
			Status:              "accepted",
		}
	}

	return &OrderResult{
		Mode:                   string(req.Authentication.Mode),
		TotalOrders:            len(req.Orders),
		TotalOrderDestinations: totalDestinations,
		TotalOrderPackages:     totalPackages,
		ResultDescription:      "Import successful",
		NewOrderNos:            orderNos,
		OrderTrackTrace:        trackTrace,
	}, nil
}

// ImportCustomers returns a mock customer import result.
func (m *MockImportAPI) ImportCustomers(ctx context.Context, req *ImportRequest) (*CustomerResult, error) {
	m.Requests = append(m.Requests, req)

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, classifyImportError(50, "Customer import failed")
	}
	if m.OnImportCustomers != nil {
		return m.OnImportCustomers(ctx, req)
	}

	totalContacts := 0
	customerNos := make([]int, len(req.Customers))
	userIDs := make(map[int][]int, len(req.Customers))
	for i, customer := range req.Customers {
		totalContacts += len(customer.Contacts)
		customerNo := 12000 + int(time.Now().UnixNano()%1000) + i
		customerNos[i] = customerNo
		ids := make([]int, len(customer.Contacts))
		for j := range customer.Contacts {
			ids[j] = 200 + j
		}
		userIDs[customerNo] = ids
	}

	return &CustomerResult{
		Mode:                  string(req.Authentication.Mode),
		TotalCustomers:        len(req.Customers),
		TotalCustomerContacts: totalContacts,
		ResultDescription:     "Import successful",
		NewCustomerNos:        customerNos,
		NewUserIDs:            userIDs,
	}, nil
}

// Close is a no-op for the mock.
func (m *MockImportAPI) Close() {}

func mockTrackingNr() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:13]
}

var _ ImportAPI = (*MockImportAPI)(nil)
