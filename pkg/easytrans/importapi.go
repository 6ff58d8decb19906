package easytrans

import (
	"context"
)

// Authentication is the credentials object embedded in every import
// request body. The import endpoint has no transport-level auth.
type Authentication struct {
	Username        string             `json:"username"`
	Password        string             `json:"password"`
	Type            ImportType         `json:"type"`
	Mode            Mode               `json:"mode"`
	Version         int                `json:"version"`
	ReturnRates     bool               `json:"return_rates,omitempty"`
	ReturnDocuments ReturnDocumentType `json:"return_documents,omitempty"`
}

// ImportRequest is the full body POSTed to import_json.php. Orders is set
// for order imports, Customers for customer imports, never both.
type ImportRequest struct {
	Authentication Authentication `json:"authentication"`
	Orders         []Order        `json:"orders,omitempty"`
	Customers      []Customer     `json:"customers,omitempty"`
}

// ImportAPI is the transport for the JSON import endpoint. Implementations
// handle the endpoint's error convention (HTTP 200 with an error object)
// and return classified *Error values.
type ImportAPI interface {
	ImportOrders(ctx context.Context, req *ImportRequest) (*OrderResult, error)
	ImportCustomers(ctx context.Context, req *ImportRequest) (*CustomerResult, error)
	Close()
}
