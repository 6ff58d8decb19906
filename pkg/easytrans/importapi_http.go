package easytrans

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const importPath = "/import_json.php"

// HTTPImportAPI is the production implementation of ImportAPI.
type HTTPImportAPI struct {
	http *resty.Client
}

// NewHTTPImportAPI creates an HTTP client for the import endpoint.
func NewHTTPImportAPI(cfg Config) *HTTPImportAPI {
	client := resty.New().
		SetBaseURL(cfg.baseURL()).
		SetTimeout(cfg.timeout()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &HTTPImportAPI{http: client}
}

// importResponse is the body shape of every import endpoint reply: either
// an error object or a result object, always under HTTP 200.
type importResponse struct {
	Error *struct {
		ErrorNo          int    `json:"errorno"`
		ErrorDescription string `json:"error_description"`
	} `json:"error"`
	Result json.RawMessage `json:"result"`
}

// do posts the request and returns the raw result object after error
// classification.
func (a *HTTPImportAPI) do(ctx context.Context, req *ImportRequest) (json.RawMessage, error) {
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(importPath)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "import request failed", Cause: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &Error{
			Kind:       KindTransport,
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("unexpected HTTP %d from import endpoint: %s", resp.StatusCode(), bodyPreview(resp.Body())),
		}
	}

	var body importResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &Error{
			Kind:    KindTransport,
			Message: "invalid JSON from import endpoint: " + bodyPreview(resp.Body()),
			Cause:   err,
		}
	}

	if body.Error != nil {
		return nil, classifyImportError(body.Error.ErrorNo, body.Error.ErrorDescription)
	}
	if len(body.Result) == 0 {
		return nil, &Error{
			Kind:    KindTransport,
			Message: "import endpoint returned neither result nor error: " + bodyPreview(resp.Body()),
		}
	}
	return body.Result, nil
}

// ImportOrders posts an order import and decodes the result.
func (a *HTTPImportAPI) ImportOrders(ctx context.Context, req *ImportRequest) (*OrderResult, error) {
	raw, err := a.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var result OrderResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &Error{Kind: KindTransport, Message: "decoding order import result", Cause: err}
	}
	return &result, nil
}

// ImportCustomers posts a customer import and decodes the result.
func (a *HTTPImportAPI) ImportCustomers(ctx context.Context, req *ImportRequest) (*CustomerResult, error) {
	raw, err := a.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var result CustomerResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &Error{Kind: KindTransport, Message: "decoding customer import result", Cause: err}
	}
	return &result, nil
}

// Close releases idle connections.
func (a *HTTPImportAPI) Close() {
	a.http.GetClient().CloseIdleConnections()
}

var _ ImportAPI = (*HTTPImportAPI)(nil)
