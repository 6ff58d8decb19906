package easytrans

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// HTTPRestAPI is the production implementation of RestAPI.
type HTTPRestAPI struct {
	http *resty.Client
}

// NewHTTPRestAPI creates an HTTP client for the REST API.
func NewHTTPRestAPI(cfg Config) *HTTPRestAPI {
	client := resty.New().
		SetBaseURL(cfg.baseURL() + "/api/v1").
		SetTimeout(cfg.timeout()).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &HTTPRestAPI{http: client}
}

// Get performs a GET request against the REST API.
func (a *HTTPRestAPI) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	req := a.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	return a.handle(resp, err)
}

// Put performs a PUT request against the REST API.
func (a *HTTPRestAPI) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(body).
		Put(path)
	return a.handle(resp, err)
}

func (a *HTTPRestAPI) handle(resp *resty.Response, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "REST request failed", Cause: err}
	}
	if err := classifyRESTError(resp.StatusCode(), resp.Body()); err != nil {
		return nil, err
	}
	if !json.Valid(resp.Body()) {
		return nil, &Error{
			Kind:       KindTransport,
			StatusCode: resp.StatusCode(),
			Message:    "invalid JSON in REST response: " + bodyPreview(resp.Body()),
		}
	}
	return json.RawMessage(resp.Body()), nil
}

// Close releases idle connections.
func (a *HTTPRestAPI) Close() {
	a.http.GetClient().CloseIdleConnections()
}

var _ RestAPI = (*HTTPRestAPI)(nil)
