package easytrans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds EasyTrans connection settings. Server is the hostname
// without protocol (e.g. "mytrans.nl"); a scheme may be included for
// non-TLS test servers. Environment is the path segment identifying the
// EasyTrans environment (e.g. "demo", "production").
type Config struct {
	Server      string
	Environment string
	Username    string
	Password    string
	DefaultMode Mode          // mode for import calls when none is given, defaults to test
	Timeout     time.Duration // HTTP timeout, defaults to 30s
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	// Metrics enables Prometheus instrumentation when set.
	Metrics *Metrics
}

func (c Config) baseURL() string {
	server := c.Server
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}
	return fmt.Sprintf("%s/%s", server, c.Environment)
}

func (c Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

func (c Config) mode() Mode {
	if c.DefaultMode == "" {
		return ModeTest
	}
	return c.DefaultMode
}

// Client is the EasyTrans client. It wraps both API surfaces and delegates
// transport to the underlying ImportAPI and RestAPI (mock or HTTP).
type Client struct {
	config    Config
	importAPI ImportAPI
	restAPI   RestAPI
	logger    *otelzap.Logger
	tracer    trace.Tracer
	closed    atomic.Bool
}

// New creates a new EasyTrans client using the production HTTP transports.
// A nil logger falls back to a no-op logger; a nil tracer disables spans.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return NewWithAPIClients(cfg, NewHTTPImportAPI(cfg), NewHTTPRestAPI(cfg), logger, tracer)
}

// NewWithAPIClients creates a new EasyTrans client with custom transports.
// This is useful for injecting mock clients in tests.
func NewWithAPIClients(cfg Config, importAPI ImportAPI, restAPI RestAPI, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	return &Client{
		config:    cfg,
		importAPI: importAPI,
		restAPI:   restAPI,
		logger:    logger,
		tracer:    tracer,
	}
}

// Close releases both transports. Further calls on the client fail with a
// transport error. Close is idempotent.
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.importAPI.Close()
		c.restAPI.Close()
	}
}

func (c *Client) checkOpen() error {
	if c.closed.Load() {
		return &Error{Kind: KindTransport, Message: "client is closed"}
	}
	return nil
}

// startOp opens a span for the operation when tracing is enabled and
// returns a completion callback that records metrics and span status.
func (c *Client) startOp(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, "easytrans."+op,
			trace.WithAttributes(attribute.String("easytrans.operation", op)),
		)
	}
	return ctx, func(err error) {
		if span != nil {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}
		if m := c.config.Metrics; m != nil {
			m.observe(op, err, time.Since(start))
		}
	}
}

// ============================================================================
// JSON import
// ============================================================================

// ImportOptions tunes a single import call. The zero value uses the
// client's default mode with no rates or documents returned.
type ImportOptions struct {
	Mode            Mode // overrides Config.DefaultMode when set
	ReturnRates     bool
	ReturnDocuments ReturnDocumentType
}

func (c *Client) buildAuth(importType ImportType, opts ImportOptions) Authentication {
	mode := opts.Mode
	if mode == "" {
		mode = c.config.mode()
	}
	return Authentication{
		Username:        c.config.Username,
		Password:        c.config.Password,
		Type:            importType,
		Mode:            mode,
		Version:         2,
		ReturnRates:     opts.ReturnRates,
		ReturnDocuments: opts.ReturnDocuments,
	}
}

// ImportOrders submits a batch of orders to the import endpoint. Every
// order is validated locally before anything is sent.
func (c *Client) ImportOrders(ctx context.Context, orders []Order, opts ImportOptions) (*OrderResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			return nil, err
		}
	}

	ctx, done := c.startOp(ctx, "import_orders")
	auth := c.buildAuth(ImportTypeOrder, opts)

	c.logger.Ctx(ctx).Info("Importing orders",
		zap.Int("order_count", len(orders)),
		zap.String("mode", string(auth.Mode)),
	)

	result, err := c.importAPI.ImportOrders(ctx, &ImportRequest{Authentication: auth, Orders: orders})
	done(err)
	if err != nil {
		c.logger.Ctx(ctx).Error("Order import failed", zap.Error(err))
		return nil, err
	}

	c.logger.Ctx(ctx).Info("Orders imported",
		zap.Ints("new_ordernos", result.NewOrderNos),
		zap.String("mode", result.Mode),
	)
	return result, nil
}

// ImportCustomers submits a batch of customers to the import endpoint.
// Every customer is validated locally before anything is sent.
func (c *Client) ImportCustomers(ctx context.Context, customers []Customer, opts ImportOptions) (*CustomerResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	for i := range customers {
		if err := customers[i].Validate(); err != nil {
			return nil, err
		}
	}

	ctx, done := c.startOp(ctx, "import_customers")
	auth := c.buildAuth(ImportTypeCustomer, opts)

	c.logger.Ctx(ctx).Info("Importing customers",
		zap.Int("customer_count", len(customers)),
		zap.String("mode", string(auth.Mode)),
	)

	result, err := c.importAPI.ImportCustomers(ctx, &ImportRequest{Authentication: auth, Customers: customers})
	done(err)
	if err != nil {
		c.logger.Ctx(ctx).Error("Customer import failed", zap.Error(err))
		return nil, err
	}

	c.logger.Ctx(ctx).Info("Customers imported",
		zap.Ints("new_customernos", result.NewCustomerNos),
		zap.String("mode", result.Mode),
	)
	return result, nil
}

// ============================================================================
// Generic REST helpers
// ============================================================================

// listResource GETs a list endpoint and decodes one page. A 404 is
// translated into an empty page: some environments 404 on an empty
// collection instead of returning {"data": []}.
func listResource[T any](ctx context.Context, c *Client, op, path string, query url.Values) (*PagedResponse[T], error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	ctx, done := c.startOp(ctx, op)

	raw, err := c.restAPI.Get(ctx, path, query)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			done(nil)
			return emptyPage[T](), nil
		}
		done(err)
		c.logger.Ctx(ctx).Error("REST list request failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	page, err := decodePage[T](raw)
	done(err)
	return page, err
}

// getResource GETs a single-resource endpoint and decodes its data object.
func getResource[T any](ctx context.Context, c *Client, op, path string, query url.Values) (*T, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	ctx, done := c.startOp(ctx, op)

	raw, err := c.restAPI.Get(ctx, path, query)
	if err != nil {
		done(err)
		c.logger.Ctx(ctx).Error("REST request failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	var body struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		err = &Error{Kind: KindTransport, Message: "decoding REST response", Cause: err}
		done(err)
		return nil, err
	}
	done(nil)
	return &body.Data, nil
}

func includeDeletedParams(includeDeleted bool) url.Values {
	return buildQuery(nil, "", 0, map[string]bool{"include_deleted": includeDeleted})
}

// nameFilter wraps an optional name fragment into a filter on the given
// field.
func nameFilter(field, value string) Filter {
	if value == "" {
		return nil
	}
	return Filter{field: value}
}

// ============================================================================
// REST: orders
// ============================================================================

// OrderIncludes selects the optional embeds on order endpoints.
type OrderIncludes struct {
	Customer      bool // embed full customer record
	Carrier       bool // embed full carrier record (branch only)
	TrackHistory  bool // include track and trace history
	SalesRates    bool // include sales rate breakdown
	PurchaseRates bool // include purchase rates (branch only)
	Deleted       bool // include soft-deleted orders (branch only)
}

func (inc OrderIncludes) flags() map[string]bool {
	return map[string]bool{
		"include_customer":       inc.Customer,
		"include_carrier":        inc.Carrier,
		"include_track_history":  inc.TrackHistory,
		"include_sales_rates":    inc.SalesRates,
		"include_purchase_rates": inc.PurchaseRates,
		"include_deleted":        inc.Deleted,
	}
}

// ListOrdersOptions tunes GetOrders and IterOrders.
type ListOrdersOptions struct {
	Filter   Filter
	Sort     string // e.g. "date,-orderNo"
	Page     int    // 1-based
	Includes OrderIncludes
}

func (o ListOrdersOptions) query() url.Values {
	return buildQuery(o.Filter, o.Sort, o.Page, o.Includes.flags())
}

// GetOrders returns one page of transport orders.
func (c *Client) GetOrders(ctx context.Context, opts ListOrdersOptions) (*PagedResponse[RestOrder], error) {
	return listResource[RestOrder](ctx, c, "get_orders", "/orders", opts.query())
}

// GetOrder returns a single order by order number.
func (c *Client) GetOrder(ctx context.Context, orderNo int, includes OrderIncludes) (*RestOrder, error) {
	query := buildQuery(nil, "", 0, includes.flags())
	return getResource[RestOrder](ctx, c, "get_order", fmt.Sprintf("/orders/%d", orderNo), query)
}

// IterOrders lazily yields every order across all pages.
func (c *Client) IterOrders(ctx context.Context, opts ListOrdersOptions) iter.Seq2[RestOrder, error] {
	return iterResource[RestOrder](ctx, c, "iter_orders", "/orders", opts.query())
}

// OrderUpdate is a partial order update for branch accounts. Only non-nil
// fields are sent; CarrierNo set to 0 removes the assigned carrier. The
// element maps for destinations and goods must carry an addressId/stopNo
// or packageId/packageNo key to address the record being changed.
type OrderUpdate struct {
	CarrierNo               *int             `json:"carrierNo,omitempty"`
	FleetNo                 *int             `json:"fleetNo,omitempty"`
	WaybillNotes            *string          `json:"waybillNotes,omitempty"`
	InvoiceNotes            *string          `json:"invoiceNotes,omitempty"`
	PurchaseInvoiceNotes    *string          `json:"purchaseInvoiceNotes,omitempty"`
	InternalNotes           *string          `json:"internalNotes,omitempty"`
	ReadyForPurchaseInvoice *bool            `json:"readyForPurchaseInvoice,omitempty"`
	ExternalID              *string          `json:"externalId,omitempty"` // max 50 chars
	Destinations            []map[string]any `json:"destinations,omitempty"`
	Goods                   []map[string]any `json:"goods,omitempty"`
	SalesRates              []map[string]any `json:"salesRates,omitempty"`
	PurchaseRates           []map[string]any `json:"purchaseRates,omitempty"`
}

// UpdateOrder applies a partial update to an order (branch accounts only)
// and returns the updated order.
func (c *Client) UpdateOrder(ctx context.Context, orderNo int, update OrderUpdate) (*RestOrder, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	ctx, done := c.startOp(ctx, "update_order")

	c.logger.Ctx(ctx).Info("Updating order", zap.Int("orderno", orderNo))

	raw, err := c.restAPI.Put(ctx, fmt.Sprintf("/orders/%d", orderNo), update)
	if err != nil {
		done(err)
		c.logger.Ctx(ctx).Error("Order update failed", zap.Int("orderno", orderNo), zap.Error(err))
		return nil, err
	}

	var body struct {
		Data RestOrder `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		err = &Error{Kind: KindTransport, Message: "decoding order update response", Cause: err}
		done(err)
		return nil, err
	}
	done(nil)
	return &body.Data, nil
}

// ============================================================================
// REST: reference data
// ============================================================================

// ListReferenceOptions tunes the reference data list endpoints (products,
// substatuses, package types, vehicle types). FilterName matches on part
// of the record name.
type ListReferenceOptions struct {
	FilterName     string
	IncludeDeleted bool
}

func (o ListReferenceOptions) query(filterField string) url.Values {
	return buildQuery(
		nameFilter(filterField, o.FilterName), "", 0,
		map[string]bool{"include_deleted": o.IncludeDeleted},
	)
}

// GetProducts returns the transport products (services).
func (c *Client) GetProducts(ctx context.Context, opts ListReferenceOptions) (*PagedResponse[RestProduct], error) {
	return listResource[RestProduct](ctx, c, "get_products", "/products", opts.query("productName"))
}

// GetProduct returns a single product by product number.
func (c *Client) GetProduct(ctx context.Context, productNo int, includeDeleted bool) (*RestProduct, error) {
	return getResource[RestProduct](ctx, c, "get_product",
		fmt.Sprintf("/products/%d", productNo), includeDeletedParams(includeDeleted))
}

// GetSubstatuses returns the order substatuses.
func (c *Client) GetSubstatuses(ctx context.Context, opts ListReferenceOptions) (*PagedResponse[RestSubstatus], error) {
	return listResource[RestSubstatus](ctx, c, "get_substatuses", "/substatuses", opts.query("substatusName"))
}

// GetSubstatus returns a single substatus by substatus number.
func (c *Client) GetSubstatus(ctx context.Context, substatusNo int, includeDeleted bool) (*RestSubstatus, error) {
	return getResource[RestSubstatus](ctx, c, "get_substatus",
		fmt.Sprintf("/substatuses/%d", substatusNo), includeDeletedParams(includeDeleted))
}

// GetPackageTypes returns the package / rate types.
func (c *Client) GetPackageTypes(ctx context.Context, opts ListReferenceOptions) (*PagedResponse[RestPackageType], error) {
	return listResource[RestPackageType](ctx, c, "get_package_types", "/packagetypes", opts.query("packageTypeName"))
}

// GetPackageType returns a single package type by its number.
func (c *Client) GetPackageType(ctx context.Context, packageTypeNo int, includeDeleted bool) (*RestPackageType, error) {
	return getResource[RestPackageType](ctx, c, "get_package_type",
		fmt.Sprintf("/packagetypes/%d", packageTypeNo), includeDeletedParams(includeDeleted))
}

// GetVehicleTypes returns the vehicle types.
func (c *Client) GetVehicleTypes(ctx context.Context, opts ListReferenceOptions) (*PagedResponse[RestVehicleType], error) {
	return listResource[RestVehicleType](ctx, c, "get_vehicle_types", "/vehicletypes", opts.query("vehicleTypeName"))
}

// GetVehicleType returns a single vehicle type by its number.
func (c *Client) GetVehicleType(ctx context.Context, vehicleTypeNo int, includeDeleted bool) (*RestVehicleType, error) {
	return getResource[RestVehicleType](ctx, c, "get_vehicle_type",
		fmt.Sprintf("/vehicletypes/%d", vehicleTypeNo), includeDeletedParams(includeDeleted))
}

// ============================================================================
// REST: customers and carriers (branch accounts only)
// ============================================================================

// ListCustomersOptions tunes GetCustomers and IterCustomers.
type ListCustomersOptions struct {
	Filter         Filter
	Sort           string // e.g. "companyName,-createdAt"
	Page           int    // 1-based
	IncludeDeleted bool
}

func (o ListCustomersOptions) query() url.Values {
	return buildQuery(o.Filter, o.Sort, o.Page, map[string]bool{"include_deleted": o.IncludeDeleted})
}

// GetCustomers returns one page of customers (branch accounts only).
func (c *Client) GetCustomers(ctx context.Context, opts ListCustomersOptions) (*PagedResponse[RestCustomer], error) {
	return listResource[RestCustomer](ctx, c, "get_customers", "/customers", opts.query())
}

// GetCustomer returns a single customer by customer number (branch
// accounts only).
func (c *Client) GetCustomer(ctx context.Context, customerNo int, includeDeleted bool) (*RestCustomer, error) {
	return getResource[RestCustomer](ctx, c, "get_customer",
		fmt.Sprintf("/customers/%d", customerNo), includeDeletedParams(includeDeleted))
}

// IterCustomers lazily yields every customer across all pages.
func (c *Client) IterCustomers(ctx context.Context, opts ListCustomersOptions) iter.Seq2[RestCustomer, error] {
	return iterResource[RestCustomer](ctx, c, "iter_customers", "/customers", opts.query())
}

// GetCarriers returns one page of carriers (branch accounts only).
func (c *Client) GetCarriers(ctx context.Context, opts ListCustomersOptions) (*PagedResponse[RestCarrier], error) {
	return listResource[RestCarrier](ctx, c, "get_carriers", "/carriers", opts.query())
}

// GetCarrier returns a single carrier by carrier number (branch accounts
// only).
func (c *Client) GetCarrier(ctx context.Context, carrierNo int, includeDeleted bool) (*RestCarrier, error) {
	return getResource[RestCarrier](ctx, c, "get_carrier",
		fmt.Sprintf("/carriers/%d", carrierNo), includeDeletedParams(includeDeleted))
}

// ============================================================================
// REST: fleet (branch accounts only)
// ============================================================================

// GetFleet returns the vehicles of the branch fleet. filterRegistration
// matches on part of the license plate; pass "" for all vehicles.
func (c *Client) GetFleet(ctx context.Context, filterRegistration string, includeDeleted bool) (*PagedResponse[RestFleetVehicle], error) {
	query := buildQuery(
		nameFilter("registration", filterRegistration), "", 0,
		map[string]bool{"include_deleted": includeDeleted},
	)
	return listResource[RestFleetVehicle](ctx, c, "get_fleet", "/fleet", query)
}

// GetFleetVehicle returns a single fleet vehicle by fleet number.
func (c *Client) GetFleetVehicle(ctx context.Context, fleetNo int, includeDeleted bool) (*RestFleetVehicle, error) {
	return getResource[RestFleetVehicle](ctx, c, "get_fleet_vehicle",
		fmt.Sprintf("/fleet/%d", fleetNo), includeDeletedParams(includeDeleted))
}

// ============================================================================
// REST: invoices
// ============================================================================

// ListInvoicesOptions tunes GetInvoices and IterInvoices. IncludePDF
// embeds a base64-encoded PDF in every invoice, which substantially
// increases response size.
type ListInvoicesOptions struct {
	Filter          Filter
	Page            int // 1-based
	IncludeCustomer bool
	IncludePDF      bool
}

func (o ListInvoicesOptions) query() url.Values {
	return buildQuery(o.Filter, "", o.Page, map[string]bool{
		"include_customer": o.IncludeCustomer,
		"include_invoice":  o.IncludePDF,
	})
}

// GetInvoices returns one page of sales invoices.
func (c *Client) GetInvoices(ctx context.Context, opts ListInvoicesOptions) (*PagedResponse[RestInvoice], error) {
	return listResource[RestInvoice](ctx, c, "get_invoices", "/invoices", opts.query())
}

// GetInvoice returns a single invoice by its internal invoice ID (not the
// human-readable invoice number).
func (c *Client) GetInvoice(ctx context.Context, invoiceID int, includeCustomer, includePDF bool) (*RestInvoice, error) {
	query := buildQuery(nil, "", 0, map[string]bool{
		"include_customer": includeCustomer,
		"include_invoice":  includePDF,
	})
	return getResource[RestInvoice](ctx, c, "get_invoice",
		fmt.Sprintf("/invoices/%d", invoiceID), query)
}

// IterInvoices lazily yields every invoice across all pages.
func (c *Client) IterInvoices(ctx context.Context, opts ListInvoicesOptions) iter.Seq2[RestInvoice, error] {
	return iterResource[RestInvoice](ctx, c, "iter_invoices", "/invoices", opts.query())
}

// ============================================================================
// Webhooks
// ============================================================================

// ParseWebhook decodes a webhook body, logging the event on success.
func (c *Client) ParseWebhook(body []byte) (*WebhookPayload, error) {
	payload, err := ParseWebhook(body)
	if err != nil {
		c.logger.Error("Webhook parse failed", zap.Error(err))
		return nil, err
	}
	c.logger.Info("Webhook received",
		zap.Int("orderno", payload.Order.OrderNo),
		zap.String("status", string(payload.Order.Status)),
	)
	return payload, nil
}
