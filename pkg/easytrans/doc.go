// Package easytrans provides a typed client for the EasyTrans Software TMS.
//
// The vendor exposes two API surfaces and the Client wraps both:
//
//   - The JSON import endpoint (import_json.php) accepts batched order and
//     customer imports. Credentials travel in the request body and the
//     endpoint answers HTTP 200 even on failure; errors are reported through
//     an error object with a numeric errorno.
//   - The REST API (api/v1) exposes read access to orders, customers,
//     carriers, invoices and the supporting reference data, plus a narrow
//     order update. It authenticates with HTTP Basic Auth and uses regular
//     status codes.
//
// Both channels surface failures as *Error values that classify the vendor's
// numeric codes and HTTP statuses into stable kinds, so callers match with
// errors.Is against the exported sentinels instead of parsing messages.
package easytrans
