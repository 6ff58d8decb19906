package easytrans

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// TaskResult holds proof-of-execution details for a completed destination
// task. All fields may be empty until the task is done.
type TaskResult struct {
	Date                   string `json:"date"`
	ArrivalTime            string `json:"arrivalTime"`
	DepartureTime          string `json:"departureTime"`
	SignedBy               string `json:"signedBy"`
	Base64EncodedSignature string `json:"base64EncodedSignature"`
	Latitude               string `json:"latitude"`
	Longitude              string `json:"longitude"`
}

// WebhookDestination is a destination stop as reported in a webhook.
type WebhookDestination struct {
	AddressID         int        `json:"addressId"`
	StopNo            int        `json:"stopNo"`
	CustomerReference string     `json:"customerReference"`
	WaybillNo         string     `json:"waybillNo"`
	Notes             string     `json:"notes"`
	TaskType          TaskType   `json:"taskType"`
	TaskResult        TaskResult `json:"taskResult"`
}

// WebhookOrder is the order snapshot inside a webhook payload.
type WebhookOrder struct {
	OrderNo              int                  `json:"orderNo"`
	CustomerNo           int                  `json:"customerNo"`
	Status               WebhookStatus        `json:"status"`
	SubStatusID          *int                 `json:"subStatusId"`
	SubStatusName        string               `json:"subStatusName"`
	Destinations         []WebhookDestination `json:"destinations"`
	ExternalID           string               `json:"externalId"`
	ExceptionCode        *int                 `json:"exceptionCode"`        // Packs exceptions only
	ExceptionDescription string               `json:"exceptionDescription"` // Packs exceptions only
}

// WebhookPayload is the status callback EasyTrans POSTs when an order
// changes state.
type WebhookPayload struct {
	CompanyID int          `json:"companyId"`
	EventTime string       `json:"eventTime"` // ISO 8601
	Order     WebhookOrder `json:"order"`
}

// EventDateTime parses the payload's eventTime.
func (p *WebhookPayload) EventDateTime() (time.Time, error) {
	return time.Parse(time.RFC3339, p.EventTime)
}

var webhookRequiredFields = []string{"companyId", "eventTime", "order"}

// ParseWebhook decodes a webhook body. A body that is not a JSON object or
// lacks any of the required top-level fields yields a validation error; the
// error message names every missing field.
func ParseWebhook(body []byte) (*WebhookPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "invalid JSON in webhook payload", Cause: err}
	}

	var missing []string
	for _, field := range webhookRequiredFields {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &Error{
			Kind:    KindValidation,
			Message: "webhook payload missing required fields: " + strings.Join(missing, ", "),
		}
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "malformed webhook payload", Cause: err}
	}
	return &payload, nil
}

// ParseWebhookRequest verifies the X-API-Key header against expectedAPIKey
// before decoding the body. An empty expectedAPIKey skips the check, for
// accounts that have no key configured.
func ParseWebhookRequest(body []byte, header http.Header, expectedAPIKey string) (*WebhookPayload, error) {
	if expectedAPIKey != "" {
		if header.Get("X-API-Key") != expectedAPIKey {
			return nil, &Error{Kind: KindAuth, Message: "webhook API key mismatch"}
		}
	}
	return ParseWebhook(body)
}
