package easytrans_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easytrans/easytrans-go/pkg/easytrans"
)

const webhookFinished = `{
	"companyId": 100,
	"eventTime": "2024-06-01T14:30:00+02:00",
	"order": {
		"orderNo": 35558,
		"customerNo": 12345,
		"status": "finished",
		"subStatusId": null,
		"subStatusName": null,
		"externalId": "ext-42",
		"destinations": [
			{
				"addressId": 1,
				"stopNo": 1,
				"customerReference": "REF-1",
				"waybillNo": "WB-1",
				"notes": "",
				"taskType": "pickup",
				"taskResult": {
					"date": "2024-06-01",
					"arrivalTime": "10:02",
					"departureTime": "10:15",
					"signedBy": "J. Jansen",
					"base64EncodedSignature": "aGVsbG8=",
					"latitude": "52.370216",
					"longitude": "4.895168"
				}
			},
			{
				"addressId": 2,
				"stopNo": 2,
				"customerReference": "",
				"waybillNo": "",
				"notes": "Ring twice",
				"taskType": "delivery",
				"taskResult": {
					"date": "2024-06-01",
					"arrivalTime": "14:20",
					"departureTime": "14:28",
					"signedBy": "P. de Vries",
					"base64EncodedSignature": "d29ybGQ=",
					"latitude": null,
					"longitude": null
				}
			}
		]
	}
}`

func TestParseWebhook_Finished(t *testing.T) {
	payload, err := easytrans.ParseWebhook([]byte(webhookFinished))

	require.NoError(t, err)
	assert.Equal(t, 100, payload.CompanyID)
	assert.Equal(t, 35558, payload.Order.OrderNo)
	assert.Equal(t, easytrans.WebhookStatusFinished, payload.Order.Status)
	assert.Nil(t, payload.Order.SubStatusID)
	assert.Equal(t, "ext-42", payload.Order.ExternalID)

	require.Len(t, payload.Order.Destinations, 2)
	pickup := payload.Order.Destinations[0]
	assert.Equal(t, easytrans.TaskTypePickup, pickup.TaskType)
	assert.Equal(t, "J. Jansen", pickup.TaskResult.SignedBy)
	assert.Equal(t, "52.370216", pickup.TaskResult.Latitude)

	delivery := payload.Order.Destinations[1]
	assert.Equal(t, easytrans.TaskTypeDelivery, delivery.TaskType)
	assert.Empty(t, delivery.TaskResult.Latitude)
}

func TestParseWebhook_EventDateTime(t *testing.T) {
	payload, err := easytrans.ParseWebhook([]byte(webhookFinished))
	require.NoError(t, err)

	eventTime, err := payload.EventDateTime()
	require.NoError(t, err)
	assert.Equal(t, 2024, eventTime.Year())
	assert.Equal(t, time.June, eventTime.Month())
	assert.Equal(t, 14, eventTime.Hour())
}

func TestParseWebhook_MissingFieldsNamesAll(t *testing.T) {
	_, err := easytrans.ParseWebhook([]byte(`{"order": {"orderNo": 1, "customerNo": 2, "status": "collected"}}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrValidation)
	assert.Contains(t, err.Error(), "companyId")
	assert.Contains(t, err.Error(), "eventTime")
	assert.NotContains(t, err.Error(), "order,")
}

func TestParseWebhook_InvalidJSON(t *testing.T) {
	_, err := easytrans.ParseWebhook([]byte(`not json`))

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrValidation)
}

func TestParseWebhook_NonObjectPayload(t *testing.T) {
	_, err := easytrans.ParseWebhook([]byte(`[1, 2, 3]`))

	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrValidation)
}

func TestParseWebhookRequest_APIKey(t *testing.T) {
	header := http.Header{}
	header.Set("X-API-Key", "secret-key")

	payload, err := easytrans.ParseWebhookRequest([]byte(webhookFinished), header, "secret-key")
	require.NoError(t, err)
	assert.Equal(t, 35558, payload.Order.OrderNo)

	_, err = easytrans.ParseWebhookRequest([]byte(webhookFinished), header, "other-key")
	require.Error(t, err)
	assert.ErrorIs(t, err, easytrans.ErrAuth)

	// No configured key skips the check.
	_, err = easytrans.ParseWebhookRequest([]byte(webhookFinished), http.Header{}, "")
	assert.NoError(t, err)
}

func TestParseWebhookRequest_HeaderNameCaseInsensitive(t *testing.T) {
	header := http.Header{}
	header.Set("x-api-key", "secret-key")

	_, err := easytrans.ParseWebhookRequest([]byte(webhookFinished), header, "secret-key")
	assert.NoError(t, err)
}
