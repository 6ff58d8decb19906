package easytrans

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// OrderTrackTrace is the track and trace info returned per created order.
type OrderTrackTrace struct {
	LocalTrackingNr     string `json:"local_trackingnr"`
	LocalTrackTraceURL  string `json:"local_tracktrace_url"`
	GlobalTrackingNr    string `json:"global_trackingnr"`
	GlobalTrackTraceURL string `json:"global_tracktrace_url"`
	Status              string `json:"status"` // "quote", "saved-weborder", "pending-acceptation", "accepted"
}

// RateLine is a single priced line within an order rate.
type RateLine struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// OrderRate is the rate breakdown returned per order when return_rates was
// requested.
type OrderRate struct {
	Rates                  []RateLine `json:"rates"`
	OrderTotalExcludingVat float64    `json:"order_total_excluding_vat"`
	OrderTotalIncludingVat float64    `json:"order_total_including_vat"`
	Warnings               string     `json:"warnings,omitempty"`
}

// OrderResult is the result of an order import.
//
// The per-order maps are keyed by the order number rendered as a string,
// exactly as it appears on the wire.
type OrderResult struct {
	Mode                   string                       `json:"mode"`
	TotalOrders            int                          `json:"total_orders"`
	TotalOrderDestinations int                          `json:"total_order_destinations"`
	TotalOrderPackages     int                          `json:"total_order_packages"`
	ResultDescription      string                       `json:"result_description"`
	NewOrderNos            []int                        `json:"new_ordernos"`
	OrderTrackTrace        map[string]OrderTrackTrace   `json:"order_tracktrace"`
	OrderRates             map[string]OrderRate         `json:"order_rates"`
	OrderDocuments         map[string]map[string]string `json:"order_documents"`
	PacksResponse          json.RawMessage              `json:"packs_response,omitempty"`
	GLSResponse            json.RawMessage              `json:"gls_response,omitempty"`
}

// CustomerResult is the result of a customer import.
//
// Unlike the order maps, new_userids is keyed by numeric customer number:
// the wire sends string keys and they are converted on decode.
type CustomerResult struct {
	Mode                  string        `json:"mode"`
	TotalCustomers        int           `json:"total_customers"`
	TotalCustomerContacts int           `json:"total_customer_contacts"`
	ResultDescription     string        `json:"result_description"`
	NewCustomerNos        []int         `json:"new_customernos"`
	NewUserIDs            map[int][]int `json:"-"`
}

// UnmarshalJSON decodes a customer result, converting the string-keyed
// new_userids map to int keys.
func (r *CustomerResult) UnmarshalJSON(data []byte) error {
	type alias CustomerResult
	aux := struct {
		*alias
		RawUserIDs map[string][]int `json:"new_userids"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.RawUserIDs) > 0 {
		r.NewUserIDs = make(map[int][]int, len(aux.RawUserIDs))
		for key, userIDs := range aux.RawUserIDs {
			customerNo, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("non-numeric customer number %q in new_userids: %w", key, err)
			}
			r.NewUserIDs[customerNo] = userIDs
		}
	}
	return nil
}
