package easytrans

import (
	"encoding/json"
)

// Models returned by the REST API. They carry the Rest prefix to keep them
// apart from the import models, which share names but not shapes. Records
// fetched from a top-level endpoint arrive wrapped in an {id, attributes}
// envelope; the same records embedded inside another response (for example
// a customer inside an order) arrive flattened. decodeEnveloped handles
// both layouts.

// decodeEnveloped unmarshals the record itself first, which covers the id,
// timestamps and the flat layout, then overlays the attributes object when
// the envelope is present. out must not have an UnmarshalJSON of its own,
// callers pass an alias type.
func decodeEnveloped(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	var envelope struct {
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if len(envelope.Attributes) > 0 && string(envelope.Attributes) != "null" {
		return json.Unmarshal(envelope.Attributes, out)
	}
	return nil
}

// PaginationLinks are the cursor links returned with every list response.
type PaginationLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// PaginationMeta is the pagination metadata returned with every list
// response.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page"`
	LastPage    int  `json:"last_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	From        *int `json:"from"`
	To          *int `json:"to"`
}

// PagedResponse is one page of a REST list endpoint. HasNext mirrors
// whether Links.Next is set; the Iter methods on Client follow the links
// automatically.
type PagedResponse[T any] struct {
	Data    []T
	Links   PaginationLinks
	Meta    PaginationMeta
	HasNext bool
}

// decodePage decodes a raw list response. Missing meta fields fall back to
// a single page of up to 100 records.
func decodePage[T any](raw json.RawMessage) (*PagedResponse[T], error) {
	var body struct {
		Data  []T             `json:"data"`
		Links PaginationLinks `json:"links"`
		Meta  PaginationMeta  `json:"meta"`
	}
	body.Meta = PaginationMeta{CurrentPage: 1, LastPage: 1, PerPage: 100}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &Error{Kind: KindTransport, Message: "decoding list response", Cause: err}
	}
	if body.Data == nil {
		body.Data = []T{}
	}
	return &PagedResponse[T]{
		Data:    body.Data,
		Links:   body.Links,
		Meta:    body.Meta,
		HasNext: body.Links.Next != nil && *body.Links.Next != "",
	}, nil
}

// emptyPage is the synthetic page used when a list endpoint returns 404,
// which the API does for an empty result set.
func emptyPage[T any]() *PagedResponse[T] {
	return &PagedResponse[T]{
		Data: []T{},
		Meta: PaginationMeta{CurrentPage: 1, LastPage: 1, PerPage: 100},
	}
}

// RestAddress is a business or mailing address block.
type RestAddress struct {
	Address  string `json:"address"`
	HouseNo  string `json:"houseno"`
	Address2 string `json:"address2"`
	Postcode string `json:"postcode"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// RestMailingAddress extends RestAddress with an attn line.
type RestMailingAddress struct {
	RestAddress
	Attn string `json:"attn"`
}

// RestLocation is a GPS coordinate pair attached to a destination.
type RestLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// RestDestination is a pickup or delivery stop on a transport order.
// Read-only; destination updates go through Client.UpdateOrder.
type RestDestination struct {
	AddressID         *int          `json:"addressId"`
	StopNo            *int          `json:"stopNo"`
	TaskType          TaskType      `json:"taskType"`
	Company           string        `json:"company"`
	Contact           string        `json:"contact"`
	Address           string        `json:"address"`
	HouseNo           string        `json:"houseno"`
	Address2          string        `json:"address2"`
	Postcode          string        `json:"postcode"`
	City              string        `json:"city"`
	Country           string        `json:"country"`
	Location          *RestLocation `json:"location"`
	Phone             string        `json:"phone"`
	Notes             string        `json:"notes"`
	CustomerReference string        `json:"customerReference"`
	WaybillNo         string        `json:"waybillNo"`
	Date              string        `json:"date"`
	FromTime          string        `json:"fromTime"`
	ToTime            string        `json:"toTime"`
	ETA               string        `json:"eta"`
	DeliveryDate      string        `json:"deliveryDate"`
	DeliveryTime      string        `json:"deliveryTime"`
	DepartureTime     string        `json:"departureTime"`
	DeliveryName      string        `json:"deliveryName"`
	// SignatureURL is a URL string for branch accounts but a boolean flag
	// for customer accounts, so it is kept as raw JSON.
	SignatureURL json.RawMessage `json:"signatureUrl"`
	Photos       []string        `json:"photos"`
	Documents    []string        `json:"documents"`
	CarrierNotes string          `json:"carrierNotes"`
}

// SignatureLink returns the signature URL when the account type provides
// one, and "" otherwise.
func (d *RestDestination) SignatureLink() string {
	var s string
	if err := json.Unmarshal(d.SignatureURL, &s); err != nil {
		return ""
	}
	return s
}

// RestGoodsLine is a line of goods (package) on a transport order.
type RestGoodsLine struct {
	PackageID           *int     `json:"packageId"`
	PackageNo           *int     `json:"packageNo"`
	PickupDestination   *int     `json:"pickupDestination"`
	DeliveryDestination *int     `json:"deliveryDestination"`
	Amount              int      `json:"amount"`
	PackageTypeNo       *int     `json:"packageTypeNo"`
	PackageTypeName     string   `json:"packageTypeName"`
	Weight              *float64 `json:"weight"`
	Length              *float64 `json:"length"`
	Width               *float64 `json:"width"`
	Height              *float64 `json:"height"`
	Description         string   `json:"description"`
}

// RestRate is a sales or purchase rate line attached to an order. Amounts
// arrive as decimal strings and are kept that way.
type RestRate struct {
	RateNo          int    `json:"rateNo"`
	Description     string `json:"description"`
	RatePerUnit     string `json:"ratePerUnit"`
	SubTotal        string `json:"subTotal"`
	IsMinimumAmount bool   `json:"isMinimumAmount"`
	IsPercentage    bool   `json:"isPercentage"`
}

// RestTrackHistoryEntry is a single entry in an order's track and trace
// history.
type RestTrackHistoryEntry struct {
	TrackID  *int   `json:"trackId"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// RestCustomerContact is a contact person on a customer record.
type RestCustomerContact struct {
	UserID              *int       `json:"userId"`
	ContactNo           *int       `json:"contactNo"`
	Salutation          Salutation `json:"salutation"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	Mobile              string     `json:"mobile"`
	Email               string     `json:"email"`
	UseEmailForInvoice  bool       `json:"useEmailForInvoice"`
	UseEmailForReminder bool       `json:"useEmailForReminder"`
	Notes               string     `json:"notes"`
	Username            string     `json:"username"`
}

// RestCustomer is a customer record from GET /customers, or embedded in
// order and invoice responses when include_customer is requested.
type RestCustomer struct {
	ID                      int                   `json:"id"`
	CreatedAt               string                `json:"createdAt"`
	UpdatedAt               string                `json:"updatedAt"`
	CustomerNo              int                   `json:"customerNo"`
	CompanyName             string                `json:"companyName"`
	BusinessAddress         *RestAddress          `json:"businessAddress"`
	MailingAddress          *RestMailingAddress   `json:"mailingAddress"`
	Website                 string                `json:"website"`
	DebtorNo                string                `json:"debtorNo"`
	PaymentReference        string                `json:"paymentReference"`
	PaymentPeriod           int                   `json:"paymentPeriod"`
	PaymentPeriodEndOfMonth bool                  `json:"paymentPeriodEndOfMonth"`
	IBANNo                  string                `json:"ibanNo"`
	BICCode                 string                `json:"bicCode"`
	BankNo                  string                `json:"bankNo"`
	UKSortCode              string                `json:"ukSortCode"`
	VatNo                   string                `json:"vatNo"`
	VatLiable               bool                  `json:"vatLiable"`
	VatLiableCode           *int                  `json:"vatLiableCode"`
	ChamberOfCommerceNo     string                `json:"chamberOfCommerceNo"`
	EoriNo                  string                `json:"eoriNo"`
	Language                Language              `json:"language"`
	Notes                   string                `json:"notes"`
	CRMNotes                string                `json:"crmNotes"`
	InvoiceSurcharge        *float64              `json:"invoiceSurcharge"`
	Active                  bool                  `json:"active"`
	IsDeleted               *bool                 `json:"isDeleted"`
	Contacts                []RestCustomerContact `json:"contacts"`
	ExternalID              string                `json:"externalId"`
}

// UnmarshalJSON accepts both the enveloped and the flat layout, defaulting
// vatLiable and active to true when absent.
func (c *RestCustomer) UnmarshalJSON(data []byte) error {
	type alias RestCustomer
	a := alias{VatLiable: true, Active: true}
	if err := decodeEnveloped(data, &a); err != nil {
		return err
	}
	*c = RestCustomer(a)
	return nil
}

// RestCarrierContact is a contact person on a carrier record.
type RestCarrierContact struct {
	UserID   *int   `json:"userId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
	Username string `json:"username"`
}

// RestCarrier is a carrier record from GET /carriers, or embedded in order
// responses when include_carrier is requested. Branch accounts only.
type RestCarrier struct {
	ID                      int                  `json:"id"`
	CreatedAt               string               `json:"createdAt"`
	UpdatedAt               string               `json:"updatedAt"`
	CarrierNo               int                  `json:"carrierNo"`
	Name                    string               `json:"name"`
	BusinessAddress         *RestAddress         `json:"businessAddress"`
	MailingAddress          *RestMailingAddress  `json:"mailingAddress"`
	Phone                   string               `json:"phone"`
	Mobile                  string               `json:"mobile"`
	Email                   string               `json:"email"`
	EmailPurchaseInvoice    string               `json:"emailPurchaseInvoice"`
	Website                 string               `json:"website"`
	Notes                   string               `json:"notes"`
	CreditorNo              string               `json:"creditorNo"`
	PaymentPeriod           int                  `json:"paymentPeriod"`
	PaymentPeriodEndOfMonth bool                 `json:"paymentPeriodEndOfMonth"`
	IBANNo                  string               `json:"ibanNo"`
	BICCode                 string               `json:"bicCode"`
	BankNo                  string               `json:"bankNo"`
	UKSortCode              string               `json:"ukSortCode"`
	VatNo                   string               `json:"vatNo"`
	VatLiable               bool                 `json:"vatLiable"`
	VatLiableCode           *int                 `json:"vatLiableCode"`
	ChamberOfCommerceNo     string               `json:"chamberOfCommerceNo"`
	LicenseNo               string               `json:"licenseNo"`
	CarrierAttributes       []string             `json:"carrierAttributes"`
	Language                Language             `json:"language"`
	Active                  bool                 `json:"active"`
	IsDeleted               *bool                `json:"isDeleted"`
	Contacts                []RestCarrierContact `json:"contacts"`
	ExternalID              string               `json:"externalId"`
}

// UnmarshalJSON accepts both the enveloped and the flat layout, defaulting
// vatLiable and active to true when absent.
func (c *RestCarrier) UnmarshalJSON(data []byte) error {
	type alias RestCarrier
	a := alias{VatLiable: true, Active: true}
	if err := decodeEnveloped(data, &a); err != nil {
		return err
	}
	*c = RestCarrier(a)
	return nil
}

// RestOrderAttributes carries all order data fields. Branch-only fields
// are nil when queried with a customer account.
type RestOrderAttributes struct {
	OrderNo                 int                     `json:"orderNo"`
	Date                    string                  `json:"date"`
	Time                    string                  `json:"time"`
	Status                  string                  `json:"status"`
	SubstatusNo             *int                    `json:"substatusNo"`
	SubstatusName           string                  `json:"substatusName"`
	Collected               bool                    `json:"collected"`
	ProductNo               *int                    `json:"productNo"`
	ProductName             string                  `json:"productName"`
	CustomerNo              int                     `json:"customerNo"`
	CustomerUserID          *int                    `json:"customerUserId"`
	CarrierNo               *int                    `json:"carrierNo"`     // branch only
	CarrierUserID           *int                    `json:"carrierUserId"` // branch only
	BranchNo                int                     `json:"branchNo"`
	VehicleTypeNo           *int                    `json:"vehicleTypeNo"`
	VehicleTypeName         string                  `json:"vehicleTypeName"`
	FleetNo                 *int                    `json:"fleetNo"` // branch only
	UserID                  *int                    `json:"userId"`  // branch only
	WaybillNotes            string                  `json:"waybillNotes"`
	InvoiceNotes            string                  `json:"invoiceNotes"`
	PurchaseInvoiceNotes    string                  `json:"purchaseInvoiceNotes"` // branch only
	InternalNotes           string                  `json:"internalNotes"`        // branch only
	CarrierNotes            string                  `json:"carrierNotes"`         // branch only
	RecipientEmail          string                  `json:"recipientEmail"`
	Distance                *int                    `json:"distance"`
	OrderPrice              string                  `json:"orderPrice"`
	OrderPurchasePrice      string                  `json:"orderPurchasePrice"` // branch only
	PrepaidAmount           string                  `json:"prepaidAmount"`
	ReadyForPurchaseInvoice *bool                   `json:"readyForPurchaseInvoice"` // branch only
	UsernameCreated         string                  `json:"usernameCreated"`         // branch only
	UsernameAssigned        string                  `json:"usernameAssigned"`        // branch only
	InvoiceID               int                     `json:"invoiceId"`
	TrackingID              string                  `json:"trackingId"`
	ExternalID              string                  `json:"externalId"`
	IsDeleted               *bool                   `json:"isDeleted"`
	Destinations            []RestDestination       `json:"destinations"`
	Goods                   []RestGoodsLine         `json:"goods"`
	Customer                *RestCustomer           `json:"customer"` // include_customer
	Carrier                 *RestCarrier            `json:"carrier"`  // include_carrier
	SalesRates              []RestRate              `json:"salesRates"`
	PurchaseRates           []RestRate              `json:"purchaseRates"`
	TrackHistory            []RestTrackHistoryEntry `json:"trackHistory"`
}

// RestOrder is a transport order returned by the REST API. All order data
// lives in Attributes; use Client.UpdateOrder to modify an order.
type RestOrder struct {
	ID         int                 `json:"id"`
	CreatedAt  string              `json:"createdAt"`
	UpdatedAt  string              `json:"updatedAt"`
	Attributes RestOrderAttributes `json:"attributes"`
}

// RestProduct is a transport product (service) available in EasyTrans.
type RestProduct struct {
	ID        int    `json:"id"`
	ProductNo int    `json:"productNo"`
	Name      string `json:"name"`
	IsDeleted *bool  `json:"isDeleted"`
}

// UnmarshalJSON accepts both "name" and the endpoint-specific
// "productName" key.
func (p *RestProduct) UnmarshalJSON(data []byte) error {
	type alias RestProduct
	aux := struct {
		*alias
		ProductName string `json:"productName"`
	}{alias: (*alias)(p)}
	if err := decodeEnveloped(data, &aux); err != nil {
		return err
	}
	if p.Name == "" {
		p.Name = aux.ProductName
	}
	return nil
}

// RestSubstatus is an order substatus (fine-grained status label).
type RestSubstatus struct {
	ID          int    `json:"id"`
	SubstatusNo int    `json:"substatusNo"`
	Name        string `json:"name"`
	IsDeleted   *bool  `json:"isDeleted"`
}

// UnmarshalJSON accepts both "name" and the endpoint-specific
// "substatusName" key.
func (s *RestSubstatus) UnmarshalJSON(data []byte) error {
	type alias RestSubstatus
	aux := struct {
		*alias
		SubstatusName string `json:"substatusName"`
	}{alias: (*alias)(s)}
	if err := decodeEnveloped(data, &aux); err != nil {
		return err
	}
	if s.Name == "" {
		s.Name = aux.SubstatusName
	}
	return nil
}

// RestPackageType is a package / rate type. Package types describe the
// kind of goods being transported and double as rate types for pricing.
type RestPackageType struct {
	ID            int    `json:"id"`
	PackageTypeNo int    `json:"packageTypeNo"`
	Name          string `json:"name"`
	IsDeleted     *bool  `json:"isDeleted"`
}

// UnmarshalJSON accepts both "name" and the endpoint-specific
// "packageTypeName" key.
func (p *RestPackageType) UnmarshalJSON(data []byte) error {
	type alias RestPackageType
	aux := struct {
		*alias
		PackageTypeName string `json:"packageTypeName"`
	}{alias: (*alias)(p)}
	if err := decodeEnveloped(data, &aux); err != nil {
		return err
	}
	if p.Name == "" {
		p.Name = aux.PackageTypeName
	}
	return nil
}

// RestVehicleType is a vehicle type (van, truck, etc.).
type RestVehicleType struct {
	ID            int    `json:"id"`
	VehicleTypeNo int    `json:"vehicleTypeNo"`
	Name          string `json:"name"`
	IsDeleted     *bool  `json:"isDeleted"`
}

// UnmarshalJSON accepts both "name" and the endpoint-specific
// "vehicleTypeName" key.
func (v *RestVehicleType) UnmarshalJSON(data []byte) error {
	type alias RestVehicleType
	aux := struct {
		*alias
		VehicleTypeName string `json:"vehicleTypeName"`
	}{alias: (*alias)(v)}
	if err := decodeEnveloped(data, &aux); err != nil {
		return err
	}
	if v.Name == "" {
		v.Name = aux.VehicleTypeName
	}
	return nil
}

// RestFleetVehicle is a vehicle from the branch's own fleet. Branch
// accounts only.
type RestFleetVehicle struct {
	ID            int    `json:"id"`
	FleetNo       int    `json:"fleetNo"`
	Name          string `json:"name"`
	LicensePlate  string `json:"licensePlate"`
	VehicleTypeNo *int   `json:"vehicleTypeNo"`
	Active        bool   `json:"active"`
	IsDeleted     *bool  `json:"isDeleted"`
}

// UnmarshalJSON accepts both "licensePlate" and the legacy "registration"
// key, defaulting active to true when absent.
func (f *RestFleetVehicle) UnmarshalJSON(data []byte) error {
	type alias RestFleetVehicle
	aux := struct {
		*alias
		Registration string `json:"registration"`
	}{alias: (*alias)(f)}
	aux.Active = true
	if err := decodeEnveloped(data, &aux); err != nil {
		return err
	}
	if f.LicensePlate == "" {
		f.LicensePlate = aux.Registration
	}
	return nil
}

// RestInvoice is a sales invoice. InvoicePDF is a base64-encoded PDF,
// present only when include_invoice_pdf was requested.
type RestInvoice struct {
	ID                  int           `json:"id"`
	InvoiceID           int           `json:"invoiceId"`
	InvoiceNo           string        `json:"invoiceNo"`
	InvoiceDate         string        `json:"invoiceDate"`
	CustomerNo          int           `json:"customerNo"`
	TotalAmount         string        `json:"totalAmount"`
	VatAmount           string        `json:"vatAmount"`
	PaymentMethod       string        `json:"paymentMethod"`       // branch only
	OnlinePaymentStatus string        `json:"onlinePaymentStatus"` // branch only
	DiscountPercentage  *float64      `json:"discountPercentage"`  // branch only
	SentDate            string        `json:"sentDate"`            // branch only
	Paid                *bool         `json:"paid"`                // branch only
	PaidDate            string        `json:"paidDate"`            // branch only
	Exported            *bool         `json:"exported"`            // branch only
	ExternalID          string        `json:"externalId"`          // branch only
	InvoicePDF          string        `json:"invoicePdf"`
	Customer            *RestCustomer `json:"customer"` // include_customer
}

// UnmarshalJSON accepts both the enveloped and the flat layout, falling
// back to the amountInclVat/amountExclVat keys some accounts return and
// tolerating numeric invoice numbers.
func (i *RestInvoice) UnmarshalJSON(data []byte) error {
	type alias RestInvoice
	aux := struct {
		*alias
		RawInvoiceNo  json.RawMessage `json:"invoiceNo"`
		AmountInclVat string          `json:"amountInclVat"`
		AmountExclVat string          `json:"amountExclVat"`
	}{alias: (*alias)(i)}
	if err := decodeEnveloped(data, &aux); err != nil {
		return err
	}
	if len(aux.RawInvoiceNo) > 0 && string(aux.RawInvoiceNo) != "null" {
		var s string
		if err := json.Unmarshal(aux.RawInvoiceNo, &s); err == nil {
			i.InvoiceNo = s
		} else {
			i.InvoiceNo = string(aux.RawInvoiceNo)
		}
	}
	if i.TotalAmount == "" {
		i.TotalAmount = aux.AmountInclVat
	}
	if i.VatAmount == "" {
		i.VatAmount = aux.AmountExclVat
	}
	return nil
}
