package easytrans

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// The import payload follows the vendor's falsy-value rules. String and
// slice fields are dropped when empty, numeric and boolean fields are always
// sent (0, 0.0 and false are meaningful values), and optional numbers are
// pointers that are dropped when nil. Package is the exception: every field
// is always sent, including null optionals. The struct tags below encode
// those rules per field, so the wire shape is visible at the declaration.

const defaultPriceDescription = "Other costs"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Document is a base64-encoded file attached to an order destination.
// The vendor accepts at most 2 documents per destination.
type Document struct {
	Type          DocumentType `json:"type"`
	Base64Content string       `json:"base64_content"`
	Name          string       `json:"name,omitempty"`
}

// Destination is a pickup or delivery address on an order. Every order
// needs at least 2 of them, one pickup and one delivery.
type Destination struct {
	CompanyName       string         `json:"company_name,omitempty"`
	Contact           string         `json:"contact,omitempty"`
	Address           string         `json:"address,omitempty"`
	HouseNo           string         `json:"houseno,omitempty"`
	Addition          string         `json:"addition,omitempty"`
	Address2          string         `json:"address2,omitempty"`
	PostalCode        string         `json:"postal_code,omitempty"`
	City              string         `json:"city,omitempty"`
	Country           string         `json:"country,omitempty"`
	Telephone         string         `json:"telephone,omitempty"`
	DestinationNo     *int           `json:"destinationno,omitempty"`
	CollectDeliver    CollectDeliver `json:"collect_deliver"`
	DestinationRemark string         `json:"destination_remark,omitempty"`
	CustomerReference string         `json:"customer_reference,omitempty"`
	WaybillNo         string         `json:"waybillno,omitempty"`
	DeliveryDate      string         `json:"delivery_date,omitempty"`
	DeliveryTime      string         `json:"delivery_time,omitempty"`
	DeliveryTimeFrom  string         `json:"delivery_time_from,omitempty"`
	Documents         []Document     `json:"documents,omitempty"`
}

// Package is a goods line on an order: a number of items sharing the same
// type, weight and dimensions. Weight is per package, not the line total.
// All fields are serialized, including zeroes and null destination numbers.
type Package struct {
	Amount               float64 `json:"amount"`
	Weight               float64 `json:"weight"` // kg per package
	Length               float64 `json:"length"` // cm
	Width                float64 `json:"width"`  // cm
	Height               float64 `json:"height"` // cm
	Description          string  `json:"description"`
	CollectDestinationNo *int    `json:"collect_destinationno"`
	DeliverDestinationNo *int    `json:"deliver_destinationno"`
	RateTypeNo           int     `json:"ratetypeno"` // 0 = standard "Packages" rate type
}

// Order is a transport order for the import endpoint.
type Order struct {
	ProductNo                int           `json:"productno" validate:"required"`
	Date                     string        `json:"date,omitempty"` // "yyyy-mm-dd", empty for current date
	Time                     string        `json:"time,omitempty"` // "hh:mm", empty for current time
	Status                   OrderStatus   `json:"status,omitempty" validate:"omitempty,oneof=save submit quote"`
	CustomerNo               *int          `json:"customerno,omitempty"` // required for branch accounts
	CarrierNo                int           `json:"carrierno"`
	VehicleNo                int           `json:"vehicleno"`
	FleetNo                  *int          `json:"fleetno,omitempty"`
	SubstatusNo              *int          `json:"substatusno,omitempty"`
	Remark                   string        `json:"remark,omitempty"`
	RemarkInvoice            string        `json:"remark_invoice,omitempty"`
	RemarkInternal           string        `json:"remark_internal,omitempty"` // branch only
	RemarkPurchase           string        `json:"remark_purchase,omitempty"` // branch only
	NoConfirmationEmail      bool          `json:"no_confirmation_email"`
	EmailReceiver            string        `json:"email_receiver,omitempty"`
	Price                    float64       `json:"price"`                                // branch only
	PriceDescription         string        `json:"price_description,omitempty"`          // branch only
	PurchasePrice            float64       `json:"purchase_price"`                       // branch only
	PurchasePriceDescription string        `json:"purchase_price_description,omitempty"` // branch only
	CarrierService           string        `json:"carrier_service,omitempty"` // for DPD/Packs/GLS
	CarrierOptions           string        `json:"carrier_options,omitempty"` // comma-separated
	ExternalID               string        `json:"external_id,omitempty"`
	Destinations             []Destination `json:"order_destinations" validate:"min=2"`
	Packages                 []Package     `json:"order_packages,omitempty"`
}

// NewOrder creates an order with the vendor defaults applied and validates
// it. More destinations and optional fields can be set on the returned
// value, with Validate catching regressions before import.
func NewOrder(productNo int, destinations ...Destination) (*Order, error) {
	o := &Order{
		ProductNo:                productNo,
		Status:                   OrderStatusSubmit,
		PriceDescription:         defaultPriceDescription,
		PurchasePriceDescription: defaultPriceDescription,
		Destinations:             destinations,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate checks the order invariants enforced before import.
func (o *Order) Validate() error {
	if len(o.Destinations) < 2 {
		return &Error{
			Kind:    KindValidation,
			Message: "order requires a minimum of 2 destinations (pickup + delivery)",
		}
	}
	if err := validate.Struct(o); err != nil {
		return &Error{Kind: KindValidation, Message: "invalid order", Cause: err}
	}
	return nil
}

// UnmarshalJSON decodes an order, applying the vendor defaults for fields
// absent from the payload.
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	a := alias{
		Status:                   OrderStatusSubmit,
		PriceDescription:         defaultPriceDescription,
		PurchasePriceDescription: defaultPriceDescription,
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = Order(a)
	return nil
}

// CustomerContact is a contact person for a customer, optionally with
// portal access credentials.
type CustomerContact struct {
	ContactName         string     `json:"contact_name,omitempty"`
	Salutation          Salutation `json:"salutation"`
	Telephone           string     `json:"telephone,omitempty"`
	Mobile              string     `json:"mobile,omitempty"`
	Email               string     `json:"email,omitempty"`
	UseEmailForInvoice  bool       `json:"use_email_for_invoice"`
	UseEmailForReminder bool       `json:"use_email_for_reminder"`
	ContactRemark       string     `json:"contact_remark,omitempty"`
	Username            string     `json:"username,omitempty"` // portal access
	Password            string     `json:"password,omitempty"` // portal access
	UserID              *int       `json:"userid,omitempty"`   // set to update an existing contact
}

// NewCustomerContact creates a contact with the vendor defaults (invoice
// and reminder emails enabled).
func NewCustomerContact(name string) CustomerContact {
	return CustomerContact{
		ContactName:         name,
		UseEmailForInvoice:  true,
		UseEmailForReminder: true,
	}
}

// UnmarshalJSON decodes a contact, defaulting the email flags to true when
// absent.
func (c *CustomerContact) UnmarshalJSON(data []byte) error {
	type alias CustomerContact
	a := alias{UseEmailForInvoice: true, UseEmailForReminder: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = CustomerContact(a)
	return nil
}

// Customer is a customer record for the import endpoint. The mailing
// address defaults to the main address when left empty.
type Customer struct {
	CompanyName                    string            `json:"company_name" validate:"required"`
	CustomerNo                     *int              `json:"customerno,omitempty"`
	UpdateOnExistingCustomerNo     bool              `json:"update_on_existing_customerno"`
	DeleteExistingCustomerContacts bool              `json:"delete_existing_customer_contacts"`
	Attn                           string            `json:"attn,omitempty"`
	Address                        string            `json:"address,omitempty"`
	HouseNo                        string            `json:"houseno,omitempty"`
	Addition                       string            `json:"addition,omitempty"`
	Address2                       string            `json:"address2,omitempty"`
	PostalCode                     string            `json:"postal_code,omitempty"`
	City                           string            `json:"city,omitempty"`
	Country                        string            `json:"country,omitempty"`
	MailAddress                    string            `json:"mail_address,omitempty"`
	MailHouseNo                    string            `json:"mail_houseno,omitempty"`
	MailAddition                   string            `json:"mail_addition,omitempty"`
	MailAddress2                   string            `json:"mail_address2,omitempty"`
	MailPostalCode                 string            `json:"mail_postal_code,omitempty"`
	MailCity                       string            `json:"mail_city,omitempty"`
	MailCountry                    string            `json:"mail_country,omitempty"`
	DebtorNo                       string            `json:"debtorno,omitempty"` // external debtor number
	PaymentRef                     string            `json:"payment_ref,omitempty"`
	Website                        string            `json:"website,omitempty"`
	Remark                         string            `json:"remark,omitempty"`
	CRMNotes                       string            `json:"crm_notes,omitempty"`
	IBANNo                         string            `json:"ibanno,omitempty"`
	BICNo                          string            `json:"bicno,omitempty"`
	BankNo                         string            `json:"bankno,omitempty"` // non-SEPA
	UKSortCode                     string            `json:"uk_sort_code,omitempty"`
	CocNo                          string            `json:"cocno,omitempty"` // chamber of commerce
	VatNo                          string            `json:"vatno,omitempty"`
	EoriNo                         string            `json:"eorino,omitempty"`
	PaymentMethod                  PaymentMethod     `json:"payment_method,omitempty"`
	VatLiable                      VatLiable         `json:"vat_liable"`
	Language                       Language          `json:"language,omitempty"`
	ExternalID                     string            `json:"external_id,omitempty"`
	Contacts                       []CustomerContact `json:"customer_contacts,omitempty"`
}

// NewCustomer creates a customer with the vendor defaults applied and
// validates it.
func NewCustomer(companyName string) (*Customer, error) {
	c := &Customer{
		CompanyName: companyName,
		VatLiable:   VatLiableYes,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the customer invariants enforced before import.
func (c *Customer) Validate() error {
	if c.CompanyName == "" {
		return &Error{Kind: KindValidation, Message: "customer requires a company_name"}
	}
	if err := validate.Struct(c); err != nil {
		return &Error{Kind: KindValidation, Message: "invalid customer", Cause: err}
	}
	return nil
}

// UnmarshalJSON decodes a customer, defaulting vat_liable to liable when
// absent.
func (c *Customer) UnmarshalJSON(data []byte) error {
	type alias Customer
	a := alias{VatLiable: VatLiableYes}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Customer(a)
	return nil
}

// Int returns a pointer to v, for optional numeric fields.
func Int(v int) *int { return &v }

// String returns a pointer to v, for optional string fields.
func String(v string) *string { return &v }

// Bool returns a pointer to v, for optional boolean fields.
func Bool(v bool) *bool { return &v }
