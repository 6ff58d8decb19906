package easytrans

// Mode selects whether the import endpoint only validates the payload or
// actually processes and saves it.
type Mode string

const (
	ModeTest   Mode = "test"   // validate but do not process
	ModeEffect Mode = "effect" // process and save data
)

// ImportType identifies the kind of import carried by a request to the
// import endpoint.
type ImportType string

const (
	ImportTypeOrder      ImportType = "order_import"
	ImportTypeCustomer   ImportType = "customer_import"
	ImportTypePacksOrder ImportType = "packs_order_import"
	ImportTypeGLSOrder   ImportType = "gls_order_import"
)

// OrderStatus is the submission status of an imported order.
type OrderStatus string

const (
	OrderStatusSave   OrderStatus = "save"   // save as draft
	OrderStatusSubmit OrderStatus = "submit" // submit for processing
	OrderStatusQuote  OrderStatus = "quote"  // request quote only
)

// CollectDeliver marks a destination as a pickup, a delivery, or both.
type CollectDeliver int

const (
	CollectDeliverPickup   CollectDeliver = 0
	CollectDeliverDelivery CollectDeliver = 1
	CollectDeliverBoth     CollectDeliver = 2 // multi-stop pickup and delivery
)

// Salutation is the contact person salutation used on generated documents.
type Salutation int

const (
	SalutationUnknown Salutation = 0 // Dear...
	SalutationMr      Salutation = 1 // Dear Mr....
	SalutationMrsMs   Salutation = 2 // Dear Ms....
	SalutationAttn    Salutation = 3 // Attn.
)

// DocumentType is a supported file type for document upload.
type DocumentType string

const (
	DocumentPDF  DocumentType = "pdf"
	DocumentXLS  DocumentType = "xls"
	DocumentXLSX DocumentType = "xlsx"
	DocumentDOC  DocumentType = "doc"
	DocumentDOCX DocumentType = "docx"
)

// ReturnDocumentType selects which generated document, if any, the import
// endpoint returns alongside the result.
type ReturnDocumentType string

const (
	ReturnDocumentNone               ReturnDocumentType = ""
	ReturnDocumentDeliveryNote       ReturnDocumentType = "delivery_note"
	ReturnDocumentOrderlist          ReturnDocumentType = "orderlist"
	ReturnDocumentOrderlistLandscape ReturnDocumentType = "orderlist_landscape"
	ReturnDocumentLabel10x15         ReturnDocumentType = "label10x15"
	ReturnDocumentLabel4xA6Pos1      ReturnDocumentType = "label4xa6_1" // top left
	ReturnDocumentLabel4xA6Pos2      ReturnDocumentType = "label4xa6_2" // top right
	ReturnDocumentLabel4xA6Pos3      ReturnDocumentType = "label4xa6_3" // bottom left
	ReturnDocumentLabel4xA6Pos4      ReturnDocumentType = "label4xa6_4" // bottom right
	ReturnDocumentCMR                ReturnDocumentType = "cmr"
)

// PaymentMethod is a customer payment method.
type PaymentMethod string

const (
	PaymentMethodDefault                   PaymentMethod = "" // defaults to bank transfer
	PaymentMethodBankTransfer              PaymentMethod = "bank_transfer"
	PaymentMethodCash                      PaymentMethod = "cash"
	PaymentMethodDirectDebit               PaymentMethod = "direct_debit"
	PaymentMethodOnlinePayment             PaymentMethod = "online_payment"
	PaymentMethodBankTransferOnlinePayment PaymentMethod = "bank_transfer_online_payment"
	PaymentMethodCreditcard                PaymentMethod = "creditcard"
	PaymentMethodFactoring                 PaymentMethod = "factoring"
)

// VatLiable is a customer's VAT liability status.
type VatLiable int

const (
	VatNotLiableShifted VatLiable = 0 // not liable, VAT shifted (EU)
	VatLiableYes        VatLiable = 1 // liable to pay tax
	VatNotLiableExport  VatLiable = 2 // not liable, export (outside EU)
)

// Language selects the language for generated documents and emails.
type Language string

const (
	LanguageDefault Language = "" // use the carrier's default
	LanguageDutch   Language = "nl"
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageFrench  Language = "fr"
)

// WebhookStatus is the order status reported in webhook callbacks.
type WebhookStatus string

const (
	WebhookStatusInProgress WebhookStatus = "in-progress"
	WebhookStatusCollected  WebhookStatus = "collected"
	WebhookStatusFinished   WebhookStatus = "finished"
	WebhookStatusException  WebhookStatus = "exception"
)

// TaskType is the destination task type reported in webhook callbacks.
type TaskType string

const (
	TaskTypePickup         TaskType = "pickup"
	TaskTypeDelivery       TaskType = "delivery"
	TaskTypePickupDelivery TaskType = "pickup/delivery"
)
