package models

import (
	"errors"
	"time"
)

// Event carries the data measured for a single user action. Build one with
// NewEvent and the chained With* setters, then hand it to the measurement
// service.
type Event struct {
	Name string `json:"event_name"`

	Revenue          float64     `json:"revenue,omitempty"`
	CurrencyCode     string      `json:"currency_code,omitempty"`
	AdvertiserRefID  string      `json:"advertiser_ref_id,omitempty"`
	Items            []EventItem `json:"event_items,omitempty"`
	ReceiptData      string      `json:"receipt_data,omitempty"`
	ReceiptSignature string      `json:"receipt_signature,omitempty"`

	ContentType  string     `json:"content_type,omitempty"`
	ContentID    string     `json:"content_id,omitempty"`
	Level        int        `json:"level,omitempty"`
	Quantity     int        `json:"quantity,omitempty"`
	SearchString string     `json:"search_string,omitempty"`
	Rating       float64    `json:"rating,omitempty"`
	Date1        *time.Time `json:"date1,omitempty"`
	Date2        *time.Time `json:"date2,omitempty"`

	Attribute1 string `json:"attribute_sub1,omitempty"`
	Attribute2 string `json:"attribute_sub2,omitempty"`
	Attribute3 string `json:"attribute_sub3,omitempty"`
	Attribute4 string `json:"attribute_sub4,omitempty"`
	Attribute5 string `json:"attribute_sub5,omitempty"`

	DeviceForm string `json:"device_form,omitempty"`
}

// EventItem describes one line item attached to an event, e.g. a product in
// a purchase.
type EventItem struct {
	Name       string  `json:"item"`
	Quantity   int     `json:"quantity,omitempty"`
	UnitPrice  float64 `json:"unit_price,omitempty"`
	Revenue    float64 `json:"revenue,omitempty"`
	Attribute1 string  `json:"attribute_sub1,omitempty"`
	Attribute2 string  `json:"attribute_sub2,omitempty"`
	Attribute3 string  `json:"attribute_sub3,omitempty"`
	Attribute4 string  `json:"attribute_sub4,omitempty"`
	Attribute5 string  `json:"attribute_sub5,omitempty"`
}

// NewEvent creates an event for the given action name. Standard names live in
// internal/constants; custom names are allowed.
func NewEvent(name string) *Event {
	return &Event{Name: name}
}

// Validate checks that the event can be measured.
func (e *Event) Validate() error {
	if e.Name == "" {
		return errors.New("event name must not be empty")
	}
	return nil
}

// WithRevenue sets the revenue amount associated with the event.
func (e *Event) WithRevenue(revenue float64) *Event {
	e.Revenue = revenue
	return e
}

// WithCurrencyCode sets the ISO 4217 currency code for the revenue amount.
func (e *Event) WithCurrencyCode(code string) *Event {
	e.CurrencyCode = code
	return e
}

// WithAdvertiserRefID sets the advertiser's own reference ID for the event.
func (e *Event) WithAdvertiserRefID(refID string) *Event {
	e.AdvertiserRefID = refID
	return e
}

// WithItems attaches line items to the event.
func (e *Event) WithItems(items ...EventItem) *Event {
	e.Items = items
	return e
}

// WithReceipt attaches a purchase receipt and its signature for validation.
func (e *Event) WithReceipt(data, signature string) *Event {
	e.ReceiptData = data
	e.ReceiptSignature = signature
	return e
}

// WithContent sets the content type and ID associated with the event.
func (e *Event) WithContent(contentType, contentID string) *Event {
	e.ContentType = contentType
	e.ContentID = contentID
	return e
}

// WithLevel sets the level associated with the event.
func (e *Event) WithLevel(level int) *Event {
	e.Level = level
	return e
}

// WithQuantity sets the quantity associated with the event.
func (e *Event) WithQuantity(quantity int) *Event {
	e.Quantity = quantity
	return e
}

// WithSearchString sets the search string associated with the event.
func (e *Event) WithSearchString(query string) *Event {
	e.SearchString = query
	return e
}

// WithRating sets the rating associated with the event.
func (e *Event) WithRating(rating float64) *Event {
	e.Rating = rating
	return e
}

// WithDates sets the two free-form dates associated with the event.
func (e *Event) WithDates(date1, date2 time.Time) *Event {
	e.Date1 = &date1
	e.Date2 = &date2
	return e
}

// WithAttributes sets up to five free-form attributes, in order.
func (e *Event) WithAttributes(attrs ...string) *Event {
	targets := []*string{&e.Attribute1, &e.Attribute2, &e.Attribute3, &e.Attribute4, &e.Attribute5}
	for i := 0; i < len(attrs) && i < len(targets); i++ {
		*targets[i] = attrs[i]
	}
	return e
}

// WithDeviceForm sets the device form factor, e.g. "wearable".
func (e *Event) WithDeviceForm(form string) *Event {
	e.DeviceForm = form
	return e
}
