package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvent_Validate tests that only named events pass validation.
func TestEvent_Validate(t *testing.T) {
	assert.Error(t, NewEvent("").Validate())
	assert.NoError(t, NewEvent("purchase").Validate())
}

// TestEvent_BuilderChain tests the chained setters end to end.
func TestEvent_BuilderChain(t *testing.T) {
	date1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	date2 := date1.AddDate(0, 0, 7)

	event := NewEvent("purchase").
		WithRevenue(49.99).
		WithCurrencyCode("EUR").
		WithAdvertiserRefID("order-1138").
		WithItems(EventItem{Name: "subscription", Quantity: 1, UnitPrice: 49.99, Revenue: 49.99}).
		WithReceipt("receipt-data", "receipt-signature").
		WithContent("plan", "premium").
		WithLevel(3).
		WithQuantity(1).
		WithSearchString("annual plan").
		WithRating(4.5).
		WithDates(date1, date2).
		WithAttributes("a1", "a2", "a3").
		WithDeviceForm("wearable")

	assert.Equal(t, "purchase", event.Name)
	assert.Equal(t, 49.99, event.Revenue)
	assert.Equal(t, "EUR", event.CurrencyCode)
	assert.Equal(t, "order-1138", event.AdvertiserRefID)
	require.Len(t, event.Items, 1)
	assert.Equal(t, "subscription", event.Items[0].Name)
	assert.Equal(t, "receipt-data", event.ReceiptData)
	assert.Equal(t, "receipt-signature", event.ReceiptSignature)
	assert.Equal(t, "plan", event.ContentType)
	assert.Equal(t, "premium", event.ContentID)
	assert.Equal(t, 3, event.Level)
	assert.Equal(t, 1, event.Quantity)
	assert.Equal(t, "annual plan", event.SearchString)
	assert.Equal(t, 4.5, event.Rating)
	require.NotNil(t, event.Date1)
	assert.Equal(t, date1, *event.Date1)
	assert.Equal(t, "a1", event.Attribute1)
	assert.Equal(t, "a2", event.Attribute2)
	assert.Equal(t, "a3", event.Attribute3)
	assert.Empty(t, event.Attribute4)
	assert.Equal(t, "wearable", event.DeviceForm)
}

// TestEvent_WithAttributes_IgnoresExtras tests that surplus attributes are
// dropped rather than panicking.
func TestEvent_WithAttributes_IgnoresExtras(t *testing.T) {
	event := NewEvent("login").WithAttributes("1", "2", "3", "4", "5", "6", "7")

	assert.Equal(t, "5", event.Attribute5)
}

// TestEvent_JSONOmitsEmptyFields tests that unset fields stay off the wire.
func TestEvent_JSONOmitsEmptyFields(t *testing.T) {
	payload, err := json.Marshal(NewEvent("login"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"event_name":"login"}`, string(payload))
}
