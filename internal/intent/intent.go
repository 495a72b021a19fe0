// Package intent detects store-support intents with an ordered rule table
// and maps each match to a canned response rendered from store details.
package intent

import "github.com/shopspring/decimal"

// Intent is the classified purpose of a customer message.
type Intent string

const (
	Greeting   Intent = "GREETING"
	StoreHours Intent = "STORE_HOURS"
	Payment    Intent = "PAYMENT"
	Parking    Intent = "PARKING"
	Delivery   Intent = "DELIVERY"
	Returns    Intent = "RETURNS"
	Help       Intent = "HELP"
	None       Intent = "NONE"
)

// All lists the classifiable intents in priority order.
var All = []Intent{Greeting, StoreHours, Payment, Parking, Delivery, Returns, Help}

func (i Intent) String() string { return string(i) }

// StoreInfo parameterizes the canned responses.
type StoreInfo struct {
	Name              string
	Opens             string
	Closes            string
	DeliveryRadiusKm  int
	FreeDeliveryAbove decimal.Decimal
	ReturnWindowDays  int
	Currency          string
}

// DefaultStoreInfo returns the details of the demo store.
func DefaultStoreInfo() StoreInfo {
	return StoreInfo{
		Name:              "FreshMart",
		Opens:             "9:00 AM",
		Closes:            "10:00 PM",
		DeliveryRadiusKm:  5,
		FreeDeliveryAbove: decimal.NewFromInt(500),
		ReturnWindowDays:  7,
		Currency:          "₹",
	}
}
