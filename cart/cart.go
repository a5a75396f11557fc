package cart

import (
	"log"
	"strings"
)

// Item is one cart line. A cart holds at most one Item per product id;
// lines aggregate by product identity, not by insertion event.
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
	Category string `json:"category,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DeliveryDetails is the address block collected on the checkout details
// step. All string fields are trimmed before being stored.
type DeliveryDetails struct {
	FullName     string      `json:"fullName"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Coordinates  Coordinates `json:"coordinates"`
	Address      string      `json:"address"`
	District     string      `json:"district"`
	City         string      `json:"city"`
	PostalCode   string      `json:"postalCode,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
	DeliveryFee  int         `json:"deliveryFee,omitempty"`
	DistanceKm   float64     `json:"distanceKm,omitempty"`
}

// Trimmed returns a copy with every string field trimmed.
func (d DeliveryDetails) Trimmed() DeliveryDetails {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.District = strings.TrimSpace(d.District)
	d.City = strings.TrimSpace(d.City)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
	d.Instructions = strings.TrimSpace(d.Instructions)
	return d
}

// PendingCheckout carries in-flight checkout data across a full navigation
// (the login redirect) where in-memory state is lost. It is a handoff
// record, not a durable order.
type PendingCheckout struct {
	Items    []Item           `json:"items,omitempty"`
	Delivery *DeliveryDetails `json:"deliveryDetails,omitempty"`
}

// Notifier is the toast sink for user-visible success and error messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier routes notifications to the standard logger. It is the
// default sink when no UI is attached.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Println(msg) }
func (LogNotifier) Error(msg string)   { log.Println("error:", msg) }
