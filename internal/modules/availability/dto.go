package availability

import "studiobooking/internal/pkg/slots"

const (
	ViewMonth = "month"
	ViewDay   = "day"
)

type Query struct {
	View string `form:"view"`
	Date string `form:"date"`
}

type MonthResponse struct {
	Year  int                     `json:"year"`
	Month int                     `json:"month"`
	Days  []slots.DayAvailability `json:"days"`
}

type DayResponse struct {
	Date  string       `json:"date"`
	Slots []slots.Slot `json:"slots"`
}
