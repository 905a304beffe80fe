package api

import "time"

type Period struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Label    string `json:"label"`
	PeriodID string `json:"period_id"`
}

type Product struct {
	Key      string             `json:"key"`
	Title    string             `json:"title"`
	SKU      string             `json:"sku,omitempty"`
	AddOn    bool               `json:"add_on"`
	Amounts  map[string]float64 `json:"amounts"`
	Total    float64            `json:"total"`
	Currency string             `json:"currency"`
}

type ParentApp struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Total  float64   `json:"total"`
	Direct float64   `json:"direct"`
	AddOns []Product `json:"add_ons"`
}

type PaymentEstimate struct {
	PeriodStart   string     `json:"period_start,omitempty"`
	PeriodEnd     string     `json:"period_end,omitempty"`
	TotalOwed     *float64   `json:"total_owed,omitempty"`
	EstimatedDate *time.Time `json:"estimated_date,omitempty"`
	Pending       bool       `json:"pending"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	PaymentAmount *float64   `json:"payment_amount,omitempty"`
}

type ProceedsReport struct {
	Period     Period           `json:"period"`
	Currency   string           `json:"currency"`
	Parents    []ParentApp      `json:"parents,omitempty"`
	Products   []Product        `json:"products,omitempty"`
	GrandTotal float64          `json:"grand_total"`
	Payment    *PaymentEstimate `json:"payment,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
