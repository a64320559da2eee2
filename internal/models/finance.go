package models

import "time"

// MonthlyCashflow is revenue and expense for one calendar month.
type MonthlyCashflow struct {
	Month    int     `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// FinanceSummary covers the rolling month ending at To.
type FinanceSummary struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	TotalExpenses    float64   `json:"total_expenses"`
	TotalPayments    float64   `json:"total_payments"`
	TreatmentRevenue float64   `json:"treatment_revenue"`
	InventoryValue   float64   `json:"inventory_value"`
	Net              float64   `json:"net"`
}
