package dto

import "time"

type Order struct {
	ID              string     `json:"id"`
	Number          int64      `json:"number"`
	CompanyID       string     `json:"companyId"`
	CompanyName     string     `json:"companyName"`
	Items           []LineItem `json:"items"`
	TotalUnits      int        `json:"totalUnits"`
	Subtotal        string     `json:"subtotal"`
	DeliveryFee     string     `json:"deliveryFee"`
	Total           string     `json:"total"`
	Address         string     `json:"address"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	Bucket          string     `json:"bucket"`
	CreatedAt       time.Time  `json:"createdAt"`
	StatusUpdatedAt time.Time  `json:"statusUpdatedAt"`
}

// CheckoutResponse carries the stored order and the WhatsApp handoff.
type CheckoutResponse struct {
	Order       Order  `json:"order"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type StatusChangeResponse struct {
	Order          Order  `json:"order"`
	PreviousStatus string `json:"previousStatus"`
	Bucket         string `json:"bucket"`
	Changed        bool   `json:"changed"`
}

type StatsResponse struct {
	TotalOrders int    `json:"totalOrders"`
	TotalSales  string `json:"totalSales"`
	TodayOrders int    `json:"todayOrders"`
}
