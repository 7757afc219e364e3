package handlers

import (
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/server/http/dto"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

func toAddress(a model.Address) dto.Address {
	return dto.Address{
		PostalCode:   model.DisplayPostalCode(a.PostalCode),
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Reference:    a.Reference,
	}
}

func fromAddress(a dto.Address) model.Address {
	return model.Address{
		PostalCode:   model.NormalizePostalCode(a.PostalCode),
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Reference:    a.Reference,
	}
}

func toLineItems(items []model.LineItem) []dto.LineItem {
	out := make([]dto.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal().StringFixed(2),
		})
	}
	return out
}

func toCartResponse(v *usecase.CartView) dto.CartResponse {
	return dto.CartResponse{
		Items:        toLineItems(v.Session.Cart.Items),
		Address:      toAddress(v.Session.Address),
		Notes:        v.Session.Notes,
		TotalUnits:   v.TotalUnits,
		Subtotal:     v.Subtotal.StringFixed(2),
		DeliveryFee:  v.DeliveryFee.StringFixed(2),
		Total:        v.Total.StringFixed(2),
		MinimumUnits: v.MinimumUnits,
		MissingUnits: v.MissingUnits,
	}
}

func toOrder(o model.Order) dto.Order {
	return dto.Order{
		ID:              o.ID,
		Number:          o.Number,
		CompanyID:       o.CompanyID,
		CompanyName:     o.CompanyName,
		Items:           toLineItems(o.Items),
		TotalUnits:      o.TotalUnits(),
		Subtotal:        o.Subtotal.StringFixed(2),
		DeliveryFee:     o.DeliveryFee.StringFixed(2),
		Total:           o.Total.StringFixed(2),
		Address:         o.Address,
		Notes:           o.Notes,
		Status:          string(o.Status),
		Bucket:          string(o.Bucket()),
		CreatedAt:       o.CreatedAt,
		StatusUpdatedAt: o.StatusUpdatedAt,
	}
}

func toOrders(orders []model.Order) []dto.Order {
	out := make([]dto.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	return out
}

func toStats(s model.OrderStats) dto.StatsResponse {
	return dto.StatsResponse{
		TotalOrders: s.TotalOrders,
		TotalSales:  s.TotalSales.StringFixed(2),
		TodayOrders: s.TodayOrders,
	}
}

func toCompany(c model.Company) dto.Company {
	return dto.Company{
		ID:        c.ID,
		CNPJ:      c.CNPJ,
		Name:      c.Name,
		Role:      string(c.Role),
		CreatedAt: c.CreatedAt,
	}
}
