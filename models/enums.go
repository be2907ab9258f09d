package models

import "errors"

type OrderStatus string

const (
	OrderStatusNewQuote  OrderStatus = "Orçamento Novo"
	OrderStatusQuoteSent OrderStatus = "Orçamento Enviado"
	OrderStatusSold      OrderStatus = "Vendido"
	OrderStatusCancelled OrderStatus = "Cancelado"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	orderStatus := map[string]OrderStatus{
		"Orçamento Novo":    OrderStatusNewQuote,
		"Orçamento Enviado": OrderStatusQuoteSent,
		"Vendido":           OrderStatusSold,
		"Cancelado":         OrderStatusCancelled,
	}
	status, ok := orderStatus[s]
	if !ok {
		return "", errors.New("invalid order status")
	}
	return status, nil
}

// convertible reports whether an order in this status may become a sale.
func (s OrderStatus) Convertible() bool {
	return s == OrderStatusNewQuote || s == OrderStatusQuoteSent
}

type UserRole string

const (
	UserRoleManager     UserRole = "gestor"
	UserRoleSalesperson UserRole = "vendedor"
	UserRoleAds         UserRole = "anuncios"
)

func ParseUserRole(s string) (UserRole, error) {
	switch s {
	case "gestor":
		return UserRoleManager, nil
	case "vendedor":
		return UserRoleSalesperson, nil
	case "anuncios":
		return UserRoleAds, nil
	default:
		return "", errors.New("invalid user role")
	}
}

type ClientType string

const (
	ClientTypeFinal    ClientType = "Cliente Final"
	ClientTypePanel    ClientType = "Latoeiro"
	ClientTypeMechanic ClientType = "Mecânico"
)

type LeadStatus string

const (
	LeadStatusHot     LeadStatus = "Quente"
	LeadStatusCold    LeadStatus = "Frio"
	LeadStatusNeutral LeadStatus = "Neutro"
)
