package handler

import (
	"inventory-service/internal/service"
)

var (
	inventorySvc *service.InventoryService
	paymentSvc   *service.PaymentService
)

// Init wires the core services into the handler package. Must be called once
// at startup before any route is served.
func Init(inventory *service.InventoryService, payment *service.PaymentService) {
	inventorySvc = inventory
	paymentSvc = payment
}
