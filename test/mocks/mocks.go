// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/order.go -destination=order_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/medicine.go -destination=medicine_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory.go -destination=inventory_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/patient.go -destination=patient_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/staff.go -destination=staff_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_mock.go -package=mocks
