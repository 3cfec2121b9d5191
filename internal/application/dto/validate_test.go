package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-csv/internal/application/dto"
	"github.com/jhoicas/inventario-csv/internal/domain"
)

func TestValidate_CreateDelivery(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.CreateDeliveryRequest{ProductID: 1, Quantity: 5}))
	assert.NoError(t, dto.Validate(dto.CreateDeliveryRequest{ProductID: 1, Quantity: 5, DeliveryDate: "2025-02-16"}))

	err := dto.Validate(dto.CreateDeliveryRequest{ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Quantity")

	err = dto.Validate(dto.CreateDeliveryRequest{ProductID: 1, Quantity: 1, DeliveryDate: "16.02.2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "DeliveryDate")
}

func TestValidate_UpdateDeliveryPunteros(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.UpdateDeliveryRequest{}), "todos los campos nil son válidos")

	neg := int64(-3)
	assert.ErrorIs(t, dto.Validate(dto.UpdateDeliveryRequest{Quantity: &neg}), domain.ErrInvalidInput)

	ok := int64(8)
	assert.NoError(t, dto.Validate(dto.UpdateDeliveryRequest{Quantity: &ok}))
}

func TestValidate_NombreRequerido(t *testing.T) {
	assert.ErrorIs(t, dto.Validate(dto.CreateCategoryRequest{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, dto.Validate(dto.CreateSupplierRequest{Contact: "x"}), domain.ErrInvalidInput)
	assert.NoError(t, dto.Validate(dto.CreateSupplierRequest{Name: "Поставщик А"}))
}

func TestValidate_RolUsuario(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.RegisterUserRequest{Username: "a", Password: "b", Role: "view"}))
	assert.ErrorIs(t, dto.Validate(dto.RegisterUserRequest{Username: "a", Password: "b", Role: "root"}), domain.ErrInvalidInput)
}
