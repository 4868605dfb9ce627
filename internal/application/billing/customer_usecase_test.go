package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
)

func newCustomerUC() *CustomerUseCase {
	store := newFakeStore()
	customerRepo, _, _ := store.repos()
	return NewCustomerUseCase(customerRepo)
}

func TestCustomerCreateYGet(t *testing.T) {
	uc := newCustomerUC()

	created, err := uc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "ACME S.A.S.",
		Email: "compras@acme.test",
		City:  "Bogotá",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME S.A.S.", got.Name)
	assert.Equal(t, "Bogotá", got.City)
}

func TestCustomerCreate_NombreRequerido(t *testing.T) {
	uc := newCustomerUC()
	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Email: "sin-nombre@acme.test"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCustomerUpdate_Parcial(t *testing.T) {
	uc := newCustomerUC()
	created, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "ACME S.A.S.", Phone: "300111"})
	require.NoError(t, err)

	phone := "300222"
	updated, err := uc.Update(context.Background(), created.ID, dto.UpdateCustomerRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "300222", updated.Phone)
	assert.Equal(t, "ACME S.A.S.", updated.Name, "los campos no enviados se conservan")

	empty := ""
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateCustomerRequest{Name: &empty})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCustomerUpdate_NoEncontrado(t *testing.T) {
	uc := newCustomerUC()
	name := "Nadie"
	_, err := uc.Update(context.Background(), uuid.New().String(), dto.UpdateCustomerRequest{Name: &name})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCustomerList_Paginado(t *testing.T) {
	uc := newCustomerUC()
	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "Cliente"})
		require.NoError(t, err)
	}

	page, err := uc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := uc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestCustomerDelete(t *testing.T) {
	uc := newCustomerUC()
	created, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "ACME S.A.S."})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	err = uc.Delete(context.Background(), created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
