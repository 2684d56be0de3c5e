package service

import (
	"testing"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_ListProducts(t *testing.T) {
	env := setupServiceTest(t)

	products, err := env.products.ListProducts(ProductListOptions{})
	require.NoError(t, err)
	assert.Len(t, products, 0)

	env.createBin(t, 5)
	env.createBox(t)

	products, err = env.products.ListProducts(ProductListOptions{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	containers := model.ProductTypeContainer
	products, err = env.products.ListProducts(ProductListOptions{ProductType: &containers})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Storage Box 12L", products[0].Name)
}

func TestProductService_GetProductByID(t *testing.T) {
	env := setupServiceTest(t)
	bin := env.createBin(t, 5)

	tests := []struct {
		name    string
		id      uint
		wantErr error
	}{
		{name: "Existing product", id: bin.ID},
		{name: "Missing product", id: bin.ID + 100, wantErr: ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := env.products.GetProductByID(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, bin.Name, product.Name)
		})
	}
}

func TestProductService_ImportProducts(t *testing.T) {
	env := setupServiceTest(t)

	err := env.products.ImportProducts([]model.Product{
		{Name: "Liner 30L", Price: 4.5, Quantity: 100, ProductType: model.ProductTypeAccessory},
		{Name: "Lid", Price: 9, Quantity: 10, ProductType: model.ProductTypeAccessory},
	})
	require.NoError(t, err)

	products, err := env.products.ListProducts(ProductListOptions{})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
