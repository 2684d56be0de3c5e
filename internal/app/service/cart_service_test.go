package service

import (
	"testing"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/cart"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItem(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCartService(env.registry, env.products, 5, nil)
	bin := env.createBin(t, 5)

	view, err := svc.AddItem("s1", AddItemInput{ProductID: bin.ID, Quantity: 2, Color: "black", ImageID: "img-black"})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	line := view.Items[0]
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "png", line.SelectedImageExtension)
	assert.Equal(t, 5, line.Product.Quantity)
	assert.Equal(t, float64(76), line.UnitPrice)
	assert.Equal(t, float64(152), line.LineTotal)
	assert.Equal(t, PriceSummary{ItemCount: 2, Subtotal: 152, Total: 152, Delivery: 5, GrandTotal: 157}, view.Summary)
}

func TestCartService_AddItem_DefaultsAndClamps(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCartService(env.registry, env.products, 5, nil)
	bin := env.createBin(t, 3)

	view, err := svc.AddItem("s1", AddItemInput{ProductID: bin.ID, Color: "white", ImageID: "img-white"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.Equal(t, "webp", view.Items[0].SelectedImageExtension)

	view, err = svc.AddItem("s1", AddItemInput{ProductID: bin.ID, Quantity: 10, Color: "white", ImageID: "img-white"})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
}

func TestCartService_AddItem_Rejections(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCartService(env.registry, env.products, 5, nil)
	bin := env.createBin(t, 5)
	soldOut := env.createBin(t, 0)
	box := env.createBox(t)

	tests := []struct {
		name    string
		input   AddItemInput
		wantErr error
	}{
		{"unknown product", AddItemInput{ProductID: 9999, Quantity: 1}, ErrProductNotFound},
		{"unknown color", AddItemInput{ProductID: bin.ID, Quantity: 1, Color: "red", ImageID: "img-black"}, ErrInvalidVariant},
		{"unknown image", AddItemInput{ProductID: bin.ID, Quantity: 1, Color: "black", ImageID: "nope"}, ErrInvalidVariant},
		{"missing color", AddItemInput{ProductID: bin.ID, Quantity: 1, ImageID: "img-black"}, ErrInvalidVariant},
		{"color on plain product", AddItemInput{ProductID: box.ID, Quantity: 1, Color: "black"}, ErrInvalidVariant},
		{"sold out", AddItemInput{ProductID: soldOut.ID, Quantity: 1, Color: "black", ImageID: "img-black"}, ErrOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem("s1", tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, svc.GetCart("s1").Items)
}

func TestCartService_PlainProductPricing(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCartService(env.registry, env.products, 5, nil)
	box := env.createBox(t)

	view, err := svc.AddItem("s1", AddItemInput{ProductID: box.ID, Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, 123.99, view.Items[0].UnitPrice)
	assert.Equal(t, 247.98, view.Summary.Total)
	assert.Equal(t, 26.36, view.Summary.Discount)
	assert.Equal(t, 252.98, view.Summary.GrandTotal)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCartService(env.registry, env.products, 5, nil)
	bin := env.createBin(t, 5)
	key := model.ItemKey{ProductID: bin.ID, Color: "black", ImageID: "img-black"}

	_, err := svc.AddItem("s1", AddItemInput{ProductID: bin.ID, Quantity: 1, Color: "black", ImageID: "img-black"})
	require.NoError(t, err)

	view := svc.UpdateQuantity("s1", key, 50)
	assert.Equal(t, 5, view.Items[0].Quantity)

	view = svc.UpdateQuantity("s1", key, 0)
	assert.Equal(t, 1, view.Items[0].Quantity)

	view = svc.RemoveItem("s1", key)
	assert.Empty(t, view.Items)
	assert.Equal(t, float64(0), view.Summary.Delivery)

	view = svc.RemoveItem("s1", key)
	assert.Empty(t, view.Items)
}

func TestCartService_DeletionWorkflow(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCartService(env.registry, env.products, 5, nil)
	bin := env.createBin(t, 5)
	key := model.ItemKey{ProductID: bin.ID, Color: "white", ImageID: "img-white"}

	_, err := svc.AddItem("s1", AddItemInput{ProductID: bin.ID, Quantity: 1, Color: "white", ImageID: "img-white"})
	require.NoError(t, err)

	_, err = svc.OpenDeleteModal("s1", model.ItemKey{ProductID: bin.ID, Color: "black", ImageID: "img-black"})
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	view, err := svc.OpenDeleteModal("s1", key)
	require.NoError(t, err)
	require.NotNil(t, view.PendingRemoval)
	assert.Equal(t, "white", view.PendingRemoval.SelectedColor)

	view = svc.CloseDeleteModal("s1")
	assert.Nil(t, view.PendingRemoval)
	assert.Len(t, view.Items, 1)

	_, err = svc.OpenDeleteModal("s1", key)
	require.NoError(t, err)
	view = svc.ConfirmDelete("s1")
	assert.Nil(t, view.PendingRemoval)
	assert.Empty(t, view.Items)
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCartService(env.registry, env.products, 5, nil)
	bin := env.createBin(t, 5)

	_, err := svc.AddItem("s1", AddItemInput{ProductID: bin.ID, Quantity: 2, Color: "black", ImageID: "img-black"})
	require.NoError(t, err)

	assert.Empty(t, svc.GetCart("s2").Items)
	svc.ClearCart("s2")
	assert.Len(t, svc.GetCart("s1").Items, 1)

	raw, ok, err := env.storage.GetItem(cart.SessionKey(cart.DefaultStorageKey, "s1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, `"selectedColor":"black"`)
}

func TestCartService_BroadcastsChanges(t *testing.T) {
	env := setupServiceTest(t)
	b := &recordingBroadcaster{}
	svc := NewCartService(env.registry, env.products, 5, b)
	bin := env.createBin(t, 5)

	_, err := svc.AddItem("s1", AddItemInput{ProductID: bin.ID, Quantity: 1, Color: "black", ImageID: "img-black"})
	require.NoError(t, err)
	svc.ClearCart("s1")

	require.Equal(t, 2, b.count())
	assert.Equal(t, []string{"s1", "s1"}, b.sessions)
	last, ok := b.payloads[1].(CartView)
	require.True(t, ok)
	assert.Empty(t, last.Items)
}

func TestVariantOffered(t *testing.T) {
	withVariants := &model.Product{
		Colors:   pq.StringArray{"black"},
		ImageIDs: pq.StringArray{"img-black"},
	}
	plain := &model.Product{}

	tests := []struct {
		name    string
		product *model.Product
		color   string
		imageID string
		want    bool
	}{
		{"offered variant", withVariants, "black", "img-black", true},
		{"unknown color", withVariants, "red", "img-black", false},
		{"unknown image", withVariants, "black", "img-red", false},
		{"empty choice on variant product", withVariants, "", "", false},
		{"plain product without choice", plain, "", "", true},
		{"plain product with choice", plain, "black", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, variantOffered(tt.product, tt.color, tt.imageID))
		})
	}
}
