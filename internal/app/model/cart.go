package model

import "time"

// ProductSnapshot is the product as it looked when it was put in the cart.
// Later catalog changes do not reach items already in a cart.
type ProductSnapshot struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Discount       float64  `json:"discount"`
	Colors         []string `json:"colors"`
	Quantity       int      `json:"quantity"` // available units
	Specifications string   `json:"specifications"`
	ImageIDs       []string `json:"image_ids"`
	ProductType    string   `json:"product_type"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// LineItem is one cart slot. Identity is (product id, color, image id);
// the image extension is presentation only.
type LineItem struct {
	Product                ProductSnapshot `json:"product"`
	Quantity               int             `json:"quantity"`
	SelectedColor          string          `json:"selectedColor"`
	SelectedImageID        string          `json:"selectedImageId"`
	SelectedImageExtension string          `json:"selectedImageExtension"`
}

// ItemKey identifies a cart slot
type ItemKey struct {
	ProductID uint   `json:"product_id" form:"product_id" binding:"required"`
	Color     string `json:"color" form:"color"`
	ImageID   string `json:"image_id" form:"image_id"`
}

func (i LineItem) Key() ItemKey {
	return ItemKey{
		ProductID: i.Product.ID,
		Color:     i.SelectedColor,
		ImageID:   i.SelectedImageID,
	}
}

// Matches reports whether the item occupies the slot named by the triple
func (i LineItem) Matches(productID uint, color, imageID string) bool {
	return i.Product.ID == productID &&
		i.SelectedColor == color &&
		i.SelectedImageID == imageID
}

// CartSnapshot stores the serialized cart of one session
type CartSnapshot struct {
	Key       string    `gorm:"column:cart_key;primaryKey;type:varchar(191)" json:"key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"` // JSON array of LineItem
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
