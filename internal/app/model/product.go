package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductType string

const (
	ProductTypeBin       ProductType = "bin"       // waste bins
	ProductTypeContainer ProductType = "container" // storage containers
	ProductTypeAccessory ProductType = "accessory" // liners, lids, spare parts
)

type Product struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	Name            string            `gorm:"not null" json:"name"`
	Description     string            `gorm:"type:text" json:"description"`
	Price           float64           `gorm:"not null" json:"price"`
	Discount        float64           `gorm:"not null;default:0" json:"discount"`                      // percent, 0-100
	Colors          pq.StringArray    `gorm:"type:text[];default:'{}'" json:"colors"`                   // e.g. {"red","black"}
	Quantity        int               `gorm:"not null;default:0" json:"quantity"`                      // units available
	Specifications  string            `gorm:"type:text" json:"specifications"`                         // free-form spec sheet
	ImageIDs        pq.StringArray    `gorm:"type:text[];default:'{}'" json:"image_ids"`                // image uuids, one per variant
	ImageExtensions map[string]string `gorm:"type:text;serializer:json" json:"image_extensions,omitempty"` // image uuid -> file extension
	ProductType     ProductType       `gorm:"type:varchar(50)" json:"product_type"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// HasColor reports whether color is one of the product's variants
func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// HasImage reports whether imageID belongs to the product
func (p *Product) HasImage(imageID string) bool {
	for _, id := range p.ImageIDs {
		if id == imageID {
			return true
		}
	}
	return false
}

// ImageExtension returns the stored extension for imageID, "webp" when unknown
func (p *Product) ImageExtension(imageID string) string {
	if ext, ok := p.ImageExtensions[imageID]; ok && ext != "" {
		return ext
	}
	return "webp"
}

// Snapshot copies the product into the value stored on a cart line
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Discount:       p.Discount,
		Colors:         append([]string{}, p.Colors...),
		Quantity:       p.Quantity,
		Specifications: p.Specifications,
		ImageIDs:       append([]string{}, p.ImageIDs...),
		ProductType:    string(p.ProductType),
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
