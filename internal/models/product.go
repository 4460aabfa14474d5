package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// Product is a catalog item sellable through the chat storefront.
type Product struct {
	gorm.Model
	ProductID   string  `json:"product_id" gorm:"unique;not null"`
	Name        string  `json:"name" gorm:"not null"`
	Category    string  `json:"category" gorm:"index"`
	Price       float64 `json:"price"`
	ShippingFee float64 `json:"shipping_fee" gorm:"default:0"`
	ImageURL    string  `json:"image_url"`
	Active      bool    `json:"active" gorm:"default:true"`

	Units        []ProductUnit `json:"units" gorm:"foreignKey:ProductRef;references:ProductID"`
	OptionGroups []OptionGroup `json:"option_groups" gorm:"foreignKey:ProductRef;references:ProductID"`
}

// BeforeCreate generates ProductID
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ProductID == "" {
		var count int64
		tx.Model(&Product{}).Count(&count)
		p.ProductID = fmt.Sprintf("PRD%05d", count+1)
	}
	return nil
}

// ProductUnit is one purchasable unit of a product (e.g. "box" vs "piece").
// Each unit carries its own price and shipping fee.
type ProductUnit struct {
	gorm.Model
	ProductRef  string  `json:"-" gorm:"index"`
	Label       string  `json:"label" gorm:"not null"`
	Price       float64 `json:"price"`
	ShippingFee float64 `json:"shipping_fee" gorm:"default:0"`
}

// OptionGroup is one independent option axis of a product (e.g. color, size).
// Values holds the choice labels as a JSON array string.
type OptionGroup struct {
	gorm.Model
	ProductRef string `json:"-" gorm:"index"`
	Name       string `json:"name" gorm:"not null"`
	Values     string `json:"values"` // JSON array of value labels
}

// ValueLabels decodes the stored choice labels.
func (g *OptionGroup) ValueLabels() []string {
	if g.Values == "" {
		return nil
	}
	var labels []string
	if err := json.Unmarshal([]byte(g.Values), &labels); err != nil {
		return nil
	}
	return labels
}

// SetValueLabels encodes the choice labels for storage.
func (g *OptionGroup) SetValueLabels(labels []string) {
	data, err := json.Marshal(labels)
	if err != nil {
		g.Values = "[]"
		return
	}
	g.Values = string(data)
}
