package model

import "time"

// ProductStatus enumerates the lifecycle states of a listing.
//
//	draft     – saved by the seller but not browsable.
//	available – live in the catalog.
//	pending   – some quantity of it is part of a pending order; cancelling
//	            that order returns the listing to available.
//	sold      – reserved for a future migration; no flow sets it today.
type ProductStatus string

const (
	ProductDraft     ProductStatus = "draft"
	ProductAvailable ProductStatus = "available"
	ProductPending   ProductStatus = "pending"
	ProductSold      ProductStatus = "sold"
)

// Condition is the closed vocabulary describing the wear of a second-hand
// item. One canonical set is accepted on both create and edit.
type Condition string

const (
	ConditionBrandNew  Condition = "brand_new"
	ConditionLikeNew   Condition = "like_new"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionVintage   Condition = "vintage"
)

// ValidCondition reports whether raw is one of the accepted condition tags.
func ValidCondition(raw string) bool {
	switch Condition(raw) {
	case ConditionBrandNew, ConditionLikeNew, ConditionExcellent,
		ConditionGood, ConditionFair, ConditionVintage:
		return true
	}
	return false
}

// Product mirrors the `products` table. Prices are stored in cents to avoid
// floating point drift. ImageURL is the primary image; AdditionalImages
// holds up to four gallery URLs.
type Product struct {
	ID               uint64        `json:"id"`
	SellerID         uint64        `json:"seller_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	PriceCents       int64         `json:"price_cents"`
	Quantity         uint32        `json:"quantity"`
	CategoryID       *uint64       `json:"category_id,omitempty"`
	Condition        Condition     `json:"condition"`
	Brand            *string       `json:"brand,omitempty"`
	Size             *string       `json:"size,omitempty"`
	ImageURL         *string       `json:"image_url,omitempty"`
	ThumbURL         *string       `json:"thumb_url,omitempty"`
	AdditionalImages []string      `json:"additional_images"`
	Status           ProductStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Category is immutable reference data from the `categories` table.
type Category struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
