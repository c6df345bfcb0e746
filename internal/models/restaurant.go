package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RestaurantAddress struct {
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	Pincode  string `bson:"pincode" json:"pincode"`
	Landmark string `bson:"landmark,omitempty" json:"landmark,omitempty"`
}

type RestaurantContact struct {
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email"`
}

type DeliveryTime struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

type RatingSummary struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Restaurant is a read-mostly catalog document. Orders only consume it: the
// gating flags, deliveryFee and minimumOrder (paise) feed order validation.
type Restaurant struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Cuisine      []string           `bson:"cuisine" json:"cuisine"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Address      RestaurantAddress  `bson:"address" json:"address"`
	Contact      RestaurantContact  `bson:"contact" json:"contact"`
	Owner        primitive.ObjectID `bson:"owner" json:"owner"`
	Rating       RatingSummary      `bson:"rating" json:"rating"`
	DeliveryTime DeliveryTime       `bson:"deliveryTime" json:"deliveryTime"`
	DeliveryFee  int64              `bson:"deliveryFee" json:"deliveryFee"`
	MinimumOrder int64              `bson:"minimumOrder" json:"minimumOrder"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	IsApproved   bool               `bson:"isApproved" json:"isApproved"`
	IsFeatured   bool               `bson:"isFeatured" json:"isFeatured"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Orderable reports whether the restaurant can accept new orders.
func (r Restaurant) Orderable() bool {
	return r.IsActive && r.IsApproved
}
