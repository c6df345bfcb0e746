package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomizationOption struct {
	Name  string `bson:"name" json:"name"`
	Price int64  `bson:"price" json:"price"`
}

type CustomizationGroup struct {
	Name          string                `bson:"name" json:"name"`
	Options       []CustomizationOption `bson:"options" json:"options"`
	IsRequired    bool                  `bson:"isRequired" json:"isRequired"`
	AllowMultiple bool                  `bson:"allowMultiple" json:"allowMultiple"`
}

// MenuItem belongs to exactly one restaurant; the back-reference is what order
// creation checks when a cart claims an item for a restaurant.
type MenuItem struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	Description    string               `bson:"description,omitempty" json:"description,omitempty"`
	Image          string               `bson:"image,omitempty" json:"image,omitempty"`
	Category       string               `bson:"category" json:"category"`
	Restaurant     primitive.ObjectID   `bson:"restaurant" json:"restaurant"`
	Price          int64                `bson:"price" json:"price"`
	IsVeg          bool                 `bson:"isVeg" json:"isVeg"`
	Customizations []CustomizationGroup `bson:"customizations,omitempty" json:"customizations,omitempty"`
	IsAvailable    bool                 `bson:"isAvailable" json:"isAvailable"`
	IsRecommended  bool                 `bson:"isRecommended" json:"isRecommended"`
	Rating         RatingSummary        `bson:"rating" json:"rating"`
	OrderCount     int64                `bson:"orderCount" json:"orderCount"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
}
