package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rotino/internal/models"
	"rotino/internal/orders"
)

// CatalogRepository reads the restaurant and menu collections. Orders only
// consume these documents; writes happen through seeding/owner tooling.
type CatalogRepository struct {
	restaurants *mongo.Collection
	menuItems   *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		restaurants: db.Collection("restaurants"),
		menuItems:   db.Collection("menuitems"),
	}
}

func (r *CatalogRepository) Restaurant(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.restaurants.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant)
	if err == mongo.ErrNoDocuments {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *CatalogRepository) MenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.menuItems.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListRestaurants serves the browse screen: approved+active restaurants,
// optional cuisine filter and name search, newest rating first.
func (r *CatalogRepository) ListRestaurants(ctx context.Context, cuisine, search string, page, limit int64) ([]models.Restaurant, int64, error) {
	filter := bson.M{"isActive": true, "isApproved": true}
	if cuisine != "" {
		filter["cuisine"] = cuisine
	}
	if search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	total, err := r.restaurants.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating.average", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.restaurants.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	results := make([]models.Restaurant, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// MenuForRestaurant returns the available menu of one restaurant.
func (r *CatalogRepository) MenuForRestaurant(ctx context.Context, restaurant primitive.ObjectID) ([]models.MenuItem, error) {
	cursor, err := r.menuItems.Find(ctx,
		bson.M{"restaurant": restaurant, "isAvailable": true},
		options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
