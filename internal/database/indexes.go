package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "restaurant", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("restaurant_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
		{
			Keys:    bson.D{{Key: "paymentInfo.razorpayOrderId", Value: 1}},
			Options: options.Index().SetName("razorpayOrderId_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	return nil
}

func EnsureCatalogIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	menuIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "restaurant", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index().SetName("restaurant_category"),
		},
		{
			Keys:    bson.D{{Key: "restaurant", Value: 1}, {Key: "isAvailable", Value: 1}},
			Options: options.Index().SetName("restaurant_available"),
		},
	}

	log.Println("EnsureCatalogIndexes: creating menuitem indexes")
	if _, err := db.Collection("menuitems").Indexes().CreateMany(ctx, menuIndexes); err != nil {
		log.Println("EnsureCatalogIndexes: menuitem index error:", err)
		return err
	}

	restaurantIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "isApproved", Value: 1}},
		Options: options.Index().SetName("active_approved"),
	}

	log.Println("EnsureCatalogIndexes: creating restaurant indexes")
	if _, err := db.Collection("restaurants").Indexes().CreateOne(ctx, restaurantIndex); err != nil {
		log.Println("EnsureCatalogIndexes: restaurant index error:", err)
		return err
	}
	return nil
}
