package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rotino/internal/models"
	"rotino/internal/orders"
)

// OrderRepository stores orders in the "orders" collection. Every mutation is
// a single conditional update guarded on the current status, so two requests
// racing on one order can never both win.
type OrderRepository struct {
	orders *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{orders: db.Collection("orders")}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, user primitive.ObjectID, status string, page, limit int64) ([]models.Order, int64, error) {
	filter := bson.M{"user": user}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	results := make([]models.Order, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *OrderRepository) SetProviderOrder(ctx context.Context, id primitive.ObjectID, providerOrderID string) (bool, error) {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPendingPayment},
		bson.M{"$set": bson.M{
			"paymentInfo.razorpayOrderId": providerOrderID,
			"updatedAt":                   time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, paymentID, signature string, paidAt time.Time, entry models.TrackingEntry) (bool, error) {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPendingPayment},
		bson.M{
			"$set": bson.M{
				"status":                        models.StatusConfirmed,
				"paymentInfo.razorpayPaymentId": paymentID,
				"paymentInfo.razorpaySignature": signature,
				"paymentInfo.status":            models.PaymentPaid,
				"paymentInfo.paidAt":            paidAt,
				"updatedAt":                     paidAt,
			},
			"$push": bson.M{"orderTracking": entry},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *OrderRepository) MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, reason string, entry models.TrackingEntry) (bool, error) {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPendingPayment},
		bson.M{
			"$set": bson.M{
				"status":                    models.StatusPaymentFailed,
				"paymentInfo.status":        models.PaymentFailed,
				"paymentInfo.failureReason": reason,
				"updatedAt":                 time.Now(),
			},
			"$push": bson.M{"orderTracking": entry},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *OrderRepository) Cancel(ctx context.Context, id primitive.ObjectID, refund *models.Refund, entry models.TrackingEntry) (bool, error) {
	set := bson.M{
		"status":    models.StatusCancelled,
		"updatedAt": time.Now(),
	}
	if refund != nil {
		set["refund"] = refund
	}

	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": []string{
			models.StatusPendingPayment,
			models.StatusConfirmed,
			models.StatusPreparing,
		}}},
		bson.M{
			"$set":  set,
			"$push": bson.M{"orderTracking": entry},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *OrderRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating models.Rating) (bool, error) {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": models.StatusDelivered,
			"rating": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{
			"rating":    rating,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *OrderRepository) AdvanceStatus(ctx context.Context, id primitive.ObjectID, from, to string, deliveredAt *time.Time, entry models.TrackingEntry) (bool, error) {
	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	if deliveredAt != nil {
		set["actualDeliveryTime"] = deliveredAt
	}

	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{
			"$set":  set,
			"$push": bson.M{"orderTracking": entry},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
