package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
// unique_payment_session is the sole idempotency guard for the commit
// pipeline; unique_slot enforces doctor/date/start exclusivity for bookings
// that still occupy their slot.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "payment_session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_payment_session"),
		},
		// Slot exclusivity: only bookings that reference a concrete occurrence
		// and are still active participate. The $in in the partial filter
		// requires MongoDB 6.0+; older servers reject it at index creation.
		{
			Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_slot").
				SetPartialFilterExpression(bson.M{
					"doctor_id": bson.M{"$exists": true, "$type": "string"},
					"date":      bson.M{"$exists": true, "$type": "string"},
					"status":    bson.M{"$in": bson.A{"confirmed", "completed"}},
				}),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_idx"),
		},
		{
			Keys:    bson.D{{Key: "doctor_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("doctor_status_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
