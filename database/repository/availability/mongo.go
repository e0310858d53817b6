package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/database"
	"medibook/models"
)

type mongoTemplateRepo struct {
	coll *mongo.Collection
}

// NewMongoTemplateRepo returns a TemplateRepository backed by the
// availability_templates collection.
func NewMongoTemplateRepo() TemplateRepository {
	return &mongoTemplateRepo{coll: database.Collection("availability_templates")}
}

func (r *mongoTemplateRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.AvailabilityTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"doctor_id": doctorID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []models.AvailabilityTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *mongoTemplateRepo) ListByHospital(ctx context.Context, hospitalID string) ([]models.AvailabilityTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"hospital_id": hospitalID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []models.AvailabilityTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *mongoTemplateRepo) Upsert(ctx context.Context, tpl *models.AvailabilityTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if tpl.ID == "" {
		tpl.ID = uuid.New().String()
	}

	filter := bson.M{"id": tpl.ID}
	update := bson.M{"$set": tpl}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoTemplateRepo) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the availability_templates collection.
func (r *mongoTemplateRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern: all templates for a doctor.
		{
			Keys:    bson.D{{Key: "doctor_id", Value: 1}, {Key: "day_of_week", Value: 1}},
			Options: options.Index().SetName("doctor_day_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create template indexes: %w", err)
	}
	return nil
}
