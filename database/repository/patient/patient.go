package patientRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/database"
	"medibook/models"
)

// ErrNotFound means no patient matched the lookup.
var ErrNotFound = errors.New("patient not found")

// PatientRepository stores care recipients, each owned by one user and keyed
// by (user, full name) for lazy resolve-or-create at commit time.
type PatientRepository interface {
	GetByUserAndName(ctx context.Context, userID, name string) (*models.Patient, error)
	ListByUser(ctx context.Context, userID string) ([]models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
	EnsureIndexes() error
}

type mongoPatientRepo struct {
	coll *mongo.Collection
}

// NewMongoPatientRepo returns a PatientRepository backed by the patients collection.
func NewMongoPatientRepo() PatientRepository {
	return &mongoPatientRepo{coll: database.Collection("patients")}
}

func (r *mongoPatientRepo) GetByUserAndName(ctx context.Context, userID, name string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "name": name}).Decode(&patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

func (r *mongoPatientRepo) ListByUser(ctx context.Context, userID string) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var patients []models.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *mongoPatientRepo) Create(ctx context.Context, patient *models.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, patient)
	return err
}

// EnsureIndexes creates the necessary indexes on the patients collection.
func (r *mongoPatientRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("user_name_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create patient indexes: %w", err)
	}
	return nil
}
