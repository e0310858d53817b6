// Package directoryRepo serves the read-only reference entities: doctors,
// hospitals and packages. A doctor's fee and a package's price read here are
// the only price sources the reservation pipeline trusts.
package directoryRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

// ErrNotFound means the referenced entity does not exist.
var ErrNotFound = errors.New("directory entity not found")

// DirectoryRepository reads doctors, hospitals and packages.
type DirectoryRepository interface {
	GetDoctorByID(ctx context.Context, id string) (*models.Doctor, error)
	GetHospitalByID(ctx context.Context, id string) (*models.Hospital, error)
	GetPackageByID(ctx context.Context, id string) (*models.Package, error)
	ListDoctorsByHospital(ctx context.Context, hospitalID string) ([]models.Doctor, error)
}

type mongoDirectoryRepo struct {
	doctors   *mongo.Collection
	hospitals *mongo.Collection
	packages  *mongo.Collection
}

// NewMongoDirectoryRepo returns a DirectoryRepository over the doctors,
// hospitals and packages collections.
func NewMongoDirectoryRepo() DirectoryRepository {
	return &mongoDirectoryRepo{
		doctors:   database.Collection("doctors"),
		hospitals: database.Collection("hospitals"),
		packages:  database.Collection("packages"),
	}
}

func (r *mongoDirectoryRepo) GetDoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctor models.Doctor
	if err := r.doctors.FindOne(ctx, bson.M{"id": id}).Decode(&doctor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *mongoDirectoryRepo) GetHospitalByID(ctx context.Context, id string) (*models.Hospital, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hospital models.Hospital
	if err := r.hospitals.FindOne(ctx, bson.M{"id": id}).Decode(&hospital); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &hospital, nil
}

func (r *mongoDirectoryRepo) GetPackageByID(ctx context.Context, id string) (*models.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pkg models.Package
	if err := r.packages.FindOne(ctx, bson.M{"id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *mongoDirectoryRepo) ListDoctorsByHospital(ctx context.Context, hospitalID string) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.doctors.Find(ctx, bson.M{"hospital_id": hospitalID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}
