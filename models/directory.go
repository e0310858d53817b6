package models

// Doctor is read-only reference data. Fee is the only server-trusted price
// source for a consultation; zero means no fee has been configured.
type Doctor struct {
	ID         string `bson:"id" json:"id"`
	HospitalID string `bson:"hospital_id" json:"hospitalId"`
	Name       string `bson:"name" json:"name"`
	Specialty  string `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Fee        int64  `bson:"fee" json:"fee"` // Minor currency units
}

// Hospital is read-only reference data for display and booking ownership.
type Hospital struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	City string `bson:"city,omitempty" json:"city,omitempty"`
}

// Package is a prepaid bundle of services sold by a hospital. Price is the
// only server-trusted price source for a package purchase.
type Package struct {
	ID         string `bson:"id" json:"id"`
	HospitalID string `bson:"hospital_id" json:"hospitalId"`
	Name       string `bson:"name" json:"name"`
	Price      int64  `bson:"price" json:"price"` // Minor currency units
}
