package models

import "time"

// User is the durable identity owner: one per authenticated caller, keyed by
// the identity provider's external id. Created lazily on first commit.
type User struct {
	ID         string    `bson:"id" json:"id"`
	ExternalID string    `bson:"external_id" json:"externalId"` // Identity-provider subject, unique
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Patient is the person receiving care, owned by exactly one user and keyed
// by (UserID, Name) for lazy resolve-or-create at commit time.
type Patient struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Name      string    `bson:"name" json:"name"`
	Age       int       `bson:"age" json:"age"`
	Gender    string    `bson:"gender,omitempty" json:"gender,omitempty"`
	Phone     string    `bson:"phone" json:"phone"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
