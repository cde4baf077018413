// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultEventWasteType labels rallies created without a waste type.
const DefaultEventWasteType = "Rallye"

// Event is a location-pinned rally created by a user.
type Event struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	Lat               float64            `bson:"lat" json:"lat"`
	Lon               float64            `bson:"lon" json:"lng"`
	WasteType         string             `bson:"waste_type" json:"waste_type"`
	EstimatedWeightKg float64            `bson:"estimated_weight_kg" json:"estimated_weight_kg"`
	CreatorID         primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	Validated         bool               `bson:"validated" json:"validated"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
