package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Stock never goes below zero: the only code
// path that decrements it filters on stock >= quantity.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	Description string             `bson:"description" json:"description" binding:"required"`
	Category    string             `bson:"category" json:"category" binding:"required"`
	Price       float64            `bson:"price" json:"price" binding:"min=0"`
	Stock       int                `bson:"stock" json:"stock" binding:"min=0"`
	Image       string             `bson:"image" json:"image" binding:"required"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
