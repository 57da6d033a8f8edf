package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Package is a purchasable tier in the read-only catalog.
type Package struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id" yaml:"-"`
	Name          string             `bson:"name" json:"name" yaml:"name"`
	Price         float64            `bson:"price" json:"price" yaml:"price"`
	EmployeeLimit int                `bson:"employeeLimit" json:"employeeLimit" yaml:"employeeLimit"`
	Features      []string           `bson:"features,omitempty" json:"features,omitempty" yaml:"features,omitempty"`
}
