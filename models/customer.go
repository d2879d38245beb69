package models

import "time"

type Customer struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	UserID    string    `json:"userId" bson:"user_id" db:"user_id"`
	Name      string    `json:"name" bson:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
}
