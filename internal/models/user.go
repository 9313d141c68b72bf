package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents the application user account.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	Phone        string               `bson:"phone" json:"phone"`
	IsAdmin      bool                 `bson:"isAdmin" json:"isAdmin"`
	Cart         []primitive.ObjectID `bson:"cart" json:"-"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the account view safe to return to other users.
type PublicUser struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	IsAdmin   bool               `json:"isAdmin"`
	CreatedAt time.Time          `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// SellerSummary is the seller projection joined onto listings. Which fields
// are filled depends on the query: recency discovery carries name and email,
// distance discovery and the cart also carry phone.
type SellerSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt *time.Time         `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Summary projects u to name and email, optionally with contact details.
func (u User) Summary(withContact bool) SellerSummary {
	s := SellerSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	if withContact {
		created := u.CreatedAt
		s.Phone = u.Phone
		s.CreatedAt = &created
	}
	return s
}
