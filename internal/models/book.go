package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p *GeoPoint) Lng() float64 { return p.Coordinates[0] }
func (p *GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Image references an asset held by the external blob store.
type Image struct {
	PublicID string `bson:"publicId" json:"publicId"`
	URL      string `bson:"url" json:"url"`
}

type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Price       float64            `bson:"price" json:"price"`
	Condition   Condition          `bson:"condition" json:"condition"`
	Category    Category           `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	City        string             `bson:"city" json:"city"`
	Location    *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	SellerID    primitive.ObjectID `bson:"seller" json:"seller"`
	Image       Image              `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BookUpdate carries the fields of a partial listing update; nil means unchanged.
type BookUpdate struct {
	Title       *string
	Author      *string
	Price       *float64
	Condition   *Condition
	Category    *Category
	Description *string
	City        *string
	Location    *GeoPoint
	Image       *Image
}

// Apply copies the set fields of u onto b.
func (u BookUpdate) Apply(b *Book) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.Price != nil {
		b.Price = *u.Price
	}
	if u.Condition != nil {
		b.Condition = *u.Condition
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.City != nil {
		b.City = *u.City
	}
	if u.Location != nil {
		b.Location = u.Location
	}
	if u.Image != nil {
		b.Image = *u.Image
	}
}

// BookResult is a listing joined with its seller, optionally annotated with
// the distance in meters from the discovery query point.
type BookResult struct {
	Book     `bson:",inline"`
	Seller   SellerSummary `bson:"sellerInfo" json:"seller"`
	Distance *float64      `bson:"distance,omitempty" json:"distance,omitempty"`
}
