package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a buyer's rating of a seller. At most one exists per
// (reviewer, target) pair and it is never edited.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReviewerID primitive.ObjectID `bson:"reviewer" json:"reviewer"`
	TargetID   primitive.ObjectID `bson:"targetUser" json:"targetUser"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment" json:"comment"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReviewWithReviewer is a review joined with the reviewer's display name.
type ReviewWithReviewer struct {
	Review       `bson:",inline"`
	ReviewerName string `bson:"reviewerName" json:"reviewerName"`
}

const NoRatingLabel = "no rating yet"

// RatingSummary is derived at read time from the stored reviews.
type RatingSummary struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
	Label   string   `json:"label"`
}

// SummarizeRatings computes the mean of ratings. An empty input has no
// average rather than a zero one.
func SummarizeRatings(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{Label: NoRatingLabel}
	}
	total := 0
	for _, r := range ratings {
		total += r
	}
	return NewRatingSummary(float64(total)/float64(len(ratings)), len(ratings))
}

// NewRatingSummary builds a summary from a precomputed mean and count.
func NewRatingSummary(avg float64, count int) RatingSummary {
	if count <= 0 {
		return RatingSummary{Label: NoRatingLabel}
	}
	return RatingSummary{
		Average: &avg,
		Count:   count,
		Label:   strconv.FormatFloat(avg, 'f', 1, 64),
	}
}
