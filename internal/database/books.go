package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rebook/internal/apperrors"
	"rebook/internal/geo"
	"rebook/internal/models"
)

func (s *Store) InsertBook(ctx context.Context, book *models.Book) error {
	res, err := s.books.InsertOne(ctx, book)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		book.ID = id
	}
	return nil
}

func (s *Store) FindBookByID(ctx context.Context, id primitive.ObjectID) (models.Book, error) {
	var book models.Book
	if err := s.books.FindOne(ctx, bson.M{"_id": id}).Decode(&book); err != nil {
		return models.Book{}, mapNoDocuments("find book "+id.Hex(), err)
	}
	return book, nil
}

func (s *Store) FindBookWithSeller(ctx context.Context, id primitive.ObjectID) (models.BookResult, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	}, sellerLookupStages(true)...)

	results, err := s.aggregateBooks(ctx, pipeline)
	if err != nil {
		return models.BookResult{}, fmt.Errorf("find book %s with seller: %w", id.Hex(), err)
	}
	if len(results) == 0 {
		return models.BookResult{}, fmt.Errorf("find book %s with seller: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return results[0], nil
}

func (s *Store) UpdateBook(ctx context.Context, id primitive.ObjectID, update models.BookUpdate) (models.Book, error) {
	set := bookUpdateSet(update, time.Now().UTC())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := s.books.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&book)
	if err != nil {
		return models.Book{}, mapNoDocuments("update book "+id.Hex(), err)
	}
	return book, nil
}

func (s *Store) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.books.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete book %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context) ([]models.BookResult, error) {
	results, err := s.aggregateBooks(ctx, recentPipeline())
	if err != nil {
		return nil, fmt.Errorf("list recent books: %w", err)
	}
	return results, nil
}

func (s *Store) ListNear(ctx context.Context, p geo.Point, maxMeters float64) ([]models.BookResult, error) {
	results, err := s.aggregateBooks(ctx, nearPipeline(p, maxMeters))
	if err != nil {
		return nil, fmt.Errorf("list books near %v,%v: %w", p.Lat, p.Lng, err)
	}
	return results, nil
}

func (s *Store) ListSimilar(ctx context.Context, category models.Category, exclude primitive.ObjectID, limit int) ([]models.Book, error) {
	filter := bson.M{
		"category": category,
		"_id":      bson.M{"$ne": exclude},
	}
	cursor, err := s.books.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list similar books: %w", err)
	}
	books, err := decodeAll[models.Book](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("decode similar books: %w", err)
	}
	return books, nil
}

func (s *Store) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.books.Find(ctx, bson.M{"seller": sellerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list books by seller %s: %w", sellerID.Hex(), err)
	}
	books, err := decodeAll[models.Book](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("decode books by seller %s: %w", sellerID.Hex(), err)
	}
	return books, nil
}

func (s *Store) FindBooksWithSellers(ctx context.Context, ids []primitive.ObjectID) ([]models.BookResult, error) {
	if len(ids) == 0 {
		return []models.BookResult{}, nil
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}}},
	}, sellerLookupStages(true)...)

	results, err := s.aggregateBooks(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find books with sellers: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.BookResult, len(results))
	for _, result := range results {
		byID[result.ID] = result
	}

	ordered := make([]models.BookResult, 0, len(results))
	for _, id := range ids {
		if result, exists := byID[id]; exists {
			ordered = append(ordered, result)
		}
	}
	return ordered, nil
}

func (s *Store) aggregateBooks(ctx context.Context, pipeline mongo.Pipeline) ([]models.BookResult, error) {
	cursor, err := s.books.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.BookResult](ctx, cursor)
}

func recentPipeline() mongo.Pipeline {
	return append(mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}, sellerLookupStages(false)...)
}

// nearPipeline ranks located listings by spherical distance from p. $geoNear
// must be the first stage and sorts nearest first on its own; documents
// without a location are not in the 2dsphere index and never match.
func nearPipeline(p geo.Point, maxMeters float64) mongo.Pipeline {
	geoNear := bson.D{{Key: "$geoNear", Value: bson.D{
		{Key: "near", Value: bson.D{
			{Key: "type", Value: "Point"},
			{Key: "coordinates", Value: bson.A{p.Lng, p.Lat}},
		}},
		{Key: "key", Value: "location"},
		{Key: "distanceField", Value: "distance"},
		{Key: "maxDistance", Value: maxMeters},
		{Key: "spherical", Value: true},
	}}}

	return append(mongo.Pipeline{geoNear}, sellerLookupStages(true)...)
}

func bookUpdateSet(update models.BookUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Author != nil {
		set["author"] = *update.Author
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Condition != nil {
		set["condition"] = *update.Condition
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.City != nil {
		set["city"] = *update.City
	}
	if update.Location != nil {
		set["location"] = update.Location
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	return set
}
