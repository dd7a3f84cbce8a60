package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"burningbros/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	NameEN      string             `bson:"name_en"`
	NameVI      string             `bson:"name_vi"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Subcategory string             `bson:"subcategory"`
	LikedBy     []string           `bson:"liked_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDocument) toModel() models.Product {
	likedBy := d.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return models.Product{
		ID:          d.ID.Hex(),
		NameEN:      d.NameEN,
		NameVI:      d.NameVI,
		Price:       d.Price,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		LikedBy:     likedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over the products collection.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(productsCollection)}
}

// Create inserts a product; MongoDB assigns the ObjectID.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := productDocument{
		NameEN:      product.NameEN,
		NameVI:      product.NameVI,
		Price:       product.Price,
		Category:    product.Category,
		Subcategory: product.Subcategory,
		LikedBy:     product.LikedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if doc.LikedBy == nil {
		doc.LikedBy = []string{}
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	*product = doc.toModel()
	return nil
}

// GetByID retrieves a product by its hex ObjectID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	p := doc.toModel()
	return &p, nil
}

// FindPage returns one page of matching products ordered by _id.
func (r *MongoProductRepository) FindPage(ctx context.Context, filter ProductFilter, skip, limit int) ([]models.Product, error) {
	query, err := productQuery(filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cur.Close(ctx)

	products := make([]models.Product, 0, min(limit, pageAllocHint))
	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// Count returns the number of matching products.
func (r *MongoProductRepository) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	query, err := productQuery(filter)
	if err != nil {
		return 0, err
	}
	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// AddLike applies $addToSet so concurrent likes never duplicate.
func (r *MongoProductRepository) AddLike(ctx context.Context, id, userID string) error {
	return r.updateLikes(ctx, id, bson.M{
		"$addToSet": bson.M{"liked_by": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

// RemoveLike applies $pull.
func (r *MongoProductRepository) RemoveLike(ctx context.Context, id, userID string) error {
	return r.updateLikes(ctx, id, bson.M{
		"$pull": bson.M{"liked_by": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

// IsValidID reports whether id is a hex ObjectID.
func (r *MongoProductRepository) IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func (r *MongoProductRepository) updateLikes(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update likes of product %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

func productQuery(filter ProductFilter) (bson.M, error) {
	if filter.IsZero() {
		return bson.M{}, nil
	}
	switch filter.Field {
	case FieldNameEN, FieldNameVI:
	default:
		return nil, fmt.Errorf("unsupported search field %q", filter.Field)
	}
	return bson.M{
		string(filter.Field): primitive.Regex{Pattern: regexp.QuoteMeta(filter.Contains), Options: "i"},
	}, nil
}
