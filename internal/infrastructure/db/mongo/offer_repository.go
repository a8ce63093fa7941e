package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

const offerCollection = "offers"

type OfferRepository struct {
	coll *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{coll: db.Collection(offerCollection)}
}

type offerDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	DiscountPct float64            `bson:"discount_pct"`
	ProductIDs  []string           `bson:"product_ids"`
	StartsAt    int64              `bson:"starts_at"`
	EndsAt      int64              `bson:"ends_at"`
	Active      bool               `bson:"active"`
	CreatedAt   int64              `bson:"created_at"`
}

func (r *OfferRepository) FindAll(ctx context.Context) ([]*domain.Offer, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Offer
	for cur.Next(ctx) {
		var doc offerDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode offer: %w", err)
		}
		out = append(out, fromOfferDoc(&doc))
	}
	return out, cur.Err()
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOfferNotFound
	}

	var doc offerDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return fromOfferDoc(&doc), nil
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) (*domain.Offer, error) {
	res, err := r.coll.InsertOne(ctx, toOfferDoc(o))
	if err != nil {
		return nil, fmt.Errorf("insert offer: %w", err)
	}

	created := *o
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *OfferRepository) Update(ctx context.Context, o *domain.Offer) (*domain.Offer, error) {
	oid, err := primitive.ObjectIDFromHex(o.ID)
	if err != nil {
		return nil, domain.ErrOfferNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toOfferDoc(o))
	if err != nil {
		return nil, fmt.Errorf("update offer: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrOfferNotFound
	}
	return o, nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOfferNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

func toOfferDoc(o *domain.Offer) offerDoc {
	return offerDoc{
		Title:       o.Title,
		Description: o.Description,
		DiscountPct: o.DiscountPct,
		ProductIDs:  o.ProductIDs,
		StartsAt:    o.StartsAt.Unix(),
		EndsAt:      o.EndsAt.Unix(),
		Active:      o.Active,
		CreatedAt:   o.CreatedAt.Unix(),
	}
}

func fromOfferDoc(doc *offerDoc) *domain.Offer {
	return &domain.Offer{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		DiscountPct: doc.DiscountPct,
		ProductIDs:  doc.ProductIDs,
		StartsAt:    unixToTime(doc.StartsAt),
		EndsAt:      unixToTime(doc.EndsAt),
		Active:      doc.Active,
		CreatedAt:   unixToTime(doc.CreatedAt),
	}
}
