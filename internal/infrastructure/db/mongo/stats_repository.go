package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

// StatsRepository aggregates the back-office dashboard counters. Revenue
// is a single $group pipeline over orders; everything else is a count.
type StatsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Collect(ctx context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{}

	var err error
	if stats.TotalProducts, err = r.db.Collection(productCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if stats.TotalOrders, err = r.db.Collection(orderCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	if stats.TotalUsers, err = r.db.Collection("users").CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	cur, err := r.db.Collection(orderCollection).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate revenue: %w", err)
	}
	defer cur.Close(ctx)

	var result []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode revenue: %w", err)
	}
	if len(result) > 0 {
		stats.TotalRevenue = result[0].Total
	}

	return stats, nil
}
