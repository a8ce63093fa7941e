package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository persists one document per gate evaluation. Writes go
// through the async dispatcher; this type never runs on the request path.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, d *domain.AuthDecision) error {
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
