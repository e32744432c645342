package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
)

const obligationCollection = "obligations"

// ObligationRepository implements ports.ObligationRepository using MongoDB.
// All single-record queries filter by both _id and user_id, so a record
// owned by another user is indistinguishable from a missing one.
type ObligationRepository struct {
	coll *mongo.Collection
}

func NewObligationRepository(db *mongo.Database) *ObligationRepository {
	return &ObligationRepository{coll: db.Collection(obligationCollection)}
}

type mongoObligation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Description string             `bson:"description"`
	Type        string             `bson:"type"`
	DueDate     time.Time          `bson:"due_date"`
	Status      string             `bson:"status"`
	ValueCents  *int64             `bson:"value_cents,omitempty"`
	Reference   string             `bson:"reference,omitempty"`
	Priority    string             `bson:"priority"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *ObligationRepository) Insert(ctx context.Context, o *domain.Obligation) (*domain.Obligation, error) {
	ownerID, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert obligation: bad owner id: %w", err)
	}

	doc := toMongoObligation(o)
	doc.UserID = ownerID

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert obligation: %w", err)
	}

	created := *o
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ObligationRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Obligation, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return nil, err
	}

	var mo mongoObligation
	if err := r.coll.FindOne(ctx, filter).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrObligationNotFound
		}
		return nil, fmt.Errorf("find obligation: %w", err)
	}
	return toDomainObligation(mo), nil
}

// FindByOwner returns all of ownerID's obligations, most distant due date first.
func (r *ObligationRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Obligation, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrObligationNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Obligation{}
	for cur.Next(ctx) {
		var mo mongoObligation
		if err := cur.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode obligation: %w", err)
		}
		out = append(out, toDomainObligation(mo))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	return out, nil
}

func (r *ObligationRepository) Update(ctx context.Context, o *domain.Obligation) error {
	filter, err := ownedFilter(o.ID, o.UserID)
	if err != nil {
		return err
	}

	set := bson.M{
		"description": o.Description,
		"type":        string(o.Type),
		"due_date":    o.DueDate.UTC(),
		"status":      string(o.Status),
		"reference":   o.Reference,
		"priority":    string(o.Priority),
		"updated_at":  o.UpdatedAt.UTC(),
	}
	update := bson.M{"$set": set}
	if o.Value != nil {
		set["value_cents"] = int64(*o.Value)
	} else {
		update["$unset"] = bson.M{"value_cents": ""}
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update obligation: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrObligationNotFound
	}
	return nil
}

func (r *ObligationRepository) Delete(ctx context.Context, id, ownerID string) error {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete obligation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrObligationNotFound
	}
	return nil
}

// DeleteByOwner removes every obligation of a user. Mirrors the cascade a
// relational store would apply when the owning account is removed.
func (r *ObligationRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return domain.ErrObligationNotFound
	}
	_, err = r.coll.DeleteMany(ctx, bson.M{"user_id": oid})
	if err != nil {
		return fmt.Errorf("delete obligations by owner: %w", err)
	}
	return nil
}

// EnsureIndexes creates the owner and due-date indexes used by FindByOwner.
func (r *ObligationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "due_date", Value: -1}}},
	})
	return err
}

// ownedFilter builds the _id+user_id filter; malformed ids behave like a
// missing record rather than an error to avoid leaking anything about ids.
func ownedFilter(id, ownerID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrObligationNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrObligationNotFound
	}
	return bson.M{"_id": oid, "user_id": owner}, nil
}

func toMongoObligation(o *domain.Obligation) mongoObligation {
	mo := mongoObligation{
		Description: o.Description,
		Type:        string(o.Type),
		DueDate:     o.DueDate.UTC(),
		Status:      string(o.Status),
		Reference:   o.Reference,
		Priority:    string(o.Priority),
		CreatedAt:   o.CreatedAt.UTC(),
		UpdatedAt:   o.UpdatedAt.UTC(),
	}
	if o.Value != nil {
		cents := int64(*o.Value)
		mo.ValueCents = &cents
	}
	return mo
}

func toDomainObligation(mo mongoObligation) *domain.Obligation {
	o := &domain.Obligation{
		ID:          mo.ID.Hex(),
		UserID:      mo.UserID.Hex(),
		Description: mo.Description,
		Type:        domain.ObligationType(mo.Type),
		DueDate:     mo.DueDate.UTC(),
		Status:      domain.ObligationStatus(mo.Status),
		Reference:   mo.Reference,
		Priority:    domain.Priority(mo.Priority),
		CreatedAt:   mo.CreatedAt.UTC(),
		UpdatedAt:   mo.UpdatedAt.UTC(),
	}
	if mo.ValueCents != nil {
		v := domain.Money(*mo.ValueCents)
		o.Value = &v
	}
	return o
}
