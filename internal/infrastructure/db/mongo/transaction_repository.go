package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

const collectionTransactions = "transactions"

type TransactionRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions), seq: newSequence(db, collectionTransactions)}
}

type mongoTransaction struct {
	ID       int64   `bson:"_id"`
	Type     string  `bson:"type"`
	Category string  `bson:"category"`
	Amount   float64 `bson:"amount"`
	Date     string  `bson:"date"`
	Desc     string  `bson:"desc"`
	UserID   int64   `bson:"user_id"`
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cur.Close(ctx)

	txs := make([]domain.Transaction, 0)
	for cur.Next(ctx) {
		var mt mongoTransaction
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		txs = append(txs, mt.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoTransaction{
		ID:       id,
		Type:     string(t.Type),
		Category: t.Category,
		Amount:   t.Amount,
		Date:     t.Date,
		Desc:     t.Desc,
		UserID:   t.OwnerID,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	created := doc.toDomain()
	return &created, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id, ownerID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, ownedByFilter(id, ownerID))
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// EnsureIndexes backs the owner-scoped, date-ordered listing.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}, {Key: "_id", Value: -1}},
	})
	return err
}

// ownedByFilter matches one transaction only when ownerID owns it, so a
// foreign id deletes nothing.
func ownedByFilter(id, ownerID int64) bson.M {
	return bson.M{"_id": id, "user_id": ownerID}
}

func (mt mongoTransaction) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:       mt.ID,
		Type:     domain.TransactionType(mt.Type),
		Category: mt.Category,
		Amount:   mt.Amount,
		Date:     mt.Date,
		Desc:     mt.Desc,
		OwnerID:  mt.UserID,
	}
}
