package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUsuarioRepo struct{ col *mongo.Collection }

func NewMongoUsuarioRepository(db *mongo.Database, collection string) UsuarioRepository {
	return &mongoUsuarioRepo{col: db.Collection(collection)}
}

func (r *mongoUsuarioRepo) Create(ctx context.Context, id string, fields map[string]any) error {
	doc := make(bson.M, len(fields)+2)
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = id
	doc[model.FieldCreatedAt] = time.Now().UTC()

	_, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert usuario %s: %w", id, err)
	}
	return nil
}

func (r *mongoUsuarioRepo) FindByField(ctx context.Context, field, value string) ([]model.Usuario, error) {
	return r.find(ctx, bson.M{field: value})
}

func (r *mongoUsuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoUsuarioRepo) find(ctx context.Context, filter any) ([]model.Usuario, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find usuarios: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode usuarios: %w", err)
	}

	out := make([]model.Usuario, 0, len(docs))
	for _, doc := range docs {
		out = append(out, usuarioFromBSON(doc))
	}
	return out, nil
}

func (r *mongoUsuarioRepo) UpdateTransaction(ctx context.Context, id, trxStatus, orderID string) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		model.FieldTrxStatus: trxStatus,
		model.FieldOrderID:   orderID,
	}})
	if err != nil {
		return fmt.Errorf("failed to update usuario %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUsuarioRepo) MarkStockUpdated(ctx context.Context, id string) (bool, error) {
	filter := bson.M{"_id": id, model.FieldStockUpdated: bson.M{"$ne": true}}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{model.FieldStockUpdated: true}})
	if err != nil {
		return false, fmt.Errorf("failed to mark stock for usuario %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoUsuarioRepo) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

type mongoStockRepo struct {
	col   *mongo.Collection
	docID string
}

func NewMongoStockRepository(db *mongo.Database, collection, docID string) StockRepository {
	return &mongoStockRepo{col: db.Collection(collection), docID: docID}
}

func (r *mongoStockRepo) Decrement(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": r.docID},
		bson.M{"$inc": bson.M{model.FieldStock: -1}},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}
	n, ok := toInt64(doc[model.FieldStock])
	if !ok {
		return 0, fmt.Errorf("stock document %s has no numeric %q field", r.docID, model.FieldStock)
	}
	return n, nil
}

func (r *mongoStockRepo) Get(ctx context.Context) (int64, error) {
	var doc bson.M
	err := r.col.FindOne(ctx, bson.M{"_id": r.docID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}
	n, ok := toInt64(doc[model.FieldStock])
	if !ok {
		return 0, fmt.Errorf("stock document %s has no numeric %q field", r.docID, model.FieldStock)
	}
	return n, nil
}

func usuarioFromBSON(doc bson.M) model.Usuario {
	id := fmt.Sprint(doc["_id"])
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		id = oid.Hex()
	}
	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		fields[k] = plainBSON(v)
	}
	return model.Usuario{ID: id, Fields: normalizeFields(fields)}
}

// plainBSON unwraps the driver's named container types so normalizeFields sees
// ordinary maps and slices.
func plainBSON(v any) any {
	switch t := v.(type) {
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = plainBSON(inner)
		}
		return m
	case primitive.A:
		s := make([]any, len(t))
		for i := range t {
			s[i] = plainBSON(t[i])
		}
		return s
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainBSON(e.Value)
		}
		return m
	default:
		return v
	}
}
