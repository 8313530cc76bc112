package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreUsuarioRepo struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreUsuarioRepository(client *firestore.Client, collection string) UsuarioRepository {
	return &firestoreUsuarioRepo{client: client, collection: collection}
}

func (r *firestoreUsuarioRepo) col() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *firestoreUsuarioRepo) Create(ctx context.Context, id string, fields map[string]any) error {
	doc := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	doc[model.FieldCreatedAt] = firestore.ServerTimestamp
	_, err := r.col().Doc(id).Set(ctx, doc)
	return err
}

func (r *firestoreUsuarioRepo) FindByField(ctx context.Context, field, value string) ([]model.Usuario, error) {
	snaps, err := r.col().Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return usuariosFromSnapshots(snaps), nil
}

func (r *firestoreUsuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	snaps, err := r.col().Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return usuariosFromSnapshots(snaps), nil
}

func (r *firestoreUsuarioRepo) UpdateTransaction(ctx context.Context, id, trxStatus, orderID string) error {
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: model.FieldTrxStatus, Value: trxStatus},
		{Path: model.FieldOrderID, Value: orderID},
	})
	return translateFirestoreErr(err)
}

func (r *firestoreUsuarioRepo) MarkStockUpdated(ctx context.Context, id string) (bool, error) {
	ref := r.col().Doc(id)
	marked := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		marked = false
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if done, _ := snap.Data()[model.FieldStockUpdated].(bool); done {
			return nil
		}
		marked = true
		return tx.Update(ref, []firestore.Update{{Path: model.FieldStockUpdated, Value: true}})
	})
	if err != nil {
		return false, translateFirestoreErr(err)
	}
	return marked, nil
}

func (r *firestoreUsuarioRepo) Ping(ctx context.Context) error {
	_, err := r.col().Limit(1).Documents(ctx).GetAll()
	return err
}

type firestoreStockRepo struct {
	client     *firestore.Client
	collection string
	docID      string
}

func NewFirestoreStockRepository(client *firestore.Client, collection, docID string) StockRepository {
	return &firestoreStockRepo{client: client, collection: collection, docID: docID}
}

func (r *firestoreStockRepo) Decrement(ctx context.Context) (int64, error) {
	ref := r.client.Collection(r.collection).Doc(r.docID)
	var next int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, ok := toInt64(snap.Data()[model.FieldStock])
		if !ok {
			return fmt.Errorf("stock document %s has no numeric %q field", r.docID, model.FieldStock)
		}
		next = current - 1
		return tx.Update(ref, []firestore.Update{{Path: model.FieldStock, Value: next}})
	})
	if err != nil {
		return 0, translateFirestoreErr(err)
	}
	return next, nil
}

func (r *firestoreStockRepo) Get(ctx context.Context) (int64, error) {
	snap, err := r.client.Collection(r.collection).Doc(r.docID).Get(ctx)
	if err != nil {
		return 0, translateFirestoreErr(err)
	}
	n, ok := toInt64(snap.Data()[model.FieldStock])
	if !ok {
		return 0, fmt.Errorf("stock document %s has no numeric %q field", r.docID, model.FieldStock)
	}
	return n, nil
}

func usuariosFromSnapshots(snaps []*firestore.DocumentSnapshot) []model.Usuario {
	out := make([]model.Usuario, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, model.Usuario{ID: s.Ref.ID, Fields: normalizeFields(s.Data())})
	}
	return out
}

func translateFirestoreErr(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
