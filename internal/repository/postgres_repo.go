package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type postgresUsuarioRepo struct {
	db         *gorm.DB
	collection string
}

func NewPostgresUsuarioRepository(db *gorm.DB, collection string) UsuarioRepository {
	return &postgresUsuarioRepo{db: db, collection: collection}
}

func (r *postgresUsuarioRepo) Create(ctx context.Context, id string, fields map[string]any) error {
	datos := make(datatypes.JSONMap, len(fields))
	for k, v := range fields {
		datos[k] = v
	}
	// createdAt lives in its own column and is merged back on read
	delete(datos, model.FieldCreatedAt)

	return r.db.WithContext(ctx).Create(&model.Documento{
		Coleccion: r.collection,
		ID:        id,
		Datos:     datos,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func (r *postgresUsuarioRepo) FindByField(ctx context.Context, field, value string) ([]model.Usuario, error) {
	var docs []model.Documento
	err := r.db.WithContext(ctx).
		Where("coleccion = ?", r.collection).
		Where(datatypes.JSONQuery("datos").Equals(value, field)).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return usuariosFromDocumentos(docs), nil
}

func (r *postgresUsuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var docs []model.Documento
	err := r.db.WithContext(ctx).
		Where("coleccion = ?", r.collection).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return usuariosFromDocumentos(docs), nil
}

func (r *postgresUsuarioRepo) UpdateTransaction(ctx context.Context, id, trxStatus, orderID string) error {
	res := r.db.WithContext(ctx).Exec(`
UPDATE documentos
   SET datos = datos || jsonb_build_object('trx_status', ?::text, 'order_id', ?::text),
       updated_at = now()
 WHERE coleccion = ? AND id = ?`, trxStatus, orderID, r.collection, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresUsuarioRepo) MarkStockUpdated(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
UPDATE documentos
   SET datos = datos || '{"stockUpdated": true}'::jsonb,
       updated_at = now()
 WHERE coleccion = ? AND id = ?
   AND COALESCE(datos->>'stockUpdated', 'false') <> 'true'`, r.collection, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *postgresUsuarioRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type postgresStockRepo struct {
	db         *gorm.DB
	collection string
	docID      string
}

func NewPostgresStockRepository(db *gorm.DB, collection, docID string) StockRepository {
	return &postgresStockRepo{db: db, collection: collection, docID: docID}
}

// Decrement relies on the row lock taken by UPDATE, so concurrent callers
// serialize and no decrement is lost.
func (r *postgresStockRepo) Decrement(ctx context.Context) (int64, error) {
	var next []int64
	err := r.db.WithContext(ctx).Raw(`
UPDATE documentos
   SET datos = jsonb_set(datos, '{stock}', to_jsonb((datos->>'stock')::bigint - 1)),
       updated_at = now()
 WHERE coleccion = ? AND id = ?
RETURNING (datos->>'stock')::bigint`, r.collection, r.docID).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}
	if len(next) == 0 {
		return 0, ErrNotFound
	}
	return next[0], nil
}

func (r *postgresStockRepo) Get(ctx context.Context) (int64, error) {
	var doc model.Documento
	err := r.db.WithContext(ctx).
		Where("coleccion = ? AND id = ?", r.collection, r.docID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(doc.Datos[model.FieldStock])
	if !ok {
		return 0, fmt.Errorf("stock document %s has no numeric %q field", r.docID, model.FieldStock)
	}
	return n, nil
}

func usuariosFromDocumentos(docs []model.Documento) []model.Usuario {
	out := make([]model.Usuario, 0, len(docs))
	for _, d := range docs {
		fields := normalizeFields(d.Datos)
		fields[model.FieldCreatedAt] = d.CreatedAt
		out = append(out, model.Usuario{ID: d.ID, Fields: fields})
	}
	return out
}
