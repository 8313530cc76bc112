package model

import (
	"time"

	"gorm.io/datatypes"
)

// Documento is the row shape used when Postgres backs the document store.
// Every collection shares the table; Datos holds the schema-flexible body.
type Documento struct {
	Coleccion string            `gorm:"primaryKey;type:varchar(100)"`
	ID        string            `gorm:"primaryKey;type:varchar(200)"`
	Datos     datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt time.Time         `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization (documentos is already plural).
func (Documento) TableName() string { return "documentos" }
