// Package csvexport projects usuario documents onto the fixed column set of
// /export-users-csv.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
	_ "time/tzdata" // CSV_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"

	"github.com/jszwec/csvutil"
)

// DateLayout renders createdAt the way the en-US locale prints a date-time
// ("01/31/2024, 03:04:05 PM").
const DateLayout = "01/02/2006, 03:04:05 PM"

// Row is the canonical export column set. Tag order is column order.
type Row struct {
	Firstname  string `csv:"Firstname"`
	Email      string `csv:"Email"`
	CustomerID string `csv:"Customer ID"`
	OrderID    string `csv:"Order ID"`
	TrxStatus  string `csv:"Transaction Status"`
	AudioRef   string `csv:"Audio Reference"`
	CreatedAt  string `csv:"Created At"`
}

// Header returns the header row in column order.
func Header() []string {
	h, _ := csvutil.Header(Row{}, "csv")
	return h
}

type Exporter struct {
	loc *time.Location
}

// New returns an exporter formatting timestamps in the named IANA zone.
func New(timezone string) (*Exporter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("csvexport: load timezone %q: %w", timezone, err)
	}
	return &Exporter{loc: loc}, nil
}

// Project maps one record onto a Row. Missing fields become empty cells.
func (e *Exporter) Project(u model.Usuario) Row {
	return Row{
		Firstname:  cell(u.Fields["firstname"]),
		Email:      cell(u.Fields["email"]),
		CustomerID: cell(u.Fields[model.FieldCustomerID]),
		OrderID:    cell(u.Fields[model.FieldOrderID]),
		TrxStatus:  cell(u.Fields[model.FieldTrxStatus]),
		AudioRef:   cell(u.Fields[model.FieldAudioRef]),
		CreatedAt:  e.createdAt(u.Fields[model.FieldCreatedAt]),
	}
}

// Encode renders the header plus one row per record.
func (e *Exporter) Encode(usuarios []model.Usuario) ([]byte, error) {
	rows := make([]Row, 0, len(usuarios))
	for _, u := range usuarios {
		rows = append(rows, e.Project(u))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)
	// An empty collection still yields the header line.
	if err := enc.EncodeHeader(Row{}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) createdAt(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.In(e.loc).Format(DateLayout)
	}
	return cell(v)
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
