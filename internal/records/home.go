package records

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// Home record kinds, the values of the "type" member.
const (
	KindBill     = "bill"
	KindWarranty = "warranty"
	KindDocument = "document"
	KindRepair   = "repair"
)

// Base holds the members every record carries.
type Base struct {
	ID   ID     `json:"id"`
	Date string `json:"date,omitempty"`
}

// Info is the free-form part of a home record.
type Info struct {
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// HomeRecord is one entry of home_history: a *Bill, *Warranty, *Document,
// *Repair or *OtherRecord.
type HomeRecord interface {
	Kind() string
	Header() Base
	homeRecord()
}

// Bill is a utility bill.
type Bill struct {
	Base
	Info
	Cost decimal.Decimal `json:"cost"`
	// SubType is the utility, e.g. electricity, water, gas or internet.
	SubType string `json:"subType,omitempty"`
	Period  string `json:"period,omitempty"`
}

// Warranty tracks a product warranty.
type Warranty struct {
	Base
	Info
	Product   string `json:"product,omitempty"`
	Brand     string `json:"brand,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Document is an official paper such as a deed or an insurance policy.
type Document struct {
	Base
	Info
	Title     string `json:"title,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Repair is maintenance work done on the home.
type Repair struct {
	Base
	Info
	Cost   decimal.Decimal `json:"cost"`
	Vendor string          `json:"vendor,omitempty"`
}

// OtherRecord is a record of a kind this version does not know. Raw keeps
// the original JSON.
type OtherRecord struct {
	Base
	Type string
	Raw  json.RawMessage
}

func (*Bill) Kind() string     { return KindBill }
func (*Warranty) Kind() string { return KindWarranty }
func (*Document) Kind() string { return KindDocument }
func (*Repair) Kind() string   { return KindRepair }

func (o *OtherRecord) Kind() string {
	if o.Type == "" {
		return "other"
	}
	return o.Type
}

func (r *Bill) Header() Base        { return r.Base }
func (r *Warranty) Header() Base    { return r.Base }
func (r *Document) Header() Base    { return r.Base }
func (r *Repair) Header() Base      { return r.Base }
func (r *OtherRecord) Header() Base { return r.Base }

func (*Bill) homeRecord()        {}
func (*Warranty) homeRecord()    {}
func (*Document) homeRecord()    {}
func (*Repair) homeRecord()      {}
func (*OtherRecord) homeRecord() {}

// MarshalJSON writes the original document back unchanged.
func (o *OtherRecord) MarshalJSON() ([]byte, error) {
	return o.Raw, nil
}

type discriminant struct {
	Type string `json:"type"`
}

// DecodeHomeRecord decodes one home_history element.
func DecodeHomeRecord(data []byte) (HomeRecord, error) {
	var d discriminant
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decoding record type")
	}

	var rec HomeRecord
	switch d.Type {
	case KindBill:
		rec = &Bill{}
	case KindWarranty:
		rec = &Warranty{}
	case KindDocument:
		rec = &Document{}
	case KindRepair:
		rec = &Repair{}
	default:
		other := &OtherRecord{Type: d.Type, Raw: append(json.RawMessage(nil), data...)}
		if err := json.Unmarshal(data, &other.Base); err != nil {
			return nil, errors.Wrap(err, "decoding record")
		}
		return other, nil
	}

	if err := json.Unmarshal(data, rec); err != nil {
		return nil, errors.Wrapf(err, "decoding %s record", d.Type)
	}
	return rec, nil
}

// HomeRecords is the decoded home_history section.
type HomeRecords []HomeRecord

func (h *HomeRecords) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(HomeRecords, 0, len(raw))
	for i, r := range raw {
		rec, err := DecodeHomeRecord(r)
		if err != nil {
			return errors.Wrapf(err, "record #%d", i+1)
		}
		out = append(out, rec)
	}
	*h = out
	return nil
}
