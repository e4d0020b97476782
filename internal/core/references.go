package core

import (
	"strings"

	"github.com/tidwall/gjson"
)

// RefField describes where a document keeps its counterparty: the field
// itself (object, array of one object, id string or name string), the
// sibling id field some endpoints add, and the denormalized name sibling.
type RefField struct {
	Field     string
	IDField   string
	NameField string
}

var (
	CustomerRef     = RefField{Field: "customer", IDField: "customerId", NameField: "customerName"}
	SupplierRef     = RefField{Field: "supplier", IDField: "supplierId", NameField: "supplierName"}
	VoucherPartyRef = RefField{Field: "party", IDField: "partyId", NameField: "partyName"}
)

// ExtractRef reads the counterparty of doc without consulting any master
// list. Resolution order:
//
//  1. an embedded object carrying an id
//  2. the sibling id field (supplierId / customerId)
//  3. the bare value itself, kept as a display name
//
// A bare string that turns out to be a known id is recognised later by
// ResolveRef.
func ExtractRef(doc gjson.Result, f RefField) PartyRef {
	v := doc.Get(f.Field)
	if v.IsArray() {
		v = v.Get("0")
	}
	siblingID := stringOf(doc.Get(f.IDField))
	siblingName := stringOf(doc.Get(f.NameField))

	var ref PartyRef
	switch {
	case v.IsObject():
		ref.ID = PartyFields.String(v, "id")
		ref.Name = PartyFields.String(v, "name")
		if ref.ID == "" {
			ref.ID = siblingID
		}
	case v.Type == gjson.String && strings.TrimSpace(v.Str) != "":
		value := strings.TrimSpace(v.Str)
		if siblingID != "" {
			ref.ID = siblingID
			if value != siblingID {
				ref.Name = value
			}
		} else {
			ref.Name = value
		}
	default:
		ref.ID = siblingID
	}
	if ref.Name == "" {
		ref.Name = siblingName
	}
	return ref
}

// ResolveRef completes ref against the master list. A known id wins; a bare
// value that equals a known id is treated as that id; otherwise the name is
// kept as given, and matched case-insensitively to recover the id.
func ResolveRef(ref PartyRef, parties []Party) PartyRef {
	if ref.ID != "" {
		if p, ok := findPartyByID(parties, ref.ID); ok {
			return p.Ref()
		}
	}
	if ref.Name != "" {
		if p, ok := findPartyByID(parties, ref.Name); ok {
			return p.Ref()
		}
		for _, p := range parties {
			if sameName(p.Name, ref.Name) {
				return p.Ref()
			}
		}
	}
	return ref
}

// DisplayName is the name shown for ref, falling back to the id.
func DisplayName(ref PartyRef, parties []Party) string {
	r := ResolveRef(ref, parties)
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

func findPartyByID(parties []Party, id string) (Party, bool) {
	for _, p := range parties {
		if p.ID != "" && p.ID == id {
			return p, true
		}
	}
	return Party{}, false
}

func sameName(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
