package core

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// payloadTypes are the canonical payloads the backend receives, by resource.
var payloadTypes = map[string]any{
	"inventory":        InventoryItem{},
	"customer":         Party{},
	"supplier":         Party{},
	"category":         Category{},
	"sale":             Sale{},
	"quotation":        Quotation{},
	"purchase-order":   PurchaseOrder{},
	"purchase-invoice": PurchaseInvoice{},
	"grn":              GRN{},
	"purchase-return":  PurchaseReturn{},
	"expense":          Expense{},
	"voucher":          Voucher{},
}

// SchemaNames lists the resources Schema knows, sorted.
func SchemaNames() []string {
	names := make([]string, 0, len(payloadTypes))
	for k := range payloadTypes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Schema returns the JSON Schema of the payload written for resource.
func Schema(resource string) (*jsonschema.Schema, error) {
	v, ok := payloadTypes[resource]
	if !ok {
		return nil, fmt.Errorf("no schema for resource %q", resource)
	}
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{Type: "number"}
			}
			return nil
		},
	}
	s := r.Reflect(v)
	s.Title = resource
	return s, nil
}

func partyRefSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "object"}
	s.Properties = jsonschema.NewProperties()
	s.Properties.Set("_id", &jsonschema.Schema{Type: "string"})
	s.Properties.Set("name", &jsonschema.Schema{Type: "string"})
	return s
}

func extendCustomer(s *jsonschema.Schema) {
	s.Properties.Set("customer", &jsonschema.Schema{Type: "array", Items: partyRefSchema()})
	s.Properties.Set("customerName", &jsonschema.Schema{Type: "string"})
	s.Properties.Set("customerId", &jsonschema.Schema{Type: "string"})
}

func extendSupplier(s *jsonschema.Schema) {
	s.Properties.Set("supplier", partyRefSchema())
	s.Properties.Set("supplierName", &jsonschema.Schema{Type: "string"})
	s.Properties.Set("supplierId", &jsonschema.Schema{Type: "string"})
}

func extendStock(s *jsonschema.Schema) {
	s.Properties.Set("openingStock", &jsonschema.Schema{Type: "number"})
	s.Properties.Set("quantity", &jsonschema.Schema{Type: "number"})
}

func (InventoryItem) JSONSchemaExtend(s *jsonschema.Schema)   { extendStock(s) }
func (Sale) JSONSchemaExtend(s *jsonschema.Schema)            { extendCustomer(s) }
func (Quotation) JSONSchemaExtend(s *jsonschema.Schema)       { extendCustomer(s) }
func (PurchaseOrder) JSONSchemaExtend(s *jsonschema.Schema)   { extendSupplier(s) }
func (PurchaseInvoice) JSONSchemaExtend(s *jsonschema.Schema) { extendSupplier(s) }
func (GRN) JSONSchemaExtend(s *jsonschema.Schema)             { extendSupplier(s) }
func (PurchaseReturn) JSONSchemaExtend(s *jsonschema.Schema)  { extendSupplier(s) }
