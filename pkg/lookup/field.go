package lookup

// Field names one of the canonical FI metadata attributes synchronized from
// the CSV export into registry entries. The value is the registry property name.
type Field string

// Canonical fields, in the order they are applied to registry entries.
const (
	CoreVendor      Field = "core_vendor"
	CoreProduct     Field = "core_product"
	DebitProcessor  Field = "debit_processor"
	CreditProcessor Field = "credit_processor"
)

// Fields returns the canonical fields in application order.
func Fields() []Field {
	return []Field{CoreVendor, CoreProduct, DebitProcessor, CreditProcessor}
}

// Column returns the CSV header that feeds the field.
func (f Field) Column() string {
	switch f {
	case CoreVendor:
		return "Core Vendor"
	case CoreProduct:
		return "Core Product"
	case DebitProcessor:
		return "Debit Processor"
	case CreditProcessor:
		return "Credit Processor"
	}
	return ""
}

// IsValid reports whether f is a canonical field.
func (f Field) IsValid() bool {
	return f.Column() != ""
}

// String returns the registry property name.
func (f Field) String() string {
	return string(f)
}
