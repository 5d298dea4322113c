package schema

// Kind classifies a model field for predicate compilation. The kind
// decides how literal values are coerced and which comparison shape the
// condition compiles to.
type Kind int

const (
	// KindOther covers fields with no special handling; conditions
	// compare the raw literal directly.
	KindOther Kind = iota
	// KindInteger fields coerce literals through integer parsing.
	KindInteger
	// KindFloat fields coerce literals through float parsing.
	KindFloat
	// KindDecimal fields coerce literals into arbitrary-precision
	// decimals.
	KindDecimal
	// KindUUID fields coerce literals into UUIDs.
	KindUUID
	// KindText fields compare case-insensitively and support wildcard
	// patterns under loose equality.
	KindText
	// KindArray fields compile into element-membership predicates.
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindUUID:
		return "uuid"
	case KindText:
		return "text"
	case KindArray:
		return "array"
	default:
		return "other"
	}
}
