package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field holds the searchable metadata of one model field.
type Field struct {
	// Name is the search-facing field name.
	Name string
	// Column is the database column the field maps to.
	Column string
	// Kind classifies the field for value coercion and predicate shape.
	Kind Kind
	// SupportsPattern reports whether loose equality compiles into a
	// wildcard pattern match.
	SupportsPattern bool
	// SupportsArrayMembership reports whether comparisons test array
	// elements rather than the column value itself.
	SupportsArrayMembership bool
}

// Model holds the searchable metadata extracted from a model struct.
type Model struct {
	// Name is the struct type's name.
	Name string
	// TableName is the database table the model maps to.
	TableName string
	// Fields lists the searchable fields in declaration order.
	Fields []*Field

	byName map[string]*Field
}

// NewModel builds model metadata directly, for schema sources that are
// not reflected Go structs (views, raw tables, external catalogs).
func NewModel(name, tableName string, fields []*Field) *Model {
	m := &Model{
		Name:      name,
		TableName: tableName,
		Fields:    fields,
		byName:    make(map[string]*Field, len(fields)),
	}
	for _, field := range fields {
		m.byName[strings.ToLower(field.Name)] = field
	}
	return m
}

// Tabler is implemented by models that override the derived table name,
// mirroring GORM's convention.
type Tabler interface {
	TableName() string
}

// ResolveField looks up a field by its search name, case-insensitively.
// A non-empty base name scopes the lookup: it must be contained in the
// model's table name, so 'parent.name' resolves against the 'parents'
// table but not against 'products'.
func (m *Model) ResolveField(localName, baseName string) (*Field, bool) {
	if baseName != "" && !strings.Contains(strings.ToLower(m.TableName), strings.ToLower(baseName)) {
		return nil, false
	}
	field, ok := m.byName[strings.ToLower(localName)]
	return field, ok
}

// Analyze extracts search metadata from a model struct (or pointer to
// struct). Unexported fields, relations, and fields tagged gorm:"-" or
// search:"-" are skipped.
func Analyze(model interface{}) (*Model, error) {
	modelType := reflect.TypeOf(model)
	if modelType == nil {
		return nil, fmt.Errorf("model must be a struct, got nil")
	}
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", modelType.Kind())
	}

	m := &Model{
		Name:      modelType.Name(),
		TableName: tableName(model, modelType),
		byName:    make(map[string]*Field),
	}

	for i := 0; i < modelType.NumField(); i++ {
		structField := modelType.Field(i)
		if !structField.IsExported() {
			continue
		}
		if skipField(structField) {
			continue
		}

		kind, ok := fieldKind(structField.Type)
		if !ok {
			continue
		}

		field := &Field{
			Name:                    structField.Name,
			Column:                  columnName(structField),
			Kind:                    kind,
			SupportsPattern:         kind == KindText,
			SupportsArrayMembership: kind == KindArray,
		}
		m.Fields = append(m.Fields, field)
		m.byName[strings.ToLower(field.Name)] = field
	}

	return m, nil
}

// tableName derives the table name the GORM way: an explicit TableName()
// override wins, otherwise the pluralized snake_case type name.
func tableName(model interface{}, modelType reflect.Type) string {
	if tabler, ok := model.(Tabler); ok {
		return tabler.TableName()
	}
	return pluralize(toSnakeCase(modelType.Name()))
}

// skipField reports whether a struct field is excluded from searching.
func skipField(structField reflect.StructField) bool {
	if structField.Tag.Get("search") == "-" {
		return true
	}
	gormTag := structField.Tag.Get("gorm")
	return gormTag == "-" || strings.HasPrefix(gormTag, "-;")
}

// columnName derives the column a field maps to, honoring an explicit
// gorm column tag.
func columnName(structField reflect.StructField) string {
	for _, part := range strings.Split(structField.Tag.Get("gorm"), ";") {
		if after, ok := strings.CutPrefix(part, "column:"); ok {
			return after
		}
	}
	return toSnakeCase(structField.Name)
}

// fieldKind classifies a field type. The second return value is false for
// types that are not searchable at all (relations, embedded structs).
func fieldKind(t reflect.Type) (Kind, bool) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case reflect.TypeOf(decimal.Decimal{}):
		return KindDecimal, true
	case reflect.TypeOf(uuid.UUID{}):
		return KindUUID, true
	case reflect.TypeOf(time.Time{}):
		return KindOther, true
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	case reflect.String:
		return KindText, true
	case reflect.Slice:
		elem := t.Elem()
		if elem.Kind() == reflect.Uint8 {
			return KindOther, true
		}
		if elem.Kind() == reflect.Struct || (elem.Kind() == reflect.Ptr && elem.Elem().Kind() == reflect.Struct) {
			// Collection relation, not a searchable column.
			return KindOther, false
		}
		return KindArray, true
	case reflect.Bool:
		return KindOther, true
	case reflect.Struct, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return KindOther, false
	default:
		return KindOther, true
	}
}

// toSnakeCase converts a camelCase or PascalCase string to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			// Check if the previous character was lowercase or if this is the start of a new word
			// For "ProductID", we want "product_id" not "product_i_d"
			prevRune := rune(s[i-1])
			if prevRune >= 'a' && prevRune <= 'z' {
				result.WriteRune('_')
			} else if i < len(s)-1 {
				// Check if next character is lowercase (e.g., "XMLParser" -> "xml_parser")
				nextRune := rune(s[i+1])
				if nextRune >= 'a' && nextRune <= 'z' {
					result.WriteRune('_')
				}
			}
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// pluralize converts a singular noun to its plural form
func pluralize(word string) string {
	if word == "" {
		return word
	}

	// Simple pluralization rules
	switch {
	case strings.HasSuffix(word, "y") && len(word) > 1 && !isVowel(rune(word[len(word)-2])):
		// Only change y to ies if preceded by a consonant (e.g., "Category" -> "Categories")
		// If preceded by a vowel, just add s (e.g., "Key" -> "Keys")
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") || strings.HasSuffix(word, "z") ||
		strings.HasSuffix(word, "ch") || strings.HasSuffix(word, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

// isVowel checks if a rune is a vowel
func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	default:
		return false
	}
}
