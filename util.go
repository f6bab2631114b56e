package store

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

const (
	// DefaultIDColumn is the relational identifier column used when none is declared.
	DefaultIDColumn = "id"
	// MongoIDField is the conventional document identifier field.
	MongoIDField = "_id"
)

// FieldTag is the parsed form of a `db` struct tag, e.g. `db:"id,key auto"` or
// `db:"email,size=120 allownull"`.
type FieldTag struct {
	Name      string
	Size      int
	Key       bool
	Auto      bool
	AllowNull bool
	Skip      bool
}

// ParseDBTag parses a db tag value. Options after the first comma may be
// separated by spaces or commas; boolean options accept an explicit
// "=true"/"=false".
func ParseDBTag(value string) FieldTag {
	var tag FieldTag
	parts := strings.SplitN(value, ",", 2)
	tag.Name = strings.TrimSpace(parts[0])
	if tag.Name == "-" {
		tag.Skip = true
		return tag
	}

	if len(parts) < 2 {
		return tag
	}

	opts := strings.FieldsFunc(parts[1], func(r rune) bool {
		return r == ' ' || r == ','
	})

	for _, opt := range opts {
		key, val, hasVal := strings.Cut(opt, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		enabled := !hasVal || !strings.EqualFold(val, "false")

		switch key {
		case "key", "pk":
			tag.Key = enabled
		case "auto":
			tag.Auto = enabled
		case "allownull":
			tag.AllowNull = enabled
		case "size":
			tag.Size, _ = strconv.Atoi(val)
		}
	}

	if tag.Key {
		tag.AllowNull = false
	}

	return tag
}

// FieldSpec describes one exported struct field considered for persistence.
type FieldSpec struct {
	Name     string
	Tag      FieldTag
	Exported bool
}

// Column returns the column the field maps to: the tag name when present,
// otherwise the snake_case field name.
func (f FieldSpec) Column() string {
	if f.Tag.Name != "" {
		return f.Tag.Name
	}
	return strcase.ToSnake(f.Name)
}

// PersistedFields selects the fields reported by Entity.Columns, in declaration
// order, and the index of the identifier field (-1 when there is none). The
// identifier is the field tagged `key`, else the field whose column is "id",
// else the field named ID. Skipped, unexported, auto and identifier fields are
// not persisted.
func PersistedFields(fields []FieldSpec) (persisted []int, id int) {
	id = -1
	for i, f := range fields {
		if f.Exported && !f.Tag.Skip && f.Tag.Key {
			id = i
			break
		}
	}

	if id < 0 {
		for i, f := range fields {
			if f.Exported && !f.Tag.Skip && f.Column() == DefaultIDColumn {
				id = i
				break
			}
		}
	}

	if id < 0 {
		for i, f := range fields {
			if f.Exported && !f.Tag.Skip && f.Name == "ID" {
				id = i
				break
			}
		}
	}

	for i, f := range fields {
		if i == id || !f.Exported || f.Tag.Skip || f.Tag.Auto {
			continue
		}
		persisted = append(persisted, i)
	}

	return persisted, id
}

// StorageName derives the default table or collection name of an entity type
// name: snake_case words plus a plural suffix, e.g. UserAccount -> user_accounts.
func StorageName(entityName string) string {
	return Pluralize(strcase.ToSnake(entityName))
}

// Pluralize appends an English plural suffix to the last word of name.
func Pluralize(name string) string {
	if name == "" {
		return name
	}

	switch {
	case strings.HasSuffix(name, "s"), strings.HasSuffix(name, "x"), strings.HasSuffix(name, "z"),
		strings.HasSuffix(name, "ch"), strings.HasSuffix(name, "sh"):
		return name + "es"
	case strings.HasSuffix(name, "y") && len(name) > 1 && !isVowel(name[len(name)-2]):
		return name[:len(name)-1] + "ies"
	default:
		return name + "s"
	}
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidIdentifier reports whether name can be placed verbatim into statement
// text as a table or column name (optionally schema-qualified).
func ValidIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

func Map[In any, Out any](list []In, mapFn func(val In) Out) []Out {
	var newSlice = make([]Out, len(list))
	for i, val := range list {
		newSlice[i] = mapFn(val)
	}

	return newSlice
}

func Filter[T any](slice []T, filterFunc func(val T) bool) []T {
	var newSlice []T
	for i, val := range slice {
		if filterFunc(val) {
			newSlice = append(newSlice, slice[i])
		}
	}

	return newSlice
}
