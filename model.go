package store

import (
	"reflect"
	"sync"
)

// Entity exposes the persisted columns of an entity, excluding its identifier,
// and the matching values in the same order. Implementations are normally
// generated by storegen.
type Entity interface {
	Columns() []string
	Values() []any
}

type reflectedEntity struct {
	columns []string
	values  []any
}

func (r reflectedEntity) Columns() []string { return r.columns }
func (r reflectedEntity) Values() []any     { return r.values }

type fieldPlan struct {
	index   []int
	columns []string
	id      int
}

var fieldPlans sync.Map // reflect.Type -> *fieldPlan

// EntityOf returns the Entity view of value. Types implementing Entity are
// returned as is; other structs (or pointers to structs) are inspected through
// their `db` tags. Failures are reported as KindUnknown.
func EntityOf(value any) (Entity, error) {
	if e, ok := value.(Entity); ok {
		return e, nil
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, newUnknownError("cannot reflect nil %s", v.Type())
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, newUnknownError("entity must be a struct, got %s", v.Kind())
	}

	plan := planFor(v.Type())
	values := make([]any, len(plan.index))
	for i, idx := range plan.index {
		values[i] = v.Field(idx).Interface()
	}

	return reflectedEntity{columns: plan.columns, values: values}, nil
}

// IDColumnOf returns the identifier column of the struct type of value, or ""
// when it has none.
func IDColumnOf(value any) string {
	t := reflect.TypeOf(value)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return ""
	}

	plan := planFor(t)
	if plan.id < 0 {
		return ""
	}
	return fieldSpec(t.Field(plan.id)).Column()
}

func planFor(t reflect.Type) *fieldPlan {
	if p, ok := fieldPlans.Load(t); ok {
		return p.(*fieldPlan)
	}

	specs := make([]FieldSpec, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		specs[i] = fieldSpec(t.Field(i))
	}

	persisted, id := PersistedFields(specs)
	plan := &fieldPlan{
		index:   persisted,
		columns: Map(persisted, func(i int) string { return specs[i].Column() }),
		id:      id,
	}

	p, _ := fieldPlans.LoadOrStore(t, plan)
	return p.(*fieldPlan)
}

func fieldSpec(field reflect.StructField) FieldSpec {
	return FieldSpec{
		Name:     field.Name,
		Tag:      ParseDBTag(field.Tag.Get("db")),
		Exported: field.IsExported() && !field.Anonymous,
	}
}
