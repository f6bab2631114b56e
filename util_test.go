package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDBTag(t *testing.T) {
	tests := []struct {
		in   string
		want FieldTag
	}{
		{"", FieldTag{}},
		{"name", FieldTag{Name: "name"}},
		{"-", FieldTag{Name: "-", Skip: true}},
		{"id,key auto", FieldTag{Name: "id", Key: true, Auto: true}},
		{"id,pk,auto", FieldTag{Name: "id", Key: true, Auto: true}},
		{"email,size=120 allownull", FieldTag{Name: "email", Size: 120, AllowNull: true}},
		{"id,key allownull", FieldTag{Name: "id", Key: true}},
		{"created_at,auto=false", FieldTag{Name: "created_at"}},
		{",auto", FieldTag{Auto: true}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDBTag(tt.in))
		})
	}
}

func TestFieldSpecColumn(t *testing.T) {
	assert.Equal(t, "mail", FieldSpec{Name: "Email", Tag: FieldTag{Name: "mail"}}.Column())
	assert.Equal(t, "created_at", FieldSpec{Name: "CreatedAt"}.Column())
	assert.Equal(t, "name", FieldSpec{Name: "Name"}.Column())
}

func TestPersistedFields(t *testing.T) {
	t.Run("id column by name", func(t *testing.T) {
		fields := []FieldSpec{
			{Name: "ID", Tag: FieldTag{Name: "id"}, Exported: true},
			{Name: "Name", Tag: FieldTag{Name: "name"}, Exported: true},
			{Name: "Email", Tag: FieldTag{Name: "email"}, Exported: true},
		}
		persisted, id := PersistedFields(fields)
		assert.Equal(t, 0, id)
		assert.Equal(t, []int{1, 2}, persisted)
	})

	t.Run("key flag wins", func(t *testing.T) {
		fields := []FieldSpec{
			{Name: "ID", Tag: FieldTag{Name: "id"}, Exported: true},
			{Name: "Code", Tag: FieldTag{Name: "code", Key: true}, Exported: true},
		}
		persisted, id := PersistedFields(fields)
		assert.Equal(t, 1, id)
		assert.Equal(t, []int{0}, persisted)
	})

	t.Run("field named ID", func(t *testing.T) {
		fields := []FieldSpec{
			{Name: "Title", Exported: true},
			{Name: "ID", Tag: FieldTag{Name: "post_id"}, Exported: true},
		}
		persisted, id := PersistedFields(fields)
		assert.Equal(t, 1, id)
		assert.Equal(t, []int{0}, persisted)
	})

	t.Run("skipped, unexported and auto fields", func(t *testing.T) {
		fields := []FieldSpec{
			{Name: "ID", Exported: true},
			{Name: "Name", Exported: true},
			{Name: "secret", Exported: false},
			{Name: "Cache", Tag: FieldTag{Name: "-", Skip: true}, Exported: true},
			{Name: "UpdatedAt", Tag: FieldTag{Name: "updated_at", Auto: true}, Exported: true},
		}
		persisted, id := PersistedFields(fields)
		assert.Equal(t, 0, id)
		assert.Equal(t, []int{1}, persisted)
	})

	t.Run("no identifier", func(t *testing.T) {
		fields := []FieldSpec{
			{Name: "Key", Exported: true},
			{Name: "Value", Exported: true},
		}
		persisted, id := PersistedFields(fields)
		assert.Equal(t, -1, id)
		assert.Equal(t, []int{0, 1}, persisted)
	})
}

func TestStorageName(t *testing.T) {
	assert.Equal(t, "users", StorageName("User"))
	assert.Equal(t, "user_accounts", StorageName("UserAccount"))
	assert.Equal(t, "categories", StorageName("Category"))
	assert.Equal(t, "addresses", StorageName("Address"))
}

func TestPluralize(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"user":    "users",
		"box":     "boxes",
		"buzz":    "buzzes",
		"match":   "matches",
		"wish":    "wishes",
		"status":  "statuses",
		"company": "companies",
		"day":     "days",
		"key":     "keys",
	}

	for in, want := range tests {
		assert.Equal(t, want, Pluralize(in), in)
	}
}

func TestValidIdentifier(t *testing.T) {
	for _, name := range []string{"users", "_tmp", "public.users", "user_accounts2"} {
		assert.True(t, ValidIdentifier(name), name)
	}
	for _, name := range []string{"", "1users", "users; DROP TABLE users", "a.b.c", "user-accounts", "users "} {
		assert.False(t, ValidIdentifier(name), name)
	}
}

func TestMapAndFilter(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)

	even := Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
}
