package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reflectUser struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at,auto"`
	Session   string    `db:"-"`
	note      string
}

type taggedKey struct {
	Code  string `db:"code,key"`
	Label string
}

type declaredEntity struct {
	Name string
}

func (d declaredEntity) Columns() []string { return []string{"display_name"} }
func (d declaredEntity) Values() []any     { return []any{"x-" + d.Name} }

func TestEntityOfReflectsDBTags(t *testing.T) {
	u := &reflectUser{ID: 9, Name: "Alice", Email: "a@x.io", Session: "s", note: "n"}

	e, err := EntityOf(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, e.Columns())
	assert.Equal(t, []any{"Alice", "a@x.io"}, e.Values())
	assert.Len(t, e.Values(), len(e.Columns()))

	byValue, err := EntityOf(*u)
	require.NoError(t, err)
	assert.Equal(t, e.Columns(), byValue.Columns())
}

func TestEntityOfKeyFlagAndSnakeCase(t *testing.T) {
	e, err := EntityOf(taggedKey{Code: "c1", Label: "first"})
	require.NoError(t, err)
	assert.Equal(t, []string{"label"}, e.Columns())
	assert.Equal(t, []any{"first"}, e.Values())
}

func TestEntityOfPrefersDeclaredMethods(t *testing.T) {
	e, err := EntityOf(declaredEntity{Name: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"display_name"}, e.Columns())
	assert.Equal(t, []any{"x-bob"}, e.Values())
}

func TestEntityOfRejectsNonStructs(t *testing.T) {
	_, err := EntityOf(42)
	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))

	var nilUser *reflectUser
	_, err = EntityOf(nilUser)
	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestIDColumnOf(t *testing.T) {
	assert.Equal(t, "id", IDColumnOf(&reflectUser{}))
	assert.Equal(t, "code", IDColumnOf(taggedKey{}))
	assert.Equal(t, "", IDColumnOf(declaredEntity{}))
	assert.Equal(t, "", IDColumnOf("not a struct"))
	assert.Equal(t, "", IDColumnOf(nil))
}
