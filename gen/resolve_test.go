package gen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	store "github.com/likearthian/storegen"
)

var testImports = map[string]string{
	"model":     "example.com/app/model",
	"primitive": "go.mongodb.org/mongo-driver/bson/primitive",
}

func decl(name string, fields []string, dirs ...string) Declaration {
	d := Declaration{TypeName: name, Fields: fields, IsStruct: true, Imports: testImports}
	for _, s := range dirs {
		key, value, _ := strings.Cut(s, " ")
		d.Directives = append(d.Directives, Directive{Key: key, Value: value})
	}
	return d
}

var pgFields = []string{"Exec"}
var mongoFields = []string{"Client", "Database"}

func TestResolvePostgresDefaults(t *testing.T) {
	d, err := Resolve(decl("UserRepository", pgFields, "postgres", "entity User", "id int64"))
	require.NoError(t, err)

	assert.Equal(t, store.Descriptor{
		Repository:  "UserRepository",
		Entity:      "User",
		ID:          "int64",
		StorageName: "users",
		IDColumn:    "id",
		Backend:     store.BackendPostgres,
	}, d)
}

func TestResolveMongoDefaults(t *testing.T) {
	d, err := Resolve(decl("UserDocs", mongoFields, "mongo", "entity UserAccount", "id primitive.ObjectID"))
	require.NoError(t, err)

	assert.Equal(t, store.BackendMongo, d.Backend)
	assert.Equal(t, "user_accounts", d.StorageName)
	assert.Equal(t, "_id", d.IDColumn)
	assert.Equal(t, "primitive.ObjectID", d.ID)
}

func TestResolveExplicitNames(t *testing.T) {
	d, err := Resolve(decl("AuditLog", pgFields, "postgres", "entity AuditEntry", "id int64", "table audit_log", "idcolumn entry_id"))
	require.NoError(t, err)
	assert.Equal(t, "audit_log", d.StorageName)
	assert.Equal(t, "entry_id", d.IDColumn)

	d, err = Resolve(decl("People", mongoFields, "mongo", "entity Person", "id string", "collection people"))
	require.NoError(t, err)
	assert.Equal(t, "people", d.StorageName)
}

func TestResolveQualifiedEntity(t *testing.T) {
	b, err := Resolver{}.Bind(decl("UserRepository", pgFields, "postgres", "entity model.User", "id int64"))
	require.NoError(t, err)

	assert.Equal(t, "model.User", b.Entity)
	assert.Equal(t, "model", b.EntityPackage)
	assert.Equal(t, "User", b.EntityName())
	assert.Equal(t, "users", b.StorageName)
	assert.Equal(t, map[string]string{"model": "example.com/app/model"}, b.Imports)
}

func TestResolverDefaultIDColumn(t *testing.T) {
	r := Resolver{DefaultIDColumn: "uid"}

	d, err := r.Resolve(decl("UserRepository", pgFields, "postgres", "entity User", "id int64"))
	require.NoError(t, err)
	assert.Equal(t, "uid", d.IDColumn)

	d, err = r.Resolve(decl("UserDocs", mongoFields, "mongo", "entity User", "id string"))
	require.NoError(t, err)
	assert.Equal(t, "_id", d.IDColumn)
}

func TestBindWithOptions(t *testing.T) {
	b, err := Resolver{}.Bind(decl("UserRepository", []string{"Exec", "Options"}, "postgres", "entity User", "id int64"))
	require.NoError(t, err)
	assert.True(t, b.WithOptions)
}

func TestResolveFailures(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		want error
	}{
		{"missing entity", decl("R", pgFields, "postgres", "id int64"), ErrMissingDirective},
		{"missing id", decl("R", pgFields, "postgres", "entity User"), ErrMissingDirective},
		{"pointer entity", decl("R", pgFields, "postgres", "entity *User", "id int64"), ErrInvalidEntity},
		{"slice entity", decl("R", pgFields, "postgres", "entity []User", "id int64"), ErrInvalidEntity},
		{"generic entity", decl("R", pgFields, "postgres", "entity Box[int]", "id int64"), ErrInvalidEntity},
		{"map entity", decl("R", pgFields, "postgres", "entity map[string]User", "id int64"), ErrInvalidEntity},
		{"bad id type", decl("R", pgFields, "postgres", "entity User", "id int64)"), ErrInvalidType},
		{"both forms", decl("R", []string{"Exec", "Client", "Database"}, "postgres", "mongo", "entity User", "id int64"), ErrBackendForm},
		{"no form", decl("R", pgFields, "entity User", "id int64"), ErrBackendForm},
		{"table on mongo", decl("R", mongoFields, "mongo", "entity User", "id string", "table users"), ErrMisplacedDirective},
		{"collection on postgres", decl("R", pgFields, "postgres", "entity User", "id int64", "collection users"), ErrMisplacedDirective},
		{"idcolumn on mongo", decl("R", mongoFields, "mongo", "entity User", "id string", "idcolumn uid"), ErrMisplacedDirective},
		{"repeated directive", decl("R", pgFields, "postgres", "entity User", "entity Account", "id int64"), ErrDuplicateDirective},
		{"unknown directive", decl("R", pgFields, "postgres", "entity User", "id int64", "cache true"), ErrUnknownDirective},
		{"invalid table", decl("R", pgFields, "postgres", "entity User", "id int64", "table users;drop"), ErrInvalidName},
		{"unknown qualifier", decl("R", pgFields, "postgres", "entity dto.User", "id int64"), ErrUnknownQualifier},
		{"missing exec", decl("R", []string{"DB"}, "postgres", "entity User", "id int64"), ErrMissingHandle},
		{"missing database", decl("R", []string{"Client"}, "mongo", "entity User", "id string"), ErrMissingHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.decl)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var re *ResolveError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, "R", re.Type)
		})
	}
}

func TestResolveNotStruct(t *testing.T) {
	d := decl("R", nil, "postgres", "entity User", "id int64")
	d.IsStruct = false

	_, err := Resolve(d)
	assert.ErrorIs(t, err, ErrNotStruct)
}

func TestResolveReportsEveryProblem(t *testing.T) {
	_, err := Resolve(decl("R", nil, "postgres", "table users;drop"))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrMissingDirective)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, ErrMissingHandle)
	assert.Contains(t, err.Error(), "//store:entity")
	assert.Contains(t, err.Error(), "//store:id")
}

func TestEntityMarker(t *testing.T) {
	assert.True(t, decl("Session", nil, "entity").IsEntityMarker())
	assert.False(t, decl("R", nil, "entity User").IsEntityMarker())
	assert.False(t, decl("R", nil, "postgres", "entity").IsEntityMarker())
}
