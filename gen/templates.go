package gen

import (
	"fmt"
	"text/template"
)

var fileTemplate = template.Must(template.New("file").Funcs(template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}).Parse(`{{.Header}}

package {{.Package}}
{{if .Repositories}}
import (
	"context"
{{range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{quote .Path}}
{{- end}}
)
{{end}}
{{- range .Repositories}}
{{if .Relational}}{{template "postgres" .}}{{else}}{{template "mongo" .}}{{end}}
{{- end}}
{{- range .Entities}}
{{template "entity" .}}
{{- end}}
`))

var _ = template.Must(fileTemplate.New("postgres").Parse(`
const {{.Const}} = {{quote .StorageName}}

var _ store.Repository[{{.ID}}, {{.Entity}}] = (*{{.Repository}})(nil)

func (r *{{.Repository}}) storeDriver() store.PostgresDriver[{{.ID}}, {{.Entity}}] {
{{- if .WithOptions}}
	opts := append([]store.DriverOption{store.WithReturningColumn({{quote .IDColumn}})}, r.Options...)
	return store.NewPostgresDriver[{{.ID}}, {{.Entity}}](r.Exec, opts...)
{{- else}}
	return store.NewPostgresDriver[{{.ID}}, {{.Entity}}](r.Exec, store.WithReturningColumn({{quote .IDColumn}}))
{{- end}}
}

func (r *{{.Repository}}) FindAll(ctx context.Context) ([]{{.Entity}}, error) {
	return r.storeDriver().FindAll(ctx, {{.Const}})
}

func (r *{{.Repository}}) FindOne(ctx context.Context, id {{.ID}}) (*{{.Entity}}, error) {
	return r.storeDriver().FindOne(ctx, {{.Const}}, {{quote .IDColumn}}, id)
}

func (r *{{.Repository}}) InsertOne(ctx context.Context, entity *{{.Entity}}) ({{.ID}}, error) {
{{- if .ReflectEntity}}
	e, err := store.EntityOf(entity)
	if err != nil {
		var zero {{.ID}}
		return zero, err
	}
	return r.storeDriver().InsertOne(ctx, {{.Const}}, e.Columns(), e.Values())
{{- else}}
	return r.storeDriver().InsertOne(ctx, {{.Const}}, entity.Columns(), entity.Values())
{{- end}}
}

func (r *{{.Repository}}) UpdateOne(ctx context.Context, id {{.ID}}, entity *{{.Entity}}) (*{{.Entity}}, error) {
	d := r.storeDriver()
{{- if .ReflectEntity}}
	e, err := store.EntityOf(entity)
	if err != nil {
		return nil, err
	}
	n, err := d.UpdateOne(ctx, {{.Const}}, {{quote .IDColumn}}, id, e.Columns(), e.Values())
{{- else}}
	n, err := d.UpdateOne(ctx, {{.Const}}, {{quote .IDColumn}}, id, entity.Columns(), entity.Values())
{{- end}}
	if err != nil || n == 0 {
		return nil, err
	}
	return d.FindOne(ctx, {{.Const}}, {{quote .IDColumn}}, id)
}

func (r *{{.Repository}}) DeleteOne(ctx context.Context, id {{.ID}}) (int64, error) {
	return r.storeDriver().DeleteOne(ctx, {{.Const}}, {{quote .IDColumn}}, id)
}
`))

var _ = template.Must(fileTemplate.New("mongo").Parse(`
const {{.Const}} = {{quote .StorageName}}

var _ store.Repository[{{.ID}}, {{.Entity}}] = (*{{.Repository}})(nil)

func (r *{{.Repository}}) storeDriver() store.MongoDriver[{{.ID}}, {{.Entity}}] {
	return store.NewMongoDriver[{{.ID}}, {{.Entity}}](r.Client, r.Database{{if .WithOptions}}, r.Options...{{end}})
}

func (r *{{.Repository}}) FindAll(ctx context.Context) ([]{{.Entity}}, error) {
	return r.storeDriver().FindAll(ctx, {{.Const}})
}

func (r *{{.Repository}}) FindOne(ctx context.Context, id {{.ID}}) (*{{.Entity}}, error) {
	d := r.storeDriver()
	return d.FindOne(ctx, {{.Const}}, d.ByID(id))
}

func (r *{{.Repository}}) InsertOne(ctx context.Context, entity *{{.Entity}}) ({{.ID}}, error) {
	return r.storeDriver().InsertOne(ctx, {{.Const}}, entity)
}

func (r *{{.Repository}}) UpdateOne(ctx context.Context, id {{.ID}}, entity *{{.Entity}}) (*{{.Entity}}, error) {
	d := r.storeDriver()
	return d.UpdateOne(ctx, {{.Const}}, d.ByID(id), entity)
}

func (r *{{.Repository}}) DeleteOne(ctx context.Context, id {{.ID}}) (int64, error) {
	d := r.storeDriver()
	return d.DeleteOne(ctx, {{.Const}}, d.ByID(id))
}
`))

var _ = template.Must(fileTemplate.New("entity").Parse(`
{{- if not .HasColumns}}
func (e {{.Name}}) Columns() []string {
	return []string{ {{- range $i, $c := .Columns}}{{if $i}}, {{end}}{{quote $c}}{{end -}} }
}
{{end}}
{{- if not .HasValues}}
func (e {{.Name}}) Values() []any {
	return []any{ {{- range $i, $f := .Fields}}{{if $i}}, {{end}}e.{{$f}}{{end -}} }
}
{{end}}`))
