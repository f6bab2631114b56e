package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"sort"

	"github.com/iancoleman/strcase"

	store "github.com/likearthian/storegen"
)

// DefaultStoreImport is the import path of the runtime package generated code
// depends on.
const DefaultStoreImport = "github.com/likearthian/storegen"

// File is everything one generated file contains.
type File struct {
	Package     string
	StoreImport string
	Bindings    []Binding
	// Entities receive generated Columns and Values methods.
	Entities []EntitySpec
}

type importSpec struct {
	Name string
	Path string
}

type repoData struct {
	Binding
	Const string
}

func (r repoData) Relational() bool {
	return r.Backend == store.BackendPostgres
}

type fileData struct {
	Header       string
	Package      string
	Imports      []importSpec
	Repositories []repoData
	Entities     []EntitySpec
}

// Plan resolves every directive-carrying declaration of pkg and selects the
// entities that need reflection methods. All resolution failures are joined
// into the returned error.
func Plan(pkg *Package, r Resolver) (File, error) {
	f := File{Package: pkg.Name}
	var errs []error

	planned := make(map[string]bool)
	addEntity := func(name string, decl Declaration) {
		spec, err := pkg.Entity(name)
		if err != nil {
			if !pkg.methods[name]["Columns"] || !pkg.methods[name]["Values"] {
				errs = append(errs, &ResolveError{Pos: decl.Pos, Type: decl.TypeName, Err: ErrInvalidEntity, Detail: err.Error()})
			}
			return
		}
		if spec.Declared() || planned[name] {
			return
		}
		if len(spec.Columns) == 0 {
			errs = append(errs, &ResolveError{Pos: decl.Pos, Type: decl.TypeName, Err: ErrInvalidEntity, Detail: fmt.Sprintf("entity %s has no persisted fields", name)})
			return
		}
		planned[name] = true
		f.Entities = append(f.Entities, spec)
	}

	for _, decl := range pkg.Declarations {
		if decl.IsEntityMarker() {
			addEntity(decl.TypeName, decl)
			continue
		}

		b, err := r.Bind(decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if b.Backend == store.BackendPostgres {
			if b.EntityPackage == "" {
				addEntity(b.Entity, decl)
				b.IDColumn = entityIDColumn(pkg, b)
			} else {
				b.ReflectEntity = true
			}
		}
		f.Bindings = append(f.Bindings, b)
	}

	if len(errs) > 0 {
		return File{}, errors.Join(errs...)
	}

	return f, nil
}

// Synthesize renders f as gofmt-ed Go source.
func Synthesize(f File) ([]byte, error) {
	data := fileData{
		Header:   Header,
		Package:  f.Package,
		Entities: f.Entities,
	}

	imports, err := collectImports(f)
	if err != nil {
		return nil, err
	}
	data.Imports = imports

	for _, b := range f.Bindings {
		data.Repositories = append(data.Repositories, repoData{
			Binding: b,
			Const:   storageConst(b),
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", f.Package, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w\n%s", err, buf.Bytes())
	}

	return src, nil
}

func collectImports(f File) ([]importSpec, error) {
	if len(f.Bindings) == 0 {
		return nil, nil
	}

	storeImport := f.StoreImport
	if storeImport == "" {
		storeImport = DefaultStoreImport
	}

	paths := map[string]string{"store": storeImport}
	for _, b := range f.Bindings {
		for name, p := range b.Imports {
			if prev, ok := paths[name]; ok && prev != p {
				return nil, fmt.Errorf("package qualifier %s refers to both %s and %s", name, prev, p)
			}
			paths[name] = p
		}
	}

	var imports []importSpec
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := importSpec{Path: paths[name]}
		if name != defaultImportName(paths[name]) || name == "store" {
			spec.Name = name
		}
		imports = append(imports, spec)
	}

	return imports, nil
}

// entityIDColumn keeps an id column set by directive or configuration and
// otherwise takes the column of the entity's identifier field.
func entityIDColumn(pkg *Package, b Binding) string {
	if b.idColumnSet {
		return b.IDColumn
	}
	spec, err := pkg.Entity(b.Entity)
	if err != nil || spec.IDColumn == "" {
		return b.IDColumn
	}
	return spec.IDColumn
}

// storageConst names the constant holding a repository's table or collection,
// e.g. userRepositoryTable.
func storageConst(b Binding) string {
	suffix := "Table"
	if b.Backend == store.BackendMongo {
		suffix = "Collection"
	}
	return strcase.ToLowerCamel(b.Repository) + suffix
}
