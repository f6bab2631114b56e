package gen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	store "github.com/likearthian/storegen"
)

var knownDirectives = map[string]bool{
	"postgres":   true,
	"mongo":      true,
	"entity":     true,
	"id":         true,
	"table":      true,
	"collection": true,
	"idcolumn":   true,
}

// Binding is a resolved repository declaration plus the source context the
// synthesizer needs to emit it.
type Binding struct {
	store.Descriptor
	// Imports maps every package qualifier used by Entity or ID to its import path.
	Imports map[string]string
	// WithOptions is set when the repository struct has an Options field,
	// which is passed to the driver constructor.
	WithOptions bool
	// ReflectEntity makes relational methods read columns through
	// store.EntityOf, for entities declared outside the package.
	ReflectEntity bool

	// idColumnSet is true when IDColumn came from //store:idcolumn or the
	// resolver default rather than the backend convention.
	idColumnSet bool
}

// Resolver turns directive sets into descriptors.
type Resolver struct {
	// DefaultIDColumn is the relational identifier column of declarations
	// without //store:idcolumn. When empty, Plan uses the entity's identifier
	// field column, then "id".
	DefaultIDColumn string
}

// Resolve resolves decl with the default Resolver.
func Resolve(decl Declaration) (store.Descriptor, error) {
	b, err := Resolver{}.Bind(decl)
	return b.Descriptor, err
}

func (r Resolver) Resolve(decl Declaration) (store.Descriptor, error) {
	b, err := r.Bind(decl)
	return b.Descriptor, err
}

// Bind resolves decl. Every problem found is reported; the returned error
// joins one *ResolveError per problem.
func (r Resolver) Bind(decl Declaration) (Binding, error) {
	var errs []error
	fail := func(pos token.Position, err error, format string, args ...any) {
		errs = append(errs, &ResolveError{
			Pos:    pos,
			Type:   decl.TypeName,
			Err:    err,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	dirs := make(map[string]Directive)
	for _, dir := range decl.Directives {
		if !knownDirectives[dir.Key] {
			fail(dir.Pos, ErrUnknownDirective, "//store:%s", dir.Key)
			continue
		}
		if _, dup := dirs[dir.Key]; dup {
			fail(dir.Pos, ErrDuplicateDirective, "//store:%s", dir.Key)
			continue
		}
		dirs[dir.Key] = dir
	}

	b := Binding{
		Descriptor: store.Descriptor{Repository: decl.TypeName},
		Imports:    make(map[string]string),
	}

	pg, isPG := dirs["postgres"]
	mg, isMongo := dirs["mongo"]
	switch {
	case isPG && isMongo:
		fail(mg.Pos, ErrBackendForm, "both forms present")
	case isPG:
		b.Backend = store.BackendPostgres
	case isMongo:
		b.Backend = store.BackendMongo
	default:
		fail(decl.Pos, ErrBackendForm, "no form present")
	}
	for _, form := range []Directive{pg, mg} {
		if form.Value != "" {
			fail(form.Pos, ErrInvalidType, "//store:%s takes no argument", form.Key)
		}
	}

	if dir, ok := dirs["entity"]; !ok || dir.Value == "" {
		fail(decl.Pos, ErrMissingDirective, "//store:entity")
	} else if entity, qualifier, err := entityExpr(dir.Value); err != nil {
		fail(dir.Pos, ErrInvalidEntity, "%q", dir.Value)
	} else {
		b.Entity = entity
		b.EntityPackage = qualifier
	}

	if dir, ok := dirs["id"]; !ok || dir.Value == "" {
		fail(decl.Pos, ErrMissingDirective, "//store:id")
	} else if _, err := parser.ParseExpr(dir.Value); err != nil {
		fail(dir.Pos, ErrInvalidType, "%q", dir.Value)
	} else {
		b.ID = dir.Value
	}

	for _, expr := range []string{b.Entity, b.ID} {
		for _, q := range qualifiers(expr) {
			importPath, ok := decl.Imports[q]
			if !ok {
				fail(decl.Pos, ErrUnknownQualifier, "%s", q)
				continue
			}
			b.Imports[q] = importPath
		}
	}

	r.resolveStorage(decl, dirs, &b, fail)

	if !decl.IsStruct {
		fail(decl.Pos, ErrNotStruct, "")
	} else {
		for _, field := range handleFields(b.Backend) {
			if !decl.hasField(field) {
				fail(decl.Pos, ErrMissingHandle, "%s form needs field %s", b.Backend, field)
			}
		}
		b.WithOptions = decl.hasField("Options")
	}

	if len(errs) > 0 {
		return Binding{}, errors.Join(errs...)
	}

	return b, nil
}

func (r Resolver) resolveStorage(decl Declaration, dirs map[string]Directive, b *Binding, fail func(token.Position, error, string, ...any)) {
	if b.Backend == 0 {
		return
	}

	storage := b.Backend.StorageDirective()
	for _, key := range []string{"table", "collection"} {
		if dir, ok := dirs[key]; ok && key != storage {
			fail(dir.Pos, ErrMisplacedDirective, "//store:%s on the %s form", key, b.Backend)
		}
	}

	b.StorageName = store.StorageName(b.EntityName())
	if dir, ok := dirs[storage]; ok {
		if !store.ValidIdentifier(dir.Value) {
			fail(dir.Pos, ErrInvalidName, "//store:%s %q", storage, dir.Value)
		}
		b.StorageName = dir.Value
	}

	b.IDColumn = b.Backend.DefaultIDColumn()
	if b.Backend == store.BackendPostgres && r.DefaultIDColumn != "" {
		b.IDColumn = r.DefaultIDColumn
		b.idColumnSet = true
	}
	if dir, ok := dirs["idcolumn"]; ok {
		if b.Backend != store.BackendPostgres {
			fail(dir.Pos, ErrMisplacedDirective, "//store:idcolumn on the %s form", b.Backend)
			return
		}
		if !store.ValidIdentifier(dir.Value) {
			fail(dir.Pos, ErrInvalidName, "//store:idcolumn %q", dir.Value)
		}
		b.IDColumn = dir.Value
		b.idColumnSet = true
	}
}

func handleFields(backend store.Backend) []string {
	switch backend {
	case store.BackendPostgres:
		return []string{"Exec"}
	case store.BackendMongo:
		return []string{"Client", "Database"}
	}
	return nil
}

// entityExpr accepts Ident and pkg.Ident only.
func entityExpr(value string) (string, string, error) {
	expr, err := parser.ParseExpr(value)
	if err != nil {
		return "", "", err
	}

	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, "", nil
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name, x.Name, nil
		}
	}

	return "", "", ErrInvalidEntity
}

// qualifiers lists the package names referenced by a type expression.
func qualifiers(typeExpr string) []string {
	if typeExpr == "" {
		return nil
	}
	expr, err := parser.ParseExpr(typeExpr)
	if err != nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if x, ok := sel.X.(*ast.Ident); ok && !seen[x.Name] {
			seen[x.Name] = true
			names = append(names, x.Name)
		}
		return false
	})
	return names
}
