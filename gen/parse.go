package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	store "github.com/likearthian/storegen"
)

// Header is the first line of every file written by the generator.
const Header = "// Code generated by storegen. DO NOT EDIT."

// Package is a parsed Go package directory: its declarations carrying
// `//store:` directives and the struct and method set needed to synthesize
// entity reflection.
type Package struct {
	Name         string
	Dir          string
	Declarations []Declaration

	structs map[string]*ast.StructType
	methods map[string]map[string]bool
}

// EntitySpec is the persisted shape of a struct declared in the package.
// Fields and Columns are aligned and exclude the identifier.
type EntitySpec struct {
	Name    string
	Fields  []string
	Columns []string
	IDField  string
	IDColumn string
	// HasColumns and HasValues report methods the type already declares.
	HasColumns bool
	HasValues  bool
}

// Declared reports whether the type needs no generated methods.
func (e EntitySpec) Declared() bool {
	return e.HasColumns && e.HasValues
}

// ParseDir parses the non-test Go files of dir. Files produced by storegen
// and the files named in skip are ignored.
func ParseDir(dir string, skip ...string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package dir: %w", err)
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[filepath.Base(s)] = true
	}

	pkg := &Package{
		Dir:     dir,
		structs: make(map[string]*ast.StructType),
		methods: make(map[string]map[string]bool),
	}

	fset := token.NewFileSet()
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || skipped[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		if isStoregenOutput(file) {
			continue
		}

		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		} else if pkg.Name != file.Name.Name {
			return nil, fmt.Errorf("%s: found package %s, expected %s", name, file.Name.Name, pkg.Name)
		}

		pkg.collect(fset, file)
	}

	if pkg.Name == "" {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}

	return pkg, nil
}

func isStoregenOutput(file *ast.File) bool {
	if len(file.Comments) == 0 || len(file.Comments[0].List) == 0 {
		return false
	}
	return file.Comments[0].List[0].Text == Header
}

func (p *Package) collect(fset *token.FileSet, file *ast.File) {
	imports := fileImports(file)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				st, isStruct := ts.Type.(*ast.StructType)
				if isStruct && ts.TypeParams == nil {
					p.structs[ts.Name.Name] = st
				}

				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				dirs := parseDirectives(fset, doc)
				if len(dirs) == 0 {
					continue
				}

				p.Declarations = append(p.Declarations, Declaration{
					TypeName:   ts.Name.Name,
					Pos:        fset.Position(ts.Pos()),
					Directives: dirs,
					Fields:     structFieldNames(st),
					IsStruct:   isStruct,
					Imports:    imports,
				})
			}
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 {
				continue
			}
			recv := receiverName(d.Recv.List[0].Type)
			if recv == "" {
				continue
			}
			if p.methods[recv] == nil {
				p.methods[recv] = make(map[string]bool)
			}
			p.methods[recv][d.Name.Name] = true
		}
	}
}

func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := defaultImportName(importPath)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = importPath
	}
	return imports
}

// defaultImportName guesses the package name of an import path the way
// goimports does without loading it: the last element, skipping a major
// version suffix and any ".vN" or "go-" decoration.
func defaultImportName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "_")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func structFieldNames(st *ast.StructType) []string {
	if st == nil {
		return nil
	}
	var names []string
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			if n := receiverName(f.Type); n != "" {
				names = append(names, n)
			}
			continue
		}
		for _, n := range f.Names {
			names = append(names, n.Name)
		}
	}
	return names
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

// Entity returns the persisted shape of the struct type name, using the same
// `db` tag rules as store.EntityOf.
func (p *Package) Entity(name string) (EntitySpec, error) {
	st, ok := p.structs[name]
	if !ok {
		return EntitySpec{}, fmt.Errorf("entity %s is not a struct type declared in package %s", name, p.Name)
	}

	var specs []store.FieldSpec
	for _, f := range st.Fields.List {
		tag := ""
		if f.Tag != nil {
			if raw, err := strconv.Unquote(f.Tag.Value); err == nil {
				tag = reflect.StructTag(raw).Get("db")
			}
		}
		if len(f.Names) == 0 {
			specs = append(specs, store.FieldSpec{Name: receiverName(f.Type), Tag: store.ParseDBTag(tag)})
			continue
		}
		for _, n := range f.Names {
			specs = append(specs, store.FieldSpec{
				Name:     n.Name,
				Tag:      store.ParseDBTag(tag),
				Exported: ast.IsExported(n.Name),
			})
		}
	}

	persisted, id := store.PersistedFields(specs)
	spec := EntitySpec{
		Name:       name,
		Fields:     store.Map(persisted, func(i int) string { return specs[i].Name }),
		Columns:    store.Map(persisted, func(i int) string { return specs[i].Column() }),
		HasColumns: p.methods[name]["Columns"],
		HasValues:  p.methods[name]["Values"],
	}
	if id >= 0 {
		spec.IDField = specs[id].Name
		spec.IDColumn = specs[id].Column()
	}

	return spec, nil
}
