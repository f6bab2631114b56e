package gen

import (
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "//store:"

// Directive is one `//store:<key> [value]` line found in a type's doc comment.
type Directive struct {
	Key   string
	Value string
	Pos   token.Position
}

// Declaration is the raw directive set attached to one named type, together
// with what the resolver needs to know about that type's struct shape and
// the imports visible from its file.
type Declaration struct {
	TypeName   string
	Pos        token.Position
	Directives []Directive
	// Fields lists the field names of the type when it is a struct.
	Fields   []string
	IsStruct bool
	// Imports maps the local import name to the import path for the file
	// declaring the type.
	Imports map[string]string
}

// IsEntityMarker reports whether the declaration is a bare `//store:entity`
// marker asking for entity reflection methods rather than a repository.
func (d Declaration) IsEntityMarker() bool {
	if len(d.Directives) != 1 {
		return false
	}
	dir := d.Directives[0]
	return dir.Key == "entity" && dir.Value == ""
}

func (d Declaration) hasField(name string) bool {
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

func parseDirectives(fset *token.FileSet, groups ...*ast.CommentGroup) []Directive {
	var dirs []Directive
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if !strings.HasPrefix(c.Text, directivePrefix) {
				continue
			}
			body := strings.TrimSpace(strings.TrimPrefix(c.Text, directivePrefix))
			key, value, _ := strings.Cut(body, " ")
			dirs = append(dirs, Directive{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
				Pos:   fset.Position(c.Slash),
			})
		}
	}
	return dirs
}
