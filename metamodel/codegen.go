package metamodel

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// File is one generated Go source file.
type File struct {
	// Name is the file name, e.g. "order_item_meta.go".
	Name string

	// Source is the gofmt-formatted file content.
	Source []byte
}

// Generate renders one Go source file per entity into the given package.
// Each file contains the entity struct, a table name constant, typed dsl
// property declarations (including relationship properties) and the
// row-scanning functions. Output is gofmt-formatted.
func Generate(entities []Entity, pkg string) ([]File, error) {
	if pkg == "" {
		return nil, fmt.Errorf("metamodel: package name must not be empty")
	}

	// Table lookup for relationship targets declared in the same set.
	tables := make(map[string]string, len(entities))
	for _, e := range entities {
		tables[e.Name] = e.Table
	}

	files := make([]File, 0, len(entities))
	for _, entity := range entities {
		src, err := generateEntity(entity, pkg, tables)
		if err != nil {
			return nil, fmt.Errorf("metamodel: generating %s: %w", entity.Name, err)
		}
		files = append(files, File{Name: toSnake(entity.Name) + "_meta.go", Source: src})
	}
	return files, nil
}

// WriteFiles writes generated files into dir, creating it if needed.
func WriteFiles(dir string, files []File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("metamodel: creating output directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Source, 0o644); err != nil {
			return fmt.Errorf("metamodel: writing %s: %w", f.Name, err)
		}
	}
	return nil
}

type fieldView struct {
	GoName       string
	GoType       string
	Column       string
	VarName      string
	PropertyDecl string
	ScanHelper   string
}

type relationView struct {
	VarName string
	Decl    string
}

type fileView struct {
	Package    string
	Entity     string
	Table      string
	TableConst string
	NeedsTime  bool
	Fields     []fieldView
	Relations  []relationView
}

var fileTemplate = template.Must(template.New("metamodel").Parse(`// Code generated by querykit metamodel; DO NOT EDIT.

package {{.Package}}

import (
{{- if .NeedsTime}}
	"time"
{{end}}
	"github.com/querykit/querykit/dsl"
	"github.com/querykit/querykit/metamodel"
)

// {{.TableConst}} is the resolved table name for {{.Entity}}.
const {{.TableConst}} = "{{.Table}}"

// {{.Entity}} is the {{.Entity}} entity mapped to table {{.Table}}.
type {{.Entity}} struct {
{{- range .Fields}}
	{{.GoName}} {{.GoType}}
{{- end}}
}

// Typed column handles for {{.Entity}}.
var (
{{- range .Fields}}
	{{.VarName}} = {{.PropertyDecl}}
{{- end}}
{{- range .Relations}}
	{{.VarName}} = {{.Decl}}
{{- end}}
)

// Scan{{.Entity}} maps a column-keyed row onto a {{.Entity}} value.
func Scan{{.Entity}}(row map[string]any) ({{.Entity}}, error) {
	return Scan{{.Entity}}Prefixed(row, "")
}

// Scan{{.Entity}}Prefixed maps a row whose keys carry the given column name
// prefix, as produced by joined or nested result sets.
func Scan{{.Entity}}Prefixed(row map[string]any, prefix string) ({{.Entity}}, error) {
	var out {{.Entity}}
	var err error
{{- range .Fields}}
	if out.{{.GoName}}, err = metamodel.{{.ScanHelper}}(row, prefix+"{{.Column}}"); err != nil {
		return out, err
	}
{{- end}}
	return out, nil
}
`))

func generateEntity(entity Entity, pkg string, tables map[string]string) ([]byte, error) {
	view := fileView{
		Package:    pkg,
		Entity:     ExportName(entity.Name),
		Table:      entity.Table,
		TableConst: ExportName(entity.Name) + "Table",
	}

	for _, col := range entity.Columns {
		field := fieldView{
			GoName:  ExportName(col.Name),
			GoType:  goType(col.Type),
			Column:  col.Column,
			VarName: view.Entity + ExportName(col.Name),
		}
		field.PropertyDecl = propertyDecl(col)
		field.ScanHelper = scanHelper(col.Type)
		if col.Type == TypeTime {
			view.NeedsTime = true
		}
		view.Fields = append(view.Fields, field)
	}

	for _, rel := range entity.Relations {
		view.Relations = append(view.Relations, relationView{
			VarName: view.Entity + ExportName(rel.Name),
			Decl:    relationDecl(rel, tables),
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return src, nil
}

func goType(t ColumnType) string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	case TypeTime:
		return "time.Time"
	case TypeBytes:
		return "[]byte"
	}
	return "any"
}

// propertyDecl picks the property refinement for a column type. Text columns
// get StringProperty, ordered numerics get ComparableProperty, and the rest
// (bool, time, bytes) stay on the base Property: time.Time is not ordered in
// the cmp.Ordered sense, so temporal columns support equality and nullity
// only, mirroring the struct field they scan into.
func propertyDecl(col Column) string {
	switch col.Type {
	case TypeString:
		return fmt.Sprintf("dsl.NewStringProperty(%q)", col.Column)
	case TypeInt, TypeInt64, TypeFloat64:
		return fmt.Sprintf("dsl.NewComparableProperty[%s](%q)", goType(col.Type), col.Column)
	default:
		return fmt.Sprintf("dsl.NewProperty[%s](%q)", goType(col.Type), col.Column)
	}
}

func scanHelper(t ColumnType) string {
	switch t {
	case TypeString:
		return "StringField"
	case TypeInt:
		return "IntField"
	case TypeInt64:
		return "Int64Field"
	case TypeFloat64:
		return "Float64Field"
	case TypeBool:
		return "BoolField"
	case TypeTime:
		return "TimeField"
	case TypeBytes:
		return "BytesField"
	}
	return "Field"
}

func relationDecl(rel Relation, tables map[string]string) string {
	targetTable, ok := tables[rel.Target]
	if !ok {
		targetTable = strings.ToLower(rel.Target) + "s"
	}

	targetType := "any"
	if ok {
		targetType = ExportName(rel.Target)
	}

	kind := "dsl.ManyToOne"
	column := rel.JoinColumn
	if rel.Kind == "one_to_many" {
		kind = "dsl.OneToMany"
		column = rel.ReferencedColumn
	}

	return fmt.Sprintf("dsl.NewRelationshipProperty[%s](%q, %q, %q, %q, %s)",
		targetType, column, targetTable, rel.JoinColumn, rel.ReferencedColumn, kind)
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// ExportName converts a declared field name into an exported Go identifier.
// Both snake_case and lowerCamel inputs are handled; the "id" segment maps
// to "ID" per Go initialism convention.
func ExportName(name string) string {
	segments := strings.Split(name, "_")
	var b strings.Builder
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if strings.EqualFold(seg, "id") {
			b.WriteString("ID")
			continue
		}
		b.WriteString(titleCaser.String(seg))
	}
	return b.String()
}

// toSnake converts an entity name like "OrderItem" to "order_item".
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
