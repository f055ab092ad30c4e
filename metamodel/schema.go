// Package metamodel turns entity definitions into generated Go source:
// typed dsl property declarations, a table name constant, the entity struct
// and a row-scanning function per entity.
//
// Definitions live in CUE files, one package per directory:
//
//	package entities
//
//	entity: User: {
//		table: "users"
//		columns: [
//			{name: "id", type: "int64", primaryKey: true},
//			{name: "username", type: "string"},
//		]
//		relations: [
//			{name: "orders", kind: "one_to_many", target: "Order",
//			 joinColumn: "user_id"},
//		]
//	}
package metamodel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// ColumnType enumerates the value types the generator knows how to map onto
// dsl property refinements and Go struct fields.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeInt     ColumnType = "int"
	TypeInt64   ColumnType = "int64"
	TypeFloat64 ColumnType = "float64"
	TypeBool    ColumnType = "bool"
	TypeTime    ColumnType = "time"
	TypeBytes   ColumnType = "bytes"
)

// Column describes one mapped column of an entity.
type Column struct {
	// Name is the field name as declared, e.g. "userId" or "created_at".
	Name string `json:"name"`

	// Column overrides the database column name. Defaults to Name.
	Column string `json:"column,omitempty"`

	// Type selects the property refinement and the Go field type.
	Type ColumnType `json:"type"`

	// PrimaryKey marks the entity's primary key column.
	PrimaryKey bool `json:"primaryKey,omitempty"`
}

// Relation describes a declared association to another entity.
type Relation struct {
	// Name is the field name of the association, e.g. "orders".
	Name string `json:"name"`

	// Kind is "many_to_one" or "one_to_many".
	Kind string `json:"kind"`

	// Target names the associated entity.
	Target string `json:"target"`

	// JoinColumn is the foreign key column of the association.
	JoinColumn string `json:"joinColumn"`

	// ReferencedColumn is the column the foreign key refers to.
	// Defaults to "id".
	ReferencedColumn string `json:"referencedColumn,omitempty"`
}

// Entity is one mapped entity: a table plus its columns and relations.
type Entity struct {
	// Name is the entity name, set from the CUE field label.
	Name string `json:"-"`

	// Table is the database table. Defaults to the lowercased entity name
	// with an "s" suffix.
	Table string `json:"table,omitempty"`

	Columns   []Column   `json:"columns"`
	Relations []Relation `json:"relations,omitempty"`
}

// PrimaryKey returns the primary key column and whether one is declared.
func (e Entity) PrimaryKey() (Column, bool) {
	for _, c := range e.Columns {
		if c.PrimaryKey {
			return c, true
		}
	}
	return Column{}, false
}

// Error codes for entity definition loading.
const (
	ErrCodeNotFound      = "ENTITY_DIR_NOT_FOUND"
	ErrCodeNoFiles       = "NO_CUE_FILES"
	ErrCodeLoadFailed    = "CUE_LOAD_FAILED"
	ErrCodeBuildFailed   = "CUE_BUILD_FAILED"
	ErrCodeInvalidEntity = "INVALID_ENTITY"
)

// LoadError describes a failure while loading entity definitions.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a LoadError for a missing entity
// directory.
func IsNotFound(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr) && loadErr.Code == ErrCodeNotFound
}

// LoadEntities loads all entity definitions from the CUE files in dir.
// Entities are returned sorted by name so generation order is deterministic.
func LoadEntities(dir string) ([]Entity, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("entity directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing entity directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	entityVal := value.LookupPath(cue.ParsePath("entity"))
	if !entityVal.Exists() {
		return nil, &LoadError{Code: ErrCodeInvalidEntity, Message: "no top-level \"entity\" struct found"}
	}

	iter, err := entityVal.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidEntity, Message: fmt.Sprintf("iterating entities: %v", err)}
	}

	var entities []Entity
	for iter.Next() {
		var entity Entity
		if err := iter.Value().Decode(&entity); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidEntity, Message: fmt.Sprintf("decoding entity %q: %v", iter.Label(), err)}
		}
		entity.Name = iter.Label()
		applyDefaults(&entity)
		if err := validateEntity(entity); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
	return entities, nil
}

func findCUEFiles(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".cue") {
			continue
		}
		files = append(files, filepath.Join(dir, de.Name()))
	}
	return files, nil
}

func applyDefaults(entity *Entity) {
	if entity.Table == "" {
		entity.Table = strings.ToLower(entity.Name) + "s"
	}
	for i := range entity.Columns {
		if entity.Columns[i].Column == "" {
			entity.Columns[i].Column = entity.Columns[i].Name
		}
	}
	for i := range entity.Relations {
		if entity.Relations[i].ReferencedColumn == "" {
			entity.Relations[i].ReferencedColumn = "id"
		}
	}
}

func validateEntity(entity Entity) error {
	invalid := func(format string, args ...any) error {
		return &LoadError{
			Code:    ErrCodeInvalidEntity,
			Message: fmt.Sprintf("entity %q: %s", entity.Name, fmt.Sprintf(format, args...)),
		}
	}

	if len(entity.Columns) == 0 {
		return invalid("no columns declared")
	}
	for _, c := range entity.Columns {
		if c.Name == "" {
			return invalid("column with empty name")
		}
		switch c.Type {
		case TypeString, TypeInt, TypeInt64, TypeFloat64, TypeBool, TypeTime, TypeBytes:
		default:
			return invalid("column %q has unknown type %q", c.Name, c.Type)
		}
	}
	for _, r := range entity.Relations {
		if r.Name == "" {
			return invalid("relation with empty name")
		}
		if r.Kind != "many_to_one" && r.Kind != "one_to_many" {
			return invalid("relation %q has unknown kind %q", r.Name, r.Kind)
		}
		if r.Target == "" {
			return invalid("relation %q has no target entity", r.Name)
		}
		if r.JoinColumn == "" {
			return invalid("relation %q has no join column", r.Name)
		}
	}
	return nil
}
