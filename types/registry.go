package types

import (
	"sync"
)

// SchemaRegistry maps destination table names to their column declarations.
// It replaces ambient process-global schema state: the orchestrator creates
// one registry per sync and passes it by handle into the emitter and the sync
// loop. Single writer ownership; reads may race with nothing.
type SchemaRegistry struct {
	mu     sync.RWMutex
	tables map[string]*TableDeclaration
}

// TableDeclaration is the per-table column set plus primary-key flags. Created
// lazily from the first record upserted into a previously unseen table; lives
// for one sync process.
type TableDeclaration struct {
	Schema      *TypeSchema
	PrimaryKeys *Set[string]

	// set once when bool inference first fires for the table
	boolInferenceNoted bool
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		tables: make(map[string]*TableDeclaration),
	}
}

// Declare registers explicit column types and primary keys for a table,
// overriding inference for the declared columns.
func (r *SchemaRegistry) Declare(table string, columns map[string]DataType, primaryKeys ...string) *TableDeclaration {
	r.mu.Lock()
	defer r.mu.Unlock()

	decl, found := r.tables[table]
	if !found {
		decl = &TableDeclaration{
			Schema:      NewTypeSchema(),
			PrimaryKeys: NewSet[string](),
		}
		r.tables[table] = decl
	}

	for column, typ := range columns {
		decl.Schema.AddTypes(column, typ)
	}
	decl.PrimaryKeys.Insert(primaryKeys...)
	return decl
}

// GetOrCreate returns the declaration for a table, synthesizing one from the
// record's keys on first sight: every key becomes a column typed Unknown and
// the set becomes the table's permanent column set for this process.
func (r *SchemaRegistry) GetOrCreate(table string, record Record) *TableDeclaration {
	r.mu.RLock()
	decl, found := r.tables[table]
	r.mu.RUnlock()
	if found {
		return decl
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if decl, found = r.tables[table]; found {
		return decl
	}

	decl = &TableDeclaration{
		Schema:      NewTypeSchema(),
		PrimaryKeys: NewSet[string](),
	}
	for column := range record {
		decl.Schema.AddTypes(column, Unknown)
	}
	r.tables[table] = decl
	return decl
}

func (r *SchemaRegistry) Get(table string) (*TableDeclaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decl, found := r.tables[table]
	return decl, found
}

func (r *SchemaRegistry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]string, 0, len(r.tables))
	for table := range r.tables {
		tables = append(tables, table)
	}
	return tables
}

// NoteBoolInference flips the one-time bool-inference flag for the table and
// reports whether this call was the first.
func (d *TableDeclaration) NoteBoolInference() bool {
	if d.boolInferenceNoted {
		return false
	}
	d.boolInferenceNoted = true
	return true
}

func (d *TableDeclaration) Keyless() bool {
	return d.PrimaryKeys.Len() == 0
}
