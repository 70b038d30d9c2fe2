package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/camden-git/legacymappings/legacy"
)

// Model is the legacy configuration attached to one registered model type.
type Model struct {
	Schema    *schema.Schema
	Resolver  *legacy.Resolver
	Accessors legacy.Accessors
}

// Registry holds the legacy configuration of every registered model, keyed
// by table name. Register everything before the registry is shared.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
	cache  *sync.Map
	namer  schema.Namer
	logger logger.Interface
}

// NewRegistry creates an empty registry. The namer must match the one the
// *gorm.DB uses; a nil namer means schema.NamingStrategy{}.
func NewRegistry(namer schema.Namer, log logger.Interface) *Registry {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	if log == nil {
		log = logger.Default
	}
	return &Registry{
		models: make(map[string]*Model),
		cache:  &sync.Map{},
		namer:  namer,
		logger: log,
	}
}

// Register parses model and attaches aliases to its table.
func (r *Registry) Register(model interface{}, aliases legacy.AliasMap) (*Model, error) {
	sch, err := r.parse(model)
	if err != nil {
		return nil, err
	}
	return r.store(sch, legacy.New(sch.DBNames, primaryKeyName(sch), aliases))
}

// RegisterInherited registers model with the aliases of an already
// registered parent, extended by aliases.
func (r *Registry) RegisterInherited(parent, model interface{}, aliases legacy.AliasMap) (*Model, error) {
	p, err := r.ModelFor(parent)
	if err != nil {
		return nil, err
	}
	sch, err := r.parse(model)
	if err != nil {
		return nil, err
	}
	return r.store(sch, p.Resolver.Inherit(sch.DBNames, primaryKeyName(sch), aliases))
}

func (r *Registry) parse(model interface{}) (*schema.Schema, error) {
	sch, err := schema.Parse(model, r.cache, r.namer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse legacy model %T: %w", model, err)
	}
	return sch, nil
}

func (r *Registry) store(sch *schema.Schema, resolver *legacy.Resolver) (*Model, error) {
	if err := resolver.Aliases().Validate(sch.DBNames, resolver.PrimaryKey()); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			r.logger.Warn(context.Background(), "table %s: %s", sch.Table, line)
		}
	}

	m := &Model{
		Schema:    sch,
		Resolver:  resolver,
		Accessors: resolver.DefineAccessors(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[sch.Table] = m
	r.logger.Info(context.Background(), "legacy mappings registered for %s: %v", sch.Table, resolver.PublicColumnNames())
	return m, nil
}

// Lookup returns the configuration for a table.
func (r *Registry) Lookup(table string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[table]
	return m, ok
}

// ModelFor returns the configuration for a registered model value or pointer.
func (r *Registry) ModelFor(model interface{}) (*Model, error) {
	sch, err := r.parse(model)
	if err != nil {
		return nil, err
	}
	m, ok := r.Lookup(sch.Table)
	if !ok {
		return nil, fmt.Errorf("model %s has no legacy mappings registered", sch.Name)
	}
	return m, nil
}

func primaryKeyName(sch *schema.Schema) string {
	if sch.PrioritizedPrimaryField == nil {
		return ""
	}
	return sch.PrioritizedPrimaryField.DBName
}

// Record wraps dest, a pointer to the model's struct, as legacy.Attributes.
func (m *Model) Record(ctx context.Context, dest interface{}) (*Record, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("record for %s must be a non-nil pointer, got %T", m.Schema.Table, dest)
	}
	rv = rv.Elem()
	if rv.Type() != m.Schema.ModelType {
		return nil, fmt.Errorf("record for %s must point to %s, got %T", m.Schema.Table, m.Schema.ModelType, dest)
	}
	return &Record{ctx: ctx, model: m, value: rv}, nil
}

// Sanitizer renders conditions against the model's table using the quoting
// of db's dialector.
func (m *Model) Sanitizer(db *gorm.DB) legacy.SQLSanitizer {
	return legacy.SQLSanitizer{
		Table: m.Schema.Table,
		Quote: func(name string) string {
			return db.Statement.Quote(name)
		},
	}
}

// Where is a GORM scope applying alias-keyed conditions merged with
// legacy.Resolver.MergeConditions.
func (m *Model) Where(conds ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		frag, err := m.Resolver.MergeConditions(m.Sanitizer(db), conds...)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		if frag == nil {
			return db
		}
		return db.Where(frag.SQL, frag.Vars...)
	}
}
