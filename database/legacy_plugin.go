package database

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camden-git/legacymappings/legacy"
)

// LegacyPlugin rewrites alias column names in WHERE clauses and in map
// values given to Create and Updates, for every table in its registry.
type LegacyPlugin struct {
	Registry *Registry
}

func (p *LegacyPlugin) Name() string {
	return "legacy_mappings"
}

func (p *LegacyPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("legacy:remap_where", p.remapWhere); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("legacy:remap_where", p.remapWhere); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("legacy:remap_where", p.remapWhere); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("legacy:remap_where", p.remapWhere); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:before_update").Register("legacy:remap_assignments", p.remapAssignments); err != nil {
		return err
	}
	return cb.Create().Before("gorm:before_create").Register("legacy:remap_assignments", p.remapAssignments)
}

func (p *LegacyPlugin) model(db *gorm.DB) (*Model, bool) {
	table := db.Statement.Table
	if db.Statement.Schema != nil {
		table = db.Statement.Schema.Table
	}
	if table == "" {
		return nil, false
	}
	return p.Registry.Lookup(table)
}

func (p *LegacyPlugin) remapWhere(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	m, ok := p.model(db)
	if !ok {
		return
	}
	c, ok := db.Statement.Clauses["WHERE"]
	if !ok {
		return
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return
	}
	where.Exprs = remapExprs(m.Resolver, where.Exprs)
	c.Expression = where
	db.Statement.Clauses["WHERE"] = c
}

func (p *LegacyPlugin) remapAssignments(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	m, ok := p.model(db)
	if !ok {
		return
	}
	switch dest := db.Statement.Dest.(type) {
	case map[string]interface{}:
		db.Statement.Dest = remapKeys(m.Resolver, dest)
	case *map[string]interface{}:
		*dest = remapKeys(m.Resolver, *dest)
	case []map[string]interface{}:
		for i := range dest {
			dest[i] = remapKeys(m.Resolver, dest[i])
		}
	}
}

func remapKeys(r *legacy.Resolver, values map[string]interface{}) map[string]interface{} {
	if len(values) == 0 {
		return values
	}
	return r.MapCondition(values).(map[string]interface{})
}

func remapExprs(r *legacy.Resolver, exprs []clause.Expression) []clause.Expression {
	out := make([]clause.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = remapExpr(r, e)
	}
	return out
}

func remapExpr(r *legacy.Resolver, e clause.Expression) clause.Expression {
	switch x := e.(type) {
	case clause.Eq:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.Neq:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.Gt:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.Gte:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.Lt:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.Lte:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.Like:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.IN:
		x.Column = remapColumn(r, x.Column)
		return x
	case clause.AndConditions:
		x.Exprs = remapExprs(r, x.Exprs)
		return x
	case clause.OrConditions:
		x.Exprs = remapExprs(r, x.Exprs)
		return x
	case clause.NotConditions:
		x.Exprs = remapExprs(r, x.Exprs)
		return x
	}
	return e
}

func remapColumn(r *legacy.Resolver, col interface{}) interface{} {
	switch c := col.(type) {
	case string:
		if i := strings.LastIndexByte(c, '.'); i >= 0 {
			return c[:i+1] + r.RealName(c[i+1:])
		}
		return r.RealName(c)
	case clause.Column:
		if !c.Raw {
			c.Name = r.RealName(c.Name)
		}
		return c
	}
	return col
}
