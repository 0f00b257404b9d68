package model

// FormulaType classifies a calculated field and constrains which functions
// its formula must contain. The constraint is enforced by validation, not
// by evaluation.
type FormulaType string

const (
	TypeExpression  FormulaType = "expression"
	TypeAggregation FormulaType = "aggregation"
	TypeConditional FormulaType = "conditional"
	TypeDateDiff    FormulaType = "date_diff"
)

// TimeScope is the calendar or rolling window applied to the record set
// before an aggregation-type field is computed.
type TimeScope string

const (
	ScopeAll       TimeScope = "all"
	ScopeToday     TimeScope = "today"
	ScopeWeek      TimeScope = "week"
	ScopeMonth     TimeScope = "month"
	ScopeQuarter   TimeScope = "quarter"
	ScopeYear      TimeScope = "year"
	ScopeMTD       TimeScope = "mtd"
	ScopeYTD       TimeScope = "ytd"
	ScopeRolling7  TimeScope = "rolling_7d"
	ScopeRolling30 TimeScope = "rolling_30d"
)

// CalculatedField is an operator-defined formula producing a derived value
// per record or per dataset. Fields are authored in a configuration UI and
// only read here; the Slug doubles as a reference usable inside other
// formulas.
type CalculatedField struct {
	ID          string      `json:"id" yaml:"id"`
	DatasetID   string      `json:"dataset_id" yaml:"dataset_id"`
	Slug        string      `json:"slug" yaml:"slug"`
	Formula     string      `json:"formula" yaml:"formula"`
	FormulaType FormulaType `json:"formula_type" yaml:"formula_type"`
	TimeScope   TimeScope   `json:"time_scope" yaml:"time_scope"`
	Active      bool        `json:"active" yaml:"active"`
}

// IsAggregation reports whether the field is computed over the dataset
// rather than per record.
func (f *CalculatedField) IsAggregation() bool {
	return f.FormulaType == TypeAggregation
}

// Catalog is an indexed collection of calculated fields.
type Catalog struct {
	Fields []CalculatedField
	bySlug map[string]*CalculatedField
	active []*CalculatedField
}

// NewCatalog creates a Catalog with indexed lookups. Fields declared
// without an ID are assigned one at load time; fields without a time scope
// default to "all".
func NewCatalog(fields []CalculatedField) *Catalog {
	c := &Catalog{
		Fields: fields,
		bySlug: make(map[string]*CalculatedField, len(fields)),
	}
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.ID == "" {
			f.ID = newID()
		}
		if f.TimeScope == "" {
			f.TimeScope = ScopeAll
		}
		c.bySlug[f.Slug] = f
		if f.Active {
			c.active = append(c.active, f)
		}
	}
	return c
}

// BySlug returns the field with the given slug, or nil if not found.
// Lookups are case-sensitive, matching formula field references.
func (c *Catalog) BySlug(slug string) *CalculatedField {
	return c.bySlug[slug]
}

// Active returns all active fields in catalogue order.
func (c *Catalog) Active() []*CalculatedField {
	return c.active
}
