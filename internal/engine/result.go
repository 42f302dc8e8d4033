package engine

// Meta keys set on every Result produced by a Pipeline.
const (
	MetaRows    = "rows"
	MetaColumns = "columns"
)

// Result is the rendered output of one inspection.
type Result struct {
	ID     string            `json:"id"`
	Kind   string            `json:"kind"`
	Report []byte            `json:"report"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// Filename returns the name the report is written under.
func (r Result) Filename() string {
	return r.ID + ReportExtension
}
