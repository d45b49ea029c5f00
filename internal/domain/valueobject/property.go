package valueobject

// Property is a named value declared through the ext extension.
// Value is the unevaluated source text of the right-hand side.
type Property struct {
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// NewProperty creates a property record.
func NewProperty(name, value string) Property {
	return Property{Name: name, Value: value}
}
