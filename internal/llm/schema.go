package llm

// responseFormat asks the chat completions API for schema-constrained JSON output
type responseFormat struct {
	// Type is the response format kind, always json_schema here
	Type string `json:"type"`
	// JSONSchema is the schema the response must conform to
	JSONSchema *jsonSchemaDefinition `json:"json_schema,omitempty"`
}

// jsonSchemaDefinition names and holds a response schema
type jsonSchemaDefinition struct {
	// Name identifies the schema
	Name string `json:"name"`
	// Schema is the root schema object
	Schema jsonSchema `json:"schema"`
}

// jsonSchema is the root schema object
type jsonSchema struct {
	// Type is the schema type, object at the root
	Type string `json:"type"`
	// Properties maps field names to their schemas
	Properties map[string]jsonSchemaProperty `json:"properties,omitempty"`
	// Required lists mandatory fields
	Required []string `json:"required,omitempty"`
}

// jsonSchemaProperty describes one schema field
type jsonSchemaProperty struct {
	// Type is the JSON type of the field
	Type string `json:"type"`
	// Description guides the model on what to put in the field
	Description string `json:"description,omitempty"`
	// Enum restricts the field to a fixed value set
	Enum []string `json:"enum,omitempty"`
	// Items describes array element schemas
	Items *jsonSchemaProperty `json:"items,omitempty"`
	// Properties describes nested object fields
	Properties map[string]jsonSchemaProperty `json:"properties,omitempty"`
	// Required lists mandatory nested fields
	Required []string `json:"required,omitempty"`
}
