package openapi

import "maps"

// NewComponents creates Components with the shared message schema and error responses.
// Error bodies carry only a generic message.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Message": {
				Type: "object",
				Properties: map[string]*Schema{
					"message": {Type: "string", Description: "Human-readable status"},
				},
				Required: []string{"message"},
			},
		},
		Responses: map[string]*Response{
			"NotFound":      ResponseJSON("No matching resource", "Message"),
			"InternalError": ResponseJSON("Invalid input or storage failure", "Message"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
