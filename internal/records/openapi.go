package records

import (
	"maps"

	"github.com/JaimeStill/roster/pkg/openapi"
)

// Schemas returns the OpenAPI component schemas for record endpoints.
func Schemas() map[string]*openapi.Schema {
	fields := map[string]*openapi.Schema{
		"name":  {Type: "string", Example: "Ada"},
		"age":   {Type: "number", Example: 36},
		"email": {Type: "string", Example: "ada@example.com"},
	}

	record := map[string]*openapi.Schema{
		"id": {Type: "string", Format: "uuid"},
	}
	maps.Copy(record, fields)

	return map[string]*openapi.Schema{
		"Fields": {Type: "object", Properties: fields},
		"Record": {Type: "object", Properties: record, Required: []string{"id"}},
		"UpdateNameCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"age":     {Type: "number"},
				"newName": {Type: "string"},
			},
			Required: []string{"age", "newName"},
		},
		"RecordEnvelope": envelope(openapi.SchemaRef("Record")),
		"RecordListEnvelope": envelope(&openapi.Schema{
			Type:  "array",
			Items: openapi.SchemaRef("Record"),
		}),
		"AverageEnvelope": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"message":    {Type: "string"},
				"averageAge": {Type: "number"},
			},
		},
		"UpdatedEnvelope": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"message":      {Type: "string"},
				"updatedCount": {Type: "integer"},
			},
		},
	}
}

// Paths returns the OpenAPI path items for record endpoints, relative to the mount point.
func Paths() map[string]*openapi.PathItem {
	fieldParams := []*openapi.Parameter{
		openapi.StringPathParam("field", "Queryable field name"),
		openapi.StringPathParam("value", "Value compared against the field's text form"),
	}

	return map[string]*openapi.PathItem{
		"": {
			Post: &openapi.Operation{
				Summary:     "Insert one record",
				Tags:        []string{"records"},
				RequestBody: openapi.RequestBodyJSON("Fields", true),
				Responses: map[int]*openapi.Response{
					201: openapi.ResponseJSON("Created record", "RecordEnvelope"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/all": {
			Get: &openapi.Operation{
				Summary: "List every record in insertion order",
				Tags:    []string{"records"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("All records", "RecordListEnvelope"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
			Post: &openapi.Operation{
				Summary: "Insert a batch of records",
				Tags:    []string{"records"},
				RequestBody: &openapi.RequestBody{
					Required: true,
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{
							Type:  "array",
							Items: openapi.SchemaRef("Fields"),
						}},
					},
				},
				Responses: map[int]*openapi.Response{
					201: openapi.ResponseJSON("Created records", "RecordListEnvelope"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/average-age": {
			Get: &openapi.Operation{
				Summary: "Average of every numeric age",
				Tags:    []string{"records"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Average age", "AverageEnvelope"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/update-name": {
			Patch: &openapi.Operation{
				Summary:     "Rename the first record with an age",
				Tags:        []string{"records"},
				RequestBody: openapi.RequestBodyJSON("UpdateNameCommand", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Modified count", "UpdatedEnvelope"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/update/{id}": {
			Put: &openapi.Operation{
				Summary:     "Overlay fields onto a record",
				Tags:        []string{"records"},
				Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Record ID")},
				RequestBody: openapi.RequestBodyJSON("Fields", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Updated record", "RecordEnvelope"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		"/{field}/{value}": {
			Get: &openapi.Operation{
				Summary:    "Find records by field value",
				Tags:       []string{"records"},
				Parameters: fieldParams,
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Matching records", "RecordListEnvelope"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
			Delete: &openapi.Operation{
				Summary:    "Delete the first record matching a field value",
				Tags:       []string{"records"},
				Parameters: fieldParams,
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Deleted", "Message"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
	}
}

func envelope(data *openapi.Schema) *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"message": {Type: "string"},
			"data":    data,
		},
		Required: []string{"message"},
	}
}
