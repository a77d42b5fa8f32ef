package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "RoadSide+ Backend",
    "description": "Dataset export, dataset storage and assistant endpoints for the RoadSide+ admin dashboard",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {
      "get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}
    },
    "/api/export": {
      "post": {"tags": ["export"], "summary": "Export a dataset",
        "consumes": ["application/json"], "produces": ["text/csv", "application/pdf"],
        "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}],
        "responses": {"200": {"description": "Document"}, "400": {"description": "Missing parameter or unsupported format", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "500": {"description": "Serialization failure", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
    },
    "/api/datasets/{dataType}": {
      "get": {"tags": ["datasets"], "summary": "List stored records", "produces": ["application/json"],
        "parameters": [{"in": "path", "name": "dataType", "required": true, "type": "string"}, {"in": "query", "name": "limit", "type": "integer"}],
        "responses": {"200": {"description": "Records"}, "400": {"description": "Unknown dataset"}, "503": {"description": "No database"}}},
      "post": {"tags": ["datasets"], "summary": "Store records", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "path", "name": "dataType", "required": true, "type": "string"}, {"in": "query", "name": "replace", "type": "boolean"},
          {"in": "header", "name": "X-Admin-Key", "type": "string"}],
        "responses": {"200": {"description": "Stored"}, "400": {"description": "Invalid request"}, "503": {"description": "No database"}}}
    },
    "/api/datasets/{dataType}/export": {
      "get": {"tags": ["datasets"], "summary": "Export stored records", "produces": ["text/csv", "application/pdf"],
        "parameters": [{"in": "path", "name": "dataType", "required": true, "type": "string"}, {"in": "query", "name": "format", "required": true, "type": "string"}],
        "responses": {"200": {"description": "Document"}, "400": {"description": "Invalid request"}, "503": {"description": "No database"}}}
    },
    "/api/assistant/diagnose": {
      "post": {"tags": ["assistant"], "summary": "Diagnose an error", "consumes": ["application/json"], "produces": ["application/json"],
        "responses": {"200": {"description": "Diagnosis"}, "429": {"description": "Rate limited"}, "502": {"description": "Provider error"}}}
    },
    "/api/assistant/review": {
      "post": {"tags": ["assistant"], "summary": "Review code", "consumes": ["application/json"], "produces": ["application/json"],
        "responses": {"200": {"description": "Review"}, "429": {"description": "Rate limited"}, "502": {"description": "Provider error"}}}
    },
    "/api/assistant/chat": {
      "post": {"tags": ["assistant"], "summary": "Chat with the assistant", "consumes": ["application/json"], "produces": ["application/json"],
        "responses": {"200": {"description": "Answer"}, "429": {"description": "Rate limited"}, "502": {"description": "Provider error"}}}
    }
  },
  "definitions": {
    "ExportRequest": {
      "type": "object",
      "required": ["dataType", "format", "data"],
      "properties": {
        "dataType": {"type": "string", "example": "customers"},
        "format": {"type": "string", "enum": ["csv", "pdf"]},
        "data": {"type": "array", "items": {"type": "object"}},
        "filters": {"type": "object"}
      }
    },
    "ErrorResponse": {
      "type": "object",
      "properties": {
        "error": {"type": "string"},
        "code": {"type": "string"},
        "details": {}
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
