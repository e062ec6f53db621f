// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/assistant/messages": {
            "post": {
                "description": "Resolves one message into at most one change to tasks, events, the budget or the shopping list and returns the reply. Re-sending a turn_id returns the original answer.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Assistant"],
                "summary": "Send a message to the household assistant",
                "parameters": [
                    {"type": "string", "description": "Member id", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "admin, parent or child", "name": "X-User-Role", "in": "header", "required": true},
                    {"type": "string", "description": "Family workspace id", "name": "X-Workspace-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Conversation id, when not given in the body", "name": "X-Session-ID", "in": "header"},
                    {"description": "Message", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.messageReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.messageResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "409": {"description": "Session ended", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Resp"}}
                }
            }
        },
        "/api/v1/assistant/sessions/{id}": {
            "delete": {
                "description": "Abandons any message still being handled for the session of the caller's workspace and forgets its context.",
                "produces": ["application/json"],
                "tags": ["Assistant"],
                "summary": "End a conversation",
                "parameters": [
                    {"type": "string", "description": "Member id", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Family workspace id", "name": "X-Workspace-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Resp"}}
                }
            }
        },
        "/health": {"get": {"tags": ["Health"], "summary": "Health Check", "produces": ["application/json"], "responses": {"200": {"description": "API is healthy"}}}},
        "/live": {"get": {"tags": ["Health"], "summary": "Liveness Check", "produces": ["application/json"], "responses": {"200": {"description": "API is alive"}}}},
        "/ready": {"get": {"tags": ["Health"], "summary": "Readiness Check", "produces": ["application/json"], "responses": {"200": {"description": "API is ready"}, "503": {"description": "A dependency is down"}}}}
    },
    "definitions": {
        "http.messageReq": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "text": {"type": "string", "maxLength": 2000},
                "turn_id": {"type": "integer", "minimum": 0}
            }
        },
        "http.messageResp": {
            "type": "object",
            "properties": {
                "applied_action": {"$ref": "#/definitions/http.actionResp"},
                "budget": {"$ref": "#/definitions/http.budgetResp"},
                "outcome": {"$ref": "#/definitions/http.outcomeResp"},
                "replayed": {"type": "boolean"},
                "reply": {"type": "string"},
                "session_id": {"type": "string"},
                "turn_id": {"type": "integer"}
            }
        },
        "http.outcomeResp": {
            "type": "object",
            "properties": {
                "affected": {"type": "integer"},
                "entity_id": {"type": "string"},
                "entity_title": {"type": "string"},
                "entity_type": {"type": "string"},
                "error_kind": {"type": "string"},
                "field": {"type": "string"},
                "kind": {"type": "string"}
            }
        },
        "http.actionResp": {
            "type": "object",
            "properties": {
                "confidence": {"type": "number"},
                "fields": {"type": "object", "additionalProperties": true},
                "intent": {"type": "string"},
                "source": {"type": "string"}
            }
        },
        "http.budgetResp": {
            "type": "object",
            "properties": {
                "balance": {"type": "number"},
                "by_category": {"type": "object", "additionalProperties": {"type": "number"}},
                "entries": {"type": "integer"},
                "expenses": {"type": "number"},
                "income": {"type": "number"},
                "period": {"type": "string"}
            }
        },
        "response.Resp": {
            "type": "object",
            "properties": {
                "data": {},
                "error_code": {"type": "integer"},
                "errors": {},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1",
	Host:             "localhost:8080",
	BasePath:         "",
	Schemes:          []string{"http"},
	Title:            "Family Hub Assistant API",
	Description:      "Natural-language assistant for a family's tasks, events, budget and shopping list.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
