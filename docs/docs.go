// Package docs registers the FabStock OpenAPI document with swag.
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
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {"get": {"tags": ["Health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Store not ready"}}}},
        "/api/auth/login": {"post": {"tags": ["Auth"], "summary": "Sign in", "responses": {"200": {"description": "Session"}, "202": {"description": "Link sent"}, "401": {"description": "Unknown member"}}}},
        "/api/auth/verify": {"get": {"tags": ["Auth"], "summary": "Confirm a sign-in link", "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "Session"}, "401": {"description": "Invalid link"}, "403": {"description": "Not a team member"}}}},
        "/api/auth/me": {"get": {"tags": ["Auth"], "summary": "Current member", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Member"}}}},
        "/api/dashboard": {"get": {"tags": ["Dashboard"], "summary": "Inventory dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Statistics"}}}},
        "/api/items": {
            "get": {"tags": ["Inventory"], "summary": "List items", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Items"}}},
            "post": {"tags": ["Inventory"], "summary": "Create an item", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid"}, "403": {"description": "Forbidden"}}}
        },
        "/api/items/export": {"get": {"tags": ["Inventory"], "summary": "Export inventory as XLSX", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Workbook"}}}},
        "/api/items/{id}": {
            "get": {"tags": ["Inventory"], "summary": "Get an item", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Item"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Inventory"], "summary": "Update an item", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated"}}},
            "delete": {"tags": ["Inventory"], "summary": "Delete an item", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}}}
        },
        "/api/items/{id}/adjust": {"post": {"tags": ["Inventory"], "summary": "Adjust stock", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Adjusted"}, "403": {"description": "Forbidden"}}}},
        "/api/items/{id}/history": {"get": {"tags": ["Inventory"], "summary": "Stock movements, newest first", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "History"}}}},
        "/api/machines": {
            "get": {"tags": ["Machines"], "summary": "List machines", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Machines"}}},
            "post": {"tags": ["Machines"], "summary": "Create a machine", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/machines/{id}": {
            "put": {"tags": ["Machines"], "summary": "Update a machine", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated"}}},
            "delete": {"tags": ["Machines"], "summary": "Delete a machine", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}}}
        },
        "/api/tickets": {
            "get": {"tags": ["Maintenance"], "summary": "List tickets", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Tickets"}}},
            "post": {"tags": ["Maintenance"], "summary": "Open a ticket", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/tickets/{id}": {
            "put": {"tags": ["Maintenance"], "summary": "Update a ticket", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated"}, "409": {"description": "Ticket closed"}}},
            "delete": {"tags": ["Maintenance"], "summary": "Delete a ticket", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}}}
        },
        "/api/tickets/{id}/start": {"post": {"tags": ["Maintenance"], "summary": "Start a ticket", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Started"}, "409": {"description": "Invalid transition"}}}},
        "/api/tickets/{id}/close": {"post": {"tags": ["Maintenance"], "summary": "Close a ticket", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Closed"}, "409": {"description": "Invalid transition"}}}},
        "/api/team": {
            "get": {"tags": ["Team"], "summary": "List members", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Members"}}},
            "post": {"tags": ["Team"], "summary": "Add a member", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/api/team/{id}": {
            "patch": {"tags": ["Team"], "summary": "Update a member", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated"}}},
            "delete": {"tags": ["Team"], "summary": "Delete a member", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}}}
        },
        "/api/team/{id}/invite": {"post": {"tags": ["Team"], "summary": "Resend the invitation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Sent"}, "412": {"description": "Email not configured"}}}},
        "/api/assistant/extract": {"post": {"tags": ["Assistant"], "summary": "Suggest an item from free text", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Suggestion"}, "412": {"description": "No API key"}, "429": {"description": "Rate limited"}}}},
        "/api/assistant/advice": {"post": {"tags": ["Assistant"], "summary": "Ask the inventory assistant", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Answer"}, "429": {"description": "Rate limited"}}}},
        "/api/sync/status": {"get": {"tags": ["Sync"], "summary": "Synchronization status", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Status"}}}},
        "/api/sync/upload": {"post": {"tags": ["Sync"], "summary": "Copy local data to the remote backend", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Uploaded"}, "412": {"description": "Remote not configured"}, "502": {"description": "Remote failure"}}}},
        "/api/sync/download": {"post": {"tags": ["Sync"], "summary": "Copy remote data to local storage", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Downloaded"}, "412": {"description": "Remote not configured"}, "502": {"description": "Remote failure"}}}},
        "/api/settings": {
            "get": {"tags": ["Sync"], "summary": "Current settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Settings"}}},
            "patch": {"tags": ["Sync"], "summary": "Update settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Saved"}, "400": {"description": "Invalid mode"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FabStock API",
	Description:      "Inventory, machines and maintenance for a fab lab, with local or shared remote storage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
