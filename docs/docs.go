// Package docs holds the Swagger 2.0 document served at /swagger/index.html.
// It mirrors the swag annotations on the handlers; `swag init -g cmd/main.go`
// regenerates it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "List all books",
                "responses": {
                    "200": {"description": "books keyed by ISBN", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/async/author/{author}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books-async"],
                "summary": "Find books by author (status envelope)",
                "parameters": [
                    {"type": "string", "description": "Author name", "name": "author", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/async/books": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books-async"],
                "summary": "List all books (status envelope)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/async/title/{title}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books-async"],
                "summary": "Find books by title (status envelope)",
                "parameters": [
                    {"type": "string", "description": "Title fragment", "name": "title", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter the audit trail by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and username. A date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["activity"],
                "summary": "List activity",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range; date-only treated as end of day", "name": "to", "in": "query"},
                    {"enum": ["USER_REGISTERED", "USER_LOGGED_IN", "REVIEW_SET", "REVIEW_DELETED"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "string", "description": "Only events of this user", "name": "username", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/review/{isbn}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Add or modify the caller's review",
                "parameters": [
                    {"type": "string", "description": "ISBN key", "name": "isbn", "in": "path", "required": true},
                    {"description": "Review payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.reviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Delete the caller's review",
                "parameters": [
                    {"type": "string", "description": "ISBN key", "name": "isbn", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/author/{author}": {
            "get": {
                "description": "Case-insensitive exact match on the author name.",
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Find books by author",
                "parameters": [
                    {"type": "string", "description": "Author name", "name": "author", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/isbn/{isbn}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Get a book by ISBN",
                "parameters": [
                    {"type": "string", "description": "ISBN key", "name": "isbn", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Sets the session cookie and returns the same token for Bearer use.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}
                ],
                "responses": {
                    "200": {"description": "message, token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/logout": {
            "post": {
                "description": "Clears the session cookie. Issued tokens stay valid until they expire.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/promise/isbn/{isbn}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books-async"],
                "summary": "Get a book by ISBN (status envelope)",
                "parameters": [
                    {"type": "string", "description": "ISBN key", "name": "isbn", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/review/{isbn}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Get reviews of a book",
                "parameters": [
                    {"type": "string", "description": "ISBN key", "name": "isbn", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/title/{title}": {
            "get": {
                "description": "Case-insensitive substring match on the title.",
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Find books by title",
                "parameters": [
                    {"type": "string", "description": "Title fragment", "name": "title", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws/review/{isbn}": {
            "get": {
                "description": "Upgrades to WebSocket and pushes a reviews frame (isbn and reviews) now and every interval.",
                "tags": ["reviews"],
                "summary": "Stream reviews of a book",
                "parameters": [
                    {"type": "string", "description": "ISBN key", "name": "isbn", "in": "path", "required": true},
                    {"type": "string", "example": "2s", "description": "Go duration, max 10s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Milliseconds, max 10000", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "pw1"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "handlers.reviewRequest": {
            "type": "object",
            "required": ["review"],
            "properties": {
                "review": {"type": "string", "example": "A timeless classic."}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Book Catalog API",
	Description:      "Book metadata and per-user reviews with session-gated writes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
