// Package docs is generated by Swag CLI; run `swag init -g cmd/quill/main.go`
// after changing handler annotations.
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
        "/api/v1/feed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Global feed",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/feed/following": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Following feed",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/groups/{slug}/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Group feed",
                "parameters": [
                    {"type": "string", "description": "group slug", "name": "slug", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/users/{username}/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Profile feed",
                "parameters": [
                    {"type": "string", "description": "author username", "name": "username", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/users/{username}/followers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["relations"],
                "summary": "List followers",
                "parameters": [
                    {"type": "string", "description": "author username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/users/{username}/following": {
            "get": {
                "produces": ["application/json"],
                "tags": ["relations"],
                "summary": "List following",
                "parameters": [
                    {"type": "string", "description": "username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/relations/follow": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["relations"],
                "summary": "Follow an author",
                "parameters": [
                    {"description": "author to follow", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.followRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/relations/unfollow": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["relations"],
                "summary": "Unfollow an author",
                "parameters": [
                    {"description": "author to unfollow", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.followRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handler.followRequest": {
            "type": "object",
            "required": ["author"],
            "properties": {
                "author": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Quill API",
	Description:      "JSON surface of the Quill blog service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
