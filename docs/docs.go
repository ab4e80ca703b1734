// Package docs registers the OpenAPI description of the address verification
// API with swag so echo-swagger can serve it under /swagger.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new viewer account",
                "parameters": [
                    {
                        "description": "User registration details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.registerRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/users": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create a user with any role (admin only)",
                "parameters": [
                    {
                        "description": "User details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.createUserRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        },
        "/v1/locations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores the address and, when enabled, queues an automatic verification.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Create a location",
                "parameters": [
                    {
                        "description": "Location address",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.createLocationRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.createLocationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/locations/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Get a location",
                "parameters": [
                    {"type": "string", "description": "Location ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.locationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/locations/{id}/attempts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "List verification attempts",
                "parameters": [
                    {"type": "string", "description": "Location ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum attempts to return (default 20, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listAttemptsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/locations/{id}/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Standardizes and geocodes the location synchronously. Ineligible locations return verified=false with an empty result.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Verify a location now",
                "parameters": [
                    {"type": "string", "description": "Location ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Verification options",
                        "name": "body",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handler.verifyLocationRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.verifyLocationResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["viewer"]}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "required": ["username", "password", "role"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "operator", "viewer"]}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}}
            }
        },
        "handler.createLocationRequest": {
            "type": "object",
            "required": ["country"],
            "properties": {
                "street1": {"type": "string"},
                "street2": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "postal_code": {"type": "string"},
                "country": {"type": "string"},
                "is_geo_point_locked": {"type": "boolean"}
            }
        },
        "handler.verifyLocationRequest": {
            "type": "object",
            "properties": {"re_verify": {"type": "boolean"}}
        },
        "handler.coordinatesResponse": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "handler.attemptStampResponse": {
            "type": "object",
            "properties": {
                "service_type": {"type": "string"},
                "attempted_at": {"type": "string"},
                "result": {"type": "string"},
                "completed_at": {"type": "string"}
            }
        },
        "handler.locationLinks": {
            "type": "object",
            "properties": {
                "self": {"type": "string"},
                "verify": {"type": "string"},
                "attempts": {"type": "string"}
            }
        },
        "handler.locationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "street1": {"type": "string"},
                "street2": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "postal_code": {"type": "string"},
                "country": {"type": "string"},
                "geo_point": {"$ref": "#/definitions/handler.coordinatesResponse"},
                "is_geo_point_locked": {"type": "boolean"},
                "standardize": {"$ref": "#/definitions/handler.attemptStampResponse"},
                "geocode": {"$ref": "#/definitions/handler.attemptStampResponse"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "_links": {"$ref": "#/definitions/handler.locationLinks"}
            }
        },
        "handler.createLocationResponse": {
            "type": "object",
            "properties": {
                "location": {"$ref": "#/definitions/handler.locationResponse"},
                "verification": {"type": "string"}
            }
        },
        "handler.verifyLocationResponse": {
            "type": "object",
            "properties": {
                "verified": {"type": "boolean"},
                "result": {"type": "string"},
                "location": {"$ref": "#/definitions/handler.locationResponse"}
            }
        },
        "handler.attemptResponse": {
            "type": "object",
            "properties": {
                "service_type": {"type": "string"},
                "re_verify": {"type": "boolean"},
                "verified": {"type": "boolean"},
                "result": {"type": "string"},
                "error": {"type": "string"},
                "source": {"type": "string"},
                "attempted_at": {"type": "string"}
            }
        },
        "handler.listAttemptsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.attemptResponse"}}
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
	Title:            "Address Verification API",
	Description:      "Stores postal locations and standardizes and geocodes them through Postcoder Web.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
