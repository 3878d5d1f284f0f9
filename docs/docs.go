// Package docs POI Zoom Service API.
//
// Сервис подбора масштаба карты: находит масштаб, при котором вокруг опорной
// точки видно нужное число точек интереса. Спецификация отдаётся по /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@poi-zoom-service.dev"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/zoom/select": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Zoom"],
                "summary": "Подбор масштаба карты",
                "parameters": [
                    {
                        "description": "Опорная точка, радиус, цель и POI",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.ZoomSelectRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ZoomSelectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/zoom/demo": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Zoom"],
                "summary": "Демо подбора масштаба",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ZoomSelectResponse"}}
                }
            }
        },
        "/api/v1/zoom/range": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Zoom"],
                "summary": "Диапазон масштабов хоста",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ZoomRangeResponse"}}
                }
            }
        },
        "/api/v1/viewport/bounds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Viewport"],
                "summary": "Видимая область карты",
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "lon", "in": "query", "required": true},
                    {"type": "number", "name": "zoom", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/viewport/poi": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Viewport"],
                "summary": "POI в видимой области",
                "parameters": [
                    {"type": "number", "name": "sw_lat", "in": "query", "required": true},
                    {"type": "number", "name": "sw_lon", "in": "query", "required": true},
                    {"type": "number", "name": "ne_lat", "in": "query", "required": true},
                    {"type": "number", "name": "ne_lon", "in": "query", "required": true},
                    {"type": "string", "name": "categories", "in": "query"},
                    {"type": "integer", "default": 100, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/poi/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["POI"],
                "summary": "Категории POI",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Statistics"],
                "summary": "Get zoom selection statistics",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "dto.POIInput": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "dto.ZoomSelectRequest": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "radius_km": {"type": "number"},
                "target_count": {"type": "integer"},
                "min_zoom": {"type": "number"},
                "max_zoom": {"type": "number"},
                "categories": {"type": "array", "items": {"type": "string"}},
                "pois": {"type": "array", "items": {"$ref": "#/definitions/dto.POIInput"}}
            }
        },
        "dto.ZoomRangeResponse": {
            "type": "object",
            "properties": {
                "min_zoom": {"type": "number"},
                "max_zoom": {"type": "number"}
            }
        },
        "dto.ZoomSelectResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "zoom": {"type": "number"},
                "bounds": {"type": "object"},
                "matched": {"type": "array", "items": {"type": "object"}},
                "matched_count": {"type": "integer"},
                "reason": {
                    "type": "string",
                    "enum": ["target_reached_within_radius", "first_match_beyond_radius", "zoom_limit_reached"]
                },
                "queries": {"type": "integer"},
                "zoom_range": {"$ref": "#/definitions/dto.ZoomRangeResponse"},
                "cached": {"type": "boolean"}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "cached": {"type": "boolean"},
                "time_ms": {"type": "number"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/utils.Meta"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "POI Zoom Service API",
	Description:      "Подбор масштаба карты по точкам интереса вокруг опорной точки.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
