// Package docs Property Service API.
//
// Каталог объектов аренды (квартиры, PG, хостелы) с модерацией и кешем локации:
// координаты адреса и ближайшие места по группам transportation / essentials / lifestyle.
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/properties": {
            "get": {
                "description": "Возвращает опубликованные объекты с комнатами и кроватями. Все фильтры объединяются через AND.",
                "produces": ["application/json"],
                "tags": ["Properties"],
                "summary": "Поиск объектов",
                "parameters": [
                    {"type": "string", "description": "Город (подстрока, без учёта регистра)", "name": "city", "in": "query"},
                    {"enum": ["Flat", "PG", "Hostel", "All"], "type": "string", "description": "Тип объекта", "name": "type", "in": "query"},
                    {"type": "string", "description": "Поиск по адресу, городу и штату", "name": "q", "in": "query"},
                    {"type": "number", "description": "Минимальная цена за комнату", "name": "min_price", "in": "query"},
                    {"type": "number", "description": "Максимальная цена за комнату", "name": "max_price", "in": "query"},
                    {"type": "number", "description": "Минимальный рейтинг", "name": "min_rating", "in": "query"},
                    {"type": "integer", "description": "Минимум звёзд", "name": "stars_min", "in": "query"},
                    {"type": "string", "description": "Удобства через запятую (wifi,elevator,geyser,ac,parking)", "name": "amenities", "in": "query"},
                    {"type": "boolean", "description": "Только с бесплатной отменой", "name": "free_cancellation", "in": "query"},
                    {"type": "boolean", "description": "Только с оплатой на месте", "name": "pay_at_property", "in": "query"},
                    {"type": "boolean", "description": "Только с завтраком", "name": "breakfast_included", "in": "query"},
                    {"type": "number", "description": "Максимальное расстояние до центра, км", "name": "max_distance_km", "in": "query"},
                    {"enum": ["price_asc", "price_desc", "rating_desc", "newest", "distance_asc"], "type": "string", "description": "Сортировка", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Создаёт объект в статусе \"на модерации\" и ставит его локацию в очередь на обогащение",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Properties"],
                "summary": "Новый объект",
                "parameters": [
                    {"description": "Объект", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreatePropertyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/properties/{id}": {
            "get": {
                "description": "Возвращает объект с комнатами и кроватями в любом статусе модерации",
                "produces": ["application/json"],
                "tags": ["Properties"],
                "summary": "Объект по ID",
                "parameters": [
                    {"type": "string", "description": "ID объекта (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/properties/{id}/approval": {
            "patch": {
                "description": "approved=true публикует объект, approved=false отклоняет его",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Properties"],
                "summary": "Модерация объекта",
                "parameters": [
                    {"type": "string", "description": "ID объекта (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "Решение", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetApprovalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/properties/{id}/location": {
            "get": {
                "description": "Координаты и ближайшие места по группам. Данные моложе 24 часов отдаются из кеша без внешних вызовов.",
                "produces": ["application/json"],
                "tags": ["Location"],
                "summary": "Локация объекта",
                "parameters": [
                    {"type": "string", "description": "ID объекта (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Адрес не удалось геокодировать", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/properties/{id}/location/refresh": {
            "post": {
                "description": "Пересчитывает координаты и места рядом независимо от свежести кеша",
                "produces": ["application/json"],
                "tags": ["Location"],
                "summary": "Принудительное обновление локации",
                "parameters": [
                    {"type": "string", "description": "ID объекта (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Адрес не удалось геокодировать", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreatePropertyRequest": {
            "type": "object",
            "required": ["owner_id", "name", "property_type", "address", "city"],
            "properties": {
                "owner_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "property_type": {"type": "string", "enum": ["Flat", "PG", "Hostel"]},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "zip_code": {"type": "string"},
                "price_per_room": {"type": "number"},
                "property_stars": {"type": "integer"},
                "distance_to_center_km": {"type": "number"},
                "wifi_available": {"type": "boolean"},
                "free_cancellation": {"type": "boolean"},
                "pay_at_property": {"type": "boolean"},
                "breakfast_included": {"type": "boolean"},
                "amenities": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "rooms": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.SetApprovalRequest": {
            "type": "object",
            "required": ["approved"],
            "properties": {
                "approved": {"type": "boolean"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
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
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Property Service API",
	Description:      "Каталог объектов аренды с модерацией и кешем локации",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
