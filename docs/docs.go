// Package docs registra la spec OpenAPI servida en /swagger/*. Mantener en
// sync con las anotaciones @Router de los handlers (swag init -g cmd/api/main.go).
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
        "/prescriptions": {
            "post": {
                "tags": ["prescriptions"], "summary": "Crear prescripción",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/prescriptions.createPrescriptionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/prescriptions.prescriptionResponse"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            },
            "get": {
                "tags": ["prescriptions"], "summary": "Listar prescripciones (propias o de un usuario vinculado)",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "owner", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/prescriptions.prescriptionResponse"}}}, "403": {"description": "Forbidden"}}
            }
        },
        "/prescriptions/{id}": {
            "get": {
                "tags": ["prescriptions"], "summary": "Obtener prescripción", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/prescriptions.prescriptionResponse"}}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["prescriptions"], "summary": "Borrar prescripción y cancelar sus recordatorios",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/doses/{date}": {
            "get": {
                "tags": ["doses"], "summary": "Markers de dosis tomadas en una fecha", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "date", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/doses.takenResponse"}}}}
            }
        },
        "/doses/{date}/{prescriptionID}/{time}": {
            "put": {
                "tags": ["doses"], "summary": "Marcar dosis de hoy como tomada", "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "date", "required": true, "type": "string"},
                    {"in": "path", "name": "prescriptionID", "required": true, "type": "string"},
                    {"in": "path", "name": "time", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/doses.takenResponse"}}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "tags": ["doses"], "summary": "Desmarcar dosis de hoy",
                "parameters": [
                    {"in": "path", "name": "date", "required": true, "type": "string"},
                    {"in": "path", "name": "prescriptionID", "required": true, "type": "string"},
                    {"in": "path", "name": "time", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}
            }
        },
        "/schedule": {
            "get": {
                "tags": ["calendar"], "summary": "Vista semanal de dosis", "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "start", "type": "string"},
                    {"in": "query", "name": "days", "type": "integer"},
                    {"in": "query", "name": "owner", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/calendar.weekResponse"}}, "403": {"description": "Forbidden"}}
            }
        },
        "/calendar.ics": {
            "get": {
                "tags": ["calendar"], "summary": "Exportar prescripciones como iCalendar", "produces": ["text/calendar"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/invitations": {
            "post": {
                "tags": ["invitations"], "summary": "Invitar a otro usuario", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/invitations.sendInvitationRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/invitations.invitationResponse"}}, "400": {"description": "Bad Request"}}
            }
        },
        "/invitations/sent": {
            "get": {"tags": ["invitations"], "summary": "Invitaciones enviadas", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/invitations.invitationResponse"}}}}}
        },
        "/invitations/{invitationID}/accept": {
            "post": {"tags": ["invitations"], "summary": "Aceptar invitación", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "invitationID", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/invitations.invitationResponse"}}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/invitations/{invitationID}/decline": {
            "post": {"tags": ["invitations"], "summary": "Rechazar invitación", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "invitationID", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/invitations.invitationResponse"}}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/me/invitations": {
            "get": {"tags": ["invitations"], "summary": "Invitaciones pendientes recibidas", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/invitations.invitationResponse"}}}}}
        },
        "/me/links": {
            "get": {"tags": ["invitations"], "summary": "Usuarios vinculados", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/invitations.linksResponse"}}}}
        },
        "/me/notifications": {
            "get": {"tags": ["reminders"], "summary": "Permiso de notificaciones", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/reminders.permissionResponse"}}}},
            "put": {"tags": ["reminders"], "summary": "Cambiar permiso de notificaciones", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/reminders.permissionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/reminders.permissionResponse"}}, "400": {"description": "Bad Request"}}}
        },
        "/ws/notifications": {
            "get": {"tags": ["reminders"], "summary": "WebSocket de recordatorios (acepta ?access_token=)",
                "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}}}
        }
    },
    "definitions": {
        "prescriptions.createPrescriptionRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "dosage": {"type": "string"},
            "frequency": {"type": "string", "enum": ["daily", "every-2-days", "weekly"]},
            "start_date": {"type": "string"}, "end_date": {"type": "string"},
            "times_per_day": {"type": "array", "items": {"type": "string"}}}},
        "prescriptions.prescriptionResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "owner": {"type": "string"}, "name": {"type": "string"}, "dosage": {"type": "string"},
            "frequency": {"type": "string"}, "start_date": {"type": "string"}, "end_date": {"type": "string"},
            "times_per_day": {"type": "array", "items": {"type": "string"}},
            "schema_version": {"type": "integer"}, "created_at": {"type": "string"}}},
        "doses.takenResponse": {"type": "object", "properties": {
            "key": {"type": "string"}, "owner": {"type": "string"}, "date": {"type": "string"},
            "prescription_id": {"type": "string"}, "time": {"type": "string"}, "taken_at": {"type": "string"}}},
        "calendar.eventResponse": {"type": "object", "properties": {
            "prescription_id": {"type": "string"}, "name": {"type": "string"}, "dosage": {"type": "string"},
            "time": {"type": "string"}, "text": {"type": "string"}, "key": {"type": "string"},
            "taken": {"type": "boolean"}, "can_mark": {"type": "boolean"}}},
        "calendar.dayResponse": {"type": "object", "properties": {
            "date": {"type": "string"}, "events": {"type": "array", "items": {"$ref": "#/definitions/calendar.eventResponse"}}}},
        "calendar.weekResponse": {"type": "object", "properties": {
            "owner": {"type": "string"}, "viewer": {"type": "string"}, "today": {"type": "string"},
            "days": {"type": "array", "items": {"$ref": "#/definitions/calendar.dayResponse"}}}},
        "invitations.sendInvitationRequest": {"type": "object", "properties": {"to": {"type": "string"}}},
        "invitations.invitationResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "from": {"type": "string"}, "to": {"type": "string"},
            "status": {"type": "string", "enum": ["pending", "accepted", "declined"]},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "invitations.linksResponse": {"type": "object", "properties": {
            "linked_users": {"type": "array", "items": {"type": "string"}}}},
        "reminders.permissionRequest": {"type": "object", "properties": {
            "permission": {"type": "string", "enum": ["default", "granted", "denied"]}}},
        "reminders.permissionResponse": {"type": "object", "properties": {
            "permission": {"type": "string"}, "scheduled": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "med-reminder API",
	Description:      "Prescripciones, dosis tomadas, vínculos entre usuarios y recordatorios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
