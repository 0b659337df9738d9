package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Facility API",
        "description": "Scheduling and reservation backend for campus rooms and equipment",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session handling"},
        {"name": "Semesters", "description": "Academic term management"},
        {"name": "Rooms", "description": "Room catalogue and timetables"},
        {"name": "Schedules", "description": "Fixed weekly schedules"},
        {"name": "RoomReservations", "description": "Ad-hoc room bookings"},
        {"name": "EquipmentReservations", "description": "Equipment loans"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/semesters": {
            "get": {
                "tags": ["Semesters"],
                "summary": "List semesters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Semesters"],
                "summary": "Create semester",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SemesterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{id}/activate": {
            "post": {
                "tags": ["Semesters"],
                "summary": "Activate a semester, deactivating the rest",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Activated"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Create a fixed weekly schedule with conflict detection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlaps an existing schedule"}
                }
            }
        },
        "/rooms/{id}/timetable": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Merged timetable of occurrences and approved reservations",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No active semester"}
                }
            }
        },
        "/reservations/rooms/{id}/approve": {
            "post": {
                "tags": ["RoomReservations"],
                "summary": "Approve a pending room reservation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "204": {"description": "Approved"},
                    "409": {"description": "Conflicting approved reservation or invalid transition"}
                }
            }
        },
        "/reservations/equipment/{id}/borrow": {
            "post": {
                "tags": ["EquipmentReservations"],
                "summary": "Mark an approved loan as picked up",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "204": {"description": "Borrowed"},
                    "409": {"description": "Invalid transition"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "SemesterRequest": {
            "type": "object",
            "properties": {
                "term": {"type": "string"},
                "school_year": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            },
            "required": ["term", "school_year", "start_date", "end_date"]
        },
        "CreateScheduleRequest": {
            "type": "object",
            "properties": {
                "room_id": {"type": "string"},
                "semester_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "instructor_id": {"type": "string"},
                "section_id": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "days": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["room_id", "semester_id", "subject_id", "instructor_id", "section_id", "start_time", "end_time", "days"]
        },
        "TransitionRequest": {
            "type": "object",
            "properties": {
                "actor_id": {"type": "string"},
                "requester_name": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
