package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Plan API",
        "description": "Calendar-aware adaptive study block scheduler",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Plan generation and calendar metadata"},
        {"name": "Learning", "description": "Feedback ingestion and preference adaptation"}
    ],
    "paths": {
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Generate the study plan",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer", "description": "Horizon length in days (1-14)"},
                    {"name": "calendars", "in": "query", "type": "string", "description": "Comma separated calendar names to respect"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleResponse"}}
                }
            }
        },
        "/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Download the plan as CSV or PDF",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"},
                    {"name": "calendars", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/calendars": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List known calendars",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CalendarsResponse"}}
                }
            }
        },
        "/feedback": {
            "post": {
                "tags": ["Learning"],
                "summary": "Record what happened to a scheduled block",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/learning/run": {
            "post": {
                "tags": ["Learning"],
                "summary": "Trigger an adaptation pass",
                "parameters": [
                    {"name": "force", "in": "query", "type": "boolean", "description": "Bypass the cooldown"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/preferences": {
            "get": {
                "tags": ["Learning"],
                "summary": "Read the learned scheduling preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Learning"],
                "summary": "Override the learned scheduling preferences",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreferencesPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TimeBlock": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "kind": {"type": "string", "enum": ["task", "fixed"]},
                "assignment_id": {"type": "string"},
                "locked": {"type": "boolean"}
            }
        },
        "FixedEventView": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"}
            }
        },
        "OverflowEntry": {
            "type": "object",
            "properties": {
                "task_id": {"type": "string"},
                "title": {"type": "string"},
                "remaining_minutes": {"type": "integer"}
            }
        },
        "ScheduleResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "days": {"type": "integer"},
                "calendars_used": {"type": "array", "items": {"type": "string"}},
                "generated_blocks": {"type": "integer"},
                "time_blocks": {"type": "array", "items": {"$ref": "#/definitions/TimeBlock"}},
                "fixed_events": {"type": "array", "items": {"$ref": "#/definitions/FixedEventView"}},
                "overflow": {"type": "array", "items": {"$ref": "#/definitions/OverflowEntry"}}
            }
        },
        "CalendarsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "calendars": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {"type": "string"},
                            "url": {"type": "string"}
                        }
                    }
                }
            }
        },
        "FeedbackRequest": {
            "type": "object",
            "properties": {
                "blockId": {"type": "string"},
                "taskId": {"type": "string"},
                "type": {"type": "string"},
                "courseId": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "completion": {"type": "number"},
                "action": {"type": "string", "enum": ["kept", "rescheduled", "deleted", "shortened", "extended"]}
            },
            "required": ["blockId", "taskId", "start", "end", "action"]
        },
        "PreferencesPayload": {
            "type": "object",
            "properties": {
                "weights": {
                    "type": "object",
                    "properties": {
                        "urgency": {"type": "number"},
                        "importance": {"type": "number"},
                        "difficulty": {"type": "number"},
                        "size": {"type": "number"}
                    }
                },
                "learnedEnergyProfile": {"type": "object"},
                "preferredBlockLengthByType": {"type": "object"},
                "courseBias": {"type": "object"},
                "lastAdaptationAt": {"type": "string"}
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
