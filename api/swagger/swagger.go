package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Exam Sessions API",
        "description": "Exam session scheduling, capacity-bounded enrollment and grade recording",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Exams", "description": "Exam session catalog"},
        {"name": "Enrollments", "description": "Capacity-bounded enrollment ledger"},
        {"name": "Grades", "description": "Append-only grade book and statistics"}
    ],
    "paths": {
        "/exams": {
            "get": {
                "tags": ["Exams"],
                "summary": "List exam sessions",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "integer"},
                    {"name": "teacherId", "in": "query", "type": "integer"},
                    {"name": "startDate", "in": "query", "type": "string"},
                    {"name": "endDate", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "string"},
                    {"name": "size", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Exams"],
                "summary": "Schedule an exam session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleExamRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/exams/calendar": {
            "get": {
                "tags": ["Exams"],
                "summary": "Public exam calendar",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/available": {
            "get": {
                "tags": ["Exams"],
                "summary": "Sessions open for enrollment",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}": {
            "get": {
                "tags": ["Exams"],
                "summary": "Exam session detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/exams/{id}/exists": {
            "get": {
                "tags": ["Exams"],
                "summary": "Existence probe for integrations",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/exams/{id}/status": {
            "patch": {
                "tags": ["Exams"],
                "summary": "Administrative status transition",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Transition not allowed"}
                }
            }
        },
        "/exams/{id}/enroll": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Capacity exceeded or duplicate enrollment"},
                    "404": {"description": "Exam not found"}
                }
            }
        },
        "/enrollments/{id}": {
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Cancel an enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Cancelled"},
                    "400": {"description": "Already cancelled"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/exams/{id}/grades": {
            "post": {
                "tags": ["Grades"],
                "summary": "Record a grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordGradeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid grade"},
                    "404": {"description": "Exam not found"}
                }
            }
        },
        "/grades/course/{courseId}/statistics": {
            "get": {
                "tags": ["Grades"],
                "summary": "Per-course grade statistics",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "ScheduleExamRequest": {
            "type": "object",
            "required": ["course_id", "teacher_id", "exam_date", "capacity"],
            "properties": {
                "course_id": {"type": "integer"},
                "course_name": {"type": "string"},
                "teacher_id": {"type": "integer"},
                "teacher_name": {"type": "string"},
                "exam_date": {"type": "string"},
                "exam_time": {"type": "string"},
                "location": {"type": "string"},
                "capacity": {"type": "integer", "minimum": 1}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "integer"},
                "student_name": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "RecordGradeRequest": {
            "type": "object",
            "required": ["student_id", "grade"],
            "properties": {
                "student_id": {"type": "integer"},
                "student_name": {"type": "string"},
                "enrollment_id": {"type": "integer"},
                "grade": {"type": "integer", "minimum": 18, "maximum": 30},
                "with_honors": {"type": "boolean"},
                "notes": {"type": "string"},
                "feedback": {"type": "string"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
