package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniLink API",
        "description": "University portal: registration, approval workflow and role dashboards",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and sessions"},
        {"name": "Registration", "description": "Public candidate registration"},
        {"name": "Portal", "description": "Role dashboards"},
        {"name": "Admin", "description": "Administrator operations"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login with service email or faculty number",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid identifier or password"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "302": {"description": "Redirect to login page"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registration/options": {
            "get": {
                "tags": ["Registration"],
                "summary": "Active specialties and open job postings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registration/student": {
            "post": {
                "tags": ["Registration"],
                "summary": "Submit a student registration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Pending approval", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "302": {"description": "Redirect to pending notice page"},
                    "400": {"description": "Validation failure with field messages"}
                }
            }
        },
        "/registration/lecturer": {
            "post": {
                "tags": ["Registration"],
                "summary": "Submit a lecturer registration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LecturerRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Pending approval", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "302": {"description": "Redirect to pending notice page"},
                    "400": {"description": "Validation failure with field messages"}
                }
            }
        },
        "/portal/dashboard": {
            "get": {
                "tags": ["Portal"],
                "summary": "Role dispatcher",
                "responses": {
                    "200": {"description": "Generic dashboard"},
                    "302": {"description": "Redirect to the role dashboard"}
                }
            }
        },
        "/portal/dashboard/student": {
            "get": {
                "tags": ["Portal"],
                "summary": "Student dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardView"}},
                    "302": {"description": "Role mismatch, back to dispatcher"}
                }
            }
        },
        "/portal/dashboard/lecturer": {
            "get": {
                "tags": ["Portal"],
                "summary": "Lecturer dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardView"}},
                    "302": {"description": "Role mismatch, back to dispatcher"}
                }
            }
        },
        "/admin/identities": {
            "get": {
                "tags": ["Admin"],
                "summary": "List identities",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "approved", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/identities/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get identity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update identity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateIdentityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/identities/approve": {
            "post": {
                "tags": ["Admin"],
                "summary": "Approve identities and issue credentials",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Processed count and issued credentials", "schema": {"$ref": "#/definitions/ApprovalResult"}}
                }
            }
        },
        "/admin/specialties": {
            "get": {
                "tags": ["Admin"],
                "summary": "List specialties",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create specialty",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SpecialtyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/specialties/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get specialty",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update specialty",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SpecialtyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete specialty (student choices are nulled)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/job-postings": {
            "get": {
                "tags": ["Admin"],
                "summary": "List job postings",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create job posting",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JobPostingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/admin/job-postings/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get job posting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update job posting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JobPostingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete job posting (applications cascade)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/applications/student": {
            "get": {
                "tags": ["Admin"],
                "summary": "List student applications",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/applications/student/{id}/status": {
            "put": {
                "tags": ["Admin"],
                "summary": "Move a student application through review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/admin/applications/student/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the student roster",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/admin/applications/lecturer": {
            "get": {
                "tags": ["Admin"],
                "summary": "List lecturer applications",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/applications/lecturer/{id}/status": {
            "put": {
                "tags": ["Admin"],
                "summary": "Move a lecturer application through review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/admin/applications/lecturer/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the lecturer roster",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "identifier": {"type": "string", "description": "Service email or faculty number"},
                "password": {"type": "string"}
            },
            "required": ["identifier", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "IdentityForm": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"}
            },
            "required": ["first_name", "last_name", "username"]
        },
        "StudentRegistrationRequest": {
            "type": "object",
            "properties": {
                "identity": {"$ref": "#/definitions/IdentityForm"},
                "application": {"$ref": "#/definitions/StudentApplicationForm"}
            }
        },
        "StudentApplicationForm": {
            "type": "object",
            "properties": {
                "egn": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "high_school": {"type": "string"},
                "gpa": {"type": "number"},
                "certificates": {"type": "string"},
                "first_choice_id": {"type": "string"},
                "second_choice_id": {"type": "string"},
                "third_choice_id": {"type": "string"},
                "motivation": {"type": "string"},
                "extra_info": {"type": "string"},
                "consent": {"type": "boolean"}
            },
            "required": ["egn", "date_of_birth", "phone", "address", "high_school", "gpa", "first_choice_id", "consent"]
        },
        "LecturerRegistrationRequest": {
            "type": "object",
            "properties": {
                "identity": {"$ref": "#/definitions/IdentityForm"},
                "application": {"$ref": "#/definitions/LecturerApplicationForm"}
            }
        },
        "LecturerApplicationForm": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "department": {"type": "string"},
                "education_path": {"type": "string"},
                "certifications": {"type": "string"},
                "memberships": {"type": "string"},
                "teaching_experience": {"type": "string"},
                "courses_taught": {"type": "string"},
                "research_publications": {"type": "string"},
                "job_posting_id": {"type": "string"},
                "motivation_goals": {"type": "string"},
                "document_notes": {"type": "string"},
                "statement_of_truth": {"type": "boolean"}
            },
            "required": ["title", "department", "education_path", "job_posting_id", "statement_of_truth"]
        },
        "UpdateIdentityRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "faculty_number": {"type": "string"},
                "service_email": {"type": "string"}
            },
            "required": ["first_name", "last_name"]
        },
        "ApproveRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["ids"]
        },
        "ApprovalResult": {
            "type": "object",
            "properties": {
                "processed": {"type": "integer"},
                "credentials": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/IssuedCredential"}
                }
            }
        },
        "IssuedCredential": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string", "description": "Plaintext, shown only in this response"}
            }
        },
        "SpecialtyRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "is_active": {"type": "boolean"}
            },
            "required": ["name"]
        },
        "JobPostingRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "is_open": {"type": "boolean"}
            },
            "required": ["title"]
        },
        "StatusChangeRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            },
            "required": ["status"]
        },
        "DashboardView": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "role": {"type": "string"},
                "full_name": {"type": "string"},
                "id_info": {"type": "string"},
                "notices": {"type": "array", "items": {"type": "string"}}
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
                "status": {"type": "integer"},
                "fields": {"type": "object"}
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
