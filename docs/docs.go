// Package docs registers the Swagger document for the WizDesk API, served
// at /swagger/*. Keep it in step with the handler annotations.
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
		"/health": {
			"get": {
				"tags": [
					"Health"
				],
				"summary": "Service health",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.HealthResponse"
						}
					}
				}
			}
		},
		"/auth/health": {
			"get": {
				"tags": [
					"Auth"
				],
				"summary": "Auth API health",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.AuthHealthResponse"
						}
					}
				}
			}
		},
		"/auth/send-verification": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Start team leader registration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.VerificationSentResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.SendVerificationRequest"
						}
					}
				]
			}
		},
		"/auth/verify-email": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Verify a team leader by token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.LeaderRegisteredResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.VerifyEmailRequest"
						}
					}
				]
			}
		},
		"/auth/verify-email-code": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Verify a team leader by code",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.LeaderRegisteredResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.VerifyEmailCodeRequest"
						}
					}
				]
			}
		},
		"/auth/send-member-verification": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Start team member registration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.VerificationSentResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.SendMemberVerificationRequest"
						}
					}
				]
			}
		},
		"/auth/verify-member-email": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Verify a team member by token or code",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.MemberRegisteredResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.VerifyMemberEmailRequest"
						}
					}
				]
			}
		},
		"/auth/login": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Log in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.LoginResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.LoginRequest"
						}
					}
				]
			}
		},
		"/auth/check-member-status": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Check membership status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.MemberStatusResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal server error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.CheckMemberStatusRequest"
						}
					}
				]
			}
		},
		"/auth/approve-member": {
			"post": {
				"tags": [
					"Team"
				],
				"summary": "Approve a pending member",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.MemberDecisionResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.ApproveMemberRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/reject-member": {
			"post": {
				"tags": [
					"Team"
				],
				"summary": "Reject a pending member",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.MemberDecisionResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.RejectMemberRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/approve-rejected-member": {
			"post": {
				"tags": [
					"Team"
				],
				"summary": "Approve a previously rejected member",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.MemberDecisionResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.ApproveMemberRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/delete-rejected-member/{userId}": {
			"delete": {
				"tags": [
					"Team"
				],
				"summary": "Delete a rejected member",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "userId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/team/{teamCode}/member/{memberId}": {
			"delete": {
				"tags": [
					"Team"
				],
				"summary": "Remove a member from the team",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "memberId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/team/{teamCode}/all-members": {
			"get": {
				"tags": [
					"Team"
				],
				"summary": "Approved members with task counters",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.TeamMemberDTO"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/team/{teamCode}/pending-requests": {
			"get": {
				"tags": [
					"Team"
				],
				"summary": "Pending membership requests",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.UserDTO"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/team/{teamCode}/rejected-members": {
			"get": {
				"tags": [
					"Team"
				],
				"summary": "Rejected members",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.UserDTO"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/create": {
			"post": {
				"tags": [
					"Tasks"
				],
				"summary": "Create a task with subtasks",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/response.TaskResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.CreateTaskRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/team/{teamCode}": {
			"get": {
				"tags": [
					"Tasks"
				],
				"summary": "List team tasks",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.TaskDTO"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/team/{teamCode}/available": {
			"get": {
				"tags": [
					"Tasks"
				],
				"summary": "Unassigned subtasks of a team",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.SubtaskDTO"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/team/{teamCode}/status/{status}": {
			"get": {
				"tags": [
					"Tasks"
				],
				"summary": "List team tasks by aggregate status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.TaskDTO"
							}
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "status",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/user/{userId}/subtasks": {
			"get": {
				"tags": [
					"Tasks"
				],
				"summary": "Subtasks assigned to a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.SubtaskDTO"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "userId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{taskId}": {
			"get": {
				"tags": [
					"Tasks"
				],
				"summary": "Get a task",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.TaskDTO"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "taskId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"Tasks"
				],
				"summary": "Edit a task",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.TaskResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "taskId",
						"in": "path",
						"required": true
					},
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.UpdateTaskRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"Tasks"
				],
				"summary": "Delete a task",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "taskId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/subtask/{id}/take": {
			"put": {
				"tags": [
					"Subtasks"
				],
				"summary": "Take an available subtask",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.SubtaskResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/subtask/{id}/assign-to": {
			"put": {
				"tags": [
					"Subtasks"
				],
				"summary": "Assign a subtask to a member",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.SubtaskResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.AssignSubtaskRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/subtask/{id}/progress": {
			"put": {
				"tags": [
					"Subtasks"
				],
				"summary": "Report subtask progress",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.SubtaskResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.UpdateProgressRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/subtask/{id}": {
			"put": {
				"tags": [
					"Subtasks"
				],
				"summary": "Edit a subtask",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.SubtaskResponse"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/request.UpdateSubtaskRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"Subtasks"
				],
				"summary": "Delete a subtask",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.MessageResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/performance/team/{teamCode}": {
			"get": {
				"tags": [
					"Performance"
				],
				"summary": "Team performance",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/dto.MemberPerformanceDTO"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "teamCode",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"dto.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"details": {
					"type": "string"
				}
			}
		},
		"dto.MessageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"dto.UserDTO": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"email": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"team_code": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"email_verified": {
					"type": "boolean"
				},
				"created_at": {
					"type": "string"
				}
			}
		},
		"dto.TeamMemberDTO": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"email": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"team_code": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"assigned_tasks": {
					"type": "integer"
				},
				"completed_tasks": {
					"type": "integer"
				}
			}
		},
		"dto.TeamDTO": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"team_code": {
					"type": "string"
				},
				"team_name": {
					"type": "string"
				},
				"leader_id": {
					"type": "integer"
				},
				"created_at": {
					"type": "string"
				}
			}
		},
		"dto.SubtaskDTO": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"task_id": {
					"type": "integer"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"assigned_to": {
					"type": "integer"
				},
				"assigned_to_name": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"progress": {
					"type": "string"
				},
				"deadline": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"dto.TaskDTO": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"team_code": {
					"type": "string"
				},
				"created_by": {
					"type": "integer"
				},
				"created_by_name": {
					"type": "string"
				},
				"total_subtasks": {
					"type": "integer"
				},
				"completed_subtasks": {
					"type": "integer"
				},
				"progress_percent": {
					"type": "integer"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				},
				"subtasks": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.SubtaskDTO"
					}
				}
			}
		},
		"dto.MemberPerformanceDTO": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"total_tasks": {
					"type": "integer"
				},
				"completed_tasks": {
					"type": "integer"
				},
				"in_progress_tasks": {
					"type": "integer"
				},
				"pending_tasks": {
					"type": "integer"
				},
				"completion_rate": {
					"type": "integer"
				}
			}
		},
		"request.SendVerificationRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"teamName": {
					"type": "string"
				}
			}
		},
		"request.SendMemberVerificationRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"teamCode": {
					"type": "string"
				}
			}
		},
		"request.VerifyEmailRequest": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				}
			}
		},
		"request.VerifyEmailCodeRequest": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				}
			}
		},
		"request.VerifyMemberEmailRequest": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"code": {
					"type": "string"
				}
			}
		},
		"request.LoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"teamCode": {
					"type": "string"
				}
			}
		},
		"request.CheckMemberStatusRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"teamCode": {
					"type": "string"
				}
			}
		},
		"request.ApproveMemberRequest": {
			"type": "object",
			"properties": {
				"userId": {
					"type": "integer"
				},
				"teamCode": {
					"type": "string"
				},
				"approvedBy": {
					"type": "integer"
				}
			}
		},
		"request.RejectMemberRequest": {
			"type": "object",
			"properties": {
				"userId": {
					"type": "integer"
				},
				"teamCode": {
					"type": "string"
				},
				"rejectedBy": {
					"type": "integer"
				}
			}
		},
		"request.CreateTaskRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"teamCode": {
					"type": "string"
				},
				"assignSpecific": {
					"type": "boolean"
				},
				"subtasks": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/request.SubtaskInput"
					}
				}
			}
		},
		"request.UpdateTaskRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				}
			}
		},
		"request.AssignSubtaskRequest": {
			"type": "object",
			"properties": {
				"userId": {
					"type": "integer"
				},
				"assignedBy": {
					"type": "integer"
				}
			}
		},
		"request.UpdateProgressRequest": {
			"type": "object",
			"properties": {
				"progress": {
					"type": "string"
				}
			}
		},
		"request.UpdateSubtaskRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"assigned_to": {
					"type": "integer"
				},
				"deadline": {
					"type": "string"
				}
			}
		},
		"response.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"database": {
					"type": "string"
				}
			}
		},
		"response.AuthHealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"service": {
					"type": "string"
				},
				"timestamp": {
					"type": "string"
				},
				"environment": {
					"type": "string"
				},
				"leaderPreRegistrations": {
					"type": "integer"
				},
				"memberPreRegistrations": {
					"type": "integer"
				}
			}
		},
		"response.VerificationSentResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				},
				"verificationToken": {
					"type": "string"
				},
				"teamName": {
					"type": "string"
				},
				"emailSent": {
					"type": "boolean"
				},
				"emailMethod": {
					"type": "string"
				}
			}
		},
		"response.LeaderRegisteredResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				},
				"teamCode": {
					"type": "string"
				},
				"teamName": {
					"type": "string"
				},
				"emailSent": {
					"type": "boolean"
				},
				"emailMethod": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/dto.UserDTO"
				},
				"team": {
					"$ref": "#/definitions/dto.TeamDTO"
				}
			}
		},
		"response.MemberRegisteredResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				},
				"teamName": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/dto.UserDTO"
				}
			}
		},
		"response.LoginResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"token": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/dto.UserDTO"
				}
			}
		},
		"response.MemberStatusResponse": {
			"type": "object",
			"properties": {
				"canLogin": {
					"type": "boolean"
				},
				"status": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"emailVerified": {
					"type": "boolean"
				}
			}
		},
		"response.MemberDecisionResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"emailSent": {
					"type": "boolean"
				},
				"emailMethod": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/dto.UserDTO"
				}
			}
		},
		"response.TaskResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"task": {
					"$ref": "#/definitions/dto.TaskDTO"
				}
			}
		},
		"response.SubtaskResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"subtask": {
					"$ref": "#/definitions/dto.SubtaskDTO"
				}
			}
		},
		"request.SubtaskInput": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"assigned_to": {
					"type": "integer"
				},
				"deadline": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "WizDesk API",
	Description:      "Team task tracker: email-verified registration, membership approval, tasks and subtasks",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
