package rest

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
)

// NewOpenAPI3 instantiates the OpenAPI 3 document describing the API.
func NewOpenAPI3() openapi3.T {
	swagger := openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Task Tracker API",
			Description: "REST APIs used for managing personal tasks",
			Version:     Version,
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Local development",
				URL:         "http://127.0.0.1:9234",
			},
		},
	}

	components := openapi3.NewComponents()

	components.SecuritySchemes = openapi3.SecuritySchemes{
		"BearerAuth": &openapi3.SecuritySchemeRef{
			Value: openapi3.NewJWTSecurityScheme(),
		},
	}

	components.Schemas = openapi3.Schemas{
		"Priority": openapi3.NewSchemaRef("",
			openapi3.NewStringSchema().
				WithEnum("Low", "Medium", "High").
				WithDefault("Medium")),
		"Status": openapi3.NewSchemaRef("",
			openapi3.NewStringSchema().
				WithEnum("Pending", "Completed").
				WithDefault("Pending")),
		"Task": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewInt64Schema()).
				WithProperty("title", openapi3.NewStringSchema()).
				WithProperty("description", openapi3.NewStringSchema().WithNullable()).
				WithProperty("due_date", openapi3.NewDateTimeSchema().WithNullable()).
				WithPropertyRef("priority", &openapi3.SchemaRef{Ref: "#/components/schemas/Priority"}).
				WithPropertyRef("status", &openapi3.SchemaRef{Ref: "#/components/schemas/Status"}).
				WithProperty("user_id", openapi3.NewInt64Schema()).
				WithProperty("created_at", openapi3.NewDateTimeSchema()).
				WithProperty("updated_at", openapi3.NewDateTimeSchema())),
		"User": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewInt64Schema()).
				WithProperty("username", openapi3.NewStringSchema()).
				WithProperty("email", openapi3.NewStringSchema()).
				WithProperty("created_at", openapi3.NewDateTimeSchema())),
	}

	components.RequestBodies = openapi3.RequestBodies{
		"CreateTasksRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for creating a task.").
				WithRequired(true).
				WithJSONSchema(withRequired(openapi3.NewSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(200)).
					WithProperty("description", openapi3.NewStringSchema()).
					WithProperty("due_date", openapi3.NewStringSchema()).
					WithPropertyRef("priority", &openapi3.SchemaRef{Ref: "#/components/schemas/Priority"}), "title")),
		},
		"UpdateTasksRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for updating a task, absent fields are left unchanged.").
				WithRequired(true).
				WithJSONSchema(openapi3.NewSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(200)).
					WithProperty("description", openapi3.NewStringSchema().WithNullable()).
					WithProperty("due_date", openapi3.NewStringSchema().WithNullable()).
					WithPropertyRef("priority", &openapi3.SchemaRef{Ref: "#/components/schemas/Priority"}).
					WithPropertyRef("status", &openapi3.SchemaRef{Ref: "#/components/schemas/Status"})),
		},
		"RegisterRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for registering a user.").
				WithRequired(true).
				WithJSONSchema(withRequired(openapi3.NewSchema().
					WithProperty("username", openapi3.NewStringSchema().WithMinLength(3).WithMaxLength(80)).
					WithProperty("email", openapi3.NewStringSchema()).
					WithProperty("password", openapi3.NewStringSchema().WithMinLength(6)), "username", "email", "password")),
		},
		"LoginRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for logging in.").
				WithRequired(true).
				WithJSONSchema(withRequired(openapi3.NewSchema().
					WithProperty("username", openapi3.NewStringSchema()).
					WithProperty("password", openapi3.NewStringSchema()), "username", "password")),
		},
	}

	taskRef := &openapi3.SchemaRef{Ref: "#/components/schemas/Task"}

	tasks := openapi3.NewArraySchema()
	tasks.Items = taskRef

	components.Responses = openapi3.Responses{
		"ErrorResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response when errors happen.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("error", openapi3.NewStringSchema()).
					WithProperty("message", openapi3.NewStringSchema()).
					WithProperty("details", openapi3.NewObjectSchema().
						WithAdditionalProperties(openapi3.NewStringSchema())))),
		},
		"MessageResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response containing a message.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("message", openapi3.NewStringSchema()))),
		},
		"TaskResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back after creating, reading or updating a task.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("message", openapi3.NewStringSchema()).
					WithPropertyRef("task", taskRef))),
		},
		"ListTasksResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back after listing or searching tasks.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("tasks", tasks).
					WithProperty("count", openapi3.NewIntegerSchema()))),
		},
		"TaskStatsResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back after aggregating tasks.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("total_tasks", openapi3.NewIntegerSchema()).
					WithProperty("completed_tasks", openapi3.NewIntegerSchema()).
					WithProperty("pending_tasks", openapi3.NewIntegerSchema()).
					WithProperty("overdue_tasks", openapi3.NewIntegerSchema()).
					WithProperty("completion_rate", openapi3.NewFloat64Schema()).
					WithProperty("priority_breakdown", openapi3.NewObjectSchema().
						WithProperty("low", openapi3.NewIntegerSchema()).
						WithProperty("medium", openapi3.NewIntegerSchema()).
						WithProperty("high", openapi3.NewIntegerSchema())))),
		},
		"SessionResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back after registering or logging in.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("message", openapi3.NewStringSchema()).
					WithPropertyRef("user", &openapi3.SchemaRef{Ref: "#/components/schemas/User"}).
					WithProperty("access_token", openapi3.NewStringSchema()))),
		},
		"HealthResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back by the health check.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("status", openapi3.NewStringSchema()).
					WithProperty("timestamp", openapi3.NewDateTimeSchema()).
					WithProperty("version", openapi3.NewStringSchema()))),
		},
	}

	swagger.Components = &components

	errorResponse := &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"}
	bearer := &openapi3.SecurityRequirements{{"BearerAuth": []string{}}}

	taskID := []*openapi3.ParameterRef{
		{
			Value: openapi3.NewPathParameter("id").
				WithSchema(openapi3.NewInt64Schema()),
		},
	}

	swagger.Paths = openapi3.Paths{
		"/api/health": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "Health",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/HealthResponse"},
				},
			},
		},
		"/api/register": &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: "Register",
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/RegisterRequest"},
				Responses: openapi3.Responses{
					"201": &openapi3.ResponseRef{Ref: "#/components/responses/SessionResponse"},
					"400": errorResponse,
					"409": errorResponse,
				},
			},
		},
		"/api/login": &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: "Login",
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/LoginRequest"},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/SessionResponse"},
					"400": errorResponse,
					"401": errorResponse,
				},
			},
		},
		"/api/logout": &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: "Logout",
				Security:    bearer,
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/MessageResponse"},
					"401": errorResponse,
				},
			},
		},
		"/api/tasks": &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: "CreateTask",
				Security:    bearer,
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/CreateTasksRequest"},
				Responses: openapi3.Responses{
					"201": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"400": errorResponse,
					"401": errorResponse,
					"500": errorResponse,
				},
			},
			Get: &openapi3.Operation{
				OperationID: "ListTasks",
				Security:    bearer,
				Parameters: []*openapi3.ParameterRef{
					{Value: openapi3.NewQueryParameter("status").WithSchema(openapi3.NewStringSchema())},
					{Value: openapi3.NewQueryParameter("priority").WithSchema(openapi3.NewStringSchema())},
					{Value: openapi3.NewQueryParameter("overdue").WithSchema(openapi3.NewStringSchema())},
				},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/ListTasksResponse"},
					"400": errorResponse,
					"401": errorResponse,
					"500": errorResponse,
				},
			},
		},
		"/api/tasks/stats": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "TaskStats",
				Security:    bearer,
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskStatsResponse"},
					"401": errorResponse,
					"500": errorResponse,
				},
			},
		},
		"/api/tasks/search": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "SearchTasks",
				Security:    bearer,
				Parameters: []*openapi3.ParameterRef{
					{Value: openapi3.NewQueryParameter("q").WithRequired(true).WithSchema(openapi3.NewStringSchema())},
				},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/ListTasksResponse"},
					"400": errorResponse,
					"401": errorResponse,
					"500": errorResponse,
				},
			},
		},
		"/api/tasks/{id}": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ReadTask",
				Security:    bearer,
				Parameters:  taskID,
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"401": errorResponse,
					"404": errorResponse,
					"500": errorResponse,
				},
			},
			Put: &openapi3.Operation{
				OperationID: "UpdateTask",
				Security:    bearer,
				Parameters:  taskID,
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/UpdateTasksRequest"},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"400": errorResponse,
					"401": errorResponse,
					"404": errorResponse,
					"500": errorResponse,
				},
			},
			Delete: &openapi3.Operation{
				OperationID: "DeleteTask",
				Security:    bearer,
				Parameters:  taskID,
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/MessageResponse"},
					"401": errorResponse,
					"404": errorResponse,
					"500": errorResponse,
				},
			},
		},
	}

	return swagger
}

// RegisterOpenAPI connects the OpenAPI document handlers to the router.
func RegisterOpenAPI(r chi.Router) {
	swagger := NewOpenAPI3()

	r.Get("/openapi3.json", func(w http.ResponseWriter, r *http.Request) {
		renderResponse(w, &swagger, http.StatusOK)
	})

	r.Get("/openapi3.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := yaml.Marshal(&swagger)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/x-yaml")
		w.WriteHeader(http.StatusOK)

		_, _ = w.Write(data)
	})
}

func withRequired(schema *openapi3.Schema, fields ...string) *openapi3.Schema {
	schema.Required = fields

	return schema
}
