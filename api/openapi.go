package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"

	"github.com/healthinsights/health-insights-backend/dto"
)

func schemaRef(name string, schema *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, schema)
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithJSONSchemaRef(schema))}
}

func sessionHeaderParameter(required bool) *openapi3.ParameterRef {
	parameter := openapi3.NewHeaderParameter(dto.SessionIdHeader).
		WithDescription("Session id returned by a previous chat response").
		WithSchema(openapi3.NewStringSchema())
	parameter.Required = required
	return &openapi3.ParameterRef{Value: parameter}
}

// NewOpenApiDocument describes the public routes. The document is validated before being served.
func NewOpenApiDocument(conf Configuration) (*openapi3.T, error) {
	version := conf.AppVersion
	if version == "" {
		version = "dev"
	}

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("detail", openapi3.NewStringSchema())
	errorSchema.Required = []string{"detail"}

	chatResponseSchema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema().WithNullable()).
		WithProperty("has_active_analysis", openapi3.NewBoolSchema())
	chatResponseSchema.Required = []string{"message", "has_active_analysis"}

	chatRequestSchema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("file", openapi3.NewStringSchema().WithFormat("binary"))

	turnSchema := openapi3.NewObjectSchema().
		WithProperty("timestamp", openapi3.NewDateTimeSchema()).
		WithProperty("input_text_snippet", openapi3.NewStringSchema()).
		WithProperty("response_snippet", openapi3.NewStringSchema())
	analysisSchema := openapi3.NewObjectSchema().
		WithProperty("filename", openapi3.NewStringSchema()).
		WithProperty("uploaded_at", openapi3.NewDateTimeSchema()).
		WithProperty("clinical_analysis", openapi3.NewStringSchema()).
		WithProperty("risk_assessment", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
	uploadSchema := openapi3.NewObjectSchema().
		WithProperty("filename", openapi3.NewStringSchema()).
		WithProperty("content_type", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewIntegerSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema())
	sessionSchema := openapi3.NewObjectSchema().
		WithProperty("session_id", openapi3.NewStringSchema().WithPattern(`^sess_[0-9a-f]{32}$`)).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("last_active", openapi3.NewDateTimeSchema()).
		WithProperty("conversation_history", openapi3.NewArraySchema().WithItems(turnSchema)).
		WithProperty("analysis", openapi3.NewArraySchema().WithItems(analysisSchema)).
		WithProperty("upload_history", openapi3.NewArraySchema().WithItems(uploadSchema)).
		WithProperty("has_active_analysis", openapi3.NewBoolSchema()).
		WithProperty("message_count", openapi3.NewIntegerSchema()).
		WithProperty("upload_count", openapi3.NewIntegerSchema())
	healthSchema := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("service", openapi3.NewStringSchema())

	errorRef := schemaRef("Error", errorSchema)

	chat := openapi3.NewOperation()
	chat.OperationID = "chat"
	chat.Summary = "Send a message, a PDF medical document, or both"
	chat.Parameters = openapi3.Parameters{sessionHeaderParameter(false)}
	chat.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithContent(openapi3.NewContentWithFormDataSchemaRef(schemaRef("ChatRequest", chatRequestSchema)))}
	chatOk := jsonResponse("The assistant answer. The X-Session-ID response header carries the session id.",
		schemaRef("ChatResponse", chatResponseSchema))
	chatOk.Value.Headers = openapi3.Headers{
		dto.SessionIdHeader: &openapi3.HeaderRef{Value: &openapi3.Header{Parameter: openapi3.Parameter{
			Schema: openapi3.NewStringSchema().NewRef(),
		}}},
	}
	chat.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, chatOk),
		openapi3.WithStatus(http.StatusBadRequest, jsonResponse("Missing input or invalid file", errorRef)),
		openapi3.WithStatus(http.StatusConflict, jsonResponse("Another request of the session is in progress", errorRef)),
		openapi3.WithStatus(http.StatusRequestEntityTooLarge, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Request body too large")}),
		openapi3.WithStatus(http.StatusTooManyRequests, jsonResponse("Rate limit exceeded", errorRef)),
	)

	getSession := openapi3.NewOperation()
	getSession.OperationID = "getSession"
	getSession.Summary = "Read the memory of a chat session"
	getSession.Parameters = openapi3.Parameters{sessionHeaderParameter(true)}
	getSession.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("The session", schemaRef("Session", sessionSchema))),
		openapi3.WithStatus(http.StatusNotFound, jsonResponse("Unknown or expired session", errorRef)),
	)

	deleteSession := openapi3.NewOperation()
	deleteSession.OperationID = "deleteSession"
	deleteSession.Summary = "End a chat session and forget its memory"
	deleteSession.Parameters = openapi3.Parameters{sessionHeaderParameter(true)}
	deleteSession.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusNoContent, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Session deleted")}),
		openapi3.WithStatus(http.StatusNotFound, jsonResponse("Unknown or expired session", errorRef)),
	)

	health := openapi3.NewOperation()
	health.OperationID = "health"
	health.Summary = "Service health"
	health.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("The service is up", schemaRef("Health", healthSchema))),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Version:     version,
			Description: "Conversational analysis of medical documents and health questions.",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/chat", &openapi3.PathItem{Post: chat}),
			openapi3.WithPath("/session", &openapi3.PathItem{Get: getSession, Delete: deleteSession}),
			openapi3.WithPath("/health", &openapi3.PathItem{Get: health}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Error":        openapi3.NewSchemaRef("", errorSchema),
				"ChatRequest":  openapi3.NewSchemaRef("", chatRequestSchema),
				"ChatResponse": openapi3.NewSchemaRef("", chatResponseSchema),
				"Session":      openapi3.NewSchemaRef("", sessionSchema),
				"Health":       openapi3.NewSchemaRef("", healthSchema),
			},
		},
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, errors.Wrap(err, "invalid openapi document")
	}
	return doc, nil
}

func handleOpenApi(doc *openapi3.T) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	}
}
