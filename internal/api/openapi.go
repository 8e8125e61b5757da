package api

import (
	"net/http"

	"github.com/lectio-edu/lectio/internal/config"
	"github.com/lectio-edu/lectio/pkg/openapi"
)

// specHandler builds the OpenAPI document for the API surface and returns
// a handler serving the pre-serialized JSON.
func specHandler(cfg *config.Config) (http.HandlerFunc, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Syllabus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                    {Type: "string", Format: "uuid"},
				"course_id":             {Type: "string", Format: "uuid"},
				"author_id":             {Type: "string", Format: "uuid"},
				"semester":              {Type: "string", Example: "Fall 2026"},
				"academic_year":         {Type: "string", Example: "2026-2027"},
				"main_language":         {Type: "string", Description: "Language of instruction"},
				"status":                {Type: "string", Description: "Workflow status", Example: "draft"},
				"version":               {Type: "integer", Description: "Document version, bumped on each upload"},
				"total_weeks":           {Type: "integer", Description: "Planned teaching weeks"},
				"is_shared":             {Type: "boolean", Description: "Whether co-authors may submit"},
				"course_description":    {Type: "string"},
				"course_goal":           {Type: "string"},
				"main_literature":       {Type: "string"},
				"additional_literature": {Type: "string"},
				"feedback":              {Type: "string", Description: "Latest review feedback"},
				"feedback_origin":       {Type: "string", Enum: []any{"ai", "reviewer"}},
				"course_code":           {Type: "string"},
				"course_title":          {Type: "string"},
				"author_name":           {Type: "string"},
			},
		},
		"CreateSyllabus": {
			Type:     "object",
			Required: []string{"course_id", "total_weeks"},
			Properties: map[string]*openapi.Schema{
				"course_id":             {Type: "string", Format: "uuid"},
				"semester":              {Type: "string", Example: "Fall 2026"},
				"academic_year":         {Type: "string", Example: "2026-2027"},
				"main_language":         {Type: "string"},
				"total_weeks":           {Type: "integer", Description: "Planned teaching weeks"},
				"is_shared":             {Type: "boolean"},
				"course_description":    {Type: "string"},
				"course_goal":           {Type: "string"},
				"main_literature":       {Type: "string"},
				"additional_literature": {Type: "string"},
			},
		},
		"TopicInput": {
			Type:     "object",
			Required: []string{"topic_id", "week_number"},
			Properties: map[string]*openapi.Schema{
				"topic_id":         {Type: "string", Format: "uuid"},
				"custom_title":     {Type: "string", Description: "Overrides the catalog topic title"},
				"week_number":      {Type: "integer", Description: "Week of the plan (1-indexed)"},
				"hours":            {Type: "integer", Description: "Contact hours"},
				"tasks":            {Type: "string"},
				"outcomes":         {Type: "string"},
				"literature_notes": {Type: "string"},
				"assessment":       {Type: "string"},
			},
		},
		"TransitionRequest": {
			Type:     "object",
			Required: []string{"target"},
			Properties: map[string]*openapi.Schema{
				"target":  {Type: "string", Description: "Target workflow status", Example: "ai_check"},
				"comment": {Type: "string", Description: "Reviewer comment, required for correction and rejection"},
			},
		},
		"CheckResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"syllabus_id": {Type: "string", Format: "uuid"},
				"model_name":  {Type: "string", Description: "Model that produced the verdict"},
				"summary":     {Type: "string", Description: "One-line outcome"},
				"raw":         {Type: "object", Description: "Full verdict payload"},
			},
		},
	})

	id := openapi.PathParam("id", "Syllabus identifier")

	spec.Paths["/syllabi"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List syllabi",
			Tags:    []string{"syllabi"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paged syllabus list"},
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a syllabus",
			Tags:        []string{"syllabi"},
			RequestBody: openapi.RequestBodyJSON("CreateSyllabus", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created syllabus", "Syllabus"),
				400: openapi.ResponseRef("BadRequest"),
				403: openapi.ResponseRef("Forbidden"),
			},
		},
	}

	spec.Paths["/syllabi/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search syllabi with filters",
			Tags:        []string{"syllabi"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", false),
			Responses: map[int]*openapi.Response{
				200: {Description: "Paged syllabus list"},
			},
		},
	}

	spec.Paths["/syllabi/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a syllabus with its topic plan",
			Tags:       []string{"syllabi"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: {Description: "Syllabus detail"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/syllabi/{id}/topics"] = &openapi.PathItem{
		Put: &openapi.Operation{
			Summary:    "Replace the weekly topic plan",
			Tags:       []string{"syllabi"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: {Description: "Updated syllabus detail"},
				403: openapi.ResponseRef("Forbidden"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/syllabi/{id}/file"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download the attached document",
			Tags:       []string{"syllabi"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: {Description: "Document stream"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Post: &openapi.Operation{
			Summary:    "Upload a syllabus document",
			Tags:       []string{"syllabi"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated syllabus", "Syllabus"),
				400: openapi.ResponseRef("BadRequest"),
				403: openapi.ResponseRef("Forbidden"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/syllabi/{id}/transitions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List transition history",
			Tags:       []string{"review"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: {Description: "Transition records, newest first"},
			},
		},
		Post: &openapi.Operation{
			Summary:     "Request a workflow transition",
			Tags:        []string{"review"},
			Parameters:  []*openapi.Parameter{id},
			RequestBody: openapi.RequestBodyJSON("TransitionRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Syllabus after the transition", "Syllabus"),
				403: openapi.ResponseRef("Forbidden"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/syllabi/{id}/audit"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List the audit trail",
			Tags:       []string{"review"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: {Description: "Audit entries, newest first"},
			},
		},
	}

	spec.Paths["/syllabi/{id}/checks"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List AI check results",
			Tags:       []string{"checks"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: {Description: "Check results, newest first"},
			},
		},
		Post: &openapi.Operation{
			Summary:    "Run the AI check and apply its verdict",
			Tags:       []string{"checks"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Stored check result", "CheckResult"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}

	return openapi.ServeSpec(specBytes), nil
}
