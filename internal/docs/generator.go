package docs

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	appmodule "github.com/jgirmay/mathlab/internal/app"
)

// OpenAPISpec is the subset of an OpenAPI 3.0 document the service emits.
type OpenAPISpec struct {
	OpenAPI string              `json:"openapi"`
	Info    Info                `json:"info"`
	Paths   map[string]PathItem `json:"paths"`
	Tags    []Tag               `json:"tags"`
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]*Operation

type Operation struct {
	Summary     string              `json:"summary,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	OperationID string              `json:"operationId,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

type Parameter struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Required bool   `json:"required"`
	Schema   Schema `json:"schema"`
}

type Response struct {
	Description string `json:"description"`
}

type Schema struct {
	Type string `json:"type,omitempty"`
}

type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GenerateOpenAPISpec describes every registered gin route. Routes under
// /api/<app> are tagged with the app's name.
func GenerateOpenAPISpec(routes gin.RoutesInfo, apps map[string]appmodule.Metadata, version string) *OpenAPISpec {
	spec := &OpenAPISpec{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:       "mathlab API",
			Description: "Multiplication and division visualizer, AI explanations and printable worksheets",
			Version:     version,
		},
		Paths: make(map[string]PathItem),
		Tags:  make([]Tag, 0, len(apps)),
	}

	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec.Tags = append(spec.Tags, Tag{Name: name, Description: apps[name].Description})
	}

	for _, route := range routes {
		path, params := openAPIPath(route.Path)

		op := &Operation{
			Summary:     route.Method + " " + route.Path,
			Parameters:  params,
			OperationID: operationID(route.Method, route.Path),
			Responses:   responsesFor(route.Method, len(params) > 0),
		}
		if tag := appTag(route.Path, apps); tag != "" {
			op.Tags = []string{tag}
		}

		item, ok := spec.Paths[path]
		if !ok {
			item = PathItem{}
		}
		item[strings.ToLower(route.Method)] = op
		spec.Paths[path] = item
	}

	return spec
}

// openAPIPath rewrites gin's :param segments as {param}.
func openAPIPath(path string) (string, []Parameter) {
	segments := strings.Split(path, "/")
	var params []Parameter
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			name := seg[1:]
			segments[i] = "{" + name + "}"
			params = append(params, Parameter{Name: name, In: "path", Required: true, Schema: Schema{Type: "string"}})
		}
	}
	return strings.Join(segments, "/"), params
}

func appTag(path string, apps map[string]appmodule.Metadata) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "/")
	if _, exists := apps[name]; exists {
		return name
	}
	return ""
}

func responsesFor(method string, hasPathParams bool) map[string]Response {
	ok := "200"
	switch {
	case method == "POST" && !hasPathParams:
		ok = "201"
	case method == "DELETE":
		ok = "204"
	}
	responses := map[string]Response{
		ok:    {Description: "Success"},
		"500": {Description: "Internal Server Error"},
	}
	if method == "POST" {
		responses["400"] = Response{Description: "Validation Error"}
	}
	if hasPathParams {
		responses["404"] = Response{Description: "Not Found"}
	}
	return responses
}

// operationID turns "GET /api/worksheet/:id/print" into
// "getApiWorksheetIdPrint".
func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	capitalizeNext := true
	for _, r := range path {
		switch {
		case r >= 'a' && r <= 'z':
			if capitalizeNext {
				r -= 'a' - 'A'
				capitalizeNext = false
			}
			b.WriteRune(r)
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			capitalizeNext = false
			b.WriteRune(r)
		default:
			capitalizeNext = true
		}
	}
	return b.String()
}
