// Package docs serves the OpenAPI description of the products API.
package docs

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// Spec is the parsed OpenAPI document.
type Spec struct {
	yaml []byte
	doc  map[string]any
}

// Load parses the embedded document and points its paths at basePath.
func Load(basePath string) (*Spec, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse openapi.yaml: %w", err)
	}

	if paths, ok := doc["paths"].(map[string]any); ok {
		rebased := make(map[string]any, len(paths))
		for path, item := range paths {
			rebased[strings.Replace(path, "/api/products", strings.TrimSuffix(basePath, "/"), 1)] = item
		}
		doc["paths"] = rebased
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi.yaml: %w", err)
	}
	return &Spec{yaml: out, doc: doc}, nil
}

// RegisterRoutes mounts the Swagger UI page and the raw documents on router.
func (s *Spec) RegisterRoutes(router fiber.Router) {
	router.Get("/", s.handleUI)
	router.Get("/openapi.yaml", s.handleYAML)
	router.Get("/openapi.json", s.handleJSON)
}

func (s *Spec) handleYAML(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/yaml")
	return c.Send(s.yaml)
}

func (s *Spec) handleJSON(c *fiber.Ctx) error {
	return c.JSON(s.doc)
}

func (s *Spec) handleUI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(fmt.Sprintf(uiPage, strings.TrimSuffix(c.BaseURL()+c.Path(), "/")))
}

const uiPage = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8">
  <title>Documentación REST API Go / Fiber</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>.swagger-ui .topbar { background-color: #3c80b0 }</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: "%s/openapi.json", dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`
