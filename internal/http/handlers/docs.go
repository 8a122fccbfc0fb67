package handlers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

const docsPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Confession API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>SwaggerUIBundle({url: "/openapi.json", dom_id: "#swagger-ui"});</script>
</body>
</html>
`

// DocsHandler serves the API description as JSON plus a browsable page.
type DocsHandler struct {
	document []byte
}

// NewDocsHandler converts the embedded YAML description to JSON once.
func NewDocsHandler() (*DocsHandler, error) {
	doc, err := openAPIJSON(openAPIYAML)
	if err != nil {
		return nil, err
	}
	return &DocsHandler{document: doc}, nil
}

func openAPIJSON(source []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi json: %w", err)
	}
	return out, nil
}

func (h *DocsHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(h.document)
}

func (h *DocsHandler) Page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}
