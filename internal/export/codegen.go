package export

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"servenet/pkg/types"
)

type CodeType string

const (
	CodeTensorFlow    CodeType = "python-tensorflow"
	CodePyTorch       CodeType = "python-pytorch"
	CodeJavaScriptML  CodeType = "javascript-ml"
	CodePreprocessing CodeType = "data-preprocessing"
)

type CodeTemplate struct {
	Type  CodeType
	Label string
}

// CodeTemplates lists the generators in the order the dashboard offers them.
var CodeTemplates = []CodeTemplate{
	{Type: CodeTensorFlow, Label: "Python + TensorFlow"},
	{Type: CodePyTorch, Label: "Python + PyTorch"},
	{Type: CodeJavaScriptML, Label: "JavaScript + ML.js"},
	{Type: CodePreprocessing, Label: "Data Preprocessing"},
}

//go:embed codegen/*.tmpl
var codegenFS embed.FS

var codeTemplates = template.Must(template.ParseFS(codegenFS, "codegen/*.tmpl"))

func ParseCodeType(v string) (CodeType, error) {
	for _, t := range CodeTemplates {
		if string(t.Type) == v {
			return t.Type, nil
		}
	}
	return "", fmt.Errorf("code type %q: %w", v, types.ErrUnknownFormat)
}

func (c CodeType) Label() string {
	for _, t := range CodeTemplates {
		if t.Type == c {
			return t.Label
		}
	}
	return string(c)
}

func (c CodeType) Extension() string {
	if strings.HasPrefix(string(c), "javascript") {
		return "js"
	}
	return "py"
}

func CodeFilename(c CodeType) string {
	return "serve_network_training." + c.Extension()
}

// codeNode is the node literal embedded in generated code. Readings are
// strings so the literal stays valid Python and JavaScript; missing or
// unparseable readings are empty and the generated code treats them as 0.
type codeNode struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Temperature  string `json:"temperature"`
	Humidity     string `json:"humidity"`
	SoilMoisture string `json:"soilMoisture"`
	Location     string `json:"location"`
	SubmittedAt  string `json:"submittedAt"`
}

type codeData struct {
	Nodes string
	Count int
}

// GenerateCode renders training code of type c over the selected verified
// nodes. It fails with ErrMissingSelection when no verified node is selected.
func GenerateCode(records []types.Submission, ids []string, c CodeType) ([]byte, error) {
	if _, err := ParseCodeType(string(c)); err != nil {
		return nil, err
	}

	selected := SelectVerified(records, ids)
	if len(selected) == 0 {
		return nil, types.ErrMissingSelection
	}

	nodes := make([]codeNode, 0, len(selected))
	for _, sub := range selected {
		readings := Readings(sub)
		nodes = append(nodes, codeNode{
			ID:           sub.ID,
			Title:        sub.Title,
			Category:     sub.Category,
			Temperature:  formatReading(readings.Temperature),
			Humidity:     formatReading(readings.Humidity),
			SoilMoisture: formatReading(readings.SoilMoisture),
			Location:     sub.Location,
			SubmittedAt:  sub.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}

	literal, err := json.MarshalIndent(nodes, "        ", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal code nodes: %w", err)
	}

	var buf bytes.Buffer
	data := codeData{Nodes: string(literal), Count: len(nodes)}
	if err := codeTemplates.ExecuteTemplate(&buf, string(c)+".tmpl", data); err != nil {
		return nil, fmt.Errorf("render %s code: %w", c, err)
	}
	return buf.Bytes(), nil
}
