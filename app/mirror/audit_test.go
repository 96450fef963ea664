package mirror

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditorRecordFormat(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(&buf)

	auditor.Record("Hello World", []string{"News"}, []string{}, []string{"https://cdn.example.com/img.jpg"})

	expected := `importado titulo: "Hello World" categorias: ["News"] tags: [] imagenes: ["https://cdn.example.com/img.jpg"]` + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestAuditorRecordEmptyListsRenderExplicitly(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(&buf)

	auditor.Record("Bare", nil, nil, nil)

	expected := `importado titulo: "Bare" categorias: [] tags: [] imagenes: []` + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestAuditorRecordMultipleValues(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(&buf)

	auditor.Record("Multi", []string{"News", "Tech"}, []string{"golang"}, nil)

	expected := `importado titulo: "Multi" categorias: ["News","Tech"] tags: ["golang"] imagenes: []` + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestAuditorWarnFormat(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(&buf)

	auditor.Warn("Hello World", "no featured image found")

	expected := `aviso titulo: "Hello World" motivo: no featured image found` + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestAuditorTitleQuotingEscapesSpecials(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(&buf)

	auditor.Record(`He said "hi"`, nil, nil, nil)

	assert.Contains(t, buf.String(), `titulo: "He said \"hi\""`)
}
