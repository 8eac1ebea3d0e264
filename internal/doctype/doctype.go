// Package doctype holds the registry of supported SUNARP document types.
// Each entry carries the extraction prompt, the fixed output field list and
// the per-field normalization rule, so one generic pipeline serves all four
// document types.
package doctype

import "github.com/local/esquelas/internal/schema"

// Rule selects the normalization applied to a field after extraction.
type Rule int

const (
	RuleNone        Rule = iota
	RuleAmount           // canonical two-decimal string, null on failure
	RuleDate             // dd/mm/yyyy string, null on failure
	RuleAmountValue      // numeric value, 0.0 on failure (tacha only)
)

// Field is one output field and its normalization rule.
type Field struct {
	Name string
	Rule Rule
}

// Definition describes one document type end to end.
type Definition struct {
	Tag          string // route suffix, e.g. "liquidado"
	DocumentType string // documentType constant in the output envelope
	Prompt       string
	Fields       []Field
	Schema       *schema.Definition
}

// FieldNames returns the ordered field list.
func (d *Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

var registry []*Definition

func init() {
	registry = []*Definition{
		{
			Tag:          "liquidado",
			DocumentType: "esquela_liquidacion",
			Prompt:       promptLiquidado,
			Fields: []Field{
				{Name: "anioTitulo"},
				{Name: "numeroTitulo"},
				{Name: "oficinaRegistral"},
				{Name: "seccionRegistral"},
				{Name: "fechaPresentacion", Rule: RuleDate},
				{Name: "horaPresentacion"},
				{Name: "fechaVencimiento", Rule: RuleDate},
				{Name: "fechaLiquidacion", Rule: RuleDate},
				{Name: "ultimoDiaPago", Rule: RuleDate},
				{Name: "derechosRegistrales", Rule: RuleAmount},
				{Name: "pagoCuenta", Rule: RuleAmount},
				{Name: "diferenciaPorPagar", Rule: RuleAmount},
				{Name: "nombreRegistrador"},
			},
		},
		{
			Tag:          "inscrito",
			DocumentType: "anotacion_inscripcion",
			Prompt:       promptInscrito,
			Fields: []Field{
				{Name: "anioTitulo"},
				{Name: "numeroTitulo"},
				{Name: "oficinaRegistral"},
				{Name: "seccionRegistral"},
				{Name: "numeroPartida"},
				{Name: "fechaPresentacion", Rule: RuleDate},
				{Name: "montoInscripcion", Rule: RuleAmount},
				{Name: "montoDevolucion", Rule: RuleAmount},
				{Name: "fechaInscripcion", Rule: RuleDate},
				{Name: "nombreRegistrador"},
			},
		},
		{
			Tag:          "observado",
			DocumentType: "esquela_observacion",
			Prompt:       promptObservado,
			Fields: []Field{
				{Name: "fechaObservacion", Rule: RuleDate},
				{Name: "fechaVencimiento", Rule: RuleDate},
				{Name: "montoLiquidado", Rule: RuleAmount},
			},
		},
		{
			Tag:          "tachado",
			DocumentType: "tacha",
			Prompt:       promptTachado,
			Fields: []Field{
				{Name: "numeroTitulo"},
				{Name: "derechosPorDevolver", Rule: RuleAmountValue},
			},
		},
	}

	for _, d := range registry {
		d.Schema = schema.MustCompile(d.DocumentType, d.FieldNames())
	}
}

// All returns every registered document type in route order.
func All() []*Definition { return registry }

// ByTag looks a document type up by its route suffix.
func ByTag(tag string) (*Definition, bool) {
	for _, d := range registry {
		if d.Tag == tag {
			return d, true
		}
	}
	return nil, false
}
