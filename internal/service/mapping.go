package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vitorcpx/hrsync-worker/internal/soc"
)

// Provider-field to column mapping tables, one per entity type. These are
// data, not logic: the reconcilers apply them verbatim, so any schema drift
// against the SOC export layout is visible here and nowhere else.

var companyFieldMap = map[string]string{
	"CODIGO":              "soc_code",
	"NOMEABREVIADO":       "short_name",
	"RAZAOSOCIAL":         "corporate_name",
	"RAZAOSOCIALINICIAL":  "initial_corporate_name",
	"ENDERECO":            "address",
	"NUMEROENDERECO":      "address_number",
	"COMPLEMENTOENDERECO": "address_complement",
	"BAIRRO":              "neighborhood",
	"CIDADE":              "city",
	"CEP":                 "zip_code",
	"UF":                  "state",
	"CNPJ":                "tax_id",
}

var employeeFieldMap = map[string]string{
	"CODIGO":               "soc_code",
	"CODIGOEMPRESA":        "company_soc_code",
	"NOME":                 "full_name",
	"MATRICULAFUNCIONARIO": "registration",
	"CPF":                  "cpf",
	"SEXO":                 "gender",
	"SITUACAO":             "status",
	"DATA_NASCIMENTO":      "birth_date",
	"DATA_ADMISSAO":        "admission_date",
	"DATA_DEMISSAO":        "dismissal_date",
	"CODIGOCARGO":          "position_code",
	"NOMECARGO":            "position_name",
	"CODIGOSETOR":          "sector_code",
	"NOMESETOR":            "sector_name",
	"CODIGOUNIDADE":        "unit_code",
	"NOMEUNIDADE":          "unit_name",
	"EMAIL":                "email",
	"TELEFONECELULAR":      "mobile_phone",
}

var absenteeismFieldMap = map[string]string{
	"MATRICULA_FUNC":       "employee_registration",
	"DT_NASCIMENTO":        "birth_date",
	"SEXO":                 "gender",
	"TIPO_ATESTADO":        "certificate_type",
	"DT_INICIO_ATESTADO":   "start_date",
	"DT_FIM_ATESTADO":      "end_date",
	"HORA_INICIO_ATESTADO": "start_time",
	"HORA_FIM_ATESTADO":    "end_time",
	"DIAS_AFASTADOS":       "days_absent",
	"HORAS_AFASTADO":       "hours_absent",
	"CID_PRINCIPAL":        "icd_code",
	"DESCRICAO_CID":        "icd_description",
	"GRUPO_PATOLOGICO":     "pathological_group",
	"SETOR":                "sector",
	"TIPO_LICENCA":         "license_type",
}

// applyFieldMap translates one provider record into column attributes. Fields
// missing from the record, nil, or blank after trimming are skipped so they
// never overwrite stored values with empties.
func applyFieldMap(rec soc.Record, fields map[string]string) map[string]interface{} {
	attrs := make(map[string]interface{}, len(fields))
	for providerField, column := range fields {
		raw, ok := rec[providerField]
		if !ok || raw == nil {
			continue
		}
		value := stringify(raw)
		if value == "" {
			continue
		}
		attrs[column] = value
	}
	return attrs
}

// stringify normalizes a loosely-typed JSON value into column text. Numeric
// provider codes arrive as float64 from the JSON decoder and must not pick
// up a decimal point.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
