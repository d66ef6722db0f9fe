package soc

import "github.com/vitorcpx/hrsync-worker/internal/models"

// ExportParams is the credential + filter payload the export web service
// expects inside the "parametro" query parameter. Field names follow the
// provider's contract and must not be renamed.
type ExportParams struct {
	AccountCode     string `json:"empresa"`
	IntegrationCode string `json:"codigo"`
	IntegrationKey  string `json:"chave"`
	OutputType      string `json:"tipoSaida"`
	Active          string `json:"ativo,omitempty"`
	Inactive        string `json:"inativo,omitempty"`
	Away            string `json:"afastado,omitempty"`
	Pending         string `json:"pendente,omitempty"`
	Vacation        string `json:"ferias,omitempty"`
	WorkCompany     string `json:"empresaTrabalho,omitempty"`
	StartDate       string `json:"dataInicio,omitempty"`
	EndDate         string `json:"dataFim,omitempty"`
}

// ParamsForCredential builds the export parameters for one owner credential
// row. Employee filter flags and the absenteeism date range only apply to
// their own export types.
func ParamsForCredential(cred *models.SOCCredential) ExportParams {
	params := ExportParams{
		AccountCode:     cred.AccountCode,
		IntegrationCode: cred.IntegrationCode,
		IntegrationKey:  cred.IntegrationKey,
	}

	switch cred.Type {
	case models.SyncTypeEmployee:
		params.Active = flag(cred.IncludeActive)
		params.Inactive = flag(cred.IncludeInactive)
		params.Away = flag(cred.IncludeAway)
		params.Pending = flag(cred.IncludePending)
		params.Vacation = flag(cred.IncludeVacation)
	case models.SyncTypeAbsenteeism:
		if cred.WorkCompanyCode != nil {
			params.WorkCompany = *cred.WorkCompanyCode
		}
		if cred.StartDate != nil {
			params.StartDate = *cred.StartDate
		}
		if cred.EndDate != nil {
			params.EndDate = *cred.EndDate
		}
	}

	return params
}

// flag renders a boolean the way the web service expects it.
func flag(b bool) string {
	if b {
		return "Sim"
	}
	return ""
}
