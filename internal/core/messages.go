package core

import (
	"errors"
	"strings"
)

// Page and section titles shared by the web and terminal presenters.
const (
	PageTitle    = "Visualisation Budget"
	ReportTitle  = "Répartition du budget - Contributions cumulées"
	TableTitle   = "Tableau des parts"
	ChartTitle   = "Répartition en pourcentage"
	NoDataText   = "Aucune donnée à afficher : aucune contribution valide après nettoyage."
	TotalCaption = "Total général collecté"
)

// TotalLine renders the summary line above the table, e.g.
// "Total général collecté : 12,345".
func TotalLine(r Report) string {
	return TotalCaption + " : " + FormatTotal(r.GrandTotal)
}

// ErrorKind classifies pipeline errors for presenters and status codes.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindLoad           ErrorKind = "load_error"
	KindMissingColumns ErrorKind = "missing_columns"
	KindNoData         ErrorKind = "no_data"
	KindInternal       ErrorKind = "internal_error"
)

// KindOf returns the kind of a pipeline error.
func KindOf(err error) ErrorKind {
	var le *LoadError
	var mc *MissingColumnsError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &le):
		return KindLoad
	case errors.As(err, &mc):
		return KindMissingColumns
	case errors.Is(err, ErrNoData):
		return KindNoData
	default:
		return KindInternal
	}
}

// UserMessage returns the banner text shown to the reader for a pipeline error.
// Load failures carry the underlying cause; missing columns list what the
// sheet actually has.
func UserMessage(err error) string {
	var le *LoadError
	var mc *MissingColumnsError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &le):
		return "Erreur lors du chargement du fichier : " + le.Error()
	case errors.As(err, &mc):
		return "Colonnes attendues non trouvées (" + strings.Join(mc.Missing, ", ") +
			"). Colonnes disponibles : [" + strings.Join(quoteAll(mc.Available), ", ") + "]"
	case errors.Is(err, ErrNoData):
		return NoDataText
	default:
		return "Erreur inattendue : " + err.Error()
	}
}
