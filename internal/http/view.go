package http

import (
	"time"

	"budgetviz/internal/chart"
	"budgetviz/internal/core"
)

// reportResult is what the cache holds: a built report or the error that
// stopped the pipeline, so failures are cached for the TTL as well.
type reportResult struct {
	Report  core.Report
	Err     error
	BuiltAt time.Time
}

type banner struct {
	Kind    core.ErrorKind
	Message string
}

type rowView struct {
	Rank       int
	Name       string
	Total      string
	Share      string
	TotalValue string // raw value used for sorting
	ShareValue string
	Bar        float64 // bar width in percent of the widest bar
}

// pageData feeds the report templates.
type pageData struct {
	PageTitle   string
	ReportTitle string
	TableTitle  string
	ChartTitle  string
	Source      string
	BuiltAt     string

	Error     *banner
	NoData    bool
	NoDataMsg string

	TotalLine string
	Rows      []rowView
	Pie       chart.Pie
}

func newPageData(source string, res reportResult) pageData {
	d := pageData{
		PageTitle:   core.PageTitle,
		ReportTitle: core.ReportTitle,
		TableTitle:  core.TableTitle,
		ChartTitle:  core.ChartTitle,
		Source:      source,
		NoDataMsg:   core.NoDataText,
	}
	if !res.BuiltAt.IsZero() {
		d.BuiltAt = res.BuiltAt.Format("02/01/2006 15:04:05")
	}

	switch kind := core.KindOf(res.Err); kind {
	case core.KindNone:
	case core.KindNoData:
		d.NoData = true
		return d
	default:
		d.Error = &banner{Kind: kind, Message: core.UserMessage(res.Err)}
		return d
	}

	report := res.Report
	max := report.MaxShare()
	d.TotalLine = core.TotalLine(report)
	d.Rows = make([]rowView, 0, len(report.Summaries))
	for _, s := range report.Summaries {
		d.Rows = append(d.Rows, rowView{
			Rank:       s.Rank,
			Name:       s.Name,
			Total:      core.FormatTotal(s.Total),
			Share:      core.FormatShare(s.Share),
			TotalValue: s.Total.String(),
			ShareValue: s.Share.StringFixed(2),
			Bar:        core.BarWidth(s.Share, max),
		})
	}
	d.Pie = chart.NewPie(report.Summaries, chart.DefaultLayout())
	return d
}

// apiContributor and apiReport are the JSON shape of GET /api/report.
// Amounts are strings so no precision is lost.
type apiContributor struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Total string `json:"total"`
	Share string `json:"share"`
}

type apiStats struct {
	RowsRead      int `json:"rows_read"`
	RowsKept      int `json:"rows_kept"`
	MissingName   int `json:"dropped_missing_name"`
	Excluded      int `json:"dropped_excluded"`
	InvalidAmount int `json:"dropped_invalid_amount"`
	MergedRows    int `json:"merged_rows"`
}

type apiReport struct {
	Source       string           `json:"source"`
	State        string           `json:"state"`
	Error        string           `json:"error,omitempty"`
	GrandTotal   string           `json:"grand_total,omitempty"`
	TotalLine    string           `json:"total_line,omitempty"`
	Contributors []apiContributor `json:"contributors"`
	Stats        *apiStats        `json:"stats,omitempty"`
	BuiltAt      *time.Time       `json:"built_at,omitempty"`
}

func newAPIReport(source string, res reportResult) apiReport {
	out := apiReport{Source: source, State: "ok", Contributors: []apiContributor{}}
	if !res.BuiltAt.IsZero() {
		t := res.BuiltAt.UTC()
		out.BuiltAt = &t
	}
	if kind := core.KindOf(res.Err); kind != core.KindNone {
		out.State = string(kind)
		out.Error = core.UserMessage(res.Err)
		if kind != core.KindNoData {
			return out
		}
	}

	st := res.Report.Stats
	out.Stats = &apiStats{
		RowsRead:      st.RowsRead,
		RowsKept:      st.Kept,
		MissingName:   st.MissingName,
		Excluded:      st.Excluded,
		InvalidAmount: st.InvalidAmount,
		MergedRows:    st.MergedRows,
	}
	if res.Err != nil {
		return out
	}
	out.GrandTotal = res.Report.GrandTotal.String()
	out.TotalLine = core.TotalLine(res.Report)
	for _, s := range res.Report.Summaries {
		out.Contributors = append(out.Contributors, apiContributor{
			Rank:  s.Rank,
			Name:  s.Name,
			Total: s.Total.String(),
			Share: s.Share.StringFixed(2),
		})
	}
	return out
}
