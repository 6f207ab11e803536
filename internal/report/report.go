// =============================================================================
// Sales Pipeline - XLSX Report Stage
// =============================================================================
//
// The report stage is a downstream consumer of the JSON artifact. It reads the
// records back and materializes a workbook next to the artifact:
//
//   Sheet "Sales" (name configurable)
//   | Invoice | Description | Quantity | Price | Total | Provider | Country |
//
//   Sheet "By Country"
//   | Country | Records | Total |
//
// Per-country totals are summed as decimals and rounded to cents so the
// workbook does not show float drift. The JSON artifact is never modified.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/JLuisHub/flujo-de-datosV2/internal/artifact"
	"github.com/JLuisHub/flujo-de-datosV2/internal/logger"
	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
	"github.com/JLuisHub/flujo-de-datosV2/pkg/utils"
)

// StageName is the scheduler name of the report stage.
const StageName = "report"

// CountrySheet is the name of the aggregate worksheet.
const CountrySheet = "By Country"

// SalesHeader is the header row of the per-record worksheet.
var SalesHeader = []any{"Invoice", "Description", "Quantity", "Price", "Total", "Provider", "Country"}

// CountryHeader is the header row of the aggregate worksheet.
var CountryHeader = []any{"Country", "Records", "Total"}

// =============================================================================
// AGGREGATION
// =============================================================================

// CountryTotal is the aggregate for one country.
type CountryTotal struct {
	Country string
	Records int
	Total   decimal.Decimal
}

// ByCountry sums record totals per country, sorted by country.
func ByCountry(records []types.SaleRecord) []CountryTotal {
	index := make(map[string]int)
	var totals []CountryTotal

	for _, r := range records {
		i, ok := index[r.Country]
		if !ok {
			i = len(totals)
			index[r.Country] = i
			totals = append(totals, CountryTotal{Country: r.Country})
		}
		totals[i].Records++
		totals[i].Total = totals[i].Total.Add(decimal.NewFromFloat(float64(r.Total)))
	}

	for i := range totals {
		totals[i].Total = totals[i].Total.Round(2)
	}
	sort.Slice(totals, func(a, b int) bool { return totals[a].Country < totals[b].Country })
	return totals
}

// =============================================================================
// STAGE
// =============================================================================

// Stage writes the XLSX report.
type Stage struct {
	files        *utils.FileManager
	writer       *artifact.Writer
	requires     string
	artifactPath string
	reportPath   string
	sheetName    string
	logger       logger.Logger
}

// New creates a report stage reading artifactPath, produced by the stage
// named requires, and writing reportPath.
func New(fsys afero.Fs, requires, artifactPath, reportPath, sheetName string, log logger.Logger) *Stage {
	return &Stage{
		files:        utils.NewFileManager(fsys),
		writer:       artifact.NewWriter(fsys, artifact.DefaultOptions()),
		requires:     requires,
		artifactPath: artifactPath,
		reportPath:   reportPath,
		sheetName:    sheetName,
		logger:       log,
	}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return StageName }

// Requires implements pipeline.Stage.
func (s *Stage) Requires() []string { return []string{s.requires} }

// Output implements pipeline.Stage.
func (s *Stage) Output() string { return s.reportPath }

// Complete reports whether the workbook already exists.
func (s *Stage) Complete() (bool, error) {
	return s.files.FileExists(s.reportPath)
}

// Run reads the artifact and writes the workbook.
func (s *Stage) Run() error {
	records, err := artifact.ReadRecords(s.files.Fs(), s.artifactPath)
	if err != nil {
		return err
	}

	wb, err := Build(records, s.sheetName)
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := s.writer.WriteFunc(s.reportPath, func(w io.Writer) error {
		return wb.Write(w)
	}); err != nil {
		return err
	}

	s.logger.Info("report written", "path", s.reportPath, "records", len(records))
	return nil
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Build renders records into a new workbook. The caller must Close it.
func Build(records []types.SaleRecord, sheetName string) (*excelize.File, error) {
	if strings.EqualFold(sheetName, CountrySheet) {
		return nil, fmt.Errorf("sheet name %q is reserved", sheetName)
	}

	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet %q: %w", sheetName, err)
	}
	if err := writeSales(f, sheetName, records); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(CountrySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet %q: %w", CountrySheet, err)
	}
	if err := writeCountries(f, ByCountry(records)); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeSales(f *excelize.File, sheet string, records []types.SaleRecord) error {
	if err := f.SetSheetRow(sheet, "A1", &SalesHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Invoice, r.Description, r.Quantity.Value, r.Price.Value, float64(r.Total), r.Provider, r.Country}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeCountries(f *excelize.File, totals []CountryTotal) error {
	if err := f.SetSheetRow(CountrySheet, "A1", &CountryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, ct := range totals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{ct.Country, ct.Records, ct.Total.InexactFloat64()}
		if err := f.SetSheetRow(CountrySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}
