// =============================================================================
// Bump Chart Delta Reconciler - Reconciliation Engine
// =============================================================================
//
// Ties the pipeline together for one workbook: extract chart records,
// resolve each part's internal key and current price, compute the delta,
// and write the report. Records are reconciled in isolation: one record's
// failure becomes a status string on its row, never an aborted file, and
// one file's failure never aborts the run (the caller collects per-file
// Results from a channel).
//
// =============================================================================

package reconcile

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/bumpchart-delta/internal/cache"
	"github.com/ginjaninja78/bumpchart-delta/internal/chart"
	"github.com/ginjaninja78/bumpchart-delta/internal/customers"
	"github.com/ginjaninja78/bumpchart-delta/internal/plex"
	"github.com/ginjaninja78/bumpchart-delta/internal/report"
	"github.com/ginjaninja78/bumpchart-delta/internal/types"
	"github.com/ginjaninja78/bumpchart-delta/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of reconciling a single workbook.
type Result struct {
	// FilePath is the input workbook that was processed.
	FilePath string

	// OutputFile is the written delta report; empty when processing failed
	// or the run was dry.
	OutputFile string

	// Success indicates whether the workbook was processed.
	Success bool

	// Error contains the failure when Success is false.
	Error error

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains per-workbook processing statistics.
type Stats struct {
	// RecordsExtracted is the number of (row, customer) records extracted.
	RecordsExtracted int

	// RecordsReported is the number of rows written to the report.
	RecordsReported int

	// RecordsSkipped counts records dropped for missing part keys or
	// unresolvable credentials.
	RecordsSkipped int

	// ProcessingTime is the time taken for this workbook.
	ProcessingTime time.Duration
}

// =============================================================================
// ENGINE STRUCTURE
// =============================================================================

// CredentialSource resolves datasource credentials for a PCN.
type CredentialSource func(pcn string) (plex.Credentials, error)

// Engine reconciles chart records against the pricing source.
type Engine struct {
	client    *plex.Client
	prices    *cache.PriceMemo
	directory *customers.Directory
	credsFor  CredentialSource
	extractor *chart.Extractor

	// now lets tests pin "today"; defaults to time.Now.
	now func() time.Time
}

// Options configures a new Engine.
type Options struct {
	Client      *plex.Client
	Prices      *cache.PriceMemo
	Directory   *customers.Directory
	Credentials CredentialSource
	Extractor   *chart.Extractor
	Now         func() time.Time
}

// New creates an Engine.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	prices := opts.Prices
	if prices == nil {
		prices = cache.NewPriceMemo()
	}
	return &Engine{
		client:    opts.Client,
		prices:    prices,
		directory: opts.Directory,
		credsFor:  opts.Credentials,
		extractor: opts.Extractor,
		now:       now,
	}
}

// =============================================================================
// WORKBOOK PROCESSING
// =============================================================================

// ProcessFile reconciles one workbook and writes its delta report into
// runDir. When dryRun is set, or no records survive reconciliation, the
// report write is skipped and OutputFile stays empty.
func (e *Engine) ProcessFile(inputPath, reportPath string, dryRun bool) Result {
	start := time.Now()
	result := Result{FilePath: inputPath}

	records, err := e.extractor.ExtractWorkbook(inputPath, e.now())
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.RecordsExtracted = len(records)
	slog.Info("workbook extracted", "file", inputPath, "records", len(records))

	results := e.Reconcile(records)
	result.Stats.RecordsSkipped = len(records) - len(results)
	result.Stats.RecordsReported = len(results)

	if len(results) == 0 {
		slog.Info("no reconciled records, skipping report", "file", inputPath)
	} else if !dryRun {
		if err := report.Write(results, reportPath); err != nil {
			result.Error = err
			return result
		}
		result.OutputFile = reportPath
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	return result
}

// Reconcile resolves every record and returns the report rows, in input
// order. Records that resolve to no part key are logged and dropped from
// the outbound list; everything else gets a row, whatever its status.
func (e *Engine) Reconcile(records []types.ChartRecord) []types.CompareResult {
	var out []types.CompareResult
	for _, rec := range records {
		res, ok := e.reconcileRecord(rec)
		if !ok {
			continue
		}
		if res.Status == types.StatusNoPartKey {
			slog.Info("skipping part with no part key", "part", res.PartNumber, "status", res.Status)
			continue
		}
		out = append(out, res)
	}
	return out
}

// reconcileRecord resolves one record. ok is false only when credentials
// for the record's PCN cannot be resolved; that record is skipped with a
// logged reason and the run continues.
func (e *Engine) reconcileRecord(rec types.ChartRecord) (types.CompareResult, bool) {
	partNo := strconv.Itoa(rec.PartNumber)
	customerCode := strings.ToLower(strings.TrimSpace(rec.Customer))

	creds, err := e.credsFor(rec.PCN)
	if err != nil {
		slog.Error("failed to resolve credentials", "part", partNo, "pcn", rec.PCN, "error", err)
		return types.CompareResult{}, false
	}

	_, monthStartISO := utils.MonthStart(rec.EffectiveDate)
	customerName := e.directory.NameForCode(customerCode)

	partKey, status := e.client.RetrievePartKey(partNo, customerCode, creds)

	plexPrice := rec.ChartPrice
	poNo := ""
	if partKey == "" {
		if status == "" {
			status = types.StatusNoPartKey
		}
	} else {
		key := cache.PriceKey{
			PartKey:      partKey,
			CustomerCode: customerCode,
			PCN:          rec.PCN,
			MonthStart:   monthStartISO,
		}
		if entry, ok := e.prices.Get(key); ok {
			plexPrice, status, poNo = entry.Price, entry.Status, entry.PONo
		} else {
			plexPrice, status, poNo = e.client.QueryPrice(
				partKey, monthStartISO, creds,
				rec.ChartPrice, customerName, e.directory.Names, e.now(),
			)
			e.prices.Put(key, cache.PriceEntry{Price: plexPrice, Status: status, PONo: poNo})
		}
	}

	delta := utils.RoundDelta(plexPrice - rec.ChartPrice)

	result := types.CompareResult{
		PartNumber:    partNo,
		ChartPrice:    rec.ChartPrice,
		PlexPrice:     plexPrice,
		Delta:         delta,
		Description:   rec.Description,
		PCN:           rec.PCN,
		Program:       rec.Program,
		OEMPlant:      rec.OEMPlant,
		Customer:      customerName,
		PONo:          poNo,
		EffectiveDate: rec.EffectiveDate,
		Status:        status,
		PartKey:       partKey,
	}

	slog.Info("record reconciled",
		"part", partNo,
		"program", rec.Program,
		"chart_price", utils.FormatPrice(rec.ChartPrice),
		"plex_price", utils.FormatPrice(plexPrice),
		"delta", delta,
		"status", status,
		"pcn", rec.PCN,
		"customer", customerName,
	)
	return result, true
}
