// =============================================================================
// Bump Chart Delta Reconciler - Pricing Source Client
// =============================================================================
//
// HTTP client for the two Plex datasource endpoints the reconciler depends
// on:
//
//   - the part-key datasource, resolving a human part number to the
//     internal Part_Key, and
//   - the price datasource, returning PO price history for a Part_Key from
//     a given month start.
//
// Both speak the same wire shape: POST {"inputs": {...}} with basic auth,
// response {"tables": [{"columns": [...], "rows": [[...]]}]}. Rows are
// positional against the parallel column list; this client converts them to
// typed candidates and hands selection to the resolve package.
//
// Transport failures never abort a run. Timeouts and non-success responses
// come back as status strings on the record, with the chart price carried
// through unchanged. Credentials vary per PCN, so every call takes them
// explicitly.
//
// =============================================================================

package plex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/bumpchart-delta/internal/cache"
	"github.com/ginjaninja78/bumpchart-delta/internal/resolve"
	"github.com/ginjaninja78/bumpchart-delta/pkg/utils"
)

// StatusTimedOut is surfaced when a datasource call exceeds the timeout.
const StatusTimedOut = "Timed Out"

// requestTimeout matches the datasource gateway's own limit; waiting longer
// only ties up the run.
const requestTimeout = 24 * time.Second

// Required column names in datasource responses.
const (
	colPartKey      = "Part_Key"
	colPartStatus   = "Part_Status"
	colRevision     = "Revision"
	colCustomerCode = "Customer_Code"
	colCustomerName = "Customer_Name"
	colUnitPrice    = "Unit_Price"
	colShipDate     = "Require_Ship_Date"
	colPONo         = "PO_No"
)

// Client talks to the part-key and price datasources.
type Client struct {
	httpClient *http.Client
	partKeyURL string
	priceURL   string
	partKeys   *cache.PartKeyCache
}

// NewClient creates a Client. partKeys may be nil to disable caching.
func NewClient(partKeyURL, priceURL string, partKeys *cache.PartKeyCache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		partKeyURL: partKeyURL,
		priceURL:   priceURL,
		partKeys:   partKeys,
	}
}

// =============================================================================
// PART KEY LOOKUP
// =============================================================================

// RetrievePartKey resolves a part number (plus optional customer code) to a
// Part_Key. Lookup is two-phase: Part_No first, and only when that query
// returns no candidate at all, the looser Customer_Part_No field. The
// ranker itself never widens a customer-filtered set; the retry re-queries.
//
// An empty part key with an empty status means "no candidate qualified";
// the caller assigns the report wording.
func (c *Client) RetrievePartKey(partNo, customerCode string, creds Credentials) (string, string) {
	customer := strings.ToLower(strings.TrimSpace(customerCode))

	if c.partKeys != nil {
		if key, ok := c.partKeys.Get(partNo, customer); ok {
			return key, ""
		}
	}

	key, status := c.lookupPartKey(partNo, customer, "Part_No", creds)
	if key == "" && status == "" {
		slog.Info("part key not found via Part_No, retrying with Customer_Part_No", "part", partNo)
		key, status = c.lookupPartKey(partNo, customer, "Customer_Part_No", creds)
	}

	if key != "" && c.partKeys != nil {
		if err := c.partKeys.Put(partNo, customer, key); err != nil {
			slog.Warn("failed to persist part key cache", "part", partNo, "error", err)
		}
	}
	return key, status
}

// lookupPartKey runs one part-key query and ranks the returned candidates.
func (c *Client) lookupPartKey(partNo, customer, lookupField string, creds Credentials) (string, string) {
	columns, rows, err := c.queryTable(c.partKeyURL, creds, map[string]any{
		lookupField:   partNo,
		"Active_Only": 1,
	})
	if err != nil {
		if isTimeout(err) {
			slog.Error("timeout retrieving part key", "part", partNo, "lookup_field", lookupField)
			return "", StatusTimedOut
		}
		slog.Error("error retrieving part key", "part", partNo, "lookup_field", lookupField, "error", err)
		return "", ""
	}
	if len(rows) == 0 || len(columns) == 0 {
		return "", ""
	}

	idx := columnIndex(columns)
	keyCol, ok1 := idx[colPartKey]
	statusCol, ok2 := idx[colPartStatus]
	revCol, ok3 := idx[colRevision]
	custCol, ok4 := idx[colCustomerCode]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		slog.Error("part key response missing required columns", "part", partNo, "columns", columns)
		return "", ""
	}

	candidates := make([]resolve.IdentityCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, resolve.IdentityCandidate{
			PartKey:      cellString(cellAt(row, keyCol)),
			Status:       cellString(cellAt(row, statusCol)),
			Revision:     cellString(cellAt(row, revCol)),
			CustomerCode: cellString(cellAt(row, custCol)),
		})
	}

	res := resolve.ResolveIdentity(customer, candidates)
	if !res.Found {
		return "", res.Status
	}
	slog.Debug("selected part key", "part", partNo, "part_key", res.Value)
	return res.Value, res.Status
}

// =============================================================================
// PRICE LOOKUP
// =============================================================================

// QueryPrice fetches PO history for a part key from monthStartISO and
// resolves one price. The chart price is both the proximity reference and
// the fallback value: whatever goes wrong, the returned price is usable for
// a delta (degrading to zero).
func (c *Client) QueryPrice(partKey, monthStartISO string, creds Credentials, chartPrice float64, customerName string, knownNames []string, today time.Time) (float64, string, string) {
	columns, rows, err := c.queryTable(c.priceURL, creds, map[string]any{
		"Part_Key":           partKey,
		"Shipper_Date_Begin": monthStartISO,
	})
	if err != nil {
		if isTimeout(err) {
			slog.Error("timeout retrieving price", "part_key", partKey)
			return chartPrice, StatusTimedOut, ""
		}
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			slog.Error("price datasource error", "part_key", partKey, "status", apiErr.code)
			return chartPrice, fmt.Sprintf("PO API error: %s", apiErr), ""
		}
		slog.Error("error retrieving price", "part_key", partKey, "error", err)
		return chartPrice, fmt.Sprintf("PO API exception: %v", err), ""
	}
	if len(rows) == 0 || len(columns) == 0 {
		return chartPrice, resolve.StatusNoPOsYet, ""
	}

	idx := columnIndex(columns)
	nameCol, ok1 := idx[colCustomerName]
	priceCol, ok2 := idx[colUnitPrice]
	dateCol, ok3 := idx[colShipDate]
	if !ok1 || !ok2 || !ok3 {
		return chartPrice, resolve.StatusMissingColumns, ""
	}
	poCol, hasPO := idx[colPONo]

	candidates := make([]resolve.PriceCandidate, 0, len(rows))
	for _, row := range rows {
		price, ok := cellFloat(cellAt(row, priceCol))
		if !ok {
			continue
		}
		cand := resolve.PriceCandidate{
			Price:        price,
			CustomerName: cellString(cellAt(row, nameCol)),
		}
		if d, ok := utils.ParseDate(cellString(cellAt(row, dateCol))); ok {
			cand.ShipDate = d
		}
		if hasPO {
			cand.PONo = cellString(cellAt(row, poCol))
		}
		candidates = append(candidates, cand)
	}

	threshold, _ := utils.ParseDate(monthStartISO)
	res := resolve.ResolvePrice(candidates, chartPrice, threshold, customerName, knownNames, today)
	if !res.Found {
		return chartPrice, res.Status, ""
	}
	slog.Debug("selected PO", "part_key", partKey, "po", res.Value.PONo, "price", res.Value.Price, "status", res.Status)
	return res.Value.Price, res.Status, res.Value.PONo
}

// =============================================================================
// TRANSPORT
// =============================================================================

// queryTable executes one datasource POST and decodes the first table.
func (c *Client) queryTable(url string, creds Credentials, inputs map[string]any) ([]string, [][]any, error) {
	payload, err := json.Marshal(map[string]any{"inputs": inputs})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(creds.Username, creds.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, &apiError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	var decoded struct {
		Tables []struct {
			Columns []string `json:"columns"`
			Rows    [][]any  `json:"rows"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Tables) == 0 {
		return nil, nil, nil
	}
	return decoded.Tables[0].Columns, decoded.Tables[0].Rows, nil
}

// apiError is a non-success datasource response.
type apiError struct {
	code int
	body string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s", e.code, e.body)
}

// isTimeout reports whether err is a client or transport timeout.
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// =============================================================================
// ROW VALUE HELPERS
// =============================================================================

// columnIndex maps each column name to its position in the parallel rows.
func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, name := range columns {
		idx[name] = i
	}
	return idx
}

// cellString renders a row value as a string; JSON numbers drop a trailing
// ".0" so part keys and PO numbers stay readable.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// cellFloat parses a row value as a number.
func cellFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		return utils.ParsePrice(t)
	default:
		return 0, false
	}
}

// cellAt safely indexes a row.
func cellAt(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}
