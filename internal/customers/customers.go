// Package customers loads the customer master list used to turn chart
// customer codes into the names the pricing source reports.
//
// The list is a two-column CSV (Customer_Code, Customer_Name) exported from
// the ERP; column order is not assumed, headers are matched by name.
package customers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Directory maps customer codes to names and carries the known-name set
// the price resolver fuzzy-matches against.
type Directory struct {
	// CodeToName maps lower-cased, trimmed customer codes to names.
	CodeToName map[string]string

	// Names holds every customer name, trimmed, in file order.
	Names []string
}

// NameForCode resolves a raw chart customer code to a customer name.
// Unknown codes yield "".
func (d *Directory) NameForCode(code string) string {
	return d.CodeToName[strings.ToLower(strings.TrimSpace(code))]
}

// Load reads the customer list CSV.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open customer list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer list: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("customer list %s is empty", path)
	}

	codeCol, nameCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "customer_code":
			codeCol = i
		case "customer_name":
			nameCol = i
		}
	}
	if codeCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("customer list %s is missing Customer_Code/Customer_Name headers", path)
	}

	dir := &Directory{CodeToName: make(map[string]string)}
	for _, row := range records[1:] {
		if codeCol >= len(row) || nameCol >= len(row) {
			continue
		}
		code := strings.ToLower(strings.TrimSpace(row[codeCol]))
		name := strings.TrimSpace(row[nameCol])
		if code == "" || name == "" {
			continue
		}
		dir.CodeToName[code] = name
		dir.Names = append(dir.Names, name)
	}
	return dir, nil
}
