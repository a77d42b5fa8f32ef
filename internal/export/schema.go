package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roadside-plus/backend/internal/models"
)

// Column is one output column: a header and the accessor that reads its value.
type Column struct {
	Header string
	Value  func(models.Record) (any, bool)
}

// field reads a dotted path such as "user.name".
func field(header, path string) Column {
	return Column{Header: header, Value: func(r models.Record) (any, bool) {
		return r.Lookup(path)
	}}
}

// key reads one top-level key verbatim, dots included.
func key(header, k string) Column {
	return Column{Header: header, Value: func(r models.Record) (any, bool) {
		return r.Get(k)
	}}
}

// Schema is the resolved column list for one dataset.
type Schema struct {
	Kind    models.DatasetKind
	Columns []Column
}

func (s Schema) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// Row projects rec onto the schema. The result always has len(s.Columns) cells;
// absent and null values render as "".
func (s Schema) Row(rec models.Record) ([]string, error) {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		v, ok := c.Value(rec)
		if !ok {
			continue
		}
		text, err := Text(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Header, err)
		}
		out[i] = text
	}
	return out, nil
}

var baseColumns = []Column{
	field("ID", "id"),
	field("Name", "name"),
	field("Email", "email"),
	field("Phone", "phone"),
	field("Status", "status"),
	field("Created At", "createdAt"),
	field("Last Active", "lastActive"),
}

var csvColumns = map[models.DatasetKind][]Column{
	models.KindEmergencyRequests: {
		field("ID", "id"),
		field("User", "user.name"),
		field("Service Type", "serviceType"),
		field("Location", "location"),
		field("Status", "status"),
		field("Time", "time"),
		field("Membership", "user.membership"),
	},
	models.KindCustomers: withBase(
		field("Membership", "membership"),
		field("Location", "location"),
		field("Total Services", "totalServices"),
		field("Total Spent", "totalSpent"),
	),
	models.KindTechnicians: withBase(
		field("Tech ID", "techId"),
		field("Rating", "rating"),
		field("Specialties", "specialties"),
		field("Online", "isOnline"),
		field("Completed Jobs", "completedJobs"),
		field("Earnings", "earnings"),
	),
	models.KindPartners: withBase(
		field("Company", "company"),
		field("Domain", "domain"),
		field("Plan", "plan"),
		field("Active Users", "activeUsers"),
		field("Monthly Revenue", "monthlyRevenue"),
	),
	models.KindAdmins: withBase(
		field("Role", "role"),
		field("Permissions", "permissions"),
		field("Last Login", "lastLogin"),
	),
	models.KindSystemAlerts: {
		field("ID", "id"),
		field("Title", "title"),
		field("Message", "message"),
		field("Severity", "severity"),
		field("Category", "category"),
		field("Status", "status"),
		field("Priority", "priority"),
		field("Timestamp", "timestamp"),
		field("Source", "source"),
	},
}

// tableColumns is the narrower set used by the printable report. It differs from
// csvColumns on purpose; downstream consumers depend on both layouts.
var tableColumns = map[models.DatasetKind][]Column{
	models.KindEmergencyRequests: {
		field("ID", "id"),
		field("User", "user.name"),
		field("Service Type", "serviceType"),
		field("Location", "location"),
		field("Status", "status"),
		field("Time", "time"),
	},
	models.KindCustomers: {
		field("ID", "id"),
		field("Name", "name"),
		field("Email", "email"),
		field("Phone", "phone"),
		field("Membership", "membership"),
		field("Status", "status"),
	},
	models.KindTechnicians: {
		field("ID", "id"),
		field("Name", "name"),
		field("Tech ID", "techId"),
		field("Rating", "rating"),
		field("Online", "isOnline"),
		field("Completed Jobs", "completedJobs"),
	},
	models.KindPartners: {
		field("ID", "id"),
		field("Company", "company"),
		field("Domain", "domain"),
		field("Plan", "plan"),
		field("Status", "status"),
	},
	models.KindAdmins: {
		field("ID", "id"),
		field("Name", "name"),
		field("Email", "email"),
		field("Role", "role"),
		field("Status", "status"),
	},
	models.KindSystemAlerts: {
		field("ID", "id"),
		field("Title", "title"),
		field("Severity", "severity"),
		field("Category", "category"),
		field("Status", "status"),
		field("Timestamp", "timestamp"),
	},
}

func withBase(extra ...Column) []Column {
	out := make([]Column, 0, len(baseColumns)+len(extra))
	out = append(out, baseColumns...)
	return append(out, extra...)
}

// Resolve returns the CSV schema for dataType. Unknown kinds take their headers
// from the keys of the first record, in order.
func Resolve(dataType string, rows []models.Record) Schema {
	return resolve(dataType, rows, csvColumns)
}

// ResolveTable returns the reduced schema used by the printable report.
func ResolveTable(dataType string, rows []models.Record) Schema {
	return resolve(dataType, rows, tableColumns)
}

func resolve(dataType string, rows []models.Record, table map[models.DatasetKind][]Column) Schema {
	kind := models.DatasetKind(dataType)
	if cols, ok := table[kind]; ok {
		return Schema{Kind: kind, Columns: cols}
	}
	s := Schema{Kind: kind}
	if len(rows) == 0 {
		return s
	}
	for _, k := range rows[0].Keys() {
		s.Columns = append(s.Columns, key(k, k))
	}
	return s
}

// Text renders a decoded JSON value as a cell. Arrays join with "; ",
// booleans become Yes/No and nested objects are written as compact JSON.
func Text(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		if t {
			return "Yes", nil
		}
		return "No", nil
	case json.Number:
		return numberText(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return floatText(t), nil
	case []string:
		return strings.Join(t, "; "), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			s, err := Text(e)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "; "), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func numberText(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return floatText(f)
}

func floatText(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
