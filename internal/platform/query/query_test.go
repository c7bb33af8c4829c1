package query

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw    string
		prefix Prefix
		value  string
	}{
		{"ge2026-01-01", PrefixGe, "2026-01-01"},
		{"gt100", PrefixGt, "100"},
		{"le2026-06-30", PrefixLe, "2026-06-30"},
		{"ne50", PrefixNe, "50"},
		{"100", PrefixEq, "100"},
		{"scheduled", PrefixEq, "scheduled"},
	}
	for _, tt := range tests {
		p := ParseValue(tt.raw)
		if p.Prefix != tt.prefix || p.Value != tt.value {
			t.Errorf("ParseValue(%q) = (%s, %q), want (%s, %q)", tt.raw, p.Prefix, p.Value, tt.prefix, tt.value)
		}
	}
}

func TestBuilder_ExactMatch(t *testing.T) {
	b := NewBuilder("appointment", "id, status")
	b.AddExact("status", "scheduled")

	sql := b.CountSQL()
	if sql != "SELECT COUNT(*) FROM appointment WHERE 1=1 AND status = $1" {
		t.Errorf("unexpected count SQL: %q", sql)
	}
	args := b.CountArgs()
	if len(args) != 1 || args[0] != "scheduled" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuilder_DateRangePrefix(t *testing.T) {
	b := NewBuilder("appointment", "id")
	b.AddDate("start_time", "ge2026-03-01")

	sql := b.DataSQL(10, 0)
	if !strings.Contains(sql, "start_time >= $1") {
		t.Errorf("expected >= clause, got %q", sql)
	}
	if !strings.Contains(sql, "LIMIT $2 OFFSET $3") {
		t.Errorf("expected limit/offset placeholders, got %q", sql)
	}
}

func TestBuilder_DateEqualityMatchesWholeDay(t *testing.T) {
	b := NewBuilder("appointment", "id")
	b.AddDate("start_time", "2026-03-01")

	sql := b.CountSQL()
	if !strings.Contains(sql, "start_time >= $1 AND start_time <= $2") {
		t.Errorf("expected day-range clause, got %q", sql)
	}
	if len(b.CountArgs()) != 2 {
		t.Errorf("expected 2 args, got %d", len(b.CountArgs()))
	}
}

func TestBuilder_StringContains(t *testing.T) {
	b := NewBuilder("patient", "id, last_name")
	b.AddString("last_name", "smith")

	if !strings.Contains(b.CountSQL(), "last_name ILIKE $1") {
		t.Errorf("expected ILIKE clause, got %q", b.CountSQL())
	}
	if b.CountArgs()[0] != "%smith%" {
		t.Errorf("expected wrapped pattern, got %v", b.CountArgs()[0])
	}
}

func TestBuilder_ApplyParamsIgnoresUnknown(t *testing.T) {
	configs := map[string]ParamConfig{
		"status": {Type: ParamExact, Column: "status"},
	}
	b := NewBuilder("appointment", "id")
	b.ApplyParams(map[string]string{
		"status": "confirmed",
		"bogus":  "x",
	}, configs)

	if len(b.CountArgs()) != 1 {
		t.Errorf("expected only known params applied, got %d args", len(b.CountArgs()))
	}
}

func TestBuilder_ApplySort(t *testing.T) {
	configs := map[string]ParamConfig{
		"start": {Type: ParamDate, Column: "start_time"},
		"name":  {Type: ParamString, Column: "last_name"},
	}

	b := NewBuilder("appointment", "id")
	b.ApplySort("-start,name", "created_at DESC", configs)
	if !strings.Contains(b.DataSQL(10, 0), "ORDER BY start_time DESC, last_name ASC") {
		t.Errorf("unexpected order by: %q", b.DataSQL(10, 0))
	}

	b2 := NewBuilder("appointment", "id")
	b2.ApplySort("", "created_at DESC", configs)
	if !strings.Contains(b2.DataSQL(10, 0), "ORDER BY created_at DESC") {
		t.Errorf("expected default order, got %q", b2.DataSQL(10, 0))
	}

	b3 := NewBuilder("appointment", "id")
	b3.ApplySort("unknown", "created_at DESC", configs)
	if !strings.Contains(b3.DataSQL(10, 0), "ORDER BY created_at DESC") {
		t.Errorf("expected fallback to default order, got %q", b3.DataSQL(10, 0))
	}
}

func TestBuilder_DataArgsAppendLimitOffset(t *testing.T) {
	b := NewBuilder("appointment", "id")
	b.AddExact("status", "pending")

	args := b.DataArgs(20, 40)
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[1] != 20 || args[2] != 40 {
		t.Errorf("expected limit/offset appended, got %v", args)
	}
}

func TestFromRequest_ExcludesControls(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?status=scheduled&limit=10&offset=5&sort=-start&clinic_id=x", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	params := FromRequest(c)
	if len(params) != 1 {
		t.Fatalf("expected 1 param, got %v", params)
	}
	if params["status"] != "scheduled" {
		t.Errorf("expected status param, got %v", params)
	}
}
