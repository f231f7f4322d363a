package verify

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oukeidos/tarjama/internal/record"
	"github.com/rivo/uniseg"
)

func mustRecords(t *testing.T, body string) []*record.Record {
	t.Helper()
	recs, err := record.ParseList([]byte(body))
	if err != nil {
		t.Fatalf("ParseList() error = %v", err)
	}
	return recs
}

func TestInspect_Counts(t *testing.T) {
	recs := mustRecords(t, `[
		{"title":"مرحبا","title-en":"Hello","body":"نص","body-en":"نص","flag":"true","flag-en":"true"},
		{"title":"شكرا","n":5,"empty":"  ","nested":{"a":"ب"}}
	]`)
	fr := Inspect("a.json", recs, "-en")

	if fr.Items != 2 || fr.Total != 4 || fr.Translated != 3 || fr.Failed != 1 {
		t.Fatalf("counts = %+v", fr)
	}
	if got := fr.SuccessRate(); got != 50 {
		t.Fatalf("SuccessRate() = %v, want 50", got)
	}
	var fields []string
	for _, g := range fr.Groups {
		fields = append(fields, g.Field)
	}
	if strings.Join(fields, ",") != "title,body,flag" {
		t.Fatalf("groups = %v", fields)
	}
	if fr.Groups[0].Total != 2 || fr.Groups[0].Translated != 1 {
		t.Fatalf("title group = %+v", fr.Groups[0])
	}
	if fr.Groups[1].Failed != 1 {
		t.Fatalf("body group = %+v", fr.Groups[1])
	}
}

func TestAggregate_Rates(t *testing.T) {
	cases := []struct {
		name                 string
		c                    Counts
		translation, success float64
	}{
		{"empty", Counts{}, 0, 0},
		{"all good", Counts{Total: 4, Translated: 4}, 100, 100},
		{"partial", Counts{Total: 4, Translated: 3, Failed: 1}, 75, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := Aggregate{Counts: tc.c}
			if math.Abs(agg.TranslationRate()-tc.translation) > 1e-9 {
				t.Fatalf("TranslationRate() = %v, want %v", agg.TranslationRate(), tc.translation)
			}
			if math.Abs(agg.CoverageRate()-tc.success) > 1e-9 {
				t.Fatalf("CoverageRate() = %v, want %v", agg.CoverageRate(), tc.success)
			}
		})
	}
}

func TestReporter_Run(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("01_a.json", `[{"t":"مرحبا","t-en":"Hello"}]`)
	write("02_b.json", `[{"t":"شكرا","t-en":"شكرا"},{"t":"نعم"}]`)
	write("03_bad.json", `{}`)
	write("filename_mapping.json", `{"a.json":"01_a.json"}`)
	before, _ := os.ReadFile(filepath.Join(dir, "02_b.json"))

	agg, err := Reporter{Dir: dir, MappingFile: "filename_mapping.json", Suffix: "-en"}.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(agg.Files) != 2 || len(agg.Errors) != 1 || agg.Errors[0].Name != "03_bad.json" {
		t.Fatalf("files = %d, errors = %+v", len(agg.Files), agg.Errors)
	}
	if agg.Items != 3 || agg.Total != 3 || agg.Translated != 2 || agg.Failed != 1 {
		t.Fatalf("totals = %+v", agg)
	}
	attention := agg.NeedsAttention()
	if len(attention) != 1 || attention[0].Name != "02_b.json" {
		t.Fatalf("NeedsAttention() = %+v", attention)
	}
	after, _ := os.ReadFile(filepath.Join(dir, "02_b.json"))
	if !bytes.Equal(before, after) {
		t.Fatalf("verification modified a file")
	}
}

func sampleAggregate(t *testing.T) Aggregate {
	good := Inspect("01_good.json", mustRecords(t, `[{"t":"مرحبا","t-en":"Hello"}]`), "-en")
	bad := Inspect("02_ملف.json", mustRecords(t, `[{"t":"شكرا","t-en":"شكرا"}]`), "-en")
	agg := Aggregate{Files: []FileReport{good, bad}, Items: 2}
	agg.add(good.Counts)
	agg.add(bad.Counts)
	return agg
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sampleAggregate(t)); err != nil {
		t.Fatalf("WriteMarkdown() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Translation Verification Report",
		"- **Translation Rate**: 100.0%",
		"- **Success Rate**: 50.0%",
		"| File | Items | Fields | Translated | Failed | Success Rate |",
		"| ✓ 01_good.json | 1 | 1 | 1 | 0 | 100.0% |",
		"| ⚠ 02_ملف.json | 1 | 1 | 1 | 1 | 0.0% |",
		"- **02_ملف.json**: 1 failed translations",
		"## Field Groups Needing Attention",
		"| 02_ملف.json | t | 1 | 1 | 0.0% |",
		"_Failed counts exclude non-translatable literals",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMarkdown_AllComplete(t *testing.T) {
	agg := Aggregate{Files: []FileReport{{Name: "a.json", Items: 1, Counts: Counts{Total: 1, Translated: 1}}}}
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, agg); err != nil {
		t.Fatalf("WriteMarkdown() error = %v", err)
	}
	if !strings.Contains(buf.String(), "All files have been successfully translated.") {
		t.Fatalf("missing completion line:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Field Groups Needing Attention") {
		t.Fatalf("unexpected field group section")
	}
}

func TestWriteSummary_AlignsByDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleAggregate(t)); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	width := uniseg.StringWidth(lines[0])
	for _, line := range lines[1:3] {
		if got := uniseg.StringWidth(line); got != width {
			t.Fatalf("row width %d != header width %d:\n%s", got, width, buf.String())
		}
	}
	if !strings.Contains(buf.String(), "Files needing attention (1)") {
		t.Fatalf("missing attention list:\n%s", buf.String())
	}
}

func TestHumanizedCounts(t *testing.T) {
	if got := num(1234567); got != "1,234,567" {
		t.Fatalf("num() = %q", got)
	}
}
