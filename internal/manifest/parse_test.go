package manifest_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"mintforge/internal/manifest"
)

func TestParseReturnsOneRowPerDataLine(t *testing.T) {
	text := "name,description,trait_background\nCool NFT #1,First,Blue\nCool NFT #2,Second,Red\n"
	rows, err := manifest.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Index != i+1 {
			t.Fatalf("row %d has index %d", i, row.Index)
		}
		for _, field := range []string{"name", "description", "trait_background"} {
			if !row.Has(field) {
				t.Fatalf("row %d missing field %q", row.Index, field)
			}
		}
	}
	if got := rows[1].Get("trait_background"); got != "Red" {
		t.Fatalf("unexpected trait value %q", got)
	}
}

func TestParseEmptyManifest(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "name,description\n", "\n\nname\n\n"} {
		if _, err := manifest.Parse(text); !errors.Is(err, manifest.ErrManifestEmpty) {
			t.Errorf("Parse(%q) error = %v, want ErrManifestEmpty", text, err)
		}
	}
}

func TestParsePadsShortRowsAndDropsExtras(t *testing.T) {
	text := "name,filename,token_id\nA\nB,b.png,2,extra,values\n"
	rows, err := manifest.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := rows[0].Values(); !reflect.DeepEqual(got, []string{"A", "", ""}) {
		t.Fatalf("short row not padded: %q", got)
	}
	if got := rows[1].Values(); !reflect.DeepEqual(got, []string{"B", "b.png", "2"}) {
		t.Fatalf("extra values not dropped: %q", got)
	}
}

func TestParseSkipsBlankLinesAndStripsQuotes(t *testing.T) {
	text := "\n\"Name\", \"Filename\"\r\n\r\n  \n\"Alpha\", 'a.png'\n\nBeta,\"b, the second.png\"\n"
	rows, err := manifest.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0].Fields(); !reflect.DeepEqual(got, []string{"name", "filename"}) {
		t.Fatalf("unexpected header %q", got)
	}
	if rows[0].Get("name") != "Alpha" || rows[0].Get("filename") != "a.png" {
		t.Fatalf("quotes not stripped: %v", rows[0].Map())
	}
	if rows[1].Index != 2 {
		t.Fatalf("blank lines must not advance the row index, got %d", rows[1].Index)
	}
	if got := rows[1].Get("Filename"); got != "b, the second.png" {
		t.Fatalf("quoted comma not preserved: %q", got)
	}
}

func TestParseUnbalancedQuotesStayOnTheirLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"unclosed leading quote", `Statue,"12" bronze figure`, []string{"Statue", `"12" bronze figure`}},
		{"quote never closed", `Statue,"bronze figure`, []string{"Statue", `"bronze figure`}},
		{"quote inside unquoted value", `Statue,12" tall`, []string{"Statue", `12" tall`}},
		{"stray quote splits every comma", `Sta"tue,"a, b"`, []string{`Sta"tue`, `"a`}},
		{"escaped quote in quoted value", `Statue,"the ""big"" one"`, []string{"Statue", `the "big" one`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := manifest.Parse("name,description\n" + tt.line + "\nVase,blue\nBowl,red\n")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(rows) != 3 {
				t.Fatalf("expected 3 rows, got %d: %v", len(rows), rows[0].Map())
			}
			if got := rows[0].Values(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("first row = %q, want %q", got, tt.want)
			}
			if rows[1].Get("name") != "Vase" || rows[2].Get("description") != "red" {
				t.Fatalf("following rows disturbed: %v %v", rows[1].Map(), rows[2].Map())
			}
		})
	}
}

func TestRowTraitsPreserveColumnOrder(t *testing.T) {
	text := "trait_eyes,name,trait_background,trait_hat\nGreen,A,Blue,\n"
	rows, err := manifest.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []manifest.Field{
		{Name: "trait_eyes", Value: "Green"},
		{Name: "trait_background", Value: "Blue"},
	}
	if got := rows[0].Traits(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Traits = %+v, want %+v", got, want)
	}
}

func TestReadDecodesConfiguredEncoding(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("name,trait_mood\nCafé,Süß\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rows, err := manifest.Read(strings.NewReader(encoded), manifest.Options{Encoding: "windows-1252"})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rows[0].Get("name") != "Café" || rows[0].Get("trait_mood") != "Süß" {
		t.Fatalf("unexpected decoded row %v", rows[0].Map())
	}
}

func TestReadStripsUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name\nA\n")...)
	rows, err := manifest.Read(bytes.NewReader(data), manifest.Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !rows[0].Has("name") {
		t.Fatalf("BOM leaked into header: %q", rows[0].Fields())
	}
}

func TestReadRejectsUnknownEncoding(t *testing.T) {
	if _, err := manifest.Read(strings.NewReader("name\nA\n"), manifest.Options{Encoding: "klingon-8"}); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestRowLabel(t *testing.T) {
	row := manifest.NewRow(1, []string{"name", "filename", "token_id"}, []string{"", "", "9"})
	if got := row.Label(); got != "token 9" {
		t.Fatalf("Label = %q", got)
	}
}

func TestRowKeepsHeaderSpelling(t *testing.T) {
	rows, err := manifest.Parse("Name,trait_NFT_type\nA,Rare\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	row := rows[0]
	if got := row.Columns(); !reflect.DeepEqual(got, []string{"Name", "trait_NFT_type"}) {
		t.Fatalf("Columns = %q", got)
	}
	if got := row.Fields(); !reflect.DeepEqual(got, []string{"name", "trait_nft_type"}) {
		t.Fatalf("Fields = %q", got)
	}
	want := []manifest.Field{{Name: "trait_NFT_type", Value: "Rare"}}
	if got := row.Traits(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Traits = %+v, want %+v", got, want)
	}
}

func TestRowWith(t *testing.T) {
	row := manifest.NewRow(3, []string{"name", "description"}, []string{"", "third"})

	named := row.With("NAME", "Col #3")
	if named.Get("name") != "Col #3" || len(named.Columns()) != 2 {
		t.Fatalf("existing column not set: %v", named.Map())
	}
	if row.Get("name") != "" {
		t.Fatal("With must not modify the receiver")
	}

	pinned := named.With("filename", "3.png")
	if got := pinned.Columns(); !reflect.DeepEqual(got, []string{"name", "description", "filename"}) {
		t.Fatalf("Columns = %q", got)
	}
	if pinned.Index != 3 || pinned.Get("filename") != "3.png" || pinned.Get("description") != "third" {
		t.Fatalf("unexpected pinned row %d %v", pinned.Index, pinned.Map())
	}
	if named.Has("filename") {
		t.Fatal("appending a column must not change the original header")
	}
}
