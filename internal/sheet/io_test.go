package sheet

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildSourceBook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	const s = "Sheet1"

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	if err := f.SetCellValue(s, "A1", "INTERVENTION"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := f.SetCellStyle(s, "A1", "A1", bold); err != nil {
		t.Fatalf("SetCellStyle: %v", err)
	}
	if err := f.SetCellValue(s, "B2", 12.5); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := f.SetCellFormula(s, "C2", "B2*2"); err != nil {
		t.Fatalf("SetCellFormula: %v", err)
	}
	if err := f.MergeCell(s, "A1", "A3"); err != nil {
		t.Fatalf("MergeCell: %v", err)
	}
	if err := f.SetColWidth(s, "B", "B", 22); err != nil {
		t.Fatalf("SetColWidth: %v", err)
	}
	return f
}

func TestReadSheetCapturesContentStylesMerges(t *testing.T) {
	src := buildSourceBook(t)
	defer src.Close()
	out := excelize.NewFile()
	defer out.Close()

	tb, err := ReadSheet(src, "Sheet1", NewStyleTransfer(out))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}

	if got := tb.Cell(1, 1).Value; got != "INTERVENTION" {
		t.Fatalf("A1=%q", got)
	}
	if tb.Cell(1, 1).StyleID == 0 {
		t.Fatalf("A1 style not translated")
	}
	style, err := out.GetStyle(tb.Cell(1, 1).StyleID)
	if err != nil || style.Font == nil || !style.Font.Bold {
		t.Fatalf("translated style lost boldness: %+v, %v", style, err)
	}
	if got := tb.Cell(2, 2).Value; got != "12.5" {
		t.Fatalf("B2=%q, want raw 12.5", got)
	}
	if got := tb.Cell(2, 3).Formula; got != "B2*2" {
		t.Fatalf("C2 formula=%q", got)
	}
	if len(tb.Merges) != 1 || tb.Merges[0].MaxRow != 3 {
		t.Fatalf("merges=%+v", tb.Merges)
	}
	if w := tb.ColWidths[2]; w < 21.9 || w > 22.1 {
		t.Fatalf("width of B=%v, want ~22", w)
	}
}

func TestWriteSheetRoundtrip(t *testing.T) {
	out := excelize.NewFile()
	defer out.Close()
	const s = "Sheet1"

	tb := NewTable()
	tb.SetCell(1, 1, Cell{Value: "HEALTH"})
	tb.SetCell(2, 1, Cell{Value: "120.5"})
	tb.SetCell(2, 2, Cell{Value: "free text"})
	tb.Merges = append(tb.Merges, Region{MinRow: 1, MinCol: 1, MaxRow: 1, MaxCol: 2})
	tb.ColWidths[1] = 30
	tb.Rows[0].Height = 25

	if err := WriteSheet(out, s, tb); err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}

	if got, _ := out.GetCellValue(s, "A1"); got != "HEALTH" {
		t.Fatalf("A1=%q", got)
	}
	// numeric strings must land as typed numbers
	if typ, _ := out.GetCellType(s, "A2"); typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Fatalf("A2 written as string, want number")
	}
	if got, _ := out.GetCellValue(s, "B2"); got != "free text" {
		t.Fatalf("B2=%q", got)
	}
	merges, err := out.GetMergeCells(s)
	if err != nil || len(merges) != 1 {
		t.Fatalf("merges=%v, %v", merges, err)
	}
	if h, _ := out.GetRowHeight(s, 1); h < 24.9 || h > 25.1 {
		t.Fatalf("row height=%v", h)
	}
}

func TestWriteSheetFillOverride(t *testing.T) {
	out := excelize.NewFile()
	defer out.Close()
	const s = "Sheet1"

	tb := NewTable()
	tb.SetCell(1, 1, Cell{Value: "TELECOMMUNICATIONS", Fill: "FFD5F3FB"})
	tb.SetCell(1, 2, Cell{Value: "plain"})

	if err := WriteSheet(out, s, tb); err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}

	id, err := out.GetCellStyle(s, "A1")
	if err != nil || id == 0 {
		t.Fatalf("A1 has no style: %d, %v", id, err)
	}
	style, err := out.GetStyle(id)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if len(style.Fill.Color) == 0 || style.Fill.Color[0] != "FFD5F3FB" {
		t.Fatalf("A1 fill=%+v, want FFD5F3FB", style.Fill)
	}
	if id2, _ := out.GetCellStyle(s, "B1"); id2 == id {
		t.Fatalf("unfilled cell shares the filled style")
	}
}

func TestStyleTransferMemoizes(t *testing.T) {
	src := buildSourceBook(t)
	defer src.Close()
	out := excelize.NewFile()
	defer out.Close()

	st := NewStyleTransfer(out)
	id, err := src.GetCellStyle("Sheet1", "A1")
	if err != nil || id == 0 {
		t.Fatalf("source style: %d, %v", id, err)
	}
	a := st.Translate(src, id)
	b := st.Translate(src, id)
	if a == 0 || a != b {
		t.Fatalf("Translate not memoized: %d vs %d", a, b)
	}
	if got := st.Translate(src, 0); got != 0 {
		t.Fatalf("default style must map to 0, got %d", got)
	}
}

func TestCopyBlockOffsetsMerges(t *testing.T) {
	src := NewTable()
	src.SetCell(1, 1, Cell{Value: "a", Formula: "X1"})
	src.SetCell(1, 2, Cell{Value: "b"})
	src.SetCell(2, 1, Cell{Value: "c"})
	src.Merges = append(src.Merges, Region{MinRow: 1, MinCol: 1, MaxRow: 2, MaxCol: 1})
	src.Rows[0].Height = 18

	dst := NewTable()
	CopyBlock(dst, src, 5, 3, 1, 1, 2, 2)

	if got := dst.Cell(5, 3).Value; got != "a" {
		t.Fatalf("dst(5,3)=%q", got)
	}
	if dst.Cell(5, 3).Formula != "" {
		t.Fatalf("formula must not travel with a copy")
	}
	if got := dst.Cell(6, 3).Value; got != "c" {
		t.Fatalf("dst(6,3)=%q", got)
	}
	if len(dst.Merges) != 1 {
		t.Fatalf("merges=%+v", dst.Merges)
	}
	m := dst.Merges[0]
	if m.MinRow != 5 || m.MaxRow != 6 || m.MinCol != 3 {
		t.Fatalf("merge not offset: %+v", m)
	}
	if dst.Rows[4].Height != 18 {
		t.Fatalf("row height not copied: %v", dst.Rows[4].Height)
	}
}
