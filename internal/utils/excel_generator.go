package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"validtrack/internal/models"

	"github.com/xuri/excelize/v2"
)

const reportsSheet = "Reports"

// ReportRow — строка выгрузки: запись плюс посчитанный статус.
type ReportRow struct {
	Report        models.Report `json:"report"`
	Status        string        `json:"status"`
	DaysRemaining *int          `json:"days_remaining"`
}

// CreateReportsExcel создает Excel файл с таблицей записей
func CreateReportsExcel(path string, rows []ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportsSheet)
	if err != nil {
		return err
	}

	// Устанавливаем заголовки
	headers := []string{
		"ID", "Sample No", "Items", "Program", "Part Name",
		"Validation Date", "Next Validation Date", "Remarks",
		"Comments", "Person", "Status", "Days Remaining", "Notified",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportsSheet, cell, header)
	}

	// Заполняем данные
	for rowIdx, row := range rows {
		rowNum := rowIdx + 2 // Заголовок в первой строке

		f.SetCellValue(reportsSheet, fmt.Sprintf("A%d", rowNum), row.Report.ID)
		f.SetCellValue(reportsSheet, fmt.Sprintf("B%d", rowNum), row.Report.SampleNo)
		f.SetCellValue(reportsSheet, fmt.Sprintf("C%d", rowNum), row.Report.Items)
		f.SetCellValue(reportsSheet, fmt.Sprintf("D%d", rowNum), row.Report.Program)
		f.SetCellValue(reportsSheet, fmt.Sprintf("E%d", rowNum), row.Report.PartName)
		f.SetCellValue(reportsSheet, fmt.Sprintf("F%d", rowNum), row.Report.ValidationDate)
		f.SetCellValue(reportsSheet, fmt.Sprintf("G%d", rowNum), row.Report.NextValidationDate)
		f.SetCellValue(reportsSheet, fmt.Sprintf("H%d", rowNum), row.Report.Remarks)
		f.SetCellValue(reportsSheet, fmt.Sprintf("I%d", rowNum), row.Report.Comments)
		f.SetCellValue(reportsSheet, fmt.Sprintf("J%d", rowNum), row.Report.Person)
		f.SetCellValue(reportsSheet, fmt.Sprintf("K%d", rowNum), row.Status)
		if row.DaysRemaining != nil {
			f.SetCellValue(reportsSheet, fmt.Sprintf("L%d", rowNum), *row.DaysRemaining)
		}
		f.SetCellValue(reportsSheet, fmt.Sprintf("M%d", rowNum), row.Report.IsEmailSend)
	}

	// Ширина колонок
	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(reportsSheet, colName, colName, 18)
	}

	lastRow := len(rows) + 1

	// Красным — горящие записи
	dueRule := []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: "==",
			Value:    "\"DueDate\"",
			Format:   getConditionalFormatStyle(f, "#FFCCCC"),
		},
	}
	if err := f.SetConditionalFormat(reportsSheet, fmt.Sprintf("K2:K%d", lastRow), dueRule); err != nil {
		return err
	}

	// Зеленым — закрытые
	finishRule := []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: "==",
			Value:    "\"Finish\"",
			Format:   getConditionalFormatStyle(f, "#CCFFCC"),
		},
	}
	if err := f.SetConditionalFormat(reportsSheet, fmt.Sprintf("K2:K%d", lastRow), finishRule); err != nil {
		return err
	}

	// Лист со сводкой и диаграммой
	createSummarySheet(f, rows)

	f.SetActiveSheet(index)

	if err := f.SaveAs(path); err != nil {
		return err
	}

	return nil
}

func createSummarySheet(f *excelize.File, rows []ReportRow) {
	const sheet = "Summary"
	f.NewSheet(sheet)

	counts := map[string]int{}
	notified := 0
	for _, row := range rows {
		counts[row.Status]++
		if row.Report.IsEmailSend {
			notified++
		}
	}

	f.SetCellValue(sheet, "A1", "Status")
	f.SetCellValue(sheet, "B1", "Count")

	statuses := []string{"DueDate", "Pending", "Finish"}
	for i, status := range statuses {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), status)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), counts[status])
	}

	f.SetCellValue(sheet, "A6", "Total Records")
	f.SetCellValue(sheet, "B6", len(rows))
	f.SetCellValue(sheet, "A7", "Reminders Sent")
	f.SetCellValue(sheet, "B7", notified)

	// Диаграмма по статусам
	chart := &excelize.Chart{
		Type: excelize.Col3DClustered,
		Series: []excelize.ChartSeries{
			{
				Name:       "Reports by Status",
				Categories: "Summary!$A$2:$A$4",
				Values:     "Summary!$B$2:$B$4",
			},
		},
		Title: []excelize.RichTextRun{
			{
				Text: "Reports by Status",
			},
		},
		Dimension: excelize.ChartDimension{
			Width:  480,
			Height: 320,
		},
	}
	f.AddChart(sheet, "D2", chart)
}

// SaveAsJSON сохраняет данные в JSON файл
func SaveAsJSON(path string, data interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// getConditionalFormatStyle создает стиль заливки для условного форматирования
func getConditionalFormatStyle(f *excelize.File, color string) *int {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil
	}
	return &style
}
