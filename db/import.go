package db

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"course-registration-go/models"
)

const (
	StudentsSheet = "Students" // Columns: A = student ID, B = name
	CoursesSheet  = "Courses"  // Columns: A = course ID, B = title, C = time, D = capacity
)

const (
	KindCourses  = "courses"
	KindStudents = "students"

	CSVDelimiter = ';'
)

// Roster is the part of the ledger an import writes into.
type Roster interface {
	AddStudent(id, name string) error
	AddCourse(id, title, time string, capacity int) error
}

// ImportResult counts what an import did.
type ImportResult struct {
	Students int `json:"students"`
	Courses  int `json:"courses"`
	Skipped  int `json:"skipped"`
}

// ErrInvalidRoster marks uploads that cannot be read as a roster at all.
var ErrInvalidRoster = errors.New("invalid roster file")

// --- Excel Import ---

// ImportRosterFromExcel reads a workbook with Students and/or Courses sheets and
// adds every valid row to the roster. Courses are added before students.
func ImportRosterFromExcel(file io.Reader, roster Roster) (ImportResult, error) {
	var result ImportResult

	f, err := excelize.OpenReader(file)
	if err != nil {
		log.Printf("Error opening Excel reader: %v", err)
		return result, fmt.Errorf("%w: failed to open excel file: %v", ErrInvalidRoster, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	courseRows, hasCourses, err := sheetRows(f, CoursesSheet)
	if err != nil {
		return result, err
	}
	studentRows, hasStudents, err := sheetRows(f, StudentsSheet)
	if err != nil {
		return result, err
	}
	if !hasCourses && !hasStudents {
		return result, fmt.Errorf("%w: excel file has neither a %q nor a %q sheet", ErrInvalidRoster, StudentsSheet, CoursesSheet)
	}

	// Start from index 1 to skip the header row
	for i := 1; i < len(courseRows); i++ {
		row := courseRows[i]
		addCourseRow(roster, &result, i+1, cell(row, 0), cell(row, 1), cell(row, 2), cell(row, 3))
	}
	for i := 1; i < len(studentRows); i++ {
		row := studentRows[i]
		addStudentRow(roster, &result, i+1, cell(row, 0), cell(row, 1))
	}

	log.Printf("Imported %d courses and %d students from Excel (%d rows skipped)", result.Courses, result.Students, result.Skipped)
	return result, nil
}

// addCourseRow validates one course row and adds it; line is the 1-based source line.
func addCourseRow(roster Roster, result *ImportResult, line int, id, title, timeLabel, capText string) {
	if id == "" || title == "" || timeLabel == "" {
		log.Printf("Skipping course row %d due to missing fields (ID: '%s', Title: '%s', Time: '%s')", line, id, title, timeLabel)
		result.Skipped++
		return
	}
	capacity, err := strconv.Atoi(capText)
	if err != nil {
		log.Printf("Skipping course row %d: capacity %q is not a number", line, capText)
		result.Skipped++
		return
	}
	if err := roster.AddCourse(id, title, timeLabel, capacity); err != nil {
		log.Printf("Error adding course %s during import: %v", id, err)
		result.Skipped++
		return
	}
	result.Courses++
}

// addStudentRow validates one student row and adds it.
func addStudentRow(roster Roster, result *ImportResult, line int, id, name string) {
	if id == "" || name == "" {
		log.Printf("Skipping student row %d due to missing ID or Name (ID: '%s', Name: '%s')", line, id, name)
		result.Skipped++
		return
	}
	if err := roster.AddStudent(id, name); err != nil {
		log.Printf("Error adding student %s (%s) during import: %v", name, id, err)
		result.Skipped++
		return
	}
	result.Students++
}

func sheetRows(f *excelize.File, sheet string) ([][]string, bool, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx < 0 {
		return nil, false, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		log.Printf("Error getting rows from sheet '%s': %v", sheet, err)
		return nil, false, fmt.Errorf("failed to get rows from sheet %s: %w", sheet, err)
	}
	return rows, true, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// --- CSV Import / Export ---

func csvReader(in io.Reader, delim rune) *csv.Reader {
	r := csv.NewReader(in)
	r.Comma = delim
	r.TrimLeadingSpace = true
	return r
}

// courseCSVRow keeps capacity as text so one bad cell skips a row instead of the file.
type courseCSVRow struct {
	ID       string `csv:"course_id"`
	Title    string `csv:"title"`
	Time     string `csv:"time"`
	Capacity string `csv:"capacity"`
}

type studentCSVRow struct {
	ID   string `csv:"student_id"`
	Name string `csv:"name"`
}

// ImportCoursesCSV reads course_id, title, time, capacity columns.
// Rows are validated the same way as the Courses sheet of a workbook.
func ImportCoursesCSV(in io.Reader, delim rune, roster Roster) (ImportResult, error) {
	var result ImportResult

	rows := []*courseCSVRow{}
	if err := gocsv.UnmarshalCSV(csvReader(in, delim), &rows); err != nil {
		return result, fmt.Errorf("%w: failed to parse course csv: %v", ErrInvalidRoster, err)
	}
	// Line 1 is the header
	for i, r := range rows {
		addCourseRow(roster, &result, i+2, strings.TrimSpace(r.ID), strings.TrimSpace(r.Title),
			strings.TrimSpace(r.Time), strings.TrimSpace(r.Capacity))
	}
	log.Printf("Imported %d courses from CSV (%d rows skipped)", result.Courses, result.Skipped)
	return result, nil
}

// ImportStudentsCSV reads student_id, name columns.
func ImportStudentsCSV(in io.Reader, delim rune, roster Roster) (ImportResult, error) {
	var result ImportResult

	rows := []*studentCSVRow{}
	if err := gocsv.UnmarshalCSV(csvReader(in, delim), &rows); err != nil {
		return result, fmt.Errorf("%w: failed to parse student csv: %v", ErrInvalidRoster, err)
	}
	for i, r := range rows {
		addStudentRow(roster, &result, i+2, strings.TrimSpace(r.ID), strings.TrimSpace(r.Name))
	}
	log.Printf("Imported %d students from CSV (%d rows skipped)", result.Students, result.Skipped)
	return result, nil
}

// ImportRosterFile picks an importer from the file extension. A CSV file holds
// one table, so kind must be KindCourses or KindStudents; workbooks ignore it.
func ImportRosterFile(name, kind string, in io.Reader, roster Roster) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		switch kind {
		case KindCourses:
			return ImportCoursesCSV(in, CSVDelimiter, roster)
		case KindStudents:
			return ImportStudentsCSV(in, CSVDelimiter, roster)
		default:
			return ImportResult{}, fmt.Errorf("%w: csv import needs kind %q or %q, got %q", ErrInvalidRoster, KindCourses, KindStudents, kind)
		}
	case ".xlsx", ".xlsm":
		return ImportRosterFromExcel(in, roster)
	default:
		return ImportResult{}, fmt.Errorf("%w: unsupported roster file %q", ErrInvalidRoster, name)
	}
}

// CourseStatusRow is one line of the course status export.
type CourseStatusRow struct {
	CourseID string `csv:"course_id"`
	Title    string `csv:"title"`
	Time     string `csv:"time"`
	Enrolled int    `csv:"enrolled"`
	Capacity int    `csv:"capacity"`
}

// ExportCourseStatusCSV writes one row per course with its seat usage.
func ExportCourseStatusCSV(out io.Writer, delim rune, courses []models.Course) error {
	if len(courses) == 0 {
		return errors.New("no courses to export")
	}
	rows := make([]*CourseStatusRow, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, &CourseStatusRow{
			CourseID: c.ID,
			Title:    c.Title,
			Time:     c.Time,
			Enrolled: c.Enrolled,
			Capacity: c.Capacity,
		})
	}

	w := csv.NewWriter(out)
	w.Comma = delim
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return fmt.Errorf("failed to write course csv: %w", err)
	}
	return nil
}
