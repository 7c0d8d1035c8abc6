package db

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"course-registration-go/ledger"
	"course-registration-go/models"
)

func quietLedger() *ledger.RegistrationLedger {
	return ledger.New(ledger.WithNotifier(ledger.NotifierFunc(func(models.Event) {})))
}

func workbook(t *testing.T, sheets map[string][][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cellRef, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cellRef, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportRosterFromExcel(t *testing.T) {
	buf := workbook(t, map[string][][]any{
		CoursesSheet: {
			{"ID", "Title", "Time", "Capacity"},
			{"SECJ2203", "Software Engineering", "Mon 9AM", 2},
			{"SECR2043", "Operating Systems", "Mon 10AM", "two"},
			{"SECD2523", "Database Systems", "Tue 10AM", 2},
			{"", "No id", "Wed 1PM", 1},
		},
		StudentsSheet: {
			{"ID", "Name"},
			{"A22EC4000", "Ali"},
			{"A22EC4001"},
			{"A22EC4000", "Ali again"},
		},
	})

	l := quietLedger()
	result, err := ImportRosterFromExcel(buf, l)
	require.NoError(t, err)

	assert.Equal(t, ImportResult{Students: 1, Courses: 2, Skipped: 4}, result)

	_, ok := l.Course("SECD2523")
	assert.True(t, ok)
	_, ok = l.Course("SECR2043")
	assert.False(t, ok)
	s, ok := l.Student("A22EC4000")
	require.True(t, ok)
	assert.Equal(t, "Ali", s.Name)

	require.NoError(t, l.RegisterCourse("A22EC4000", "SECJ2203"))
}

func TestImportRosterFromExcel_NoKnownSheets(t *testing.T) {
	buf := workbook(t, map[string][][]any{
		"Other": {{"x"}},
	})
	_, err := ImportRosterFromExcel(buf, quietLedger())
	require.ErrorContains(t, err, "neither")
	require.ErrorIs(t, err, ErrInvalidRoster)
}

func TestImportRosterFromExcel_NotAWorkbook(t *testing.T) {
	_, err := ImportRosterFromExcel(strings.NewReader("not a zip"), quietLedger())
	require.ErrorIs(t, err, ErrInvalidRoster)
}

func TestImportCoursesAndStudentsCSV(t *testing.T) {
	l := quietLedger()

	courses := "course_id;title;time;capacity\n" +
		"C1;SE;Mon 9AM;1\n" +
		"C2;OS;Mon 9AM;0\n" +
		"C1;Dup;Tue 9AM;3\n" +
		"C3;DB;Tue 10AM;2\n" +
		"C4;Networks;Wed 9AM;two\n" +
		"C5;;;1\n" +
		"C6;AI;;1\n"
	result, err := ImportCoursesCSV(strings.NewReader(courses), ';', l)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Courses: 2, Skipped: 5}, result)
	for _, id := range []string{"C2", "C4", "C5", "C6"} {
		_, ok := l.Course(id)
		assert.False(t, ok, id)
	}

	students := "student_id;name\nA1;Ali\nB1;\n"
	result, err = ImportStudentsCSV(strings.NewReader(students), ';', l)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Students: 1, Skipped: 1}, result)

	require.NoError(t, l.RegisterCourse("A1", "C1"))

	var out bytes.Buffer
	require.NoError(t, ExportCourseStatusCSV(&out, ';', l.Courses()))
	assert.Equal(t, "course_id;title;time;enrolled;capacity\nC1;SE;Mon 9AM;1;1\nC3;DB;Tue 10AM;0;2\n", out.String())
}

func TestImportCSV_Malformed(t *testing.T) {
	l := quietLedger()

	_, err := ImportCoursesCSV(strings.NewReader("course_id;title\nC1;SE;extra\n"), ';', l)
	require.ErrorIs(t, err, ErrInvalidRoster)

	_, err = ImportStudentsCSV(strings.NewReader("student_id;name\n\"A1;Ali\n"), ';', l)
	require.ErrorIs(t, err, ErrInvalidRoster)
	assert.Empty(t, l.Courses())
}

func TestExportCourseStatusCSV_Empty(t *testing.T) {
	require.Error(t, ExportCourseStatusCSV(&bytes.Buffer{}, ',', nil))
}
