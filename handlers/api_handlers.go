package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-registration-go/db"
	"course-registration-go/ledger"
)

// APIHandler holds the dependencies for API handlers, like the registration ledger
type APIHandler struct {
	Ledger *ledger.RegistrationLedger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(l *ledger.RegistrationLedger) *APIHandler {
	return &APIHandler{
		Ledger: l,
	}
}

// RegisterRoutes mounts every route under /api
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Course routes
		api.GET("/courses", h.GetAllCourses)
		api.POST("/courses", h.AddCourse)
		api.GET("/courses/export", h.ExportCourses)

		// Student routes
		api.POST("/students", h.AddStudent)
		api.POST("/students/:studentId/login", h.Login)
		api.POST("/students/:studentId/logout", h.Logout)
		api.GET("/students/:studentId/courses", h.GetEnrollments)

		// Enrollment routes
		api.POST("/students/:studentId/courses/:courseId", h.RegisterCourse)
		api.DELETE("/students/:studentId/courses/:courseId", h.DropCourse)
		api.GET("/students/:studentId/courses/:courseId", h.ViewCourseDetails)

		// Import route
		api.POST("/import/roster", h.ImportRoster)

		api.GET("/ping", PingHandler)
	}
}

type addStudentRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type addCourseRequest struct {
	ID       string `json:"id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Capacity int    `json:"capacity"`
}

// statusFor maps ledger errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateEntity),
		errors.Is(err, ledger.ErrAlreadyRegistered),
		errors.Is(err, ledger.ErrCourseFull),
		errors.Is(err, ledger.ErrTimeConflict),
		errors.Is(err, ledger.ErrNotEnrolled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, handler string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Error in %s handler: %v", handler, err)
		c.JSON(status, gin.H{"error": "Internal error", "code": ledger.Kind(err)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": ledger.Kind(err)})
}

// --- Course Handlers ---

// GetAllCourses handles GET /api/courses
func (h *APIHandler) GetAllCourses(c *gin.Context) {
	c.JSON(http.StatusOK, h.Ledger.Courses())
}

// AddCourse handles POST /api/courses
func (h *APIHandler) AddCourse(c *gin.Context) {
	var req addCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error(), "code": "invalid_argument"})
		return
	}

	if err := h.Ledger.AddCourse(req.ID, req.Title, req.Time, req.Capacity); err != nil {
		respondError(c, "AddCourse", err)
		return
	}

	course, _ := h.Ledger.Course(req.ID)
	c.JSON(http.StatusCreated, course)
}

// ExportCourses handles GET /api/courses/export (semicolon separated CSV)
func (h *APIHandler) ExportCourses(c *gin.Context) {
	courses := h.Ledger.Courses()
	if len(courses) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No courses to export", "code": "not_found"})
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := db.ExportCourseStatusCSV(c.Writer, db.CSVDelimiter, courses); err != nil {
		log.Printf("Error exporting courses: %v", err)
	}
}

// --- Student Handlers ---

// AddStudent handles POST /api/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req addStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error(), "code": "invalid_argument"})
		return
	}

	if err := h.Ledger.AddStudent(req.ID, req.Name); err != nil {
		respondError(c, "AddStudent", err)
		return
	}

	student, _ := h.Ledger.Student(req.ID)
	c.JSON(http.StatusCreated, student)
}

// Login handles POST /api/students/:studentId/login
func (h *APIHandler) Login(c *gin.Context) {
	studentID := c.Param("studentId")
	if err := h.Ledger.Login(studentID); err != nil {
		respondError(c, "Login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "studentId": studentID})
}

// Logout handles POST /api/students/:studentId/logout
func (h *APIHandler) Logout(c *gin.Context) {
	studentID := c.Param("studentId")
	if err := h.Ledger.Logout(studentID); err != nil {
		respondError(c, "Logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "studentId": studentID})
}

// GetEnrollments handles GET /api/students/:studentId/courses
func (h *APIHandler) GetEnrollments(c *gin.Context) {
	ids, err := h.Ledger.Enrollments(c.Param("studentId"))
	if err != nil {
		respondError(c, "GetEnrollments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courseIds": ids})
}

// --- Enrollment Handlers ---

// RegisterCourse handles POST /api/students/:studentId/courses/:courseId
func (h *APIHandler) RegisterCourse(c *gin.Context) {
	studentID, courseID := c.Param("studentId"), c.Param("courseId")
	if err := h.Ledger.RegisterCourse(studentID, courseID); err != nil {
		var conflict *ledger.TimeConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error":         err.Error(),
				"code":          ledger.Kind(err),
				"conflictsWith": conflict.ConflictsWith,
			})
			return
		}
		respondError(c, "RegisterCourse", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Registered", "studentId": studentID, "courseId": courseID})
}

// DropCourse handles DELETE /api/students/:studentId/courses/:courseId
func (h *APIHandler) DropCourse(c *gin.Context) {
	studentID, courseID := c.Param("studentId"), c.Param("courseId")
	if err := h.Ledger.DropCourse(studentID, courseID); err != nil {
		respondError(c, "DropCourse", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dropped", "studentId": studentID, "courseId": courseID})
}

// ViewCourseDetails handles GET /api/students/:studentId/courses/:courseId
func (h *APIHandler) ViewCourseDetails(c *gin.Context) {
	details, err := h.Ledger.ViewCourseDetails(c.Param("studentId"), c.Param("courseId"))
	if err != nil {
		respondError(c, "ViewCourseDetails", err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// --- Import Handler ---

// ImportRoster handles POST /api/import/roster. Multipart field "file" takes an
// .xlsx workbook or a ';' separated .csv; a CSV also needs field "kind"
// set to "courses" or "students".
func (h *APIHandler) ImportRoster(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error(), "code": "invalid_argument"})
		return
	}
	defer file.Close()

	log.Printf("Received roster upload: %s", header.Filename)

	result, err := db.ImportRosterFile(header.Filename, c.PostForm("kind"), file, h.Ledger)
	if err != nil {
		respondImportError(c, header.Filename, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import successful",
		"result":  result,
	})
}

// respondImportError answers 422 for files that are not a usable roster and
// falls back to respondError for everything else.
func respondImportError(c *gin.Context, filename string, err error) {
	if errors.Is(err, db.ErrInvalidRoster) {
		log.Printf("Rejected roster %s: %v", filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to import roster: " + err.Error(), "code": "invalid_argument"})
		return
	}
	respondError(c, "ImportRoster", err)
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
