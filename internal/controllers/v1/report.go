package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/expensetrackr/backend/internal/models"
	"github.com/expensetrackr/backend/internal/report"
)

// reportsGenerated counts generated report files, including fallback
// documents for failed generations.
var reportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "expensetrackr_reports_generated_total",
	Help: "Number of generated report documents by format and result.",
}, []string{"format", "result"})

// RegisterReportRoutes registers the routes for reports with
// the RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	r.GET("/csv", GetCSVReport)
	r.GET("/pdf", GetPDFReport)
	r.GET("/summary/annual", GetAnnualSummary)
}

// reportQuery are the query parameters shared by the report endpoints.
type reportQuery struct {
	Year       *int  `form:"year"`
	Month      *int  `form:"month" binding:"omitempty,gte=1,lte=12"`
	CategoryID *uint `form:"category_id"`
}

func (q reportQuery) period() report.Period {
	p := report.Period{Year: q.Year}
	if q.Year != nil {
		p.Month = q.Month
	}

	return p
}

// expenses fetches the line items for the report, scoped to the user.
func (q reportQuery) expenses(userID uint) ([]models.Expense, error) {
	if q.Year != nil {
		return models.ExpensesForPeriod(models.DB, userID, *q.Year, q.Month, q.CategoryID)
	}

	// No year means the full history
	db := models.DB.Where("user_id = ?", userID).Preload("Category").Order("date DESC, id DESC")
	if q.CategoryID != nil {
		db = db.Where("category_id = ?", *q.CategoryID)
	}

	var expenses []models.Expense
	err := db.Find(&expenses).Error
	return expenses, err
}

// AnnualSummary is the aggregate of a user's expenses for one year,
// broken down by category and by month.
type AnnualSummary struct {
	Year          int                    `json:"year" example:"2024"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Categories    []models.CategoryTotal `json:"categories"`
	MonthlyTotals []models.MonthTotal    `json:"monthly_totals"`
}

// @Summary		CSV report
// @Description	Exports expenses as a CSV file. Without a year the whole history is exported.
// @Tags			Reports
// @Produce		text/csv
// @Success		200
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Param			year		query		int		false	"Year of the period"
// @Param			month		query		int		false	"Month of the period, requires year"
// @Param			category_id	query		uint	false	"ID of the category"
// @Router			/api/reports/csv [get]
func GetCSVReport(c *gin.Context) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	now := time.Now()
	filename := report.Filename("csv", query.period(), now)

	out, err := renderCSV(query, principal(c).ID)
	if err != nil {
		reportsGenerated.WithLabelValues("csv", "fallback").Inc()
		serveFile(c, "text/csv", filename, report.CSVFallback(err))
		return
	}

	reportsGenerated.WithLabelValues("csv", "ok").Inc()
	serveFile(c, "text/csv", filename, out)
}

func renderCSV(query reportQuery, userID uint) ([]byte, error) {
	expenses, err := query.expenses(userID)
	if err != nil {
		return nil, err
	}

	return report.CSV(expenses)
}

// @Summary		PDF report
// @Description	Exports expenses for a period as a PDF document with a category summary
// @Tags			Reports
// @Produce		application/pdf
// @Success		200
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Param			year		query		int		true	"Year of the period"
// @Param			month		query		int		false	"Month of the period"
// @Param			category_id	query		uint	false	"ID of the category"
// @Router			/api/reports/pdf [get]
func GetPDFReport(c *gin.Context) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	if query.Year == nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errYearRequired.Error()})
		return
	}

	user := principal(c)
	now := time.Now()
	filename := report.Filename("pdf", query.period(), now)

	out, err := renderPDF(query, user, now)
	if err != nil {
		reportsGenerated.WithLabelValues("pdf", "fallback").Inc()
		serveFile(c, "application/pdf", filename, report.PDFFallback(err))
		return
	}

	reportsGenerated.WithLabelValues("pdf", "ok").Inc()
	serveFile(c, "application/pdf", filename, out)
}

func renderPDF(query reportQuery, user models.User, now time.Time) ([]byte, error) {
	expenses, err := query.expenses(user.ID)
	if err != nil {
		return nil, err
	}

	summary, total, err := models.CategorySummary(models.DB, user.ID, *query.Year, query.Month, query.CategoryID)
	if err != nil {
		return nil, err
	}

	return report.PDF(report.PDFInput{
		User:     user,
		Period:   query.period(),
		Expenses: expenses,
		Summary:  summary,
		Total:    total,
		Now:      now,
	})
}

// @Summary		Annual summary
// @Description	Returns the per-category and per-month expense totals for a year
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	AnnualSummary
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Param			year	query		int	true	"Year to aggregate"
// @Router			/api/reports/summary/annual [get]
func GetAnnualSummary(c *gin.Context) {
	var query struct {
		Year int `form:"year" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errYearRequired.Error()})
		return
	}

	userID := principal(c).ID

	summary, total, err := models.CategorySummary(models.DB, userID, query.Year, nil, nil)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	months, _, err := models.MonthlyTotals(models.DB, userID, query.Year)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, AnnualSummary{
		Year:          query.Year,
		TotalAmount:   total,
		Categories:    summary,
		MonthlyTotals: months,
	})
}

func serveFile(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
