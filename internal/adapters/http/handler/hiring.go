package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/hiring-insights/internal/adapters/export"
	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	"github.com/ogurasousui/hiring-insights/internal/core/report"
)

const formatXLSX = "xlsx"

// HiringHandler は取り込み・集計・参照の HTTP エンドポイントを提供します。
type HiringHandler struct {
	ingest  ingest.UseCase
	reports report.UseCase
	roster  hiring.UseCase
}

// NewHiringHandler は HiringHandler を生成します。
func NewHiringHandler(ingestUC ingest.UseCase, reportUC report.UseCase, rosterUC hiring.UseCase) *HiringHandler {
	return &HiringHandler{ingest: ingestUC, reports: reportUC, roster: rosterUC}
}

// RegisterRoutes はルートを登録します。
func (h *HiringHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/upload", h.Upload)
	e.GET("/employees_by_quarter", h.EmployeesByQuarter)
	e.GET("/employees_by_department", h.EmployeesByDepartment)
	e.GET("/departments/:id", h.GetDepartment)
	e.GET("/jobs/:id", h.GetJob)
	e.GET("/employees/:id", h.GetEmployee)
}

// Upload は multipart の file フィールドを file_type として取り込みます。
func (h *HiringHandler) Upload(c echo.Context) error {
	in := ingest.IngestInput{Kind: c.QueryParam("file_type")}

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot open uploaded file").SetInternal(err)
		}
		defer f.Close()
		in.Source = f
	}

	res, err := h.ingest.Ingest(c.Request().Context(), in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{res.Kind.Plural(): res.Count})
}

// EmployeesByQuarter は部署・職種ごとの四半期別採用数を返します。
func (h *HiringHandler) EmployeesByQuarter(c echo.Context) error {
	rows, err := h.reports.HiresByQuarter(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	if wantsXLSX(c) {
		return writeXLSX(c, "employees_by_quarter.xlsx", func(w io.Writer) error {
			return export.WriteQuarterly(w, rows)
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// EmployeesByDepartment は採用数が平均を上回る部署を返します。
func (h *HiringHandler) EmployeesByDepartment(c echo.Context) error {
	rows, err := h.reports.AboveAverageByDepartment(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	if wantsXLSX(c) {
		return writeXLSX(c, "employees_by_department.xlsx", func(w io.Writer) error {
			return export.WriteAboveAverage(w, rows)
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetDepartment は ID で部署を返します。
func (h *HiringHandler) GetDepartment(c echo.Context) error {
	d, err := h.roster.GetDepartment(c.Request().Context(), hiring.GetInput{ID: c.Param("id")})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, departmentResponse{ID: d.ID, Name: d.Name})
}

// GetJob は ID で職種を返します。
func (h *HiringHandler) GetJob(c echo.Context) error {
	j, err := h.roster.GetJob(c.Request().Context(), hiring.GetInput{ID: c.Param("id")})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, jobResponse{ID: j.ID, Title: j.Title})
}

// GetEmployee は ID で社員を返します。
func (h *HiringHandler) GetEmployee(c echo.Context) error {
	e, err := h.roster.GetEmployee(c.Request().Context(), hiring.GetInput{ID: c.Param("id")})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, employeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		HireTime:     e.HireTime.UTC().Format(time.RFC3339),
		DepartmentID: e.DepartmentID,
		JobID:        e.JobID,
	})
}

type departmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type jobResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type employeeResponse struct {
	ID           int64   `json:"id"`
	Name         *string `json:"name"`
	HireTime     string  `json:"hire_time"`
	DepartmentID *int64  `json:"department_id"`
	JobID        *int64  `json:"job_id"`
}

func wantsXLSX(c echo.Context) bool {
	return strings.EqualFold(c.QueryParam("format"), formatXLSX)
}

func writeXLSX(c echo.Context, filename string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return toHTTPError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
