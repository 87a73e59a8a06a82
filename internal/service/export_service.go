package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
	"github.com/noah-isme/course-supporter-api/pkg/export"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type courseLister interface {
	List(ctx context.Context, caller models.Caller) (*dto.CourseListing, bool, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the course table as a downloadable file.
type ExportService struct {
	courses   courseLister
	csv       datasetRenderer
	pdf       datasetRenderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs ExportService.
func NewExportService(courses courseLister, csv, pdf datasetRenderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(0)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{courses: courses, csv: csv, pdf: pdf, validator: validate, logger: logger, now: time.Now}
}

// ExportCourses renders the course listing in the requested format.
func (s *ExportService) ExportCourses(ctx context.Context, caller models.Caller, req dto.ExportRequest) (*ExportFile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "unsupported export format")
	}
	format := req.Format
	if format == "" {
		format = ExportFormatCSV
	}

	listing, _, err := s.courses.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	dataset := courseDataset(listing)

	renderer, contentType := s.csv, "text/csv"
	if format == ExportFormatPDF {
		renderer, contentType = s.pdf, "application/pdf"
	}
	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("courses exported",
		zap.String("format", format),
		zap.Int("rows", len(dataset.Rows)),
		zap.Int64("caller_id", caller.UserID))

	return &ExportFile{
		Filename:    fmt.Sprintf("courses-%s.%s", s.now().Format("20060102-150405"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// courseDataset flattens the listing. Level columns take their configured
// labels as headers when present; rows stay keyed by column id.
func courseDataset(listing *dto.CourseListing) export.Dataset {
	levelOne := listing.LabelLevel1
	if levelOne == "" {
		levelOne = "level_one"
	}
	levelTwo := listing.LabelLevel2
	if levelTwo == "" {
		levelTwo = "level_two"
	}
	headers := []string{"id", "shortname", "fullname", levelOne, levelTwo, "visible"}
	keys := []string{"id", "shortname", "fullname", "level_one", "level_two", "visible"}

	rows := make([]map[string]string, 0, len(listing.Courses))
	for _, c := range listing.Courses {
		rows = append(rows, map[string]string{
			"id":        strconv.FormatInt(c.ID, 10),
			"shortname": c.Shortname,
			"fullname":  c.Fullname,
			"level_one": c.LevelOne,
			"level_two": c.LevelTwo,
			"visible":   strconv.FormatBool(c.Visible),
		})
	}
	return export.Dataset{Title: "Courses", Headers: headers, Keys: keys, Rows: rows}
}
