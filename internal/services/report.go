package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"shepherd/internal/apperrors"
	"shepherd/internal/authz"
	"shepherd/internal/models"

	console "shepherd/internal/utils/logger"

	"gorm.io/gorm"
)

// ReportService builds attendance report exports. CSV generation runs in a
// background worker; the API hands back a signed download URL once the
// export is stored.
type ReportService struct {
	db       *gorm.DB
	uploader ReportUploader
	logger   *console.Logger
}

func NewReportService(db *gorm.DB, uploader ReportUploader) *ReportService {
	return &ReportService{
		db:       db,
		uploader: uploader,
		logger:   console.New("report_service"),
	}
}

type attendanceReportRow struct {
	RegistrationID string
	AttendeeName   string
	AttendeeKind   string
	Status         models.RegistrationStatus
	ConfirmedAt    *time.Time
	Finalized      bool
}

// ExportAttendanceCSV builds the attendance CSV for an event, restricted to
// the actor's church scope, uploads it and returns a signed download URL.
func (s *ReportService) ExportAttendanceCSV(ctx context.Context, eventID string, scope authz.Scope, actor Actor) (string, error) {
	if actor.ID == "" {
		return "", apperrors.ErrUnauthorized
	}
	if !authz.CanAccessModule(actor.Role, authz.ModuleReports) {
		return "", fmt.Errorf("%w: role %s may not export reports", apperrors.ErrForbidden, actor.Role)
	}

	event, err := models.GetEventByID(eventID, s.db.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: event %s", apperrors.ErrNotFound, eventID)
	}
	// A church-bound event outside the actor's scope is invisible to them.
	if event.ChurchID != "" && !scope.Contains(event.ChurchID) {
		return "", fmt.Errorf("%w: event %s is outside your scope", apperrors.ErrForbidden, eventID)
	}

	rows, err := s.collectRows(ctx, eventID)
	if err != nil {
		return "", err
	}

	body, err := renderAttendanceCSV(rows)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/attendance/%s/%d.csv", eventID, time.Now().UTC().Unix())
	if _, err := s.uploader.UploadReport(ctx, body, key, "text/csv"); err != nil {
		return "", err
	}

	url, err := s.uploader.GetSignedURL(ctx, key, time.Hour)
	if err != nil {
		return "", err
	}

	s.logger.Success("exported attendance report for event %s (%d rows)", eventID, len(rows))
	return url, nil
}

func (s *ReportService) collectRows(ctx context.Context, eventID string) ([]attendanceReportRow, error) {
	var regs []models.EventRegistration
	err := s.db.WithContext(ctx).
		Preload("Member").
		Preload("Visitor").
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Order("created_at asc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}

	rows := make([]attendanceReportRow, 0, len(regs))
	for _, reg := range regs {
		row := attendanceReportRow{
			RegistrationID: reg.ID,
			Status:         reg.Status,
			ConfirmedAt:    reg.AttendanceConfirmedAt,
			Finalized:      reg.Locked(),
		}
		switch {
		case reg.Member != nil:
			row.AttendeeName = reg.Member.FirstName + " " + reg.Member.LastName
			row.AttendeeKind = "member"
		case reg.Visitor != nil:
			row.AttendeeName = reg.Visitor.FirstName + " " + reg.Visitor.LastName
			row.AttendeeKind = "visitor"
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func renderAttendanceCSV(rows []attendanceReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"registration_id", "attendee", "kind", "status", "confirmed_at", "finalized"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		confirmedAt := ""
		if row.ConfirmedAt != nil {
			confirmedAt = row.ConfirmedAt.Format(time.RFC3339)
		}
		record := []string{
			row.RegistrationID,
			row.AttendeeName,
			row.AttendeeKind,
			string(row.Status),
			confirmedAt,
			strconv.FormatBool(row.Finalized),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
