package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
	"github.com/hostelops/hostel-desk-api/pkg/normalize"
)

type complaintImportStore interface {
	Create(ctx context.Context, complaint *models.Complaint) error
}

type apologyImportStore interface {
	Create(ctx context.Context, apology *models.Apology) error
}

// ImportService ingests legacy records exported from the old hostel
// backend. Historical payloads mix key casings (ROOM_NO, roomNo, room_no)
// and record shapes (student nested under user or not), so everything is
// funneled through key normalization and one set of shape fallbacks here;
// downstream code only ever sees canonical records.
type ImportService struct {
	complaints complaintImportStore
	apologies  apologyImportStore
	stats      metricsInvalidator
	logger     *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(complaints complaintImportStore, apologies apologyImportStore, stats metricsInvalidator, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{complaints: complaints, apologies: apologies, stats: stats, logger: logger}
}

// ImportComplaints parses a raw JSON array of legacy complaint records and
// persists them. Statuses are normalized into the canonical complaint
// vocabulary; records missing a title are skipped rather than failing the
// whole batch.
func (s *ImportService) ImportComplaints(ctx context.Context, payload []byte) (*dto.ImportResult, error) {
	records, err := decodeLegacyRecords(payload)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{}
	for i, record := range records {
		title := stringField(record, "title")
		if title == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: missing title", i))
			continue
		}
		complaint := &models.Complaint{
			Title:       title,
			Type:        firstString(record, "type", "category"),
			Description: stringField(record, "description"),
			Status:      string(models.NormalizeStatus(stringField(record, "status"))),
			Priority:    stringField(record, "priority"),
			Student:     legacyStudent(record),
			CreatedAt:   legacyCreatedAt(record),
		}
		if complaint.Priority == "" {
			complaint.Priority = "medium"
		}
		if err := s.complaints.Create(ctx, complaint); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		result.Imported++
	}

	if result.Imported > 0 && s.stats != nil {
		s.stats.InvalidateMetrics(ctx)
	}
	return result, nil
}

// ImportApologies parses a raw JSON array of legacy apology records. Unlike
// complaints, the stored status keeps the raw apology vocabulary; records
// without a recognized one default to submitted.
func (s *ImportService) ImportApologies(ctx context.Context, payload []byte) (*dto.ImportResult, error) {
	records, err := decodeLegacyRecords(payload)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{}
	for i, record := range records {
		message := firstString(record, "message", "title")
		if message == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: missing message", i))
			continue
		}
		status := stringField(record, "status")
		if _, ok := models.ApologyStatuses[models.CanonicalStatus(status)]; !ok {
			status = "submitted"
		}
		apology := &models.Apology{
			Type:        firstString(record, "type", "category"),
			Message:     message,
			Description: stringField(record, "description"),
			Status:      status,
			Student:     legacyStudent(record),
			CreatedAt:   legacyCreatedAt(record),
		}
		if err := s.apologies.Create(ctx, apology); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		result.Imported++
	}

	if result.Imported > 0 && s.stats != nil {
		s.stats.InvalidateMetrics(ctx)
	}
	return result, nil
}

func decodeLegacyRecords(payload []byte) ([]map[string]interface{}, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "payload must be a JSON array of records")
	}
	records := make([]map[string]interface{}, 0, len(raw))
	for _, record := range raw {
		normalized, _ := normalize.Keys(record).(map[string]interface{})
		if normalized == nil {
			normalized = map[string]interface{}{}
		}
		records = append(records, normalized)
	}
	return records, nil
}

// legacyStudent resolves the student reference from any of the historical
// record shapes: a nested student.user object, a flat student object, or
// top-level name/room fields.
func legacyStudent(record map[string]interface{}) models.StudentRef {
	student, _ := record["student"].(map[string]interface{})
	user := map[string]interface{}{}
	if student != nil {
		if nested, ok := student["user"].(map[string]interface{}); ok {
			user = nested
		}
	}

	// All-caps legacy keys (ROOM_NO) normalize to room_no while mixed-case
	// ones (roomNo, room_no) normalize to roomNo, so both spellings are
	// probed.
	name := firstString(user, "name")
	if name == "" && student != nil {
		name = firstString(student, "name")
	}
	if name == "" {
		name = firstString(record, "studentName", "student_name", "name")
	}
	if name == "" {
		name = "Student"
	}

	ref := models.StudentRef{Name: name}
	if student != nil {
		ref.ID = firstString(student, "id", "studentId")
		ref.RoomNo = firstString(student, "roomNo", "room_no", "room")
		ref.Block = firstString(student, "block", "hostelBlock")
	}
	if ref.RoomNo == "" {
		ref.RoomNo = firstString(record, "roomNo", "room_no", "room")
	}
	if ref.Block == "" {
		ref.Block = firstString(record, "block")
	}
	return ref
}

// legacyCreatedAt tries the historical timestamp keys in order and falls
// back to now when none parses.
func legacyCreatedAt(record map[string]interface{}) time.Time {
	for _, key := range []string{"createdAt", "created_at", "date", "submittedAt"} {
		value := stringField(record, key)
		if value == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, value); err == nil {
				return ts
			}
		}
	}
	return time.Now().UTC()
}

func stringField(record map[string]interface{}, key string) string {
	value, _ := record[key].(string)
	return value
}

func firstString(record map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value := stringField(record, key); value != "" {
			return value
		}
	}
	return ""
}
