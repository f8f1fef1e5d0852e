package service

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"Child_Shield/internal/model"
	"Child_Shield/internal/repository/mysql"
)

//go:generate mockgen -source=case_report_service.go -destination=../../mocks/case_report_service.go -package=mocks

type CaseReportRepository interface {
	Create(ctx context.Context, report *model.CaseReport, ob *model.Outbox) error
	List(ctx context.Context) ([]model.CaseReport, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.CaseReport, error)
	FindByID(ctx context.Context, id uint64) (*model.CaseReport, error)
	Update(ctx context.Context, id uint64, apply func(report *model.CaseReport) (*model.Outbox, error)) (*model.CaseReport, error)
	Delete(ctx context.Context, id uint64) error
}

type CaseReportInput struct {
	ReportAs            string
	TypeOfAbuse         string
	VictimName          string
	VictimAge           int
	VictimAddress       string
	GuardianName        string
	GuardianAddress     string
	SuspectName         string
	SuspectAge          int
	CaseSuspectRelation string
	SuspectAddress      string
}

// CaseReportPatch carries the fields of a PUT; nil fields are left untouched.
type CaseReportPatch struct {
	ReportAs            *string
	TypeOfAbuse         *string
	VictimName          *string
	VictimAge           *int
	VictimAddress       *string
	GuardianName        *string
	GuardianAddress     *string
	SuspectName         *string
	SuspectAge          *int
	CaseSuspectRelation *string
	SuspectAddress      *string
	Status              *string
}

const maxAge = 150

type CaseReportService struct {
	repo CaseReportRepository
	now  func() time.Time
}

func NewCaseReportService(repo CaseReportRepository) *CaseReportService {
	return &CaseReportService{repo: repo, now: time.Now}
}

// Create files a new report as pending and queues a report.created event.
func (s *CaseReportService) Create(ctx context.Context, userID uint64, in CaseReportInput) (*model.CaseReport, error) {
	const op = "service/CaseReport.Create"

	if userID == 0 {
		return nil, invalid("reporting user is required")
	}

	r := &model.CaseReport{
		UserID:              userID,
		ReportAs:            strings.TrimSpace(in.ReportAs),
		TypeOfAbuse:         strings.TrimSpace(in.TypeOfAbuse),
		VictimName:          strings.TrimSpace(in.VictimName),
		VictimAge:           in.VictimAge,
		VictimAddress:       strings.TrimSpace(in.VictimAddress),
		GuardianName:        strings.TrimSpace(in.GuardianName),
		GuardianAddress:     strings.TrimSpace(in.GuardianAddress),
		SuspectName:         strings.TrimSpace(in.SuspectName),
		SuspectAge:          in.SuspectAge,
		CaseSuspectRelation: strings.TrimSpace(in.CaseSuspectRelation),
		SuspectAddress:      strings.TrimSpace(in.SuspectAddress),
		Status:              model.ReportPending,
	}
	if err := validateReport(r); err != nil {
		return nil, err
	}

	now := s.now()
	r.CreatedAt = now
	r.UpdatedAt = now

	ob, err := newOutbox(model.EventReportCreated, map[string]any{
		"event_time":    now.UTC().Format(time.RFC3339Nano),
		"user_id":       r.UserID,
		"report_as":     r.ReportAs,
		"type_of_abuse": r.TypeOfAbuse,
		"status":        r.Status,
	})
	if err != nil {
		return nil, internal(ctx, op, err)
	}

	if err := s.repo.Create(ctx, r, ob); err != nil {
		return nil, internal(ctx, op, err)
	}
	return r, nil
}

// List returns every report to an admin. It fails with ErrNotFound when there are
// no reports at all.
func (s *CaseReportService) List(ctx context.Context, actor Actor) ([]model.CaseReport, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only an admin can list all case reports")
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(ctx, "service/CaseReport.List", err)
	}
	if len(list) == 0 {
		return nil, notFound("case reports")
	}
	return list, nil
}

// ListByUser returns the reports a user filed, to that user or an admin.
// It fails with ErrNotFound when the user filed no report.
func (s *CaseReportService) ListByUser(ctx context.Context, actor Actor, userID uint64) ([]model.CaseReport, error) {
	if actor.UserID != userID && !actor.IsAdmin() {
		return nil, forbidden("case reports of another user are not visible")
	}

	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(ctx, "service/CaseReport.ListByUser", err)
	}
	if len(list) == 0 {
		return nil, notFound("case reports for this user")
	}
	return list, nil
}

// GetByID returns a report to its reporter or an admin.
func (s *CaseReportService) GetByID(ctx context.Context, actor Actor, id uint64) (*model.CaseReport, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(ctx, "service/CaseReport.GetByID", err)
	}
	if err := canAccess(actor, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update is the single update operation for a report: it overwrites the supplied
// fields and, when a status is supplied, validates it against {pending, reported}.
// Any invalid value rejects the whole patch. A status change is recorded in the outbox.
// Transitions in both directions are allowed. Only the reporter or an admin may update.
func (s *CaseReportService) Update(ctx context.Context, actor Actor, id uint64, p CaseReportPatch) (*model.CaseReport, error) {
	const op = "service/CaseReport.Update"

	if p.Status != nil && !model.ReportStatus(strings.TrimSpace(*p.Status)).Valid() {
		return nil, invalid("status must be one of pending, reported")
	}

	now := s.now()
	var outboxErr error

	r, err := s.repo.Update(ctx, id, func(r *model.CaseReport) (*model.Outbox, error) {
		if err := canAccess(actor, r); err != nil {
			return nil, err
		}

		next := *r
		applyPatch(&next, p)
		if err := validateReport(&next); err != nil {
			return nil, err
		}

		prev := r.Status
		*r = next
		r.UpdatedAt = now

		if prev == r.Status {
			return nil, nil
		}
		ob, err := newOutbox(model.EventReportStatusChanged, map[string]any{
			"event_time": now.UTC().Format(time.RFC3339Nano),
			"report_id":  r.ID,
			"from":       prev,
			"to":         r.Status,
		})
		if err != nil {
			outboxErr = err
			return nil, err
		}
		return ob, nil
	})
	if err != nil {
		if outboxErr != nil {
			return nil, internal(ctx, op, outboxErr)
		}
		return nil, s.mapErr(ctx, op, err)
	}
	return r, nil
}

// Delete removes a report; reporter or admin.
func (s *CaseReportService) Delete(ctx context.Context, actor Actor, id uint64) error {
	const op = "service/CaseReport.Delete"

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapErr(ctx, op, err)
	}
	if err := canAccess(actor, r); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(ctx, op, err)
	}
	return nil
}

// canAccess holds for the reporter and for admins.
func canAccess(actor Actor, r *model.CaseReport) error {
	if r.UserID != actor.UserID && !actor.IsAdmin() {
		return forbidden("only the reporter or an admin can access this case report")
	}
	return nil
}

func (s *CaseReportService) mapErr(ctx context.Context, op string, err error) error {
	var de *Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, mysql.ErrNotFound):
		return notFound("case report")
	default:
		return internal(ctx, op, err)
	}
}

func applyPatch(r *model.CaseReport, p CaseReportPatch) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setStr(&r.ReportAs, p.ReportAs)
	setStr(&r.TypeOfAbuse, p.TypeOfAbuse)
	setStr(&r.VictimName, p.VictimName)
	setStr(&r.VictimAddress, p.VictimAddress)
	setStr(&r.GuardianName, p.GuardianName)
	setStr(&r.GuardianAddress, p.GuardianAddress)
	setStr(&r.SuspectName, p.SuspectName)
	setStr(&r.CaseSuspectRelation, p.CaseSuspectRelation)
	setStr(&r.SuspectAddress, p.SuspectAddress)
	if p.VictimAge != nil {
		r.VictimAge = *p.VictimAge
	}
	if p.SuspectAge != nil {
		r.SuspectAge = *p.SuspectAge
	}
	if p.Status != nil {
		r.Status = model.ReportStatus(strings.TrimSpace(*p.Status))
	}
}

func validateReport(r *model.CaseReport) error {
	if !slices.Contains(model.ReportAsValues, r.ReportAs) {
		return invalid("reportAs must be one of Adult, Child")
	}
	if !slices.Contains(model.TypeOfAbuseValues, r.TypeOfAbuse) {
		return invalid("typeOfAbuse must be one of Sexual, Physical, Emotional")
	}
	if !slices.Contains(model.CaseSuspectRelationValues, r.CaseSuspectRelation) {
		return invalid("caseSuspectRelation must be one of Yes, No")
	}
	if !r.Status.Valid() {
		return invalid("status must be one of pending, reported")
	}

	required := []struct{ name, value string }{
		{"victimName", r.VictimName},
		{"victimAddress", r.VictimAddress},
		{"guardianName", r.GuardianName},
		{"guardianAddress", r.GuardianAddress},
		{"suspectName", r.SuspectName},
		{"suspectAddress", r.SuspectAddress},
	}
	for _, f := range required {
		if f.value == "" {
			return invalid("%s is required", f.name)
		}
	}

	if r.VictimAge < 0 || r.VictimAge > maxAge {
		return invalid("victimAge must be between 0 and %d", maxAge)
	}
	if r.SuspectAge < 0 || r.SuspectAge > maxAge {
		return invalid("suspectAge must be between 0 and %d", maxAge)
	}
	return nil
}

func newOutbox(eventType string, payload map[string]any) (*model.Outbox, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &model.Outbox{
		EventType: eventType,
		Payload:   string(b),
		Status:    model.OutboxPending,
	}, nil
}
