package analytics

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/application/analytics/dto"
	observationapp "github.com/rahul-raghavan/pep-ops-log/internal/application/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/export"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

const (
	// AttentionWindowDays is the rolling window for the attention widget.
	AttentionWindowDays = 30
	// AttentionTopN caps the most-observed list.
	AttentionTopN = 3
	// InactivityReminderDays is how long before a manager sees the
	// "you haven't logged anything" banner.
	InactivityReminderDays = 3
	// TrendWeeks is how many weekly buckets the subject trend covers.
	TrendWeeks = 8
	// RecentLimit caps the dashboard recent-observations list.
	RecentLimit = 5
)

// Service computes dashboard and analytics figures. Everything here is
// read-only and scope-filtered.
type Service struct {
	observationRepo observation.Repository
	subjectRepo     subject.Repository
	centerRepo      center.Repository
	userRepo        user.Repository
	observationSvc  *observationapp.Service
	logger          logger.Interface
}

// NewService creates a new analytics service
func NewService(
	observationRepo observation.Repository,
	subjectRepo subject.Repository,
	centerRepo center.Repository,
	userRepo user.Repository,
	observationSvc *observationapp.Service,
	logger logger.Interface,
) *Service {
	return &Service{
		observationRepo: observationRepo,
		subjectRepo:     subjectRepo,
		centerRepo:      centerRepo,
		userRepo:        userRepo,
		observationSvc:  observationSvc,
		logger:          logger,
	}
}

// DashboardStats returns the landing-page counters and the latest
// observations within the actor's scope.
func (s *Service) DashboardStats(ctx context.Context, actor access.Actor) (*dto.DashboardStats, error) {
	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("access denied")
	}

	activeSubjects, err := s.subjectRepo.CountActive(ctx, scope)
	if err != nil {
		return nil, errors.NewInternalError("failed to count subjects", err.Error())
	}

	weekAgo := biztime.DaysAgoUTC(7)
	weekCount, err := s.observationRepo.Count(ctx, scope, &weekAgo)
	if err != nil {
		return nil, errors.NewInternalError("failed to count observations", err.Error())
	}

	total, err := s.observationRepo.Count(ctx, scope, nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to count observations", err.Error())
	}

	recent, err := s.observationSvc.Recent(ctx, actor, RecentLimit)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		ActiveSubjects:    activeSubjects,
		ObservationsWeek:  weekCount,
		ObservationsTotal: total,
		Recent:            recent,
	}, nil
}

// SubjectAttention returns the most-observed subjects over the window
// and the active subjects with no observations at all.
func (s *Service) SubjectAttention(ctx context.Context, actor access.Actor) (*dto.SubjectAttention, error) {
	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("access denied")
	}

	since := biztime.DaysAgoUTC(AttentionWindowDays)
	counts, err := s.observationRepo.CountBySubject(ctx, scope, since)
	if err != nil {
		return nil, errors.NewInternalError("failed to count observations", err.Error())
	}

	subjects, err := s.subjectRepo.List(ctx, subject.ListFilter{Scope: scope, ActiveOnly: true})
	if err != nil {
		return nil, errors.NewInternalError("failed to list subjects", err.Error())
	}

	bySubject := make(map[uint]int64, len(counts))
	for _, c := range counts {
		bySubject[c.SubjectID] = c.Count
	}

	visible := make(map[uint]*subject.Subject, len(subjects))
	for _, sub := range subjects {
		if access.CanViewSubject(actor, sub.ID()) {
			visible[sub.ID()] = sub
		}
	}

	mostObserved := make([]dto.SubjectCount, 0, AttentionTopN)
	for _, c := range counts {
		sub, ok := visible[c.SubjectID]
		if !ok {
			continue
		}
		mostObserved = append(mostObserved, dto.SubjectCount{
			Subject: dto.SubjectRef{ID: sub.SID(), Name: sub.Name()},
			Count:   c.Count,
		})
		if len(mostObserved) == AttentionTopN {
			break
		}
	}

	notObserved := make([]dto.SubjectRef, 0)
	for _, sub := range subjects {
		if _, hasAny := bySubject[sub.ID()]; hasAny {
			continue
		}
		if !access.CanViewSubject(actor, sub.ID()) {
			continue
		}
		notObserved = append(notObserved, dto.SubjectRef{ID: sub.SID(), Name: sub.Name()})
	}
	sort.Slice(notObserved, func(i, j int) bool { return notObserved[i].Name < notObserved[j].Name })

	return &dto.SubjectAttention{
		MostObserved: mostObserved,
		NotObserved:  notObserved,
		WindowDays:   AttentionWindowDays,
	}, nil
}

// InactivityStatus reports how long since the actor last logged an
// observation. The reminder shows after the threshold, and also for
// users who never logged anything.
func (s *Service) InactivityStatus(ctx context.Context, actor access.Actor) (*dto.InactivityStatus, error) {
	lastLoggedAt, err := s.observationRepo.LastLoggedAtByUser(ctx, actor.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load activity", err.Error())
	}

	if lastLoggedAt == nil {
		return &dto.InactivityStatus{ShowReminder: true}, nil
	}

	days := int(biztime.NowUTC().Sub(*lastLoggedAt).Hours() / 24)
	return &dto.InactivityStatus{
		LastLoggedAt: lastLoggedAt,
		DaysSince:    &days,
		ShowReminder: days >= InactivityReminderDays,
	}, nil
}

// CenterAnalytics breaks observation volume down by center and by type
// over the window. Admin-only at the route layer.
func (s *Service) CenterAnalytics(ctx context.Context, actor access.Actor, windowDays int) (*dto.CenterAnalytics, error) {
	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("access denied")
	}
	if windowDays <= 0 {
		windowDays = AttentionWindowDays
	}
	since := biztime.DaysAgoUTC(windowDays)

	var centers []*center.Center
	if scope.All {
		centers, err = s.centerRepo.List(ctx)
	} else {
		centers, err = s.centerRepo.GetByIDs(ctx, scope.CenterIDs)
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to list centers", err.Error())
	}

	byCenter := make([]dto.CenterCount, 0, len(centers))
	for _, c := range centers {
		count, err := s.observationRepo.Count(ctx, access.Scope{CenterIDs: []uint{c.ID()}}, &since)
		if err != nil {
			return nil, errors.NewInternalError("failed to count observations", err.Error())
		}
		byCenter = append(byCenter, dto.CenterCount{
			CenterID:   c.SID(),
			CenterName: c.Name(),
			Count:      count,
		})
	}
	sort.Slice(byCenter, func(i, j int) bool { return byCenter[i].Count > byCenter[j].Count })

	observations, err := s.observationRepo.List(ctx, observation.ListFilter{Scope: scope, From: &since})
	if err != nil {
		return nil, errors.NewInternalError("failed to list observations", err.Error())
	}

	typeCounts := map[string]int64{}
	for _, obs := range observations {
		key := "untagged"
		if t := obs.ObservationType(); t != nil {
			key = *t
		}
		typeCounts[key]++
	}

	byType := make([]dto.TypeCount, 0, len(typeCounts))
	for t, n := range typeCounts {
		byType = append(byType, dto.TypeCount{Type: t, Count: n})
	}
	sort.Slice(byType, func(i, j int) bool { return byType[i].Count > byType[j].Count })

	return &dto.CenterAnalytics{
		ByCenter:   byCenter,
		ByType:     byType,
		WindowDays: windowDays,
	}, nil
}

// SubjectTrends buckets a subject's observations into the last eight
// calendar weeks by observed_at, with per-type counts.
func (s *Service) SubjectTrends(ctx context.Context, actor access.Actor, subjectSID string) (*dto.SubjectTrends, error) {
	sub, err := s.subjectRepo.GetBySID(ctx, subjectSID)
	if err != nil {
		if err == subject.ErrSubjectNotFound {
			return nil, errors.NewNotFoundError("subject not found")
		}
		return nil, errors.NewInternalError("failed to get subject", err.Error())
	}

	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("access denied")
	}
	if !scope.Contains(sub.CurrentCenterID()) || !access.CanViewSubject(actor, sub.ID()) {
		return nil, errors.NewNotFoundError("subject not found")
	}

	from := weekStart(biztime.NowUTC()).AddDate(0, 0, -7*(TrendWeeks-1))
	observations, err := s.observationRepo.ListForSubject(ctx, sub.ID(), &from)
	if err != nil {
		return nil, errors.NewInternalError("failed to load observations", err.Error())
	}

	buckets := make([]dto.TrendBucket, TrendWeeks)
	for i := range buckets {
		buckets[i] = dto.TrendBucket{
			WeekStart: from.AddDate(0, 0, 7*i),
			ByType:    map[string]int{},
		}
	}

	for _, obs := range observations {
		idx := int(obs.ObservedAt().Sub(from).Hours() / (24 * 7))
		if idx < 0 || idx >= TrendWeeks {
			continue
		}
		key := "untagged"
		if t := obs.ObservationType(); t != nil {
			key = *t
		}
		buckets[idx].Total++
		buckets[idx].ByType[key]++
	}

	return &dto.SubjectTrends{
		SubjectID: sub.SID(),
		Buckets:   buckets,
	}, nil
}

// ExportObservations renders all observations in scope, optionally
// restricted to one center and a date window, as an XLSX workbook.
// Admin-only at the route layer.
func (s *Service) ExportObservations(ctx context.Context, actor access.Actor, centerSID, fromDate, toDate string) (*bytes.Buffer, error) {
	scope, err := access.ResolveCenterScope(actor, nil)
	if err != nil {
		return nil, errors.NewForbiddenError("access denied")
	}

	if centerSID != "" {
		c, err := s.centerRepo.GetBySID(ctx, centerSID)
		if err != nil {
			if err == center.ErrCenterNotFound {
				return nil, errors.NewNotFoundError("center not found")
			}
			return nil, errors.NewInternalError("failed to get center", err.Error())
		}
		if !scope.Contains(c.ID()) {
			return nil, errors.NewForbiddenError("center access denied")
		}
		scope = access.Scope{CenterIDs: []uint{c.ID()}}
	}

	filter := observation.ListFilter{Scope: scope}
	if fromDate != "" {
		from, err := biztime.ParseDateInBizTimezone(fromDate)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.From = &from
	}
	if toDate != "" {
		to, err := biztime.ParseDateInBizTimezone(toDate)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		end := biztime.EndOfDayUTC(to)
		filter.To = &end
	}

	observations, err := s.observationRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list observations", err.Error())
	}

	subjects := map[uint]*subject.Subject{}
	centers := map[uint]*center.Center{}
	users := map[uint]*user.User{}

	rows := make([]export.ObservationRow, 0, len(observations))
	for _, obs := range observations {
		if !access.CanViewSubject(actor, obs.SubjectID()) {
			continue
		}

		sub, ok := subjects[obs.SubjectID()]
		if !ok {
			sub, err = s.subjectRepo.GetByID(ctx, obs.SubjectID())
			if err != nil {
				return nil, errors.NewInternalError("failed to load subject", err.Error())
			}
			subjects[obs.SubjectID()] = sub
		}

		c, ok := centers[obs.CenterID()]
		if !ok {
			c, err = s.centerRepo.GetByID(ctx, obs.CenterID())
			if err != nil {
				return nil, errors.NewInternalError("failed to load center", err.Error())
			}
			centers[obs.CenterID()] = c
		}

		u, ok := users[obs.LoggedByUserID()]
		if !ok {
			u, err = s.userRepo.GetByID(ctx, obs.LoggedByUserID())
			if err != nil {
				return nil, errors.NewInternalError("failed to load user", err.Error())
			}
			users[obs.LoggedByUserID()] = u
		}

		obsType := ""
		if t := obs.ObservationType(); t != nil {
			obsType = *t
		}

		rows = append(rows, export.ObservationRow{
			ObservationSID: obs.SID(),
			SubjectName:    sub.Name(),
			SubjectRole:    sub.Role().Label(),
			CenterName:     c.Name(),
			LoggedBy:       u.DisplayName(),
			Type:           obsType,
			Transcript:     obs.Transcript(),
			ObservedAt:     obs.ObservedAt(),
			LoggedAt:       obs.LoggedAt(),
		})
	}

	buf, err := export.BuildObservationsWorkbook(rows)
	if err != nil {
		return nil, errors.NewInternalError("failed to build export", err.Error())
	}

	s.logger.Info("observations exported", "rows", len(rows))
	return buf, nil
}

// weekStart truncates to the Monday 00:00 of t's week in the business
// timezone, returned as UTC.
func weekStart(t time.Time) time.Time {
	biz := biztime.ToBizTimezone(t)
	offset := (int(biz.Weekday()) + 6) % 7
	return biztime.StartOfDayUTC(biz.AddDate(0, 0, -offset))
}
