package query

import (
	"context"
	"sort"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/lesson"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
	"github.com/school-diary/diary-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// Read-focused fakes seeded with pre-built entities and read models. Call
// counters let the cache tests assert which reads actually reached the store.
// ══════════════════════════════════════════════════════════════════════════════

var testInstant = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

type fakeUserRepo struct {
	users    map[string]*user.User
	profiles map[string]*user.Profile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*user.User),
		profiles: make(map[string]*user.Profile),
	}
}

func (r *fakeUserRepo) add(id, username string, role shared.Role) shared.Identity {
	u, _ := user.NewUser(id, user.Username(username), user.Email(username+"@school.ua"), "hash", testInstant)
	p, _ := user.NewProfile(id, role, nil, "", testInstant)
	r.users[id] = u
	r.profiles[id] = p
	return shared.Identity{UserID: id, Role: role}
}

func (r *fakeUserRepo) CreateWithProfile(ctx context.Context, u *user.User, p *user.Profile) error {
	r.users[u.ID] = u
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, p *user.Profile) error {
	if _, ok := r.profiles[p.UserID]; !ok {
		return shared.ErrProfileNotFound
	}
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role shared.Role) ([]*user.User, error) {
	var out []*user.User
	for id, p := range r.profiles {
		if p.Role == role {
			out = append(out, r.users[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	delete(r.profiles, id)
	return nil
}

type fakeLessonRepo struct {
	lessons map[string]*lesson.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[string]*lesson.Lesson)}
}

func (r *fakeLessonRepo) add(id, name, teacherID string) *lesson.Lesson {
	l, _ := lesson.New(id, lesson.Name(name), teacherID, testInstant)
	r.lessons[id] = l
	return l
}

func (r *fakeLessonRepo) Create(ctx context.Context, l *lesson.Lesson) error {
	r.lessons[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) GetByID(ctx context.Context, id string) (*lesson.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, shared.ErrLessonNotFound
	}
	return l, nil
}

func (r *fakeLessonRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*lesson.Lesson, error) {
	var out []*lesson.Lesson
	for _, l := range r.lessons {
		if l.TeacherID == teacherID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeLessonRepo) ListAll(ctx context.Context) ([]*lesson.Lesson, error) {
	var out []*lesson.Lesson
	for _, l := range r.lessons {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeLessonRepo) Update(ctx context.Context, l *lesson.Lesson) error {
	r.lessons[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) Delete(ctx context.Context, id string) error {
	delete(r.lessons, id)
	return nil
}

type fakePeriodRepo struct {
	periods   map[string]*timetable.Period
	listCalls int
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[string]*timetable.Period)}
}

func (r *fakePeriodRepo) add(id string, number int, start, end string) *timetable.Period {
	p, _ := timetable.NewPeriod(id, timetable.PeriodNumber(number), start, end)
	r.periods[id] = p
	return p
}

func (r *fakePeriodRepo) Create(ctx context.Context, p *timetable.Period) error {
	r.periods[p.ID] = p
	return nil
}

func (r *fakePeriodRepo) GetByID(ctx context.Context, id string) (*timetable.Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return nil, shared.ErrPeriodNotFound
	}
	return p, nil
}

func (r *fakePeriodRepo) ListAll(ctx context.Context) ([]*timetable.Period, error) {
	r.listCalls++
	var out []*timetable.Period
	for _, p := range r.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type fakeScheduleRepo struct {
	details  map[string]*timetable.ScheduleDetail
	marks    *fakeMarkRepo
	dayCalls int
}

func newFakeScheduleRepo(marks *fakeMarkRepo) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		details: make(map[string]*timetable.ScheduleDetail),
		marks:   marks,
	}
}

func (r *fakeScheduleRepo) add(id string, l *lesson.Lesson, p *timetable.Period, date timetable.Date) *timetable.ScheduleDetail {
	s, _ := timetable.NewSchedule(id, l.ID, p.ID, date, testInstant)
	d := &timetable.ScheduleDetail{
		Schedule:   *s,
		LessonName: l.Name.String(),
		TeacherID:  l.TeacherID,
		Period:     *p,
	}
	r.details[id] = d
	return d
}

func (r *fakeScheduleRepo) Create(ctx context.Context, s *timetable.Schedule) error { return nil }

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id string) (*timetable.Schedule, error) {
	d, ok := r.details[id]
	if !ok {
		return nil, shared.ErrScheduleNotFound
	}
	s := d.Schedule
	return &s, nil
}

func (r *fakeScheduleRepo) GetDetail(ctx context.Context, id string) (*timetable.ScheduleDetail, error) {
	d, ok := r.details[id]
	if !ok {
		return nil, shared.ErrScheduleNotFound
	}
	return d, nil
}

func (r *fakeScheduleRepo) ExistsAt(ctx context.Context, date timetable.Date, periodID string, excludeID string) (bool, error) {
	for _, d := range r.details {
		if d.Schedule.Date == date && d.Schedule.PeriodID == periodID && d.Schedule.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeScheduleRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*timetable.ScheduleDetail, error) {
	var out []*timetable.ScheduleDetail
	for _, d := range r.details {
		if d.TeacherID == teacherID {
			out = append(out, d)
		}
	}
	sortDetails(out)
	return out, nil
}

func (r *fakeScheduleRepo) ListByDateForStudent(ctx context.Context, studentID string, date timetable.Date) ([]*timetable.ScheduleDetail, error) {
	r.dayCalls++

	graded := make(map[string]bool)
	for _, m := range r.marks.marks {
		if m.StudentID != studentID {
			continue
		}
		if d, ok := r.details[m.ScheduleID]; ok {
			graded[d.Schedule.LessonID] = true
		}
	}

	var out []*timetable.ScheduleDetail
	for _, d := range r.details {
		if d.Schedule.Date == date && graded[d.Schedule.LessonID] {
			out = append(out, d)
		}
	}
	sortDetails(out)
	return out, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, s *timetable.Schedule) error { return nil }

func (r *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	delete(r.details, id)
	return nil
}

func sortDetails(out []*timetable.ScheduleDetail) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Schedule.Date != out[j].Schedule.Date {
			return out[i].Schedule.Date.Before(out[j].Schedule.Date)
		}
		return out[i].Period.Number < out[j].Period.Number
	})
}

type fakeMarkRepo struct {
	marks   map[string]*gradebook.Mark
	details []*gradebook.MarkDetail
}

func newFakeMarkRepo() *fakeMarkRepo {
	return &fakeMarkRepo{marks: make(map[string]*gradebook.Mark)}
}

func (r *fakeMarkRepo) add(id, scheduleID, studentID string, value int, date, lessonName string) *gradebook.Mark {
	m, _ := gradebook.NewMark(id, scheduleID, studentID, gradebook.Value(value), testInstant)
	r.marks[id] = m
	r.details = append(r.details, &gradebook.MarkDetail{Mark: *m, Date: date, LessonName: lessonName})
	return m
}

func (r *fakeMarkRepo) Create(ctx context.Context, m *gradebook.Mark) error {
	r.marks[m.ID] = m
	return nil
}

func (r *fakeMarkRepo) GetByID(ctx context.Context, id string) (*gradebook.Mark, error) {
	m, ok := r.marks[id]
	if !ok {
		return nil, shared.ErrMarkNotFound
	}
	return m, nil
}

func (r *fakeMarkRepo) FindForSchedule(ctx context.Context, scheduleID, studentID string) (*gradebook.Mark, error) {
	for _, m := range r.marks {
		if m.ScheduleID == scheduleID && m.StudentID == studentID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMarkRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*gradebook.MarkDetail, error) {
	return r.details, nil
}

func (r *fakeMarkRepo) ListByStudent(ctx context.Context, studentID string) ([]*gradebook.MarkDetail, error) {
	var out []*gradebook.MarkDetail
	for _, d := range r.details {
		if d.Mark.StudentID == studentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeMarkRepo) Update(ctx context.Context, m *gradebook.Mark) error {
	r.marks[m.ID] = m
	return nil
}

func (r *fakeMarkRepo) Delete(ctx context.Context, id string) error {
	delete(r.marks, id)
	return nil
}

type fakeHomeTaskRepo struct {
	tasks   map[string]*gradebook.HomeTask
	details []*gradebook.HomeTaskDetail
}

func (r *fakeHomeTaskRepo) add(id, scheduleID, description, date, lessonName string) {
	h, _ := gradebook.NewHomeTask(id, scheduleID, description, testInstant)
	if r.tasks == nil {
		r.tasks = make(map[string]*gradebook.HomeTask)
	}
	r.tasks[id] = h
	r.details = append(r.details, &gradebook.HomeTaskDetail{HomeTask: *h, Date: date, LessonName: lessonName})
}

func (r *fakeHomeTaskRepo) Create(ctx context.Context, h *gradebook.HomeTask) error { return nil }

func (r *fakeHomeTaskRepo) GetByID(ctx context.Context, id string) (*gradebook.HomeTask, error) {
	h, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrHomeTaskNotFound
	}
	return h, nil
}

func (r *fakeHomeTaskRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*gradebook.HomeTaskDetail, error) {
	return r.details, nil
}

func (r *fakeHomeTaskRepo) ListFromDate(ctx context.Context, from timetable.Date) ([]*gradebook.HomeTaskDetail, error) {
	var out []*gradebook.HomeTaskDetail
	for _, d := range r.details {
		if !timetable.Date(d.Date).Before(from) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *fakeHomeTaskRepo) Update(ctx context.Context, h *gradebook.HomeTask) error { return nil }

func (r *fakeHomeTaskRepo) Delete(ctx context.Context, id string) error { return nil }

// recordingCache is a TimetableCache over plain maps, counting writes so the
// read-through tests can tell hits from misses.
type recordingCache struct {
	periods    []*timetable.Period
	periodSets int
	dayViews   map[string][]*timetable.ScheduleDetail
	daySets    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{dayViews: make(map[string][]*timetable.ScheduleDetail)}
}

func (c *recordingCache) GetPeriods(ctx context.Context) ([]*timetable.Period, bool) {
	if c.periods == nil {
		return nil, false
	}
	return c.periods, true
}

func (c *recordingCache) SetPeriods(ctx context.Context, periods []*timetable.Period) error {
	c.periods = periods
	c.periodSets++
	return nil
}

func (c *recordingCache) GetDayView(ctx context.Context, studentID string, date timetable.Date) ([]*timetable.ScheduleDetail, bool) {
	view, ok := c.dayViews[studentID+"|"+date.String()]
	return view, ok
}

func (c *recordingCache) SetDayView(ctx context.Context, studentID string, date timetable.Date, view []*timetable.ScheduleDetail) error {
	c.dayViews[studentID+"|"+date.String()] = view
	c.daySets++
	return nil
}
