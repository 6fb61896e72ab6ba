package command

import (
	"context"
	"sort"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/lesson"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
	"github.com/school-diary/diary-backend/internal/domain/user"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// The fakes honor the documented repository error contracts, including the
// uniqueness constraints the real store enforces, so the handlers see the same
// error surface as against PostgreSQL.
// ══════════════════════════════════════════════════════════════════════════════

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

func (r *fakeUserRepo) CreateWithProfile(ctx context.Context, u *user.User, p *user.Profile) error {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return shared.ErrUserAlreadyExists
		}
	}
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
	if _, ok := r.users[id]; !ok {
		return shared.ErrUserNotFound
	}
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

func (r *fakeLessonRepo) Create(ctx context.Context, l *lesson.Lesson) error {
	for _, existing := range r.lessons {
		if existing.Name == l.Name {
			return shared.ErrLessonExists
		}
	}
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
	if _, ok := r.lessons[l.ID]; !ok {
		return shared.ErrLessonNotFound
	}
	for _, existing := range r.lessons {
		if existing.ID != l.ID && existing.Name == l.Name {
			return shared.ErrLessonExists
		}
	}
	r.lessons[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.lessons[id]; !ok {
		return shared.ErrLessonNotFound
	}
	delete(r.lessons, id)
	return nil
}

type fakePeriodRepo struct {
	periods map[string]*timetable.Period
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[string]*timetable.Period)}
}

func (r *fakePeriodRepo) Create(ctx context.Context, p *timetable.Period) error {
	for _, existing := range r.periods {
		if existing.Number == p.Number {
			return shared.ErrPeriodExists
		}
	}
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
	var out []*timetable.Period
	for _, p := range r.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type fakeScheduleRepo struct {
	schedules map[string]*timetable.Schedule
	lessons   *fakeLessonRepo
	periods   *fakePeriodRepo
}

func newFakeScheduleRepo(lessons *fakeLessonRepo, periods *fakePeriodRepo) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedules: make(map[string]*timetable.Schedule),
		lessons:   lessons,
		periods:   periods,
	}
}

func (r *fakeScheduleRepo) Create(ctx context.Context, s *timetable.Schedule) error {
	taken, _ := r.ExistsAt(ctx, s.Date, s.PeriodID, "")
	if taken {
		return shared.ErrSlotTaken
	}
	r.schedules[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id string) (*timetable.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, shared.ErrScheduleNotFound
	}
	return s, nil
}

func (r *fakeScheduleRepo) GetDetail(ctx context.Context, id string) (*timetable.ScheduleDetail, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, shared.ErrScheduleNotFound
	}
	return r.detail(s), nil
}

func (r *fakeScheduleRepo) detail(s *timetable.Schedule) *timetable.ScheduleDetail {
	d := &timetable.ScheduleDetail{Schedule: *s}
	if l, ok := r.lessons.lessons[s.LessonID]; ok {
		d.LessonName = l.Name.String()
		d.TeacherID = l.TeacherID
	}
	if p, ok := r.periods.periods[s.PeriodID]; ok {
		d.Period = *p
	}
	return d
}

func (r *fakeScheduleRepo) ExistsAt(ctx context.Context, date timetable.Date, periodID string, excludeID string) (bool, error) {
	for _, s := range r.schedules {
		if s.Date == date && s.PeriodID == periodID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeScheduleRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*timetable.ScheduleDetail, error) {
	var out []*timetable.ScheduleDetail
	for _, s := range r.schedules {
		d := r.detail(s)
		if d.TeacherID == teacherID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Schedule.Date != out[j].Schedule.Date {
			return out[i].Schedule.Date.Before(out[j].Schedule.Date)
		}
		return out[i].Period.Number < out[j].Period.Number
	})
	return out, nil
}

func (r *fakeScheduleRepo) ListByDateForStudent(ctx context.Context, studentID string, date timetable.Date) ([]*timetable.ScheduleDetail, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, s *timetable.Schedule) error {
	if _, ok := r.schedules[s.ID]; !ok {
		return shared.ErrScheduleNotFound
	}
	taken, _ := r.ExistsAt(ctx, s.Date, s.PeriodID, s.ID)
	if taken {
		return shared.ErrSlotTaken
	}
	r.schedules[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.schedules[id]; !ok {
		return shared.ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

type fakeMarkRepo struct {
	marks map[string]*gradebook.Mark
}

func newFakeMarkRepo() *fakeMarkRepo {
	return &fakeMarkRepo{marks: make(map[string]*gradebook.Mark)}
}

func (r *fakeMarkRepo) Create(ctx context.Context, m *gradebook.Mark) error {
	for _, existing := range r.marks {
		if existing.ScheduleID == m.ScheduleID && existing.StudentID == m.StudentID {
			return shared.ErrDuplicateMark
		}
	}
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
	return nil, nil
}

func (r *fakeMarkRepo) ListByStudent(ctx context.Context, studentID string) ([]*gradebook.MarkDetail, error) {
	return nil, nil
}

func (r *fakeMarkRepo) Update(ctx context.Context, m *gradebook.Mark) error {
	if _, ok := r.marks[m.ID]; !ok {
		return shared.ErrMarkNotFound
	}
	r.marks[m.ID] = m
	return nil
}

func (r *fakeMarkRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.marks[id]; !ok {
		return shared.ErrMarkNotFound
	}
	delete(r.marks, id)
	return nil
}

type fakeHomeTaskRepo struct {
	tasks map[string]*gradebook.HomeTask
}

func newFakeHomeTaskRepo() *fakeHomeTaskRepo {
	return &fakeHomeTaskRepo{tasks: make(map[string]*gradebook.HomeTask)}
}

func (r *fakeHomeTaskRepo) Create(ctx context.Context, h *gradebook.HomeTask) error {
	r.tasks[h.ID] = h
	return nil
}

func (r *fakeHomeTaskRepo) GetByID(ctx context.Context, id string) (*gradebook.HomeTask, error) {
	h, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrHomeTaskNotFound
	}
	return h, nil
}

func (r *fakeHomeTaskRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*gradebook.HomeTaskDetail, error) {
	return nil, nil
}

func (r *fakeHomeTaskRepo) ListFromDate(ctx context.Context, from timetable.Date) ([]*gradebook.HomeTaskDetail, error) {
	return nil, nil
}

func (r *fakeHomeTaskRepo) Update(ctx context.Context, h *gradebook.HomeTask) error {
	if _, ok := r.tasks[h.ID]; !ok {
		return shared.ErrHomeTaskNotFound
	}
	r.tasks[h.ID] = h
	return nil
}

func (r *fakeHomeTaskRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return shared.ErrHomeTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH & CACHE STUBS
// ══════════════════════════════════════════════════════════════════════════════

// recordingInvalidator counts cache invalidations so tests can assert that
// every successful write drops the cached views.
type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) Invalidate(ctx context.Context) error {
	r.calls++
	return nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }

type stubTokenIssuer struct{}

func (stubTokenIssuer) Issue(userID string, role shared.Role, now time.Time) (string, error) {
	return "token:" + userID + ":" + string(role), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TEST FIXTURE
// ══════════════════════════════════════════════════════════════════════════════

var testInstant = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

// fixture wires every fake into a WriteValidator the way main wires the real
// repositories.
type fixture struct {
	users     *fakeUserRepo
	lessons   *fakeLessonRepo
	periods   *fakePeriodRepo
	schedules *fakeScheduleRepo
	marks     *fakeMarkRepo
	tasks     *fakeHomeTaskRepo
	views     *recordingInvalidator
	validator *WriteValidator
	clock     timeutil.FixedClock
}

func newFixture(enforceOwnership bool) *fixture {
	users := newFakeUserRepo()
	lessons := newFakeLessonRepo()
	periods := newFakePeriodRepo()
	schedules := newFakeScheduleRepo(lessons, periods)

	return &fixture{
		users:     users,
		lessons:   lessons,
		periods:   periods,
		schedules: schedules,
		marks:     newFakeMarkRepo(),
		tasks:     newFakeHomeTaskRepo(),
		views:     &recordingInvalidator{},
		validator: NewWriteValidator(lessons, schedules, users, enforceOwnership),
		clock:     timeutil.FixedClock{Instant: testInstant},
	}
}

func (f *fixture) addUser(id, username string, role shared.Role) shared.Identity {
	u, _ := user.NewUser(id, user.Username(username), user.Email(username+"@school.ua"), "hashed:secret123", testInstant)
	p, _ := user.NewProfile(id, role, nil, "", testInstant)
	f.users.users[id] = u
	f.users.profiles[id] = p
	return shared.Identity{UserID: id, Role: role}
}

func (f *fixture) addLesson(id, name, teacherID string) *lesson.Lesson {
	l, _ := lesson.New(id, lesson.Name(name), teacherID, testInstant)
	f.lessons.lessons[id] = l
	return l
}

func (f *fixture) addPeriod(id string, number int) *timetable.Period {
	p, _ := timetable.NewPeriod(id, timetable.PeriodNumber(number), "08:00:00", "08:45:00")
	f.periods.periods[id] = p
	return p
}

func (f *fixture) addSchedule(id, lessonID, periodID string, date timetable.Date) *timetable.Schedule {
	s, _ := timetable.NewSchedule(id, lessonID, periodID, date, testInstant)
	f.schedules.schedules[id] = s
	return s
}
