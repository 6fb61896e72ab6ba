// Package postgres implements the PostgreSQL persistence layer of the diary
// backend.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USERS & PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users and profiles
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username VARCHAR(150) NOT NULL UNIQUE,
    email VARCHAR(254) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- One profile per user, created at registration, removed with the user.
CREATE TABLE IF NOT EXISTS profiles (
    user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    role VARCHAR(10) NOT NULL CHECK (role IN ('student', 'teacher')),
    date_of_birth DATE,
    address TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role);
`

const migration001Down = `
DROP TABLE IF EXISTS profiles;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: LESSONS & TIMETABLE
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create lessons, periods and schedules
-- Version: 002

CREATE TABLE IF NOT EXISTS lessons (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    teacher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_lessons_teacher ON lessons(teacher_id);

CREATE TABLE IF NOT EXISTS periods (
    id UUID PRIMARY KEY,
    number INTEGER NOT NULL UNIQUE CHECK (number > 0),
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    CHECK (end_time > start_time)
);

-- Only one lesson may occupy a given period on a given day; the unique
-- constraint is the final arbiter for concurrent writers.
CREATE TABLE IF NOT EXISTS schedules (
    id UUID PRIMARY KEY,
    lesson_id UUID NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
    period_id UUID NOT NULL REFERENCES periods(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_schedules_date_period UNIQUE (date, period_id)
);

CREATE INDEX IF NOT EXISTS idx_schedules_lesson ON schedules(lesson_id);
CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules(date);
`

const migration002Down = `
DROP TABLE IF EXISTS schedules;
DROP TABLE IF EXISTS periods;
DROP TABLE IF EXISTS lessons;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: GRADEBOOK
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create marks and home tasks
-- Version: 003

-- At most one mark per (schedule, student); duplicates are rejected here and
-- surfaced to callers as a conflict, never as a generic server fault.
CREATE TABLE IF NOT EXISTS marks (
    id UUID PRIMARY KEY,
    schedule_id UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    value INTEGER NOT NULL CHECK (value >= 1 AND value <= 10),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_marks_schedule_student UNIQUE (schedule_id, student_id)
);

CREATE INDEX IF NOT EXISTS idx_marks_student ON marks(student_id);

CREATE TABLE IF NOT EXISTS home_tasks (
    id UUID PRIMARY KEY,
    schedule_id UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
    description TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_home_tasks_schedule ON home_tasks(schedule_id);
`

const migration003Down = `
DROP TABLE IF EXISTS home_tasks;
DROP TABLE IF EXISTS marks;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users_profiles",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_lessons_timetable",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_gradebook",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
